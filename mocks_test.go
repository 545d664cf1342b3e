package mdfusion

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// ---------------------------------------------------------------------------
// Mock Implementations
// ---------------------------------------------------------------------------

// mockRunner stands in for pandoc. When output is set, it is written to the
// path following "-o", as pandoc would.
type mockRunner struct {
	mu     sync.Mutex
	stdout string
	stderr string
	err    error
	output string
	onRun  func(args []string)
	calls  [][]string
}

func (m *mockRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, append([]string{name}, args...))
	if m.onRun != nil {
		m.onRun(args)
	}
	if m.err == nil && m.output != "" {
		if out := argAfter(args, "-o"); out != "" {
			if err := os.WriteFile(out, []byte(m.output), 0o644); err != nil {
				return "", "", err
			}
		}
	}
	return m.stdout, m.stderr, m.err
}

func (m *mockRunner) lastCall() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return nil
	}
	return m.calls[len(m.calls)-1]
}

// mockPDFRenderer records the page it was asked to print.
type mockPDFRenderer struct {
	result []byte
	err    error
	path   string
	page   string
	opts   *printOptions
	closed bool
}

func (m *mockPDFRenderer) RenderFile(ctx context.Context, path string, opts *printOptions) ([]byte, error) {
	m.path = path
	m.opts = opts
	if b, err := os.ReadFile(path); err == nil {
		m.page = string(b)
	}
	if m.err != nil {
		return nil, m.err
	}
	if m.result == nil {
		return []byte("%PDF-1.4 mock"), nil
	}
	return m.result, nil
}

func (m *mockPDFRenderer) Close() error {
	m.closed = true
	return nil
}

// argAfter returns the argument following flag, or "".
func argAfter(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// argWithPrefix returns the first argument starting with prefix, minus the prefix.
func argWithPrefix(args []string, prefix string) (string, bool) {
	for _, a := range args {
		if strings.HasPrefix(a, prefix) {
			return strings.TrimPrefix(a, prefix), true
		}
	}
	return "", false
}

// writeTree creates files under dir from a slash path -> content map.
func writeTree(t testing.TB, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}
