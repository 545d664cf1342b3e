package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-mdfusion"
)

// fixedNow is the clock used by CLI tests.
var fixedNow = time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC)

// fakeFuser records the params and options it receives.
type fakeFuser struct {
	mu     sync.Mutex
	params []mdfusion.Params
	result *mdfusion.Result
	err    error
	closed bool
}

func (f *fakeFuser) Run(_ context.Context, p mdfusion.Params) (*mdfusion.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.params = append(f.params, p)
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &mdfusion.Result{Output: "out.pdf", Documents: 2, MergedBytes: 42, Duration: time.Second}, nil
}

func (f *fakeFuser) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// lastParams returns the params of the most recent run.
func (f *fakeFuser) lastParams(t *testing.T) mdfusion.Params {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.params) == 0 {
		t.Fatal("fuser was not run")
	}
	return f.params[len(f.params)-1]
}

// testEnv holds a test Environment and its captured output.
type testEnv struct {
	env    *Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	fuser  *fakeFuser
	opts   int
}

// newTestEnv returns an Environment with captured output, the given
// variables and a fake fuser. No .env file is read unless one is written
// to dotEnvPath.
func newTestEnv(t *testing.T, vars map[string]string) *testEnv {
	t.Helper()
	te := &testEnv{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		fuser:  &fakeFuser{},
	}
	te.env = &Environment{
		Now:    func() time.Time { return fixedNow },
		Stdout: te.stdout,
		Stderr: te.stderr,
		Getenv: func(k string) string { return vars[k] },
		Environ: func() []string {
			out := make([]string, 0, len(vars))
			for k, v := range vars {
				out = append(out, k+"="+v)
			}
			return out
		},
		DotEnvPath: filepath.Join(t.TempDir(), ".env"),
		NewFuser: func(opts ...mdfusion.Option) (Fuser, error) {
			te.opts = len(opts)
			return te.fuser, nil
		},
	}
	return te
}

// writeFile writes content under dir and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

// fakeRunner answers "--version" probes from a table.
type fakeRunner struct {
	versions map[string]string
	errs     map[string]error
}

var _ mdfusion.CommandRunner = (*fakeRunner)(nil)

func (r *fakeRunner) Run(_ context.Context, name string, _ ...string) (string, string, error) {
	if err, ok := r.errs[name]; ok {
		return "", "", err
	}
	if v, ok := r.versions[name]; ok {
		return v, "", nil
	}
	return "", "", &mdfusion.MissingDependencyError{Tools: []string{name}}
}
