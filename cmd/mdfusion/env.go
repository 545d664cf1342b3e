package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/alnah/go-mdfusion"
)

// Fuser is the part of *mdfusion.Fuser the CLI uses.
type Fuser interface {
	Run(ctx context.Context, p mdfusion.Params) (*mdfusion.Result, error)
	Close() error
}

var _ Fuser = (*mdfusion.Fuser)(nil)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now        func() time.Time
	Stdout     io.Writer
	Stderr     io.Writer
	Getenv     func(string) string
	Environ    func() []string
	DotEnvPath string // optional .env file; process variables win over it
	NewFuser   func(opts ...mdfusion.Option) (Fuser, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:        time.Now,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Getenv:     os.Getenv,
		Environ:    os.Environ,
		DotEnvPath: ".env",
		NewFuser: func(opts ...mdfusion.Option) (Fuser, error) {
			f, err := mdfusion.NewFuser(opts...)
			if err != nil {
				return nil, err
			}
			return f, nil
		},
	}
}
