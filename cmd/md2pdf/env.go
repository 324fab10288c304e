package main

import (
	"context"
	"io"
	"os"

	md2pdf "github.com/inkpress/md2pdf"
)

// Converter is the subset of *md2pdf.Converter the CLI drives.
type Converter interface {
	Convert(ctx context.Context, input md2pdf.Input) (*md2pdf.ConvertResult, error)
	Close() error
}

// Compile-time interface implementation check.
var _ Converter = (*md2pdf.Converter)(nil)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Stdout io.Writer
	Stderr io.Writer

	// LookupBrowser locates a Chrome binary for the startup check.
	LookupBrowser func(bin string) (string, error)

	// NewConverter builds the conversion pipeline.
	NewConverter func(opts ...md2pdf.Option) (Converter, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Stdout:        os.Stdout,
		Stderr:        os.Stderr,
		LookupBrowser: md2pdf.LookupBrowser,
		NewConverter: func(opts ...md2pdf.Option) (Converter, error) {
			return md2pdf.NewConverter(opts...)
		},
	}
}
