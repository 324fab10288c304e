package main

// Notes:
// - exitCodeFor: we test sentinel errors from this package, config, and the
//   root package, plus wrapped errors to verify the errors.Is chain.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"fmt"
	"testing"

	md2pdf "github.com/inkpress/md2pdf"
	"github.com/inkpress/md2pdf/internal/config"
)

// ---------------------------------------------------------------------------
// TestExitCodeFor - Error to exit code mapping
// ---------------------------------------------------------------------------

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, ExitSuccess},

		// Usage and config (exit 2)
		{"usage", ErrUsage, ExitUsage},
		{"wrapped usage", fmt.Errorf("%w: missing input", ErrUsage), ExitUsage},
		{"config not found", &config.NotFoundError{Name: "work"}, ExitUsage},
		{"config parse", fmt.Errorf("loading config: %w", config.ErrConfigParse), ExitUsage},
		{"config invalid", config.ErrConfigInvalid, ExitUsage},

		// Everything else (exit 1)
		{"invalid input", fmt.Errorf("input file 'x' %w", ErrInvalidInput), ExitGeneral},
		{"read", ErrReadMarkdown, ExitGeneral},
		{"encoding", fmt.Errorf("%w 'x': %w", ErrReadMarkdown, ErrInvalidEncoding), ExitGeneral},
		{"browser missing", md2pdf.ErrBrowserNotFound, ExitGeneral},
		{"render timeout", fmt.Errorf("%w: %w", ErrGeneratePDF, md2pdf.ErrPDFGeneration), ExitGeneral},
		{"page load", fmt.Errorf("%w: %w", ErrGeneratePDF, md2pdf.ErrPageLoad), ExitGeneral},
		{"write", ErrWritePDF, ExitGeneral},
		{"unknown", errors.New("boom"), ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
