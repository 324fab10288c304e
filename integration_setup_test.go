//go:build integration

package md2pdf

// Notes:
// - Integration tests share one Chrome-backed Converter, created in TestMain
//   and closed after all tests complete.
// - A Converter is not safe for concurrent use, so integration tests do not
//   call t.Parallel().
// - Without a browser the whole suite fails fast in TestMain.

import (
	"bytes"
	"fmt"
	"os"
	"testing"
	"time"
)

// testTimeout is the standard timeout for integration test operations.
const testTimeout = 30 * time.Second

// testConverter is the shared Chrome converter for all integration tests.
var testConverter *Converter

func TestMain(m *testing.M) {
	if _, err := LookupBrowser(""); err != nil {
		fmt.Fprintf(os.Stderr, "integration tests need Chrome: %v\n", err)
		os.Exit(1)
	}

	conv, err := NewConverter(WithTimeout(testTimeout))
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating converter: %v\n", err)
		os.Exit(1)
	}
	testConverter = conv

	code := m.Run()

	_ = testConverter.Close()
	os.Exit(code)
}

// assertValidPDF checks the PDF magic header and a plausible size.
func assertValidPDF(t *testing.T, data []byte) {
	t.Helper()

	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("output is not a PDF, starts with %q", data[:min(len(data), 16)])
	}
	if len(data) < 500 {
		t.Errorf("PDF is suspiciously small: %d bytes", len(data))
	}
}
