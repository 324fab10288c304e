//go:build integration

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	md2pdf "github.com/inkpress/md2pdf"
)

// runReal runs the command with real converters and captured output.
func runReal(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()

	var out, errOut bytes.Buffer
	env := DefaultEnv()
	env.Stdout = &out
	env.Stderr = &errOut

	code = runMain(append([]string{"md2pdf"}, args...), env)
	return code, out.String(), errOut.String()
}

func TestCLIIntegration_Chrome(t *testing.T) {
	if _, err := md2pdf.LookupBrowser(""); err != nil {
		t.Skipf("no browser: %v", err)
	}

	dir := t.TempDir()
	input := filepath.Join(dir, "smoke.md")
	if err := os.WriteFile(input, []byte("# Title\n\nSome *text*.\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	code, stdout, stderr := runReal(t, input)
	if code != ExitSuccess {
		t.Fatalf("exit %d\nstderr: %s", code, stderr)
	}

	want := filepath.Join(dir, "smoke.pdf")
	if strings.TrimSpace(stdout) != "PDF generated: "+want {
		t.Errorf("stdout = %q", stdout)
	}
	assertPDFFile(t, want)
}

func TestCLIIntegration_Native(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "smoke.md")
	output := filepath.Join(dir, "out", "..", "native.pdf")
	if err := os.WriteFile(input, []byte("# Title\n\nSome *text*.\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	code, _, stderr := runReal(t, "--engine", "native", input, output)
	if code != ExitSuccess {
		t.Fatalf("exit %d\nstderr: %s", code, stderr)
	}
	assertPDFFile(t, filepath.Join(dir, "native.pdf"))
}

func assertPDFFile(t *testing.T, path string) {
	t.Helper()

	data, err := os.ReadFile(path) // #nosec G304 -- test temp dir
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("%s is not a PDF", path)
	}
}
