package md2pdf

// Notes:
// - rodRenderer itself needs a browser and is exercised by the
//   integration-tagged tests; here rodConverter runs against a mock renderer.
// - LookupBrowser's launcher.LookPath fallback depends on the host and is
//   only checked for a consistent result, not a specific path.
// - Tests calling t.Setenv cannot run in parallel.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

type mockRenderer struct {
	gotPath    string
	gotContent string
	output     []byte
	err        error
	closed     bool
}

func (m *mockRenderer) RenderFromFile(ctx context.Context, filePath string) ([]byte, error) {
	m.gotPath = filePath
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	m.gotContent = string(content)
	if m.err != nil {
		return nil, m.err
	}
	return m.output, nil
}

func (m *mockRenderer) Close() error {
	m.closed = true
	return nil
}

// ---------------------------------------------------------------------------
// TestRodConverter - Temp file handoff
// ---------------------------------------------------------------------------

func TestRodConverter_ToPDF(t *testing.T) {
	t.Parallel()

	renderer := &mockRenderer{output: []byte("%PDF-1.7")}
	conv := &rodConverter{renderer: renderer}

	got, err := conv.ToPDF(context.Background(), "<html>doc</html>", nil)
	if err != nil {
		t.Fatalf("ToPDF() error = %v", err)
	}
	if string(got) != "%PDF-1.7" {
		t.Errorf("ToPDF() = %q, want renderer output", got)
	}
	if renderer.gotContent != "<html>doc</html>" {
		t.Errorf("renderer saw %q, want the HTML document", renderer.gotContent)
	}
	if !strings.HasSuffix(renderer.gotPath, ".html") {
		t.Errorf("temp file %q should have .html extension", renderer.gotPath)
	}
	if _, err := os.Stat(renderer.gotPath); !os.IsNotExist(err) {
		t.Error("temp HTML file should be removed after rendering")
	}
}

func TestRodConverter_ToPDFError(t *testing.T) {
	t.Parallel()

	conv := &rodConverter{renderer: &mockRenderer{err: ErrPageLoad}}

	_, err := conv.ToPDF(context.Background(), "<html></html>", nil)
	if !errors.Is(err, ErrPageLoad) {
		t.Errorf("error = %v, want ErrPageLoad", err)
	}
}

func TestRodConverter_Close(t *testing.T) {
	t.Parallel()

	renderer := &mockRenderer{}
	conv := &rodConverter{renderer: renderer}
	if err := conv.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !renderer.closed {
		t.Error("Close() should close the renderer")
	}

	if err := (&rodConverter{}).Close(); err != nil {
		t.Errorf("Close() without renderer = %v, want nil", err)
	}
}

func TestRodRenderer_CloseWithoutBrowser(t *testing.T) {
	t.Parallel()

	r := newRodRenderer(converterConfig{timeout: time.Second})
	if err := r.Close(); err != nil {
		t.Errorf("Close() before launch = %v, want nil", err)
	}
}

func TestRodRenderer_CancelledBeforeLaunch(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := newRodRenderer(converterConfig{timeout: time.Second})
	_, err := r.RenderFromFile(ctx, "/nonexistent.html")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if r.browser != nil {
		t.Error("browser should not be launched for a cancelled context")
	}
}

// ---------------------------------------------------------------------------
// TestPrintOptions - Page geometry
// ---------------------------------------------------------------------------

func TestPrintOptions(t *testing.T) {
	t.Parallel()

	opts := printOptions()

	if *opts.PaperWidth != 8.27 || *opts.PaperHeight != 11.69 {
		t.Errorf("paper = %vx%v, want A4 8.27x11.69", *opts.PaperWidth, *opts.PaperHeight)
	}
	for name, m := range map[string]*float64{
		"top": opts.MarginTop, "bottom": opts.MarginBottom,
		"left": opts.MarginLeft, "right": opts.MarginRight,
	} {
		if *m != 1.0 {
			t.Errorf("margin %s = %v, want 1 inch", name, *m)
		}
	}
	if !opts.PreferCSSPageSize {
		t.Error("PreferCSSPageSize should be set so @page rules apply")
	}
	if !opts.PrintBackground {
		t.Error("PrintBackground should be set for code and table shading")
	}
}

// ---------------------------------------------------------------------------
// TestLookupBrowser - Capability check
// ---------------------------------------------------------------------------

func TestLookupBrowser_ExplicitBin(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("executable bits differ on Windows")
	}

	dir := t.TempDir()
	bin := filepath.Join(dir, "chromium")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("writing fake browser: %v", err)
	}
	t.Setenv(browserBinEnv, "")

	got, err := LookupBrowser(bin)
	if err != nil {
		t.Fatalf("LookupBrowser() error = %v", err)
	}
	if got != bin {
		t.Errorf("LookupBrowser() = %q, want %q", got, bin)
	}
}

func TestLookupBrowser_EnvBin(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("executable bits differ on Windows")
	}

	bin := filepath.Join(t.TempDir(), "chrome")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("writing fake browser: %v", err)
	}
	t.Setenv(browserBinEnv, bin)

	got, err := LookupBrowser("")
	if err != nil {
		t.Fatalf("LookupBrowser() error = %v", err)
	}
	if got != bin {
		t.Errorf("LookupBrowser() = %q, want %q from %s", got, bin, browserBinEnv)
	}
}

func TestLookupBrowser_CommandName(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("executable bits differ on Windows")
	}

	dir := t.TempDir()
	bin := filepath.Join(dir, "chromium")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("writing fake browser: %v", err)
	}
	t.Setenv("PATH", dir)
	t.Setenv(browserBinEnv, "")

	got, err := LookupBrowser("chromium")
	if err != nil {
		t.Fatalf("LookupBrowser() error = %v", err)
	}
	if got != bin {
		t.Errorf("LookupBrowser() = %q, want %q from PATH", got, bin)
	}
}

func TestLookupBrowser_MissingBin(t *testing.T) {
	t.Setenv(browserBinEnv, "")

	missing := filepath.Join(t.TempDir(), "no-such-chrome")
	_, err := LookupBrowser(missing)
	if !errors.Is(err, ErrBrowserNotFound) {
		t.Fatalf("error = %v, want ErrBrowserNotFound", err)
	}
	if !strings.Contains(err.Error(), missing) {
		t.Errorf("error %q should name the binary", err)
	}
}

func TestLookupBrowser_AutoDetect(t *testing.T) {
	t.Setenv(browserBinEnv, "")

	got, err := LookupBrowser("")
	if err != nil {
		if !errors.Is(err, ErrBrowserNotFound) {
			t.Errorf("error = %v, want ErrBrowserNotFound", err)
		}
		return
	}
	if got == "" {
		t.Error("LookupBrowser() returned an empty path without error")
	}
}

// ---------------------------------------------------------------------------
// TestTimeoutHint - Hint selection
// ---------------------------------------------------------------------------

func TestTimeoutHint(t *testing.T) {
	t.Parallel()

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name     string
		ctx      context.Context
		err      error
		wantHint bool
	}{
		{"deadline from page timeout", context.Background(), context.DeadlineExceeded, true},
		{"caller cancelled", cancelled, context.DeadlineExceeded, false},
		{"other error", context.Background(), errors.New("net::ERR_FILE_NOT_FOUND"), false},
	}

	for _, tt := range tests {
		got := timeoutHint(tt.ctx, tt.err)
		if (got != "") != tt.wantHint {
			t.Errorf("%s: timeoutHint() = %q, wantHint %v", tt.name, got, tt.wantHint)
		}
	}
}
