package md2pdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/inkpress/md2pdf/internal/fileutil"
	"github.com/inkpress/md2pdf/internal/hints"
	"github.com/inkpress/md2pdf/internal/pipeline"
	"github.com/inkpress/md2pdf/internal/process"
)

// pdfConverter abstracts HTML to PDF conversion to allow different backends.
type pdfConverter interface {
	ToPDF(ctx context.Context, htmlContent string, opts *pdfOptions) ([]byte, error)
	Close() error
}

// pdfRenderer abstracts PDF rendering from an HTML file to enable testing without a browser.
type pdfRenderer interface {
	RenderFromFile(ctx context.Context, filePath string) ([]byte, error)
	Close() error
}

// Compile-time interface checks
var (
	_ pdfConverter = (*rodConverter)(nil)
	_ pdfRenderer  = (*rodRenderer)(nil)
)

// pdfOptions carries what a backend may need besides the HTML document.
type pdfOptions struct {
	Markdown string // Preprocessed Markdown, for engines that skip the HTML stage
}

// A4 paper in inches with 1-inch margins. Chrome prefers the @page rule of
// the stylesheet; these values apply if it is missing.
const (
	paperWidthInches  = 8.27
	paperHeightInches = 11.69
	marginInches      = 1.0
)

// browserBinEnv names the variable pointing at a Chrome binary.
const browserBinEnv = "ROD_BROWSER_BIN"

// LookupBrowser returns the Chrome or Chromium executable to launch.
// Tries bin (path or command name), then $ROD_BROWSER_BIN, then the usual
// install locations. Returns ErrBrowserNotFound when none is usable.
// Rod's automatic Chromium download is never triggered.
func LookupBrowser(bin string) (string, error) {
	if bin == "" {
		bin = os.Getenv(browserBinEnv)
	}

	if bin != "" {
		path, err := exec.LookPath(bin)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrBrowserNotFound, bin, err)
		}
		return path, nil
	}

	if path, ok := launcher.LookPath(); ok {
		return path, nil
	}
	return "", ErrBrowserNotFound
}

// rodRenderer implements pdfRenderer using go-rod.
// The browser is launched on first use and reused until Close.
type rodRenderer struct {
	launcher  *launcher.Launcher
	browser   *rod.Browser
	timeout   time.Duration
	bin       string
	noSandbox bool
	logger    *slog.Logger
}

// newRodRenderer creates a rodRenderer from converter settings.
func newRodRenderer(cfg converterConfig) *rodRenderer {
	return &rodRenderer{
		timeout:   cfg.timeout,
		bin:       cfg.browserBin,
		noSandbox: cfg.noSandbox,
		logger:    cfg.logger,
	}
}

// sandboxDisabled reports whether Chrome must run without its sandbox.
func (r *rodRenderer) sandboxDisabled() bool {
	return r.noSandbox ||
		os.Getenv("CI") == "true" ||
		os.Getenv("ROD_NO_SANDBOX") == "1" ||
		hints.IsInContainer()
}

// ensureBrowser lazily launches and connects to the browser.
func (r *rodRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	bin, err := LookupBrowser(r.bin)
	if err != nil {
		return err
	}

	l := launcher.New().Bin(bin)
	if r.sandboxDisabled() {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v%s", ErrBrowserConnect, err, hints.ForBrowserConnect())
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return fmt.Errorf("%w: %v%s", ErrBrowserConnect, err, hints.ForBrowserConnect())
	}

	r.launcher = l
	r.browser = browser
	r.logger.Debug("browser started", "bin", bin, "pid", l.PID(), "noSandbox", r.sandboxDisabled())
	return nil
}

// Close closes the browser and kills its process group, so no Chrome
// helper outlives the converter.
func (r *rodRenderer) Close() error {
	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		process.KillProcessGroup(r.launcher.PID())
		r.launcher.Kill()
		r.launcher.Cleanup()
		r.launcher = nil
		r.logger.Debug("browser stopped")
	}
	return err
}

// RenderFromFile opens a local HTML file in headless Chrome and renders it to PDF.
// Scripts in the document are not executed.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string) ([]byte, error) {
	// Check context before starting
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() { _ = page.Close() }()

	// Wait for page to load with timeout from context or default
	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = min(timeout, time.Until(deadline))
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}
	p := page.Context(ctx).Timeout(timeout)
	defer p.CancelTimeout()

	if err := (proto.EmulationSetScriptExecutionDisabled{Value: true}).Call(p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}

	if err := p.Navigate(pipeline.FileURL(filePath).String()); err != nil {
		return nil, fmt.Errorf("%w: %v%s", ErrPageLoad, err, timeoutHint(ctx, err))
	}
	if err := p.WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v%s", ErrPageLoad, err, timeoutHint(ctx, err))
	}

	reader, err := p.PDF(printOptions())
	if err != nil {
		return nil, fmt.Errorf("%w: %v%s", ErrPDFGeneration, err, timeoutHint(ctx, err))
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}

	return pdfBuf, nil
}

// timeoutHint returns the timeout hint when err came from an expired deadline
// rather than a caller cancellation.
func timeoutHint(ctx context.Context, err error) string {
	if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
		return hints.ForTimeout()
	}
	return ""
}

// printOptions returns Chrome print settings: A4, 1-inch margins, backgrounds on.
func printOptions() *proto.PagePrintToPDF {
	return &proto.PagePrintToPDF{
		PaperWidth:        floatPtr(paperWidthInches),
		PaperHeight:       floatPtr(paperHeightInches),
		MarginTop:         floatPtr(marginInches),
		MarginBottom:      floatPtr(marginInches),
		MarginLeft:        floatPtr(marginInches),
		MarginRight:       floatPtr(marginInches),
		PrintBackground:   true,
		PreferCSSPageSize: true,
	}
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}

// rodConverter converts HTML to PDF using headless Chrome via go-rod.
type rodConverter struct {
	renderer pdfRenderer
}

// newRodConverter creates a rodConverter with production renderer.
func newRodConverter(cfg converterConfig) *rodConverter {
	return &rodConverter{
		renderer: newRodRenderer(cfg),
	}
}

// ToPDF writes the HTML to a temporary file and renders it, so relative
// file:// references resolve the same way they would in a browser.
func (c *rodConverter) ToPDF(ctx context.Context, htmlContent string, _ *pdfOptions) ([]byte, error) {
	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	defer cleanup()

	return c.renderer.RenderFromFile(ctx, tmpPath)
}

// Close releases browser resources.
func (c *rodConverter) Close() error {
	if c.renderer != nil {
		return c.renderer.Close()
	}
	return nil
}
