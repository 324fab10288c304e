package md2pdf

import (
	"context"
	"fmt"
	"os"

	"github.com/mandolyte/mdtopdf"

	"github.com/inkpress/md2pdf/internal/fileutil"
)

// Compile-time interface check
var _ pdfConverter = (*nativeConverter)(nil)

// markdownRenderer renders Markdown straight to a PDF file.
type markdownRenderer interface {
	RenderMarkdown(content []byte, pdfPath string) error
}

// mdtopdfRenderer implements markdownRenderer with mdtopdf (pure Go).
// Page geometry is A4 portrait; the HTML stylesheet does not apply.
type mdtopdfRenderer struct{}

func (mdtopdfRenderer) RenderMarkdown(content []byte, pdfPath string) error {
	renderer := mdtopdf.NewPdfRenderer("P", "A4", pdfPath, "", nil, mdtopdf.LIGHT)
	return renderer.Process(content)
}

// nativeConverter renders PDFs without a browser.
type nativeConverter struct {
	renderer markdownRenderer
}

func newNativeConverter() *nativeConverter {
	return &nativeConverter{renderer: mdtopdfRenderer{}}
}

// ToPDF ignores the HTML and renders opts.Markdown through a temporary file.
func (c *nativeConverter) ToPDF(ctx context.Context, _ string, opts *pdfOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts == nil {
		return nil, fmt.Errorf("%w: no markdown for native engine", ErrPDFGeneration)
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile("", "pdf")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	defer cleanup()

	if err := c.renderer.RenderMarkdown([]byte(opts.Markdown), tmpPath); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdfBuf, err := os.ReadFile(tmpPath) // #nosec G304 -- temp file created above
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF: %v", ErrPDFGeneration, err)
	}
	return pdfBuf, nil
}

// Close is a no-op: the native engine holds no resources.
func (c *nativeConverter) Close() error {
	return nil
}
