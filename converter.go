package md2pdf

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/inkpress/md2pdf/internal/assets"
	"github.com/inkpress/md2pdf/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.CommonMarkPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.AbbreviationApplier  = (*pipeline.AbbreviationInjection)(nil)
	_ pipeline.TOCInjector          = (*pipeline.TOCInjection)(nil)
	_ pipeline.CSSInjector          = (*pipeline.CSSInjection)(nil)
)

// Converter orchestrates the markdown-to-PDF conversion pipeline.
// Create with NewConverter(), use Convert() for conversion, and Close() when done.
// A Converter is not safe for concurrent use.
type Converter struct {
	cfg           converterConfig
	assetLoader   assets.AssetLoader
	preprocessor  pipeline.MarkdownPreprocessor
	htmlConverter pipeline.HTMLConverter
	abbrApplier   pipeline.AbbreviationApplier
	tocInjector   pipeline.TOCInjector
	cssInjector   pipeline.CSSInjector
	pdfConverter  pdfConverter
	stylesheet    string
}

// NewConverter creates a Converter with default configuration.
// Use options to customize behavior (e.g., WithTimeout, WithEngine).
// Returns error if the engine is unknown or the stylesheet cannot be loaded.
// No browser is started until the first PDF is rendered.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			timeout: defaultTimeout,
			engine:  EngineChrome,
		},
		assetLoader:   assets.NewEmbeddedLoader(),
		preprocessor:  &pipeline.CommonMarkPreprocessor{},
		htmlConverter: pipeline.NewGoldmarkConverter(),
		abbrApplier:   &pipeline.AbbreviationInjection{},
		tocInjector:   pipeline.NewTOCInjection(),
		cssInjector:   &pipeline.CSSInjection{},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.cfg.logger == nil {
		c.cfg.logger = slog.New(slog.DiscardHandler)
	}

	engine, err := ParseEngine(string(c.cfg.engine))
	if err != nil {
		return nil, err
	}
	c.cfg.engine = engine

	if err := c.loadStylesheet(); err != nil {
		return nil, err
	}

	// Create PDF converter if not injected (e.g., by tests)
	if c.pdfConverter == nil {
		switch c.cfg.engine {
		case EngineNative:
			c.pdfConverter = newNativeConverter()
		default:
			c.pdfConverter = newRodConverter(c.cfg)
		}
	}

	return c, nil
}

// loadStylesheet combines the fixed document style with the code highlighting palette.
func (c *Converter) loadStylesheet() error {
	base, err := c.assetLoader.LoadStyle(assets.DefaultStyleName)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStyleLoad, err)
	}

	highlight, err := pipeline.HighlightCSS()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStyleLoad, err)
	}

	// Document style last so it wins over the palette's backgrounds.
	c.stylesheet = strings.TrimSpace(highlight) + "\n" + strings.TrimSpace(base) + "\n"
	return nil
}

// Engine returns the PDF backend in use.
func (c *Converter) Engine() Engine {
	return c.cfg.engine
}

// Convert runs the full pipeline and returns the result containing HTML and PDF.
// The context is used for cancellation; the rendering timeout applies on top.
// Any text is accepted; empty Markdown renders a blank page.
// If input.HTMLOnly is true, PDF generation is skipped (for debugging).
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	log := c.cfg.logger
	start := time.Now()

	// Preprocess markdown
	pre := c.preprocessor.PreprocessMarkdown(ctx, input.Markdown)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// Convert to HTML
	htmlContent, err := c.htmlConverter.ToHTML(ctx, pre.Markdown)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHTMLConversion, err)
	}

	htmlContent, err = c.abbrApplier.ApplyAbbreviations(ctx, htmlContent, pre.Abbreviations)
	if err != nil {
		return nil, fmt.Errorf("%w: applying abbreviations: %w", ErrHTMLConversion, err)
	}

	if pre.HasTOC {
		htmlContent, err = c.tocInjector.InjectTOC(ctx, htmlContent)
		if err != nil {
			return nil, fmt.Errorf("%w: injecting TOC: %w", ErrHTMLConversion, err)
		}
	}

	// Rewrite relative paths to absolute file:// URLs (if source directory provided)
	if input.SourceDir != "" {
		htmlContent, err = pipeline.RewriteRelativePaths(htmlContent, input.SourceDir)
		if err != nil {
			return nil, fmt.Errorf("%w: rewriting relative paths: %w", ErrHTMLConversion, err)
		}
	}

	htmlContent = c.cssInjector.InjectCSS(ctx, htmlContent, c.stylesheet)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	log.Debug("html ready",
		"bytes", len(htmlContent),
		"abbreviations", len(pre.Abbreviations),
		"toc", pre.HasTOC,
		"elapsed", time.Since(start))

	res := &ConvertResult{
		HTML: []byte(htmlContent),
	}

	// Skip PDF generation if HTMLOnly mode
	if input.HTMLOnly {
		return res, nil
	}

	renderStart := time.Now()
	pdfBytes, err := c.pdfConverter.ToPDF(ctx, htmlContent, &pdfOptions{
		Markdown: strings.ReplaceAll(pre.Markdown, pipeline.TOCPlaceholder, ""),
	})
	if err != nil {
		return nil, fmt.Errorf("converting to PDF: %w", err)
	}

	log.Debug("pdf rendered",
		"engine", string(c.cfg.engine),
		"bytes", len(pdfBytes),
		"elapsed", time.Since(renderStart))

	res.PDF = pdfBytes
	return res, nil
}

// Close releases resources (headless Chrome browser).
func (c *Converter) Close() error {
	if c.pdfConverter != nil {
		return c.pdfConverter.Close()
	}
	return nil
}
