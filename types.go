package md2pdf

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Engine selects the PDF backend.
type Engine string

// Supported engines.
const (
	// EngineChrome renders the styled HTML document with headless Chrome.
	EngineChrome Engine = "chrome"
	// EngineNative renders the Markdown directly in pure Go. No browser is
	// needed, but the stylesheet is not applied.
	EngineNative Engine = "native"
)

// ParseEngine converts a name (case-insensitive) to an Engine.
// An empty name selects EngineChrome.
func ParseEngine(name string) (Engine, error) {
	switch Engine(strings.ToLower(strings.TrimSpace(name))) {
	case "", EngineChrome:
		return EngineChrome, nil
	case EngineNative:
		return EngineNative, nil
	default:
		return "", fmt.Errorf("%w: %q (must be chrome or native)", ErrInvalidEngine, name)
	}
}

// Input contains conversion parameters.
type Input struct {
	Markdown  string // Markdown content (required)
	SourceDir string // Base directory for relative images and links (optional)
	HTMLOnly  bool   // Skip PDF rendering, return only HTML
}

// ConvertResult holds the output of a conversion.
type ConvertResult struct {
	HTML []byte // Styled HTML document fed to the renderer
	PDF  []byte // Rendered PDF, nil when Input.HTMLOnly is set
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout    time.Duration
	engine     Engine
	browserBin string
	noSandbox  bool
	logger     *slog.Logger
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the PDF rendering timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("md2pdf: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithEngine selects the PDF backend. NewConverter rejects unknown engines.
func WithEngine(e Engine) Option {
	return func(c *Converter) {
		c.cfg.engine = e
	}
}

// WithBrowserBin sets the Chrome or Chromium binary (path or command name).
// Without it, ROD_BROWSER_BIN and then the usual install locations are tried.
func WithBrowserBin(bin string) Option {
	return func(c *Converter) {
		c.cfg.browserBin = bin
	}
}

// WithNoSandbox disables the Chrome sandbox, required in most containers.
func WithNoSandbox(disabled bool) Option {
	return func(c *Converter) {
		c.cfg.noSandbox = disabled
	}
}

// WithLogger sets the logger for stage timings and browser lifecycle events.
// A nil logger discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		c.cfg.logger = l
	}
}
