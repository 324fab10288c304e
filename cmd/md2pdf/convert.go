package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	md2pdf "github.com/inkpress/md2pdf"
	"github.com/inkpress/md2pdf/internal/config"
	"github.com/inkpress/md2pdf/internal/fileutil"
	"github.com/inkpress/md2pdf/internal/hints"
)

// Sentinel errors for CLI operations. The messages double as the leading
// words of the "Error:" line, so they read as sentence fragments.
var (
	ErrUsage           = errors.New("usage")
	ErrInvalidInput    = errors.New("does not exist or is not a file")
	ErrReadMarkdown    = errors.New("reading")
	ErrInvalidEncoding = errors.New("invalid UTF-8")
	ErrGeneratePDF     = errors.New("generating PDF")
	ErrWritePDF        = errors.New("writing")
)

// filePermissions is rw-r--r--: owner read+write, others read.
const filePermissions = 0o644

// loadConfig loads the optional config file and applies flag overrides.
// The merged result is validated again so flags get the same checks.
func loadConfig(flags *cliFlags) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if flags.config != "" {
		var err error
		cfg, err = config.LoadConfig(flags.config)
		if err != nil {
			var nf *config.NotFoundError
			if errors.As(err, &nf) {
				return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(nf.Paths))
			}
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	mergeFlags(flags, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeFlags copies explicitly passed flags into cfg (CLI wins).
func mergeFlags(flags *cliFlags, cfg *config.Config) {
	if flags.set["engine"] {
		cfg.Engine = strings.ToLower(strings.TrimSpace(flags.engine))
	}
	if flags.set["timeout"] {
		cfg.Timeout = flags.timeout.String()
	}
	if flags.verbose {
		cfg.Log.Level = "debug"
	}
}

// checkCapabilities verifies the selected engine can run and returns the
// converter options it needs. The native engine is compiled in; chrome
// needs a browser binary on this machine.
func checkCapabilities(cfg *config.Config, env *Environment) ([]md2pdf.Option, error) {
	engine, err := md2pdf.ParseEngine(cfg.Engine)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}

	opts := []md2pdf.Option{
		md2pdf.WithEngine(engine),
		md2pdf.WithTimeout(cfg.TimeoutDuration()),
	}
	if engine != md2pdf.EngineChrome {
		return opts, nil
	}

	bin, err := env.LookupBrowser(cfg.Browser.Bin)
	if err != nil {
		return nil, fmt.Errorf("%w%s", err, hints.ForBrowserNotFound())
	}
	return append(opts,
		md2pdf.WithBrowserBin(bin),
		md2pdf.WithNoSandbox(cfg.Browser.NoSandbox),
	), nil
}

// resolveOutputPath returns the PDF path: the input with its extension
// replaced, or the explicit output made absolute.
func resolveOutputPath(input, output string) (string, error) {
	if output == "" {
		return fileutil.ReplaceExt(input, ".pdf"), nil
	}
	abs, err := filepath.Abs(output)
	if err != nil {
		return "", fmt.Errorf("%w '%s': %w", ErrWritePDF, output, err)
	}
	return abs, nil
}

// readMarkdown reads the input file and rejects content that is not UTF-8.
func readMarkdown(path string) (string, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- input path is user-provided
	if err != nil {
		return "", fmt.Errorf("%w '%s': %w", ErrReadMarkdown, path, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w '%s': %w", ErrReadMarkdown, path, ErrInvalidEncoding)
	}
	return string(data), nil
}

// runConvert converts input to PDF with a converter built from opts and
// returns the written path. An empty output selects the default path next
// to the input.
func runConvert(ctx context.Context, opts []md2pdf.Option, input, output string, logger *slog.Logger, env *Environment) (string, error) {
	// Directories and special files are rejected before any read.
	if !fileutil.FileExists(input) {
		return "", fmt.Errorf("input file '%s' %w", input, ErrInvalidInput)
	}

	outPath, err := resolveOutputPath(input, output)
	if err != nil {
		return "", err
	}

	markdown, err := readMarkdown(input)
	if err != nil {
		return "", err
	}

	sourceDir, err := filepath.Abs(filepath.Dir(input))
	if err != nil {
		return "", fmt.Errorf("%w '%s': %w", ErrReadMarkdown, input, err)
	}

	logger.Debug("converting", "input", input, "output", outPath)

	conv, err := env.NewConverter(append(opts, md2pdf.WithLogger(logger))...)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGeneratePDF, err)
	}
	defer func() {
		if cerr := conv.Close(); cerr != nil {
			logger.Warn("closing converter", "error", cerr)
		}
	}()

	result, err := conv.Convert(ctx, md2pdf.Input{
		Markdown:  markdown,
		SourceDir: sourceDir,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGeneratePDF, err)
	}

	if err := fileutil.WriteFileAtomic(outPath, result.PDF, filePermissions); err != nil {
		return "", fmt.Errorf("%w '%s': %w", ErrWritePDF, outPath, err)
	}

	return outPath, nil
}
