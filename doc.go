// Package md2pdf converts Markdown documents to PDF.
//
// # Quick Start
//
// Create a converter, convert markdown, and close when done:
//
//	conv, err := md2pdf.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, md2pdf.Input{
//	    Markdown:  "# Hello\n\nWorld",
//	    SourceDir: "/path/to/markdown", // for relative image paths
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("output.pdf", result.PDF, 0644)
//
// The result contains both the PDF bytes (result.PDF) and the intermediate
// HTML (result.HTML) for debugging. Use Input.HTMLOnly to skip PDF generation.
//
// # Conversion Pipeline
//
//  1. Markdown preprocessing (line endings, abbreviations, [TOC] markers)
//  2. Markdown to HTML via Goldmark (tables, footnotes, definition lists,
//     smart punctuation, syntax highlighting)
//  3. HTML post-processing (abbreviations, table of contents, relative
//     paths, the fixed stylesheet)
//  4. PDF rendering on A4 paper with 1-inch margins
//
// # Engines
//
// EngineChrome (default) prints the styled HTML with headless Chrome driven
// by go-rod. Chrome must be installed; LookupBrowser reports whether it is.
// EngineNative renders the Markdown with mdtopdf in pure Go and ignores the
// stylesheet:
//
//	conv, err := md2pdf.NewConverter(
//	    md2pdf.WithEngine(md2pdf.EngineNative),
//	    md2pdf.WithTimeout(2 * time.Minute),
//	)
//
// # Browser Requirements
//
// Use WithBrowserBin or ROD_BROWSER_BIN to pick a Chrome binary. In
// containers and CI, use WithNoSandbox or set ROD_NO_SANDBOX=1.
package md2pdf
