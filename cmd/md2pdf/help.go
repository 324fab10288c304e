package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

const usageLine = "Usage: md2pdf [flags] <input> [output]"

var (
	errorLabel   = color.New(color.FgRed, color.Bold)
	successLabel = color.New(color.FgGreen)
)

// printUsage prints the full help text.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, usageLine)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert a Markdown file to an A4 PDF.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input     Markdown file to convert")
	fmt.Fprintln(w, "  output    PDF path (default: input with .pdf extension)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --engine <s>          PDF engine: chrome, native (default chrome)")
	fmt.Fprintln(w, "      --timeout <d>         Render timeout, e.g. 30s, 2m (default 30s)")
	fmt.Fprintln(w, "  -v, --verbose             Debug logging to stderr")
	fmt.Fprintln(w, "      --version             Print version and exit")
	fmt.Fprintln(w, "  -h, --help                Print help and exit")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  ROD_BROWSER_BIN           Chrome or Chromium binary")
	fmt.Fprintln(w, "  ROD_NO_SANDBOX=1          Disable the Chrome sandbox (containers, CI)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit codes: 0 success, 1 conversion error, 2 usage error.")
}

// printError writes the single "Error:" line for err.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", errorLabel.Sprint("Error:"), err)
}

// printSuccess writes the single success line naming the PDF.
func printSuccess(w io.Writer, path string) {
	fmt.Fprintf(w, "%s %s\n", successLabel.Sprint("PDF generated:"), path)
}
