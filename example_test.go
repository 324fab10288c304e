package md2pdf_test

import (
	"context"
	"fmt"
	"strings"

	md2pdf "github.com/inkpress/md2pdf"
)

// Example demonstrates basic markdown to HTML conversion.
// For PDF output, leave HTMLOnly unset (requires Chrome).
func Example() {
	conv, err := md2pdf.NewConverter()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer conv.Close()

	result, err := conv.Convert(context.Background(), md2pdf.Input{
		Markdown: "# Hello World\n\nThis is a test.",
		HTMLOnly: true, // Skip PDF generation for this example
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	if strings.Contains(string(result.HTML), "<title>Hello World</title>") {
		fmt.Println("HTML generated successfully")
	}
	// Output: HTML generated successfully
}

// Example_tableOfContents demonstrates the [TOC] marker.
func Example_tableOfContents() {
	conv, err := md2pdf.NewConverter()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer conv.Close()

	result, err := conv.Convert(context.Background(), md2pdf.Input{
		Markdown: "[TOC]\n\n# Intro\n\n## Setup\n",
		HTMLOnly: true,
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	html := string(result.HTML)
	fmt.Println(strings.Contains(html, `<div class="toc">`))
	fmt.Println(strings.Contains(html, `<a href="#setup">Setup</a>`))
	// Output:
	// true
	// true
}

// Example_abbreviations demonstrates abbreviation definitions.
func Example_abbreviations() {
	conv, err := md2pdf.NewConverter()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer conv.Close()

	result, err := conv.Convert(context.Background(), md2pdf.Input{
		Markdown: "The HTML standard.\n\n*[HTML]: Hyper Text Markup Language\n",
		HTMLOnly: true,
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(strings.Contains(string(result.HTML), `<abbr title="Hyper Text Markup Language">HTML</abbr>`))
	// Output: true
}

// Example_nativeEngine demonstrates selecting the browser-free engine.
func Example_nativeEngine() {
	engine, err := md2pdf.ParseEngine("native")
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	conv, err := md2pdf.NewConverter(md2pdf.WithEngine(engine))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer conv.Close()

	fmt.Println(conv.Engine())
	// Output: native
}
