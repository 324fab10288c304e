//go:build integration

package md2pdf

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writePNG writes a 1x1 PNG image to path.
func writePNG(t *testing.T, path string) {
	t.Helper()

	f, err := os.Create(path) // #nosec G304 -- test temp dir
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.Black)
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestConvertIntegration_Simple(t *testing.T) {
	result, err := testConverter.Convert(context.Background(), Input{
		Markdown: "# Title\n\nSome *text*.",
	})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	assertValidPDF(t, result.PDF)
}

func TestConvertIntegration_Table(t *testing.T) {
	result, err := testConverter.Convert(context.Background(), Input{
		Markdown: "| Name | Qty |\n|------|-----|\n| Pens | 3 |\n",
	})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	assertValidPDF(t, result.PDF)

	html := string(result.HTML)
	if !strings.Contains(html, "<table>") || !strings.Contains(html, "1px solid #ddd") {
		t.Error("table should be rendered with the bordered stylesheet")
	}
}

func TestConvertIntegration_RelativeImage(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "img"), 0o750); err != nil {
		t.Fatal(err)
	}
	writePNG(t, filepath.Join(dir, "img", "dot.png"))

	result, err := testConverter.Convert(context.Background(), Input{
		Markdown:  "![dot](img/dot.png)\n",
		SourceDir: dir,
	})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	assertValidPDF(t, result.PDF)
}

func TestConvertIntegration_MissingImageStillRenders(t *testing.T) {
	result, err := testConverter.Convert(context.Background(), Input{
		Markdown:  "Before\n\n![gone](missing.png)\n\nAfter\n",
		SourceDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("missing image should not fail the render: %v", err)
	}
	assertValidPDF(t, result.PDF)
}

func TestConvertIntegration_ScriptsNotExecuted(t *testing.T) {
	// A script that never yields would block the load event if it ran.
	result, err := testConverter.Convert(context.Background(), Input{
		Markdown: "<script>for(;;){}</script>\n\ntext\n",
	})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	assertValidPDF(t, result.PDF)
}

func TestConvertIntegration_NativeEngine(t *testing.T) {
	conv, err := NewConverter(WithEngine(EngineNative))
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	defer conv.Close()

	result, err := conv.Convert(context.Background(), Input{Markdown: "# Native\n\nNo browser.\n"})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	assertValidPDF(t, result.PDF)
}
