package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"strings"
	"sync"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	nethtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultTitle is the document title when the Markdown has no level-1 heading.
const DefaultTitle = "Document"

// highlightStyle is the chroma palette used for code blocks.
const highlightStyle = "github"

// htmlTemplate wraps Goldmark's fragment output in a complete HTML5 document.
const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s
</body>
</html>`

// HTMLConverter abstracts Markdown to HTML conversion.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string) (string, error)
}

// GoldmarkConverter converts Markdown to HTML using goldmark (pure Go).
type GoldmarkConverter struct {
	md goldmark.Markdown
}

// NewGoldmarkConverter creates a GoldmarkConverter with tables, footnotes,
// definition lists, attribute lists, highlighting and smart punctuation.
func NewGoldmarkConverter() *GoldmarkConverter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.Table,          // Pipe tables
			extension.Footnote,       // [^1] footnotes
			extension.DefinitionList, // Term\n: definition
			// "quotes", -- and ... to typographic forms; << and >> stay literal
			extension.NewTypographer(
				extension.WithTypographicSubstitutions(extension.TypographicSubstitutions{
					extension.LeftAngleQuote:  []byte("&lt;&lt;"),
					extension.RightAngleQuote: []byte("&gt;&gt;"),
				}),
			),
			highlighting.NewHighlighting(
				highlighting.WithStyle(highlightStyle),
				highlighting.WithGuessLanguage(true),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true), // Palette comes from HighlightCSS
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(), // Anchors for the table of contents
			parser.WithAttribute(),     // ## Heading {#id .class}
		),
		goldmark.WithRendererOptions(
			gmhtml.WithXHTML(),
			gmhtml.WithUnsafe(), // Raw HTML in the source is passed through
		),
	)
	return &GoldmarkConverter{md: md}
}

// ToHTML converts Markdown content to a standalone HTML5 document whose
// title is the text of the first level-1 heading.
// Supports context cancellation via goroutine + select pattern since
// Goldmark doesn't natively support context.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string) (string, error) {
	// Fast path: check context before starting
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: err}
			return
		}
		body := buf.String()
		title := html.EscapeString(documentTitle(body))
		done <- result{html: fmt.Sprintf(htmlTemplate, title, body)}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

// documentTitle returns the text of the first h1 in an HTML fragment,
// or DefaultTitle when there is none or it is blank.
func documentTitle(fragment string) string {
	doc, _, err := parseHTML(fragment)
	if err != nil {
		return DefaultTitle
	}

	title := ""
	walk(doc, func(n *nethtml.Node) bool {
		if title != "" {
			return false
		}
		if n.Type == nethtml.ElementNode && n.DataAtom == atom.H1 {
			title = strings.Join(strings.Fields(textContent(n)), " ")
			return false
		}
		return true
	})

	if title == "" {
		return DefaultTitle
	}
	return title
}

// HighlightCSS returns the stylesheet for highlighted code blocks.
// The result is computed once.
var HighlightCSS = sync.OnceValues(func() (string, error) {
	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, styles.Get(highlightStyle)); err != nil {
		return "", fmt.Errorf("generating highlight CSS: %w", err)
	}
	return buf.String(), nil
})
