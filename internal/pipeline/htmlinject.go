package pipeline

import (
	"context"
	"strings"
)

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects the stylesheet as a <style> block into HTML content.
type CSSInjection struct{}

// InjectCSS inserts a single <style> block into HTML content: before </head>,
// else right after the <body> tag, else at the start.
// Closing-tag sequences in the CSS are escaped so the block cannot end early.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" || ctx.Err() != nil {
		return htmlContent
	}

	styleBlock := "<style>\n" + sanitizeCSS(cssContent) + "\n</style>\n"
	pos := styleInsertPos(htmlContent)
	return htmlContent[:pos] + styleBlock + htmlContent[pos:]
}

// styleInsertPos returns the byte offset where the style block belongs.
func styleInsertPos(htmlContent string) int {
	lower := strings.ToLower(htmlContent)

	if idx := strings.Index(lower, "</head>"); idx != -1 {
		return idx
	}
	if idx := strings.Index(lower, "<body"); idx != -1 {
		if end := strings.IndexByte(lower[idx:], '>'); end != -1 {
			return idx + end + 1
		}
	}
	return 0
}

// sanitizeCSS escapes sequences that could close the <style> element.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
