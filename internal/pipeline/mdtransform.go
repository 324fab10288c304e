package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// TOCPlaceholder stands in for a [TOC] marker line during conversion.
// It is a Unicode Private Use Area character, so it passes through Goldmark
// unchanged and cannot collide with document text. TOCInjection replaces
// the paragraph holding it with the generated table of contents.
const TOCPlaceholder = "\uE000"

// tocMarker is the line that requests a table of contents.
const tocMarker = "[TOC]"

// byteOrderMark is stripped from the start of the input.
const byteOrderMark = "\uFEFF"

// Precompiled regex patterns for performance.
var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Abbreviation definition: *[HTML]: Hyper Text Markup Language
	abbrDefinition = regexp.MustCompile(`^\*\[([^\]]+)\][ \t]?:[ \t]*(.*)$`)

	// Opening or closing code fence: ``` or ~~~ (3+), up to 3 spaces indent
	codeFence = regexp.MustCompile("^ {0,3}(`{3,}|~{3,})")
)

// Abbreviation maps a term to the expansion shown in its tooltip.
type Abbreviation struct {
	Term  string
	Title string
}

// Preprocessed is Markdown ready for Goldmark plus what was extracted from it.
type Preprocessed struct {
	Markdown      string
	Abbreviations []Abbreviation
	HasTOC        bool
}

// MarkdownPreprocessor defines the contract for markdown preprocessing.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) Preprocessed
}

// CommonMarkPreprocessor applies transformations before CommonMark conversion.
type CommonMarkPreprocessor struct{}

// PreprocessMarkdown normalizes line endings, strips a byte order mark,
// pulls out abbreviation definitions and replaces [TOC] marker lines.
// Lines inside fenced code blocks are left untouched.
func (p *CommonMarkPreprocessor) PreprocessMarkdown(ctx context.Context, content string) Preprocessed {
	// Check for cancellation before processing
	if ctx.Err() != nil {
		return Preprocessed{Markdown: content}
	}

	content = strings.TrimPrefix(content, byteOrderMark)
	content = normalizeLineEndings(content)

	return scanLines(content)
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// scanLines walks the document line by line, tracking fenced code blocks.
// Abbreviation definitions are removed and collected; a later definition of
// the same term wins. A [TOC] line becomes a standalone placeholder paragraph.
func scanLines(content string) Preprocessed {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))

	var result Preprocessed
	var fence string // closing fence we are waiting for, empty outside code
	abbrIndex := map[string]int{}

	for _, line := range lines {
		if m := codeFence.FindStringSubmatch(line); m != nil {
			switch {
			case fence == "":
				fence = m[1]
			case m[1][0] == fence[0] && len(m[1]) >= len(fence) &&
				strings.TrimSpace(line[len(m[0]):]) == "":
				fence = ""
			}
			out = append(out, line)
			continue
		}
		if fence != "" {
			out = append(out, line)
			continue
		}

		if m := abbrDefinition.FindStringSubmatch(line); m != nil {
			term := strings.TrimSpace(m[1])
			title := strings.TrimSpace(m[2])
			if term != "" {
				if i, ok := abbrIndex[term]; ok {
					result.Abbreviations[i].Title = title
				} else {
					abbrIndex[term] = len(result.Abbreviations)
					result.Abbreviations = append(result.Abbreviations, Abbreviation{Term: term, Title: title})
				}
				continue
			}
		}

		if strings.TrimRight(line, " \t") == tocMarker {
			result.HasTOC = true
			out = append(out, "", TOCPlaceholder, "")
			continue
		}

		out = append(out, line)
	}

	result.Markdown = strings.Join(out, "\n")
	return result
}
