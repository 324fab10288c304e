package pipeline

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// AbbreviationApplier defines the contract for marking up abbreviations.
type AbbreviationApplier interface {
	ApplyAbbreviations(ctx context.Context, htmlContent string, abbrs []Abbreviation) (string, error)
}

// AbbreviationInjection wraps abbreviation terms in <abbr title="..."> elements.
type AbbreviationInjection struct{}

// abbrSkip lists elements whose text is never marked up.
// Title and textarea hold raw text, so markup inside them would be shown
// literally.
var abbrSkip = map[atom.Atom]bool{
	atom.Code:     true,
	atom.Pre:      true,
	atom.Script:   true,
	atom.Style:    true,
	atom.Abbr:     true,
	atom.Title:    true,
	atom.Textarea: true,
}

// ApplyAbbreviations wraps whole-word occurrences of each term in an <abbr>
// element carrying its expansion as title. Text inside code, pre, script,
// style, title, textarea and existing abbr elements is left alone. Longer terms take
// precedence over shorter ones sharing a prefix.
func (a *AbbreviationInjection) ApplyAbbreviations(ctx context.Context, htmlContent string, abbrs []Abbreviation) (string, error) {
	if len(abbrs) == 0 {
		return htmlContent, nil
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	pattern, titles := abbreviationPattern(abbrs)

	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}

	walk(doc, func(n *html.Node) bool {
		switch n.Type {
		case html.ElementNode:
			return !abbrSkip[n.DataAtom]
		case html.TextNode:
			markAbbreviations(n, pattern, titles)
		}
		return true
	})

	return renderHTML(doc, isFragment)
}

// abbreviationPattern builds one alternation over all terms, longest first.
func abbreviationPattern(abbrs []Abbreviation) (*regexp.Regexp, map[string]string) {
	titles := make(map[string]string, len(abbrs))
	terms := make([]string, 0, len(abbrs))
	for _, ab := range abbrs {
		if _, seen := titles[ab.Term]; !seen {
			terms = append(terms, ab.Term)
		}
		titles[ab.Term] = ab.Title
	}

	sort.SliceStable(terms, func(i, j int) bool { return len(terms[i]) > len(terms[j]) })

	quoted := make([]string, len(terms))
	for i, term := range terms {
		quoted[i] = regexp.QuoteMeta(term)
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`), titles
}

// markAbbreviations splits text node n around each match and inserts an
// <abbr> element per occurrence.
func markAbbreviations(n *html.Node, pattern *regexp.Regexp, titles map[string]string) {
	text := n.Data
	matches := pattern.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return
	}

	parent := n.Parent
	last := 0
	for _, m := range matches {
		if m[0] > last {
			parent.InsertBefore(newText(text[last:m[0]]), n)
		}
		term := text[m[0]:m[1]]
		abbr := newElement(atom.Abbr, "title", titles[term])
		abbr.AppendChild(newText(term))
		parent.InsertBefore(abbr, n)
		last = m[1]
	}

	if last < len(text) {
		n.Data = text[last:]
	} else {
		parent.RemoveChild(n)
	}
}
