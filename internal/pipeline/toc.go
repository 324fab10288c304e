package pipeline

import (
	"context"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// TOCInjector defines the contract for TOC injection into HTML.
type TOCInjector interface {
	InjectTOC(ctx context.Context, htmlContent string) (string, error)
}

// TOCInjection replaces [TOC] placeholders with a nested list of headings.
type TOCInjection struct{}

// NewTOCInjection creates a new TOC injector.
func NewTOCInjection() *TOCInjection {
	return &TOCInjection{}
}

// headingInfo represents an extracted heading from HTML.
type headingInfo struct {
	Level int    // 1-6
	ID    string // anchor ID
	Text  string // heading text content
}

var headingLevels = map[atom.Atom]int{
	atom.H1: 1, atom.H2: 2, atom.H3: 3,
	atom.H4: 4, atom.H5: 5, atom.H6: 6,
}

// InjectTOC replaces each paragraph holding only TOCPlaceholder with
// <div class="toc"><ul>...</ul></div> linking every heading that has an id.
// Placeholders found elsewhere (inside a list item, for example) are removed.
// HTML without a placeholder is returned unchanged.
func (t *TOCInjection) InjectTOC(ctx context.Context, htmlContent string) (string, error) {
	if !strings.Contains(htmlContent, TOCPlaceholder) {
		return htmlContent, nil
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}

	headings := extractHeadings(doc)

	var markers []*html.Node
	walk(doc, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == atom.P &&
			strings.TrimSpace(textContent(n)) == TOCPlaceholder {
			markers = append(markers, n)
			return false
		}
		return true
	})

	for _, m := range markers {
		m.Parent.InsertBefore(buildTOC(headings), m)
		m.Parent.RemoveChild(m)
	}

	walk(doc, func(n *html.Node) bool {
		if n.Type == html.TextNode {
			n.Data = strings.ReplaceAll(n.Data, TOCPlaceholder, "")
		}
		return true
	})

	return renderHTML(doc, isFragment)
}

// extractHeadings returns h1-h6 elements with an id, in document order.
func extractHeadings(doc *html.Node) []headingInfo {
	var headings []headingInfo
	walk(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		level, ok := headingLevels[n.DataAtom]
		if !ok {
			return true
		}
		if id, ok := getAttr(n, "id"); ok && id != "" {
			headings = append(headings, headingInfo{
				Level: level,
				ID:    id,
				Text:  strings.Join(strings.Fields(textContent(n)), " "),
			})
		}
		return false
	})
	return headings
}

// depthState maps heading levels to list nesting depth.
// The first heading sets depth 1 and a jump of several levels nests only once.
type depthState struct {
	minLevelSeen int // 0 = not set
	lastDepth    int
}

// next returns the nesting depth (1-based) for the given heading level.
func (d *depthState) next(level int) int {
	if d.minLevelSeen == 0 {
		d.minLevelSeen = level
	}

	depth := max(level-d.minLevelSeen+1, 1)

	// H1 -> H3 becomes depth 1 -> depth 2, not depth 3
	if d.lastDepth > 0 && depth > d.lastDepth+1 {
		depth = d.lastDepth + 1
	}

	d.lastDepth = depth
	return depth
}

// buildTOC creates the table of contents element for the given headings.
func buildTOC(headings []headingInfo) *html.Node {
	div := newElement(atom.Div, "class", "toc")
	root := newElement(atom.Ul)
	div.AppendChild(root)

	type level struct {
		list *html.Node
		item *html.Node // last <li> appended to list
	}
	stack := []level{{list: root}}

	var depths depthState
	for _, h := range headings {
		depth := depths.next(h.Level)

		if depth < len(stack) {
			stack = stack[:depth]
		}
		for depth > len(stack) {
			sub := newElement(atom.Ul)
			stack[len(stack)-1].item.AppendChild(sub)
			stack = append(stack, level{list: sub})
		}

		a := newElement(atom.A, "href", "#"+h.ID)
		a.AppendChild(newText(h.Text))
		li := newElement(atom.Li)
		li.AppendChild(a)

		top := &stack[len(stack)-1]
		top.list.AppendChild(li)
		top.item = li
	}

	return div
}
