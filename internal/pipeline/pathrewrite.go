package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// RewriteRelativePaths resolves relative image and link references against
// sourceDir and rewrites them as absolute file:// URLs, the way a browser
// resolves them against a base URL. Parent references ("../img.png") are
// resolved like any other. If sourceDir is empty, returns the HTML unchanged.
//
// Rewrites:
//   - img[src]
//   - a[href]
//
// Left untouched:
//   - anchors ("#intro") and empty values
//   - URLs with a scheme (http, https, file, data, mailto) or protocol-relative
//   - values that do not parse as URLs
func RewriteRelativePaths(htmlContent, sourceDir string) (string, error) {
	if sourceDir == "" {
		return htmlContent, nil
	}

	base, err := dirFileURL(sourceDir)
	if err != nil {
		return "", err
	}

	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}

	walk(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		switch n.Data {
		case "img":
			rewriteAttr(n, "src", base)
		case "a":
			rewriteAttr(n, "href", base)
		}
		return true
	})

	return renderHTML(doc, isFragment)
}

// rewriteAttr resolves a single attribute against base if it is relative.
func rewriteAttr(n *html.Node, attrName string, base *url.URL) {
	for i, attr := range n.Attr {
		if attr.Key != attrName {
			continue
		}
		if !isRelativeReference(attr.Val) {
			continue
		}
		ref, err := url.Parse(attr.Val)
		if err != nil {
			continue
		}
		n.Attr[i].Val = base.ResolveReference(ref).String()
	}
}

// isRelativeReference returns true if the value should be resolved against the base.
func isRelativeReference(ref string) bool {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "//") {
		return false
	}
	// Windows drive paths parse as a one-letter scheme.
	if filepath.VolumeName(ref) != "" {
		return false
	}
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return u.Scheme == ""
}

// dirFileURL returns the file:// URL of dir with a trailing slash, so that
// references resolve inside the directory rather than next to it.
func dirFileURL(dir string) (*url.URL, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	u := FileURL(absDir)
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u, nil
}

// FileURL converts an absolute path to a file:// URL.
// Handles both Unix and Windows paths.
func FileURL(absPath string) *url.URL {
	p := filepath.ToSlash(absPath)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p // C:/dir -> /C:/dir
	}
	return &url.URL{Scheme: "file", Path: p}
}
