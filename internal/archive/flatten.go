package archive

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// FlattenHTML parses an HTML document and returns its visible text, one
// text node per line. Script, style and head content is dropped. The
// line-per-node shape is what the extraction matchers are written
// against, so it must stay stable.
func FlattenHTML(doc []byte) (string, error) {
	root, err := html.Parse(bytes.NewReader(doc))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var lines []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "head", "template":
				return
			}
		}
		if n.Type == html.TextNode {
			if text := n.Data; strings.TrimSpace(text) != "" {
				lines = append(lines, text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return strings.Join(lines, "\n"), nil
}
