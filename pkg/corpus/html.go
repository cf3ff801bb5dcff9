package corpus

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// DefaultSelector matches the bold linked names in a table of search results.
const DefaultSelector = "tr td b a"

// ErrEmptySelector is returned when a selector has no element names.
var ErrEmptySelector = errors.New("corpus: selector has no element names")

// Selector is a descendant selector made of element names only, e.g. "tr td a".
// An element matches when its name equals the last part and every earlier part
// names one of its ancestors, in order from outermost to innermost.
type Selector []string

// ParseSelector splits a whitespace-separated list of element names.
func ParseSelector(s string) (Selector, error) {
	parts := strings.Fields(strings.ToLower(s))
	if len(parts) == 0 {
		return nil, ErrEmptySelector
	}
	return Selector(parts), nil
}

func (s Selector) String() string {
	return strings.Join(s, " ")
}

// matches reports whether an element named tag, with the given ancestor names
// (outermost first), is selected.
func (s Selector) matches(tag string, ancestors []string) bool {
	if len(s) == 0 || tag != s[len(s)-1] {
		return false
	}
	j := len(s) - 2
	for i := len(ancestors) - 1; i >= 0 && j >= 0; i-- {
		if ancestors[i] == s[j] {
			j--
		}
	}
	return j < 0
}

// ExtractNames parses an HTML document and returns the normalized text content
// of every element matched by sel, in document order. Character references are
// decoded by the parser and markup nested inside a match contributes only its
// text. Matches that normalize to an empty string are dropped.
func ExtractNames(r io.Reader, sel Selector, foldDiacritics bool) ([]string, error) {
	if len(sel) == 0 {
		return nil, ErrEmptySelector
	}
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	var names []string
	var ancestors []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if sel.matches(n.Data, ancestors) {
				if name := Normalize(textContent(n), foldDiacritics); name != "" {
					names = append(names, name)
				}
			}
			ancestors = append(ancestors, n.Data)
			defer func() { ancestors = ancestors[:len(ancestors)-1] }()
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	return names, nil
}

// textContent concatenates every text node below n.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			collect(child)
		}
	}
	collect(n)
	return sb.String()
}
