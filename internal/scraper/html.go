package scraper

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// Parse parses an HTML document. x/net/html never fails on malformed markup,
// so the error is only for read failures.
func Parse(doc string) (*html.Node, error) {
	return html.Parse(strings.NewReader(doc))
}

// Attr returns the attribute value or "".
func Attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func HasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(Attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// Match selects element nodes by tag (empty = any), class and id.
type Match struct {
	Tag   string
	Class string
	ID    string
}

func (m Match) matches(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if m.Tag != "" && n.Data != m.Tag {
		return false
	}
	if m.Class != "" && !HasClass(n, m.Class) {
		return false
	}
	if m.ID != "" && Attr(n, "id") != m.ID {
		return false
	}
	return true
}

// FindAll returns matching descendants of root in document order.
func FindAll(root *html.Node, m Match) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if m.matches(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return out
}

func FindFirst(root *html.Node, m Match) *html.Node {
	var found *html.Node
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if m.matches(n) {
			found = n
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	if root != nil {
		walk(root)
	}
	return found
}

var skipTags = map[string]bool{
	"script": true, "style": true, "noscript": true, "iframe": true,
}

// Text returns the node's text with pieces joined by single spaces.
func Text(n *html.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skipTags[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return NormalizeText(sb.String())
}

// FindText returns the text of the first match, or "".
func FindText(root *html.Node, m Match) string {
	return Text(FindFirst(root, m))
}

// NormalizeText applies NFC and collapses whitespace.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// Link is an anchor with its href resolved against the page URL.
type Link struct {
	Text string
	Href string
}

// ExtractLinks returns every <a href> in document order.
func ExtractLinks(root *html.Node, base string) []Link {
	baseURL, _ := url.Parse(base)
	var links []Link
	for _, a := range FindAll(root, Match{Tag: "a"}) {
		href := strings.TrimSpace(Attr(a, "href"))
		if href == "" {
			continue
		}
		links = append(links, Link{Text: Text(a), Href: Resolve(baseURL, href)})
	}
	return links
}

// Resolve makes href absolute against base.
func Resolve(base *url.URL, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") || base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
