package crawler

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Parser extracts the metadata of a source page.
type Parser struct {
	// baseURL is the URL of the page being parsed, used for resolving relative URLs.
	baseURL *url.URL
}

// PageInfo holds what a source page says about itself.
type PageInfo struct {
	// Title is the text of the first <title> element.
	Title string

	// MetaTags maps meta names and OpenGraph properties to their content.
	MetaTags map[string]string

	// Canonical is the resolved <link rel="canonical"> URL.
	Canonical string

	// Links contains all resolved anchor targets.
	Links []string
}

// BestTitle returns the page title, falling back to og:title and then twitter:title.
func (p *PageInfo) BestTitle() string {
	for _, t := range []string{p.Title, p.MetaTags["og:title"], p.MetaTags["twitter:title"]} {
		if t = collapseSpace(t); t != "" {
			return t
		}
	}
	return ""
}

// Description returns the meta description, falling back to og:description.
func (p *PageInfo) Description() string {
	if d := collapseSpace(p.MetaTags["description"]); d != "" {
		return d
	}
	return collapseSpace(p.MetaTags["og:description"])
}

// NewParser creates a new HTML parser with the given base URL.
// The base URL is used to resolve relative links.
func NewParser(baseURL string) (*Parser, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	return &Parser{baseURL: u}, nil
}

// Parse parses HTML content in a single pass.
func (p *Parser) Parse(content io.Reader) (*PageInfo, error) {
	doc, err := html.Parse(content)
	if err != nil {
		return nil, err
	}

	info := &PageInfo{
		MetaTags: make(map[string]string),
		Links:    make([]string, 0),
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			p.processElement(n, info)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return info, nil
}

func (p *Parser) processElement(n *html.Node, info *PageInfo) {
	switch n.Data {
	case "title":
		if info.Title == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
			info.Title = collapseSpace(n.FirstChild.Data)
		}

	case "a":
		if resolved := p.resolveURL(getAttr(n, "href")); resolved != "" {
			info.Links = append(info.Links, resolved)
		}

	case "meta":
		name := getAttr(n, "name")
		if name == "" {
			name = getAttr(n, "property") // OpenGraph uses property
		}
		content := getAttr(n, "content")
		if name != "" && content != "" {
			name = strings.ToLower(name)
			if _, seen := info.MetaTags[name]; !seen {
				info.MetaTags[name] = content
			}
		}

	case "link":
		if strings.EqualFold(getAttr(n, "rel"), "canonical") && info.Canonical == "" {
			info.Canonical = p.resolveURL(getAttr(n, "href"))
		}
	}
}

// resolveURL resolves a relative URL against the base URL.
// Non-navigational schemes and fragments resolve to "".
func (p *Parser) resolveURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" {
		return ""
	}
	for _, prefix := range []string{"javascript:", "mailto:", "tel:", "data:"} {
		if strings.HasPrefix(strings.ToLower(href), prefix) {
			return ""
		}
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return p.baseURL.ResolveReference(u).String()
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
