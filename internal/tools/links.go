// File: internal/tools/links.go
package tools

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Link describes a single anchor found on a page. URLs are absolute,
// resolved against the page the anchor was found on.
type Link struct {
	Text       string `json:"text"`
	URL        string `json:"url"`
	IsExternal bool   `json:"is_external"`
}

// collectLinks parses the page HTML and returns every anchor with a usable
// href, in document order. When filter is non-empty, only anchors whose text
// or URL contains the filter (case-insensitive) are kept.
func collectLinks(pageHTML, pageURL, filter string) ([]Link, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		base = nil
	}

	root, err := html.Parse(strings.NewReader(pageHTML))
	if err != nil {
		return nil, err
	}

	filter = strings.ToLower(filter)
	links := make([]Link, 0)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if link, ok := anchorLink(n, base); ok {
				if filter == "" || strings.Contains(strings.ToLower(link.Text+" "+link.URL), filter) {
					links = append(links, link)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return links, nil
}

func anchorLink(n *html.Node, base *url.URL) (Link, bool) {
	var href string
	for _, attr := range n.Attr {
		if attr.Key == "href" {
			href = strings.TrimSpace(attr.Val)
			break
		}
	}
	if href == "" || strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "#") {
		return Link{}, false
	}

	resolved, err := url.Parse(href)
	if err != nil {
		return Link{}, false
	}
	if base != nil {
		resolved = base.ResolveReference(resolved)
	}
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return Link{}, false
	}

	external := base == nil || !strings.EqualFold(resolved.Hostname(), base.Hostname())

	return Link{
		Text:       strings.TrimSpace(nodeText(n)),
		URL:        resolved.String(),
		IsExternal: external,
	}, true
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
