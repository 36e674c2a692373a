package pipeline

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// BulletinLinks parses a listing page and returns absolute URLs of
// Sanket bulletin PDFs, in document order. A link qualifies when its
// path ends in .pdf and mentions "sanket" (case-insensitive).
func BulletinLinks(pageHTML, baseURL string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}

	doc, err := html.Parse(strings.NewReader(pageHTML))
	if err != nil {
		return nil, fmt.Errorf("parse listing page: %w", err)
	}

	var links []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key != "href" {
					continue
				}
				if resolved, ok := resolveBulletinHref(base, attr.Val); ok {
					links = append(links, resolved)
				}
				break
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links, nil
}

func resolveBulletinHref(base *url.URL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	resolved := base.ResolveReference(ref)
	path := strings.ToLower(resolved.Path)
	if !strings.HasSuffix(path, ".pdf") || !strings.Contains(path, "sanket") {
		return "", false
	}
	return resolved.String(), true
}

// LatestBulletin returns the URL of the newest bulletin on the page.
// The site lists bulletins chronologically, newest last.
func LatestBulletin(pageHTML, baseURL string) (string, error) {
	links, err := BulletinLinks(pageHTML, baseURL)
	if err != nil {
		return "", err
	}
	if len(links) == 0 {
		return "", fmt.Errorf("no Sanket bulletin links found on %s", baseURL)
	}
	return links[len(links)-1], nil
}
