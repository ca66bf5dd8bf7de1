package webpage

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/mineworks/paperminer/internal/fault"
)

// DefaultTitle is used when a page carries no <title> element.
const DefaultTitle = "No Title Found"

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Page is the readable content of a fetched web page.
type Page struct {
	URL   string
	Title string
	Text  string
}

// Fetcher downloads web pages and extracts their readable text.
type Fetcher struct {
	client *http.Client
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// NewFetcher creates a Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads the page at url and returns its title and visible text.
// Network and HTTP status failures surface as upstream faults.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fault.Wrapf(fault.Validation, err, "webpage: build request for %s", url)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fault.Wrapf(fault.Upstream, err, "webpage: fetch %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fault.Errorf(fault.Upstream, "webpage: fetch %s: status %d", url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fault.Wrapf(fault.Upstream, err, "webpage: parse %s", url)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = DefaultTitle
	}

	var text string
	if len(doc.Nodes) > 0 {
		text = visibleText(doc.Nodes[0])
	}

	return &Page{URL: url, Title: title, Text: text}, nil
}

// visibleText walks the document tree and joins trimmed text nodes with
// single spaces, skipping script and style content.
func visibleText(root *html.Node) string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			}
		}
		if n.Type == html.TextNode {
			if trimmed := strings.TrimSpace(n.Data); trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return strings.Join(parts, " ")
}
