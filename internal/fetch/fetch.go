// Package fetch downloads pages and extracts the text signal and video
// markers used for tagging.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/nikbrunner/synthcache/internal/analyzer"
)

const (
	maxRedirects = 10
	maxBodyBytes = 5 << 20
	userAgent    = "synthcache/1.0 (+bookmark tagger)"
)

// Page is everything extracted from one document.
type Page struct {
	Signal        analyzer.PageSignal
	HasVideo      bool
	VideoSelector string // first matching selector, or "url" for adult sites
}

// Fetcher loads pages over HTTP.
type Fetcher struct {
	client *http.Client
}

// New creates a Fetcher whose requests time out after timeout.
func New(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Follow redirects but limit to 10
				if len(via) >= maxRedirects {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
	}
}

// NewWithClient wraps an existing client.
func NewWithClient(client *http.Client) *Fetcher {
	return &Fetcher{client: client}
}

// FetchError is a page that could not be loaded.
type FetchError struct {
	URL        string
	StatusCode int // 0 if the request itself failed
	Reason     string
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: %d %s", e.URL, e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("fetching %s: %s", e.URL, e.Reason)
}

// Fetch downloads rawURL and extracts its Page. Pages with no text yield
// empty strings, not an error.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Page{}, &FetchError{URL: rawURL, Reason: err.Error()}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return Page{}, &FetchError{URL: rawURL, Reason: normalizeError(err.Error())}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return Page{}, &FetchError{URL: rawURL, StatusCode: resp.StatusCode, Reason: http.StatusText(resp.StatusCode)}
	}

	ct := resp.Header.Get("Content-Type")
	if ct != "" && !strings.Contains(ct, "html") {
		// Non-HTML documents carry no DOM signal; only the URL heuristics apply.
		return Page{
			Signal:   analyzer.PageSignal{URL: rawURL, Headings: []string{}},
			HasVideo: analyzer.IsAdultURL(rawURL),
		}, nil
	}

	return Parse(io.LimitReader(resp.Body, maxBodyBytes), rawURL)
}

// Parse extracts a Page from an HTML document served at pageURL.
func Parse(r io.Reader, pageURL string) (Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Page{}, fmt.Errorf("parsing %s: %w", pageURL, err)
	}

	sig := analyzer.PageSignal{
		URL:         pageURL,
		Title:       strings.TrimSpace(doc.Find("title").First().Text()),
		Description: strings.TrimSpace(doc.Find(`meta[name="description"]`).AttrOr("content", "")),
		Headings:    []string{},
	}

	doc.Find("h1, h2, h3").Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			sig.Headings = append(sig.Headings, text)
		}
	})

	var blocks []string
	doc.Find("p, li, h1, h2, h3, h4, h5, article").Each(func(_ int, s *goquery.Selection) {
		blocks = append(blocks, s.Text())
	})
	sig.VisibleText = strings.Join(blocks, "\n")

	page := Page{Signal: sig}
	page.HasVideo, page.VideoSelector = detectVideo(doc, pageURL)
	return page, nil
}

func detectVideo(doc *goquery.Document, pageURL string) (bool, string) {
	if analyzer.IsAdultURL(pageURL) {
		return true, "url"
	}
	for _, sel := range analyzer.VideoSelectors {
		if doc.Find(sel).Length() > 0 {
			return true, sel
		}
	}
	return false, ""
}

// normalizeError simplifies verbose error messages into readable categories.
func normalizeError(errStr string) string {
	lower := strings.ToLower(errStr)

	switch {
	case strings.Contains(lower, "no such host"):
		return "DNS failure"
	case strings.Contains(lower, "context deadline exceeded"),
		strings.Contains(lower, "timeout"):
		return "Timeout"
	case strings.Contains(lower, "connection refused"):
		return "Connection refused"
	case strings.Contains(lower, "certificate"):
		return "TLS/certificate error"
	case strings.Contains(lower, "network is unreachable"):
		return "Network unreachable"
	case strings.Contains(lower, "tls:"):
		return "TLS error"
	default:
		return errStr
	}
}
