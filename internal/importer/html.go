// Package importer reads bookmark links out of Netscape bookmark HTML.
package importer

import (
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/nikbrunner/synthcache/internal/model"
)

// Link is one anchor found in the markup.
type Link struct {
	Title     string
	URL       string
	Folder    string // slash-joined H3 path, "" at the top level
	CreatedAt time.Time
}

// Result is the outcome of parsing a document.
type Result struct {
	Links   []Link
	Found   int // anchors with an href, before skipping
	Skipped int // javascript: and data: links
}

// Params converts the links into creation params for one target folder.
// Folder structure from the file is flattened.
func (r Result) Params(parentID string) []model.NewBookmarkParams {
	out := make([]model.NewBookmarkParams, 0, len(r.Links))
	for _, l := range r.Links {
		out = append(out, model.NewBookmarkParams{
			Title:     l.Title,
			URL:       l.URL,
			ParentID:  parentID,
			CreatedAt: l.CreatedAt,
		})
	}
	return out
}

// ParseHTMLBookmarks walks the markup and collects every link.
func ParseHTMLBookmarks(r io.Reader) (Result, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return Result{}, err
	}

	var res Result
	var folderStack []string
	var pendingFolder string

	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "h3":
				// Pushed when the following DL opens.
				pendingFolder = getTextContent(n)
				return

			case "a":
				href := strings.TrimSpace(getAttr(n, "href"))
				if href == "" {
					return
				}
				res.Found++
				if skipScheme(href) {
					res.Skipped++
					return
				}

				title := getTextContent(n)
				if title == "" {
					title = strings.TrimSpace(getAttr(n, "title"))
				}
				if title == "" {
					title = href
				}

				createdAt := time.Now()
				if addDate := getAttr(n, "add_date"); addDate != "" {
					if ts, err := strconv.ParseInt(addDate, 10, 64); err == nil {
						createdAt = time.Unix(ts, 0)
					}
				}

				res.Links = append(res.Links, Link{
					Title:     title,
					URL:       href,
					Folder:    strings.Join(folderStack, "/"),
					CreatedAt: createdAt,
				})
				return

			case "dl":
				pushed := false
				if pendingFolder != "" {
					folderStack = append(folderStack, pendingFolder)
					pendingFolder = ""
					pushed = true
				}
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					parse(c)
				}
				if pushed {
					folderStack = folderStack[:len(folderStack)-1]
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}

	parse(doc)
	return res, nil
}

func skipScheme(href string) bool {
	lower := strings.ToLower(href)
	return strings.HasPrefix(lower, "javascript:") || strings.HasPrefix(lower, "data:")
}

// getTextContent returns the trimmed text content of a node.
func getTextContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(text.String())
}

// getAttr returns the value of an attribute, case-insensitive.
func getAttr(n *html.Node, key string) string {
	key = strings.ToLower(key)
	for _, attr := range n.Attr {
		if strings.ToLower(attr.Key) == key {
			return attr.Val
		}
	}
	return ""
}
