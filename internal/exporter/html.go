// Package exporter writes bookmarks as Netscape bookmark HTML.
package exporter

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikbrunner/synthcache/internal/model"
)

// DefaultExportPath returns the default export file path.
// Format: ~/Downloads/synthcache-export-YYYY-MM-DD.html
func DefaultExportPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("synthcache-export-%s.html", time.Now().Format("2006-01-02"))
	return filepath.Join(home, "Downloads", filename), nil
}

// ExportHTML renders the snapshot. Each folder becomes one H3 section
// holding its bookmarks; bookmarks outside the listed folders go at the top
// level. Tags are written to a TAGS attribute and stripped from the title.
func ExportHTML(snap *model.Snapshot) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>Bookmarks</TITLE>\n")
	b.WriteString("<H1>Bookmarks</H1>\n")
	b.WriteString("<DL><p>\n")

	listed := make(map[string]bool, len(snap.Folders))
	for _, folder := range snap.Folders {
		listed[folder.ID] = true
		bookmarks := snap.InFolder(folder.ID)
		if len(bookmarks) == 0 {
			continue
		}

		fmt.Fprintf(&b, "    <DT><H3 ADD_DATE=\"%d\">%s</H3>\n", folder.CreatedAt.Unix(), html.EscapeString(folder.Title))
		b.WriteString("    <DL><p>\n")
		for _, bm := range bookmarks {
			writeBookmark(&b, bm, 2)
		}
		b.WriteString("    </DL><p>\n")
	}

	for _, bm := range snap.Bookmarks {
		if !listed[bm.ParentID] {
			writeBookmark(&b, bm, 1)
		}
	}

	b.WriteString("</DL><p>\n")
	return b.String()
}

func writeBookmark(b *strings.Builder, bm model.Bookmark, indent int) {
	prefix := strings.Repeat("    ", indent)
	tags := ""
	if len(bm.Tags) > 0 {
		tags = fmt.Sprintf(" TAGS=\"%s\"", html.EscapeString(strings.Join(bm.Tags, ",")))
	}
	fmt.Fprintf(b,
		"%s<DT><A HREF=\"%s\" ADD_DATE=\"%d\"%s>%s</A>\n",
		prefix,
		html.EscapeString(bm.URL),
		bm.CreatedAt.Unix(),
		tags,
		html.EscapeString(bm.DisplayTitle()),
	)
}
