// Package diag keeps a bounded, per-category buffer of recent log records
// that can be dumped to disk for troubleshooting.
package diag

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// Category groups diagnostic records.
type Category string

const (
	FailedTagging      Category = "failed_tagging"
	NSFWClassification Category = "nsfw_classification"
	GeneralError       Category = "general_error"
	KeywordExtraction  Category = "keyword_extraction"
)

// Categories lists every known category in dump order.
var Categories = []Category{FailedTagging, NSFWClassification, GeneralError, KeywordExtraction}

// CategoryKey is the attribute key that routes a record into a ring.
const CategoryKey = "category"

// DefaultSize is the number of records kept per category.
const DefaultSize = 500

// Attr tags a log call with a category.
func Attr(c Category) slog.Attr {
	return slog.String(CategoryKey, string(c))
}

// Entry is one captured record.
type Entry struct {
	Time    time.Time      `json:"timestamp"`
	Level   string         `json:"level"`
	Message string         `json:"message"`
	Attrs   map[string]any `json:"attrs,omitempty"`
}

type buffers struct {
	mu   sync.Mutex
	size int
	ring map[Category][]Entry
}

func (b *buffers) add(c Category, e Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	buf := append(b.ring[c], e)
	if len(buf) > b.size {
		buf = buf[len(buf)-b.size:]
	}
	b.ring[c] = buf
}

// Ring is a slog.Handler that captures categorized records into bounded
// buffers and forwards every record to an underlying handler.
type Ring struct {
	buf    *buffers
	next   slog.Handler
	attrs  []slog.Attr
	prefix string
}

// NewRing wraps next. Size <= 0 means DefaultSize. A nil next discards
// forwarded records.
func NewRing(next slog.Handler, size int) *Ring {
	if size <= 0 {
		size = DefaultSize
	}
	return &Ring{
		buf:  &buffers{size: size, ring: make(map[Category][]Entry)},
		next: next,
	}
}

// Enabled always captures; forwarding is gated separately by next.
func (r *Ring) Enabled(ctx context.Context, level slog.Level) bool {
	return true
}

// Handle implements slog.Handler.
func (r *Ring) Handle(ctx context.Context, rec slog.Record) error {
	attrs := make(map[string]any, len(r.attrs)+rec.NumAttrs())
	var cat Category
	collect := func(a slog.Attr) bool {
		if a.Key == CategoryKey {
			cat = Category(a.Value.String())
			return true
		}
		attrs[r.prefix+a.Key] = a.Value.Resolve().Any()
		return true
	}
	for _, a := range r.attrs {
		collect(a)
	}
	rec.Attrs(collect)

	if cat != "" {
		for k, v := range attrs {
			if err, ok := v.(error); ok {
				attrs[k] = err.Error()
			}
		}
		r.buf.add(cat, Entry{
			Time:    rec.Time,
			Level:   rec.Level.String(),
			Message: rec.Message,
			Attrs:   attrs,
		})
	}

	if r.next != nil && r.next.Enabled(ctx, rec.Level) {
		return r.next.Handle(ctx, rec)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (r *Ring) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *r
	clone.attrs = append(append([]slog.Attr{}, r.attrs...), attrs...)
	if r.next != nil {
		clone.next = r.next.WithAttrs(attrs)
	}
	return &clone
}

// WithGroup implements slog.Handler.
func (r *Ring) WithGroup(name string) slog.Handler {
	clone := *r
	clone.prefix = r.prefix + name + "."
	if r.next != nil {
		clone.next = r.next.WithGroup(name)
	}
	return &clone
}

// Entries returns a copy of the records captured for c, oldest first.
func (r *Ring) Entries(c Category) []Entry {
	r.buf.mu.Lock()
	defer r.buf.mu.Unlock()
	return append([]Entry(nil), r.buf.ring[c]...)
}

// Counts returns the number of captured records per category.
func (r *Ring) Counts() map[Category]int {
	r.buf.mu.Lock()
	defer r.buf.mu.Unlock()

	counts := make(map[Category]int, len(Categories))
	for _, c := range Categories {
		counts[c] = len(r.buf.ring[c])
	}
	return counts
}

// Clear drops every captured record.
func (r *Ring) Clear() {
	r.buf.mu.Lock()
	defer r.buf.mu.Unlock()
	r.buf.ring = make(map[Category][]Entry)
}

type dump struct {
	Category Category       `json:"category"`
	SavedAt  time.Time      `json:"savedAt"`
	Count    int            `json:"count"`
	Reasons  map[string]int `json:"reasons,omitempty"`
	Entries  []Entry        `json:"entries"`
}

// Save writes one JSON file per non-empty category into dir and returns
// the written paths.
func (r *Ring) Save(dir string, now time.Time) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating diagnostics dir: %w", err)
	}

	stamp := now.UTC().Format("20060102-150405")
	var paths []string
	for _, c := range Categories {
		entries := r.Entries(c)
		if len(entries) == 0 {
			continue
		}

		d := dump{
			Category: c,
			SavedAt:  now.UTC(),
			Count:    len(entries),
			Reasons:  reasonCounts(entries),
			Entries:  entries,
		}
		data, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return paths, fmt.Errorf("encoding %s: %w", c, err)
		}

		path := filepath.Join(dir, fmt.Sprintf("synthcache-%s-%s.json", c, stamp))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("writing %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths, nil
}

func reasonCounts(entries []Entry) map[string]int {
	counts := make(map[string]int)
	for _, e := range entries {
		if reason, ok := e.Attrs["reason"].(string); ok {
			counts[reason]++
		}
	}
	if len(counts) == 0 {
		return nil
	}
	return counts
}
