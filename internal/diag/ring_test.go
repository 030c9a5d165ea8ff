package diag

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRing_CapturesByCategory(t *testing.T) {
	var out bytes.Buffer
	ring := NewRing(slog.NewTextHandler(&out, nil), 10)
	logger := slog.New(ring)

	logger.Warn("no bookmark", Attr(FailedTagging), "url", "https://a.example", "reason", "NO_BOOKMARK_EXISTS")
	logger.Error("move failed", Attr(GeneralError), "error", errors.New("boom"))
	logger.Info("uncategorized")

	failed := ring.Entries(FailedTagging)
	if len(failed) != 1 {
		t.Fatalf("expected 1 failed_tagging entry, got %d", len(failed))
	}
	if failed[0].Attrs["url"] != "https://a.example" {
		t.Errorf("unexpected attrs: %v", failed[0].Attrs)
	}
	if _, ok := failed[0].Attrs[CategoryKey]; ok {
		t.Error("category key should not be copied into attrs")
	}

	general := ring.Entries(GeneralError)
	if len(general) != 1 || general[0].Attrs["error"] != "boom" {
		t.Errorf("expected error rendered as string, got %+v", general)
	}

	if !strings.Contains(out.String(), "uncategorized") {
		t.Error("expected uncategorized record to be forwarded")
	}
}

func TestRing_Bounded(t *testing.T) {
	ring := NewRing(nil, 3)
	logger := slog.New(ring)

	for i := range 5 {
		logger.Info("item", Attr(KeywordExtraction), "n", i)
	}

	entries := ring.Entries(KeywordExtraction)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Attrs["n"] != int64(2) {
		t.Errorf("expected oldest kept entry n=2, got %v", entries[0].Attrs["n"])
	}
}

func TestRing_WithAttrsCarriesCategory(t *testing.T) {
	ring := NewRing(nil, 0)
	logger := slog.New(ring).With(Attr(NSFWClassification))

	logger.Info("classified", "hasVideo", true)

	if got := ring.Counts()[NSFWClassification]; got != 1 {
		t.Errorf("expected 1 nsfw entry, got %d", got)
	}
}

func TestRing_SaveAndClear(t *testing.T) {
	ring := NewRing(nil, 0)
	logger := slog.New(ring)
	logger.Warn("no tags", Attr(FailedTagging), "reason", "NO_TAGS_GENERATED")
	logger.Warn("no bookmark", Attr(FailedTagging), "reason", "NO_BOOKMARK_EXISTS")
	logger.Warn("no bookmark", Attr(FailedTagging), "reason", "NO_BOOKMARK_EXISTS")

	dir := filepath.Join(t.TempDir(), "diag")
	now := time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)
	paths, err := ring.Save(dir, now)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if len(paths) != 1 {
		t.Fatalf("expected 1 file, got %v", paths)
	}
	if filepath.Base(paths[0]) != "synthcache-failed_tagging-20250301-123000.json" {
		t.Errorf("unexpected file name %s", paths[0])
	}

	data, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatal(err)
	}
	var d dump
	if err := json.Unmarshal(data, &d); err != nil {
		t.Fatal(err)
	}
	if d.Count != 3 || d.Reasons["NO_BOOKMARK_EXISTS"] != 2 {
		t.Errorf("unexpected dump: %+v", d)
	}

	ring.Clear()
	for c, n := range ring.Counts() {
		if n != 0 {
			t.Errorf("category %s still has %d entries", c, n)
		}
	}
}
