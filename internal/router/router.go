// Package router decides which folder a bookmark belongs in and rewrites
// its title tags from an analysis signal.
package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/nikbrunner/synthcache/internal/analyzer"
	"github.com/nikbrunner/synthcache/internal/diag"
	"github.com/nikbrunner/synthcache/internal/model"
)

// NSFWTag is appended to every bookmark routed to the private folder.
const NSFWTag = "nsfw"

// Route returns the target folder type. Video always goes private; an
// already private bookmark never moves back on its own.
func Route(existing model.FolderType, hasVideo bool) model.FolderType {
	if hasVideo || existing == model.FolderNSFWHidden {
		return model.FolderNSFWHidden
	}
	return model.FolderNormal
}

// AssembleTags takes up to MaxKeywords keywords and appends the nsfw tag
// for private targets. The result may exceed MaxKeywords by one.
func AssembleTags(keywords []string, target model.FolderType) []string {
	n := min(len(keywords), analyzer.MaxKeywords)
	tags := make([]string, 0, n+1)
	tags = append(tags, keywords[:n]...)
	if target == model.FolderNSFWHidden && !slices.Contains(tags, NSFWTag) {
		tags = append(tags, NSFWTag)
	}
	return tags
}

// RewriteTitle replaces the title's tag suffix. Empty tags leave the title
// unchanged.
func RewriteTitle(title string, tags []string) string {
	return model.WithTags(title, tags)
}

// Store is the subset of the bookmark store the router mutates.
type Store interface {
	FindByURL(ctx context.Context, url string) (model.Bookmark, error)
	Move(ctx context.Context, id, folderID string) error
	SetTitle(ctx context.Context, id, title string) error
}

// Signal is the analysis output for one URL.
type Signal struct {
	URL      string
	Keywords []string
	HasVideo bool
	Mode     model.PrivacyMode
}

// Result is what Apply did.
type Result int

const (
	OutcomeNoBookmark Result = iota
	OutcomeUpdated
	OutcomeUnchanged
)

func (r Result) String() string {
	switch r {
	case OutcomeNoBookmark:
		return "no_bookmark"
	case OutcomeUpdated:
		return "updated"
	default:
		return "unchanged"
	}
}

// Outcome reports the decision and the calls made for one signal.
type Outcome struct {
	Result     Result           `json:"result"`
	BookmarkID string           `json:"bookmarkId,omitempty"`
	Target     model.FolderType `json:"target"`
	Tags       []string         `json:"tags"`
	Moved      bool             `json:"moved"`
	Retitled   bool             `json:"retitled"`
}

// RouteError is a store failure during Apply, with the intended effect.
type RouteError struct {
	Op             string
	BookmarkID     string
	TargetFolderID string
	Target         model.FolderType
	Err            error
}

func (e *RouteError) Error() string {
	return fmt.Sprintf("%s bookmark %s (target %s folder %s): %v", e.Op, e.BookmarkID, e.Target, e.TargetFolderID, e.Err)
}

func (e *RouteError) Unwrap() error {
	return e.Err
}

// Router applies signals against a store.
type Router struct {
	store  Store
	logger *slog.Logger
}

// New creates a Router. A nil logger means slog.Default().
func New(store Store, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{store: store, logger: logger}
}

// Apply routes the bookmark saved under sig.URL. A missing bookmark is
// reported as OutcomeNoBookmark, not an error. Store failures are logged
// and returned as *RouteError; nothing is retried here.
func (r *Router) Apply(ctx context.Context, reg model.FolderRegistry, sig Signal) (Outcome, error) {
	b, err := r.store.FindByURL(ctx, sig.URL)
	if errors.Is(err, model.ErrNotFound) {
		r.logger.Info("no bookmark for url", diag.Attr(diag.FailedTagging),
			"url", sig.URL, "reason", "NO_BOOKMARK_EXISTS", "keywords", sig.Keywords, "hasVideo", sig.HasVideo)
		return Outcome{Result: OutcomeNoBookmark}, nil
	}
	if err != nil {
		return Outcome{}, r.fail("find", b.ID, "", model.FolderOther, err)
	}

	existing := reg.Classify(b.ParentID)
	target := Route(existing, sig.HasVideo)
	tags := AssembleTags(sig.Keywords, target)

	reason := "No video content detected"
	if sig.HasVideo {
		reason = "Video content detected"
	}
	r.logger.Debug("classified", diag.Attr(diag.NSFWClassification),
		"url", sig.URL, "hasVideo", sig.HasVideo, "target", target.String(), "mode", sig.Mode.String(), "reason", reason)

	out := Outcome{Result: OutcomeUnchanged, BookmarkID: b.ID, Target: target, Tags: tags}

	targetID := reg.FolderID(target)
	if targetID != "" && b.ParentID != targetID {
		if err := r.store.Move(ctx, b.ID, targetID); err != nil {
			return out, r.fail("move", b.ID, targetID, target, err)
		}
		out.Moved = true
	}

	if len(tags) == 0 {
		r.logger.Warn("no tags generated", diag.Attr(diag.FailedTagging),
			"url", sig.URL, "bookmarkId", b.ID, "reason", "NO_TAGS_GENERATED")
	} else if title := RewriteTitle(b.Title, tags); title != b.Title {
		if err := r.store.SetTitle(ctx, b.ID, title); err != nil {
			return out, r.fail("set_title", b.ID, targetID, target, err)
		}
		out.Retitled = true
	}

	if out.Moved || out.Retitled {
		out.Result = OutcomeUpdated
	}
	return out, nil
}

func (r *Router) fail(op, id, folderID string, target model.FolderType, err error) error {
	rerr := &RouteError{Op: op, BookmarkID: id, TargetFolderID: folderID, Target: target, Err: err}
	r.logger.Error("routing failed", diag.Attr(diag.GeneralError),
		"op", op, "bookmarkId", id, "targetFolderId", folderID, "target", target.String(), "error", err)
	return rerr
}
