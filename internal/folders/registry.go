// Package folders resolves the two managed bookmark folders and persists
// their ids.
package folders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nikbrunner/synthcache/internal/kv"
	"github.com/nikbrunner/synthcache/internal/model"
)

const recordKey = "folders"

// Names are the folder titles to create or resolve.
type Names struct {
	Root    string
	Normal  string
	Private string
}

// DefaultNames are the titles used when none are configured.
var DefaultNames = Names{Root: "SynthCache", Normal: "Normal Browsing", Private: "Private Content"}

// Store is the subset of the bookmark store the registry needs.
type Store interface {
	CreateFolder(ctx context.Context, params model.NewFolderParams) (model.Folder, error)
	GetFolder(ctx context.Context, id string) (model.Folder, error)
	FindFolder(ctx context.Context, title string, parentID *string) (model.Folder, error)
}

// Records persists the registry record.
type Records interface {
	GetJSON(bucket []byte, key string, out any) error
	PutJSON(bucket []byte, key string, v any) error
}

// Registry loads the folder ids once and hands out copies. It holds no
// global state; callers pass Current() into the router. Safe for
// concurrent use; Load, Ensure and Refresh are serialized.
type Registry struct {
	store   Store
	records Records
	names   Names
	logger  *slog.Logger

	resolveMu sync.Mutex

	mu      sync.RWMutex
	current model.FolderRegistry
}

// New creates a Registry. Empty names fall back to DefaultNames.
func New(store Store, records Records, names Names, logger *slog.Logger) *Registry {
	if names.Root == "" {
		names.Root = DefaultNames.Root
	}
	if names.Normal == "" {
		names.Normal = DefaultNames.Normal
	}
	if names.Private == "" {
		names.Private = DefaultNames.Private
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{store: store, records: records, names: names, logger: logger}
}

// Current returns the loaded ids. It is the zero value before Load.
func (r *Registry) Current() model.FolderRegistry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

func (r *Registry) setCurrent(reg model.FolderRegistry) {
	r.mu.Lock()
	r.current = reg
	r.mu.Unlock()
}

// Load uses the persisted record when both ids still resolve to folders
// under one root, and otherwise runs Ensure.
func (r *Registry) Load(ctx context.Context) (model.FolderRegistry, error) {
	r.resolveMu.Lock()
	defer r.resolveMu.Unlock()
	return r.load(ctx)
}

func (r *Registry) load(ctx context.Context) (model.FolderRegistry, error) {
	var saved model.FolderRegistry
	err := r.records.GetJSON(kv.BucketSettings, recordKey, &saved)
	switch {
	case err == nil && saved.Valid():
		if ok, verr := r.verify(ctx, saved); verr != nil {
			return model.FolderRegistry{}, verr
		} else if ok {
			r.setCurrent(saved)
			return saved, nil
		}
		r.logger.Warn("stored folder ids are stale, resolving again", "normal", saved.NormalFolderID, "private", saved.NSFWHiddenFolderID)
	case err != nil && !kv.IsNotFound(err):
		return model.FolderRegistry{}, fmt.Errorf("reading folder registry: %w", err)
	}
	return r.ensure(ctx)
}

func (r *Registry) verify(ctx context.Context, reg model.FolderRegistry) (bool, error) {
	normal, err := r.store.GetFolder(ctx, reg.NormalFolderID)
	if errors.Is(err, model.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	private, err := r.store.GetFolder(ctx, reg.NSFWHiddenFolderID)
	if errors.Is(err, model.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if normal.ParentID == nil || private.ParentID == nil || *normal.ParentID != *private.ParentID {
		return false, nil
	}
	return true, nil
}

// Ensure finds or creates the root folder and its two children, then
// persists their ids.
func (r *Registry) Ensure(ctx context.Context) (model.FolderRegistry, error) {
	r.resolveMu.Lock()
	defer r.resolveMu.Unlock()
	return r.ensure(ctx)
}

func (r *Registry) ensure(ctx context.Context) (model.FolderRegistry, error) {
	root, err := r.findOrCreate(ctx, r.names.Root, nil)
	if err != nil {
		return model.FolderRegistry{}, err
	}
	normal, err := r.findOrCreate(ctx, r.names.Normal, &root.ID)
	if err != nil {
		return model.FolderRegistry{}, err
	}
	private, err := r.findOrCreate(ctx, r.names.Private, &root.ID)
	if err != nil {
		return model.FolderRegistry{}, err
	}

	reg := model.FolderRegistry{NormalFolderID: normal.ID, NSFWHiddenFolderID: private.ID}
	if err := r.records.PutJSON(kv.BucketSettings, recordKey, reg); err != nil {
		return model.FolderRegistry{}, fmt.Errorf("saving folder registry: %w", err)
	}

	r.setCurrent(reg)
	r.logger.Info("folder registry ready", "normal", reg.NormalFolderID, "private", reg.NSFWHiddenFolderID)
	return reg, nil
}

// Refresh re-reads the registry from storage.
func (r *Registry) Refresh(ctx context.Context) (model.FolderRegistry, error) {
	return r.Load(ctx)
}

func (r *Registry) findOrCreate(ctx context.Context, title string, parentID *string) (model.Folder, error) {
	f, err := r.store.FindFolder(ctx, title, parentID)
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return model.Folder{}, err
	}

	f, err = r.store.CreateFolder(ctx, model.NewFolderParams{Title: title, ParentID: parentID})
	if err != nil {
		return model.Folder{}, err
	}
	r.logger.Info("created folder", "title", title, "id", f.ID)
	return f, nil
}
