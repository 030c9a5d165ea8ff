package vault

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nikbrunner/synthcache/internal/diag"
	"github.com/nikbrunner/synthcache/internal/kv"
	"github.com/nikbrunner/synthcache/internal/model"
)

const verifierKey = "verifier"

const canary = "synthcache-vault"

// Entry is the plaintext of one vault record.
type Entry struct {
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	DateAdded time.Time `json:"dateAdded"`
}

// Records is the key-value storage the vault persists to.
type Records interface {
	GetJSON(bucket []byte, key string, out any) error
	PutJSONIfAbsent(bucket []byte, key string, v any) (bool, error)
	Append(bucket []byte, v any) (string, error)
	Delete(bucket []byte, key string) error
	ForEach(bucket []byte, fn func(key string, value []byte) error) error
}

// Bookmarks is the normal bookmark store entries are removed from.
type Bookmarks interface {
	SearchURL(ctx context.Context, url string) ([]model.Bookmark, error)
	Remove(ctx context.Context, id string) error
}

// FlagResult describes a completed flag-as-private.
type FlagResult struct {
	Key     string `json:"key"`
	Removed int    `json:"removed"`
}

// Vault stores sealed entries under a single shared passphrase.
type Vault struct {
	records   Records
	bookmarks Bookmarks
	codec     *Codec
	logger    *slog.Logger
	now       func() time.Time
}

// New creates a Vault. A nil codec means NewCodec(); a nil logger means
// slog.Default().
func New(records Records, bookmarks Bookmarks, codec *Codec, logger *slog.Logger) *Vault {
	if codec == nil {
		codec = NewCodec()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Vault{records: records, bookmarks: bookmarks, codec: codec, logger: logger, now: time.Now}
}

// Initialized reports whether a passphrase has been set.
func (v *Vault) Initialized() (bool, error) {
	var s Sealed
	err := v.records.GetJSON(kv.BucketVaultMeta, verifierKey, &s)
	if kv.IsNotFound(err) {
		return false, nil
	}
	return err == nil, err
}

// checkPassphrase verifies passphrase against the stored verifier,
// creating the verifier when the vault is new. When two callers race to
// create it, the loser is checked against the winner's verifier.
func (v *Vault) checkPassphrase(passphrase string, create bool) (bool, error) {
	var s Sealed
	err := v.records.GetJSON(kv.BucketVaultMeta, verifierKey, &s)
	if kv.IsNotFound(err) {
		if !create {
			return false, nil
		}
		sealed, err := v.codec.Encrypt(canary, passphrase)
		if err != nil {
			return false, err
		}
		stored, err := v.records.PutJSONIfAbsent(kv.BucketVaultMeta, verifierKey, sealed)
		if err != nil {
			return false, fmt.Errorf("storing verifier: %w", err)
		}
		if stored {
			return true, nil
		}
		err = v.records.GetJSON(kv.BucketVaultMeta, verifierKey, &s)
	}
	if err != nil {
		return false, fmt.Errorf("reading verifier: %w", err)
	}

	var got string
	if err := v.codec.Decrypt(s, passphrase, &got); err != nil || got != canary {
		return false, ErrVaultAuth
	}
	return true, nil
}

// FlagAsPrivate seals the entry into the vault, confirms it decrypts,
// and only then removes matching bookmarks from the normal store. When
// removal fails the entry stays in the vault and the error is returned;
// the bookmark is never in neither place.
func (v *Vault) FlagAsPrivate(ctx context.Context, e Entry, passphrase string) (FlagResult, error) {
	if passphrase == "" {
		return FlagResult{}, ErrEmptyPassphrase
	}
	if e.URL == "" {
		return FlagResult{}, errors.New("vault: url required")
	}
	if e.DateAdded.IsZero() {
		e.DateAdded = v.now()
	}

	if _, err := v.checkPassphrase(passphrase, true); err != nil {
		return FlagResult{}, err
	}

	sealed, err := v.codec.Encrypt(e, passphrase)
	if err != nil {
		return FlagResult{}, err
	}
	key, err := v.records.Append(kv.BucketVault, sealed)
	if err != nil {
		return FlagResult{}, fmt.Errorf("storing vault entry: %w", err)
	}

	if err := v.confirm(key, e, passphrase); err != nil {
		if derr := v.records.Delete(kv.BucketVault, key); derr != nil {
			v.logger.Error("discarding unconfirmed vault entry failed", diag.Attr(diag.GeneralError), "key", key, "error", derr)
		}
		return FlagResult{}, fmt.Errorf("confirming vault entry: %w", err)
	}

	res := FlagResult{Key: key}
	existing, err := v.bookmarks.SearchURL(ctx, e.URL)
	if err != nil {
		v.logger.Error("vault entry stored but bookmark lookup failed", diag.Attr(diag.GeneralError), "url", e.URL, "key", key, "error", err)
		return res, fmt.Errorf("looking up bookmarks for %s: %w", e.URL, err)
	}
	for _, b := range existing {
		if err := v.bookmarks.Remove(ctx, b.ID); err != nil {
			v.logger.Error("vault entry stored but bookmark removal failed", diag.Attr(diag.GeneralError),
				"op", "remove", "bookmarkId", b.ID, "url", e.URL, "key", key, "error", err)
			return res, fmt.Errorf("removing bookmark %s: %w", b.ID, err)
		}
		res.Removed++
	}

	v.logger.Info("flagged as private", "url", e.URL, "removed", res.Removed)
	return res, nil
}

func (v *Vault) confirm(key string, want Entry, passphrase string) error {
	var s Sealed
	if err := v.records.GetJSON(kv.BucketVault, key, &s); err != nil {
		return err
	}
	var got Entry
	if err := v.codec.Decrypt(s, passphrase, &got); err != nil {
		return err
	}
	if got.URL != want.URL {
		return fmt.Errorf("read back %q, want %q", got.URL, want.URL)
	}
	return nil
}

// Unlock decrypts every entry. A wrong passphrase is ErrVaultAuth; an
// empty vault unlocks with no entries. Entries that fail to decrypt are
// skipped and logged.
func (v *Vault) Unlock(passphrase string) ([]Entry, error) {
	if passphrase == "" {
		return nil, ErrEmptyPassphrase
	}

	ok, err := v.checkPassphrase(passphrase, false)
	if err != nil {
		return nil, err
	}
	entries := []Entry{}
	if !ok {
		return entries, nil
	}

	err = v.records.ForEach(kv.BucketVault, func(key string, value []byte) error {
		var s Sealed
		var e Entry
		if err := json.Unmarshal(value, &s); err != nil {
			v.logger.Warn("skipping unreadable vault entry", diag.Attr(diag.GeneralError), "key", key, "error", err)
			return nil
		}
		if err := v.codec.Decrypt(s, passphrase, &e); err != nil {
			v.logger.Warn("skipping undecryptable vault entry", diag.Attr(diag.GeneralError), "key", key)
			return nil
		}
		entries = append(entries, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading vault: %w", err)
	}
	return entries, nil
}
