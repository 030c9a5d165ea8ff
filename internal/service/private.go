package service

import (
	"context"
	"time"

	"github.com/nikbrunner/synthcache/internal/vault"
)

// FlagPrivate moves a page into the encrypted vault and removes its
// bookmarks from the store.
func (s *Service) FlagPrivate(ctx context.Context, url, title, passphrase string) (vault.FlagResult, error) {
	if title == "" {
		title = url
	}
	return s.vault.FlagAsPrivate(ctx, vault.Entry{
		URL:       url,
		Title:     title,
		DateAdded: s.now().UTC().Truncate(time.Second),
	}, passphrase)
}

// UnlockVault decrypts the vault entries.
func (s *Service) UnlockVault(passphrase string) ([]vault.Entry, error) {
	return s.vault.Unlock(passphrase)
}

// VaultInitialized reports whether a vault passphrase has been set.
func (s *Service) VaultInitialized() (bool, error) {
	return s.vault.Initialized()
}
