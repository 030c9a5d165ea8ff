// Package vault seals private bookmarks with a passphrase.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/pbkdf2"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

const (
	Iterations = 100_000
	SaltSize   = 16
	IVSize     = 12
	KeySize    = 32
)

// ErrVaultAuth covers both a wrong passphrase and corrupt data.
var ErrVaultAuth = errors.New("vault: invalid passphrase or corrupt data")

// ErrEmptyPassphrase is returned when no passphrase is given.
var ErrEmptyPassphrase = errors.New("vault: passphrase required")

// Sealed is an encrypted JSON document.
type Sealed struct {
	Cipher []byte `json:"encryptedData"`
	IV     []byte `json:"iv"`
	Salt   []byte `json:"salt"`
}

// Codec encrypts values with a PBKDF2-SHA256 derived AES-256-GCM key.
type Codec struct {
	Iterations int
	Rand       io.Reader
}

// NewCodec returns a Codec with the default iteration count.
func NewCodec() *Codec {
	return &Codec{Iterations: Iterations, Rand: rand.Reader}
}

func (c *Codec) aead(passphrase string, salt []byte) (cipher.AEAD, error) {
	iter := c.Iterations
	if iter <= 0 {
		iter = Iterations
	}
	key, err := pbkdf2.Key(sha256.New, passphrase, salt, iter, KeySize)
	if err != nil {
		return nil, fmt.Errorf("deriving key: %w", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func (c *Codec) random(n int) ([]byte, error) {
	r := c.Rand
	if r == nil {
		r = rand.Reader
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Encrypt marshals v to JSON and seals it under passphrase with a fresh
// salt and IV.
func (c *Codec) Encrypt(v any, passphrase string) (Sealed, error) {
	if passphrase == "" {
		return Sealed{}, ErrEmptyPassphrase
	}

	plain, err := json.Marshal(v)
	if err != nil {
		return Sealed{}, fmt.Errorf("encoding: %w", err)
	}
	salt, err := c.random(SaltSize)
	if err != nil {
		return Sealed{}, fmt.Errorf("generating salt: %w", err)
	}
	iv, err := c.random(IVSize)
	if err != nil {
		return Sealed{}, fmt.Errorf("generating iv: %w", err)
	}

	gcm, err := c.aead(passphrase, salt)
	if err != nil {
		return Sealed{}, err
	}
	return Sealed{Cipher: gcm.Seal(nil, iv, plain, nil), IV: iv, Salt: salt}, nil
}

// Decrypt opens s and unmarshals the JSON into out. Any failure to
// authenticate or decode is ErrVaultAuth.
func (c *Codec) Decrypt(s Sealed, passphrase string, out any) error {
	if passphrase == "" {
		return ErrEmptyPassphrase
	}
	if len(s.IV) != IVSize || len(s.Salt) == 0 {
		return ErrVaultAuth
	}

	gcm, err := c.aead(passphrase, s.Salt)
	if err != nil {
		return ErrVaultAuth
	}
	plain, err := gcm.Open(nil, s.IV, s.Cipher, nil)
	if err != nil {
		return ErrVaultAuth
	}
	if err := json.Unmarshal(plain, out); err != nil {
		return ErrVaultAuth
	}
	return nil
}
