package model

import (
	"fmt"
	"strings"
)

// PrivacyMode is derived per browsing context and never persisted.
type PrivacyMode int

const (
	ModeNormal PrivacyMode = iota
	ModeIncognito
)

func (m PrivacyMode) String() string {
	if m == ModeIncognito {
		return "incognito"
	}
	return "normal"
}

// ParsePrivacyMode accepts "normal" or "incognito" (case-insensitive).
// An empty string means ModeNormal.
func ParsePrivacyMode(s string) (PrivacyMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal":
		return ModeNormal, nil
	case "incognito", "private":
		return ModeIncognito, nil
	default:
		return ModeNormal, fmt.Errorf("unknown privacy mode %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m PrivacyMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *PrivacyMode) UnmarshalText(b []byte) error {
	parsed, err := ParsePrivacyMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
