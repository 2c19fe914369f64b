package entities

import "strings"

// ringDelimiter stands in for newlines when a key ring travels through a
// single-line property or environment value
const ringDelimiter = "#"

// SigningConfig is the signing state attached to a project. It is present
// (with whatever material was resolved) even when signing is not required,
// so flipping the flag later needs no reconfiguration.
type SigningConfig struct {
	Required bool
	Material SigningMaterial
	UseAgent bool // sign via the gpg command instead of in-memory keys
}

// SigningMaterial holds the in-memory key material for signing publications
type SigningMaterial struct {
	KeyID      string
	Ring       string // armored key ring, newline-delimited
	Passphrase string
}

// Present reports whether any ring content was supplied
func (m SigningMaterial) Present() bool {
	return m.Ring != ""
}

// DecodeKeyRing restores a ring flattened with the delimiter substitution.
// Inverse of EncodeKeyRing for any input that used the delimiter as its
// line separator.
func DecodeKeyRing(s string) string {
	return strings.ReplaceAll(s, ringDelimiter, "\n")
}

// EncodeKeyRing flattens a multi-line ring onto one line
func EncodeKeyRing(s string) string {
	return strings.ReplaceAll(s, "\n", ringDelimiter)
}
