package models

import (
	"fmt"
	"strings"
)

// Algorithm identifies a digest algorithm used for blocklist matching
type Algorithm string

const (
	MD5    Algorithm = "md5"
	SHA1   Algorithm = "sha1"
	SHA256 Algorithm = "sha256"
)

// DefaultAlgorithms is the order in which blocklists are consulted
var DefaultAlgorithms = []Algorithm{MD5, SHA1, SHA256}

// ParseAlgorithm converts a name such as "SHA-256" or "sha256" to an Algorithm
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "") {
	case "md5":
		return MD5, nil
	case "sha1":
		return SHA1, nil
	case "sha256":
		return SHA256, nil
	}
	return "", fmt.Errorf("%w: unknown algorithm %q", ErrDigest, name)
}

// Size returns the raw digest length in bytes, or 0 for an unknown algorithm
func (a Algorithm) Size() int {
	switch a {
	case MD5:
		return 16
	case SHA1:
		return 20
	case SHA256:
		return 32
	}
	return 0
}

// HexLen returns the length of the hex-encoded digest
func (a Algorithm) HexLen() int {
	return a.Size() * 2
}

// Label returns the display name used in prompts and get-hash output
func (a Algorithm) Label() string {
	return strings.ToUpper(string(a))
}

// Digest is a hex-encoded fingerprint produced by one algorithm
type Digest struct {
	Algorithm Algorithm `json:"algorithm"`
	Hex       string    `json:"hex"`
}

// Valid reports whether the hex string has the algorithm's length and is
// lowercase hexadecimal
func (d Digest) Valid() bool {
	if d.Algorithm.Size() == 0 || len(d.Hex) != d.Algorithm.HexLen() {
		return false
	}
	for i := 0; i < len(d.Hex); i++ {
		c := d.Hex[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			return false
		}
	}
	return true
}

func (d Digest) String() string {
	return fmt.Sprintf("%s:%s", d.Algorithm, d.Hex)
}
