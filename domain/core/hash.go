package core

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Hash represents a content fingerprint
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// SelectionHash digests a filter selection plus display options. Equal
// selections hash equal regardless of the order filters were supplied in,
// which is what lets derivation memoization honor filter-set commutativity.
type SelectionHash Hash

// NewSelectionHash creates a selection hash from raw data
func NewSelectionHash(data []byte) SelectionHash { return SelectionHash(NewHash(data)) }

// String returns the string representation
func (h SelectionHash) String() string { return Hash(h).String() }

// ComputeSelectionHash fingerprints a set of canonical filter keys and a map
// of display options. Both inputs are sorted before hashing so the result is
// independent of supply order.
func ComputeSelectionHash(filterKeys []string, options map[string]string) SelectionHash {
	keys := make([]string, len(filterKeys))
	copy(keys, filterKeys)
	sort.Strings(keys)

	var data strings.Builder
	for _, key := range keys {
		data.WriteString(key)
		data.WriteByte(0)
	}

	optKeys := make([]string, 0, len(options))
	for k := range options {
		optKeys = append(optKeys, k)
	}
	sort.Strings(optKeys)

	for _, key := range optKeys {
		data.WriteString(key)
		data.WriteByte('=')
		data.WriteString(options[key])
		data.WriteByte(0)
	}

	return NewSelectionHash([]byte(data.String()))
}
