// Package id generates short prefixed identifiers for writes and stored revisions.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// PrefixWrite tags a queued settings write.
	PrefixWrite = "wr"
	// PrefixRevision tags a persisted settings revision.
	PrefixRevision = "rev"

	alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	size     = 12
)

// Generate returns prefix-xxxxxxxxxxxx using a lowercase alphanumeric NanoID.
// Lowercase keeps ids readable in log lines; 12 chars is plenty for one
// device's write history.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.Generate(alphabet, size)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if the system has no entropy.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// NewWrite returns an id for a queued write.
func NewWrite() string { return MustGenerate(PrefixWrite) }

// NewRevision returns an id for a stored revision.
func NewRevision() string { return MustGenerate(PrefixRevision) }
