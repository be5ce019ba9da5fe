package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
	"unicode"
)

// EmbeddingRecord is one stored topic embedding. Records are append-only:
// inserted on admission, never mutated, only aged out by retention.
type EmbeddingRecord struct {
	// Fingerprint is the stable content-derived identifier of the record.
	Fingerprint string

	// Vector is the embedding of the topic text.
	Vector []float32

	// CreatedAt is when the record was admitted.
	CreatedAt time.Time

	// TopicRef is the admitted topic text, kept for diagnostics.
	TopicRef string
}

// Neighbor is a nearest-neighbour query result from the embedding store.
type Neighbor struct {
	// Fingerprint identifies the stored record.
	Fingerprint string

	// Similarity is the cosine similarity to the query vector (0-1).
	Similarity float64
}

// RetentionPolicy caps growth of the embedding store. Zero values disable
// the corresponding limit.
type RetentionPolicy struct {
	// MaxRecords is the count cap; oldest records beyond it are evicted.
	MaxRecords int

	// MaxAge evicts records older than this duration.
	MaxAge time.Duration
}

// Fingerprint derives the stable identifier for a topic text: the SHA-256
// hex digest of the normalised text. Normalisation lowercases and collapses
// whitespace so trivial reformatting maps to the same record.
func Fingerprint(topicText string) string {
	normalised := normaliseTopic(topicText)
	sum := sha256.Sum256([]byte(normalised))
	return hex.EncodeToString(sum[:])
}

func normaliseTopic(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range strings.TrimSpace(s) {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space {
			b.WriteRune(' ')
			space = false
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
