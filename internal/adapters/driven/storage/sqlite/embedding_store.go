package sqlite

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/hunterworks/hunter-factory/internal/core/domain"
	"github.com/hunterworks/hunter-factory/internal/core/ports/driven"
)

// embeddingStore implements driven.EmbeddingStore.
//
// Vectors are stored as little-endian float32 blobs and queries scan the
// whole table computing cosine similarity in Go. At the store's retention
// cap (tens of thousands of rows) a full scan stays in the low
// milliseconds, so there is no vector index.
type embeddingStore struct {
	store *Store
}

var _ driven.EmbeddingStore = (*embeddingStore)(nil)

// Insert appends a record. Records are never updated.
func (s *embeddingStore) Insert(ctx context.Context, rec domain.EmbeddingRecord) error {
	if len(rec.Vector) == 0 {
		return fmt.Errorf("empty vector for fingerprint %s", rec.Fingerprint)
	}
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO embeddings (fingerprint, vector, topic_ref, created_at)
		VALUES (?, ?, ?, ?)
	`, rec.Fingerprint, encodeVector(rec.Vector), rec.TopicRef,
		rec.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting embedding: %w", err)
	}
	return nil
}

// QueryNearest scans all stored vectors and returns the k most similar.
func (s *embeddingStore) QueryNearest(ctx context.Context, vec []float32, k int) ([]domain.Neighbor, error) {
	rows, err := s.store.db.QueryContext(ctx, `SELECT fingerprint, vector FROM embeddings`)
	if err != nil {
		return nil, fmt.Errorf("querying embeddings: %w", err)
	}
	defer rows.Close()

	var neighbours []domain.Neighbor
	for rows.Next() {
		var fingerprint string
		var blob []byte
		if err := rows.Scan(&fingerprint, &blob); err != nil {
			return nil, fmt.Errorf("scanning embedding: %w", err)
		}
		stored, err := decodeVector(blob)
		if err != nil {
			return nil, fmt.Errorf("decoding vector for %s: %w", fingerprint, err)
		}
		neighbours = append(neighbours, domain.Neighbor{
			Fingerprint: fingerprint,
			Similarity:  cosine(vec, stored),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating embeddings: %w", err)
	}

	sort.SliceStable(neighbours, func(i, j int) bool {
		return neighbours[i].Similarity > neighbours[j].Similarity
	})
	if k < len(neighbours) {
		neighbours = neighbours[:k]
	}
	return neighbours, nil
}

// Count returns the number of stored records.
func (s *embeddingStore) Count(ctx context.Context) (int, error) {
	var count int
	row := s.store.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM embeddings`)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting embeddings: %w", err)
	}
	return count, nil
}

// Prune evicts records past the retention policy: first everything older
// than MaxAge, then the oldest rows beyond MaxRecords.
func (s *embeddingStore) Prune(ctx context.Context, policy domain.RetentionPolicy) (int, error) {
	removed := 0

	if policy.MaxAge > 0 {
		cutoff := time.Now().Add(-policy.MaxAge).UTC().Format(time.RFC3339)
		res, err := s.store.db.ExecContext(ctx,
			`DELETE FROM embeddings WHERE created_at < ?`, cutoff)
		if err != nil {
			return 0, fmt.Errorf("pruning by age: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil {
			removed += int(n)
		}
	}

	if policy.MaxRecords > 0 {
		res, err := s.store.db.ExecContext(ctx, `
			DELETE FROM embeddings WHERE fingerprint IN (
				SELECT fingerprint FROM embeddings
				ORDER BY created_at DESC
				LIMIT -1 OFFSET ?
			)
		`, policy.MaxRecords)
		if err != nil {
			return 0, fmt.Errorf("pruning by count: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil {
			removed += int(n)
		}
	}

	return removed, nil
}

// encodeVector packs a vector as little-endian float32 bytes.
func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// decodeVector unpacks a little-endian float32 blob.
func decodeVector(blob []byte) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("blob length %d not a multiple of 4", len(blob))
	}
	v := make([]float32, len(blob)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return v, nil
}

// cosine returns the cosine similarity of two vectors, 0 for mismatched
// or zero-magnitude input.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
