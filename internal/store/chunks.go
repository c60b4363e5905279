package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/crestline/meetflow/internal/models"
)

type ChunkStore struct {
	db *pgxpool.Pool
}

func NewChunkStore(db *pgxpool.Pool) *ChunkStore {
	return &ChunkStore{db: db}
}

// Upsert writes vector rows keyed on (meeting_id, content_hash). An
// unchanged chunk hashes to the same key and is updated in place, so
// re-embedding a meeting never duplicates rows.
func (s *ChunkStore) Upsert(ctx context.Context, chunks []models.DocumentChunk) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, c := range chunks {
		_, err := tx.Exec(ctx,
			`INSERT INTO document_chunks (meeting_id, segment_index, chunk_index, doc_type, content, content_hash, embedding)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (meeting_id, content_hash) DO UPDATE
			 SET segment_index = $2, chunk_index = $3, doc_type = $4, content = $5, embedding = $7`,
			c.MeetingID, c.SegmentIndex, c.ChunkIndex, c.DocType, c.Content, c.ContentHash,
			pgvector.NewVector(c.Embedding),
		)
		if err != nil {
			return fmt.Errorf("upsert chunk %s: %w", c.ContentHash, err)
		}
	}

	return tx.Commit(ctx)
}
