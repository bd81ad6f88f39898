package database

import (
	"context"
	"fmt"
	"time"

	"github.com/siherrmann/provenance/helper"
)

// IndexType is a pgvector index method.
type IndexType string

const (
	IndexTypeHNSW    IndexType = "hnsw"
	IndexTypeIVFFlat IndexType = "ivfflat"
)

// IndexParams tunes the vector index. Zero values fall back to the pgvector defaults.
type IndexParams struct {
	M              int // hnsw, default 16
	EfConstruction int // hnsw, default 64
	Lists          int // ivfflat, default 100
}

// ChangeIndexType rebuilds the cosine distance index on chunk embeddings.
func (h *ChunksDBHandler) ChangeIndexType(ctx context.Context, indexType IndexType, params IndexParams) error {
	var createIndexSQL string

	switch indexType {
	case IndexTypeHNSW:
		m := params.M
		if m <= 0 {
			m = 16
		}
		efConstruction := params.EfConstruction
		if efConstruction <= 0 {
			efConstruction = 64
		}
		createIndexSQL = fmt.Sprintf(
			`CREATE INDEX idx_chunks_embedding ON chunks USING hnsw (embedding vector_cosine_ops) WITH (m = %d, ef_construction = %d);`,
			m, efConstruction,
		)

	case IndexTypeIVFFlat:
		lists := params.Lists
		if lists <= 0 {
			lists = 100
		}
		createIndexSQL = fmt.Sprintf(
			`CREATE INDEX idx_chunks_embedding ON chunks USING ivfflat (embedding vector_cosine_ops) WITH (lists = %d);`,
			lists,
		)

	default:
		return helper.NewError("change index type", fmt.Errorf("unsupported index type: %s (use 'hnsw' or 'ivfflat')", indexType))
	}

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	tx, err := h.db.Instance.BeginTx(ctx, nil)
	if err != nil {
		return helper.NewError("begin transaction", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `DROP INDEX IF EXISTS idx_chunks_embedding;`)
	if err != nil {
		return helper.NewError("drop index", err)
	}

	_, err = tx.ExecContext(ctx, createIndexSQL)
	if err != nil {
		return helper.NewError("create index", err)
	}

	err = tx.Commit()
	if err != nil {
		return helper.NewError("commit", err)
	}

	h.db.Logger.Info("Changed vector index", "type", string(indexType), "params", fmt.Sprintf("%+v", params))

	return nil
}
