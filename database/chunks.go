package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pgvector/pgvector-go"
	"github.com/siherrmann/provenance/helper"
	"github.com/siherrmann/provenance/model"
	loadSql "github.com/siherrmann/provenance/sql"
)

// ChunksDBHandlerFunctions defines the interface for Chunks database operations.
type ChunksDBHandlerFunctions interface {
	InsertChunkIfAbsent(ctx context.Context, chunk *model.Chunk) (bool, error)
	InsertChunksIfAbsent(ctx context.Context, chunks []*model.Chunk) (int, error)
	SelectChunk(ctx context.Context, documentID int64, page int, paraID string) (*model.Chunk, error)
	SelectChunksByDocument(ctx context.Context, documentID int64) ([]*model.Chunk, error)
	SelectChunksBySimilarity(ctx context.Context, embedding []float32, limit int) ([]*model.Chunk, error)
	CountChunks(ctx context.Context, documentID *int64) (int64, error)
}

// ChunksDBHandler handles chunk-related database operations
type ChunksDBHandler struct {
	db           *helper.Database
	embeddingDim int
}

// NewChunksDBHandler creates a new chunks database handler.
// The documents table has to exist already because chunks reference it.
// If force is true, it will reload the SQL functions even if they already exist.
func NewChunksDBHandler(db *helper.Database, embeddingDim int, force bool) (*ChunksDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}
	if embeddingDim <= 0 {
		return nil, helper.NewError("embedding dimension validation", fmt.Errorf("embedding dimension must be positive, got %d", embeddingDim))
	}

	chunksDbHandler := &ChunksDBHandler{
		db:           db,
		embeddingDim: embeddingDim,
	}

	err := loadSql.LoadChunksSql(chunksDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load chunks sql", err)
	}

	err = chunksDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized ChunksDBHandler")

	return chunksDbHandler, nil
}

// CreateTable creates the 'chunks' table and its indexes if they do not exist yet.
func (h *ChunksDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_chunks($1);`, h.embeddingDim)
	if err != nil {
		return helper.NewError("init chunks", err)
	}

	h.db.Logger.Info("Checked/created table chunks")

	return nil
}

// EmbeddingDim returns the dimension of the embedding column.
func (h *ChunksDBHandler) EmbeddingDim() int {
	return h.embeddingDim
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// InsertChunkIfAbsent stores the chunk unless (document, page, para id) exists.
// It reports whether a row was inserted.
func (h *ChunksDBHandler) InsertChunkIfAbsent(ctx context.Context, chunk *model.Chunk) (bool, error) {
	return h.insertChunkIfAbsent(ctx, h.db.Instance, chunk)
}

// InsertChunksIfAbsent stores all chunks in one transaction and returns the number inserted.
// Either all new chunks become visible or none do.
func (h *ChunksDBHandler) InsertChunksIfAbsent(ctx context.Context, chunks []*model.Chunk) (int, error) {
	tx, err := h.db.Instance.BeginTx(ctx, nil)
	if err != nil {
		return 0, helper.NewError("begin transaction", err)
	}
	defer tx.Rollback()

	inserted := 0
	for i, chunk := range chunks {
		ok, err := h.insertChunkIfAbsent(ctx, tx, chunk)
		if err != nil {
			return 0, helper.NewError(fmt.Sprintf("insert chunk %d", i), err)
		}
		if ok {
			inserted++
		}
	}

	err = tx.Commit()
	if err != nil {
		return 0, helper.NewError("commit", err)
	}

	return inserted, nil
}

func (h *ChunksDBHandler) insertChunkIfAbsent(ctx context.Context, q rowQuerier, chunk *model.Chunk) (bool, error) {
	if len(chunk.Embedding) != h.embeddingDim {
		return false, fmt.Errorf("embedding dimension %d does not match %d", len(chunk.Embedding), h.embeddingDim)
	}

	var inserted bool
	err := q.QueryRowContext(
		ctx,
		`SELECT insert_chunk_if_absent($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		chunk.DocumentID,
		chunk.PageNumber,
		chunk.ParaID,
		chunk.BBox.X1,
		chunk.BBox.Y1,
		chunk.BBox.X2,
		chunk.BBox.Y2,
		chunk.Text,
		pgvector.NewVector(chunk.Embedding),
	).Scan(&inserted)
	if err != nil {
		return false, helper.NewError("scan", err)
	}

	return inserted, nil
}

// SelectChunk retrieves a chunk by its document, page and paragraph id.
func (h *ChunksDBHandler) SelectChunk(ctx context.Context, documentID int64, page int, paraID string) (*model.Chunk, error) {
	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM select_chunk($1, $2, $3)`,
		documentID,
		page,
		paraID,
	)

	chunk, err := scanChunk(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: chunk %s on page %d of document %d", model.ErrNotFound, paraID, page, documentID)
	}
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return chunk, nil
}

// SelectChunksByDocument retrieves all chunks of a document ordered by page and paragraph id.
func (h *ChunksDBHandler) SelectChunksByDocument(ctx context.Context, documentID int64) ([]*model.Chunk, error) {
	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM select_chunks_by_document($1)`,
		documentID,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var chunks []*model.Chunk
	for rows.Next() {
		chunk, err := scanChunk(rows)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		chunks = append(chunks, chunk)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return chunks, nil
}

// SelectChunksBySimilarity returns up to limit chunks ordered by ascending cosine distance to embedding.
// The chunks carry their document name, version and distance, not their embedding.
func (h *ChunksDBHandler) SelectChunksBySimilarity(ctx context.Context, embedding []float32, limit int) ([]*model.Chunk, error) {
	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM select_chunks_by_similarity($1, $2)`,
		pgvector.NewVector(embedding),
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var results []*model.Chunk
	for rows.Next() {
		chunk := &model.Chunk{}
		err := rows.Scan(
			&chunk.ID,
			&chunk.DocumentID,
			&chunk.PageNumber,
			&chunk.ParaID,
			&chunk.BBox.X1,
			&chunk.BBox.Y1,
			&chunk.BBox.X2,
			&chunk.BBox.Y2,
			&chunk.Text,
			&chunk.CreatedAt,
			&chunk.DocumentName,
			&chunk.DocumentVersion,
			&chunk.Distance,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		results = append(results, chunk)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return results, nil
}

// CountChunks counts the chunks of one document, or of all documents if documentID is nil.
func (h *ChunksDBHandler) CountChunks(ctx context.Context, documentID *int64) (int64, error) {
	var count int64
	err := h.db.Instance.QueryRowContext(ctx, `SELECT count_chunks($1)`, documentID).Scan(&count)
	if err != nil {
		return 0, helper.NewError("scan", err)
	}
	return count, nil
}

func scanChunk(row scanner) (*model.Chunk, error) {
	chunk := &model.Chunk{}
	var embedding pgvector.Vector
	err := row.Scan(
		&chunk.ID,
		&chunk.DocumentID,
		&chunk.PageNumber,
		&chunk.ParaID,
		&chunk.BBox.X1,
		&chunk.BBox.Y1,
		&chunk.BBox.X2,
		&chunk.BBox.Y2,
		&chunk.Text,
		&embedding,
		&chunk.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	chunk.Embedding = embedding.Slice()
	return chunk, nil
}
