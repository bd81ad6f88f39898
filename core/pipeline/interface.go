package pipeline

import (
	"context"

	"github.com/siherrmann/provenance/model"
)

// Embedder turns texts into unit-norm vectors of a fixed dimension.
// Implementations must be deterministic for identical input and safe for concurrent use.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}

// EmbedFunc adapts a plain function to the Embedder interface.
type EmbedFunc struct {
	Dim  int
	Func func(texts []string) ([][]float32, error)
}

// Embed calls the wrapped function.
func (e EmbedFunc) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.Func(texts)
}

// Dimension returns the configured dimension.
func (e EmbedFunc) Dimension() int {
	return e.Dim
}

// PageSource gives access to the text fragments of a decoded PDF.
// Pages are 1-based.
type PageSource interface {
	PageCount() int
	Fragments(page int) ([]model.Fragment, error)
	Close() error
}

// DecodeFunc decodes raw PDF bytes into a PageSource.
type DecodeFunc func(data []byte) (PageSource, error)

// DocumentStore is the storage the ingestion needs.
type DocumentStore interface {
	UpsertDocument(ctx context.Context, doc *model.Document) error
}

// ChunkStore is the chunk storage the ingestion needs.
type ChunkStore interface {
	InsertChunksIfAbsent(ctx context.Context, chunks []*model.Chunk) (int, error)
}
