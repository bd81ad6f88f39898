package retrieval

import (
	"context"
	"fmt"

	"github.com/siherrmann/provenance/helper"
	"github.com/siherrmann/provenance/model"
)

// ChunkSearcher runs the nearest neighbour query over the stored chunks.
type ChunkSearcher interface {
	SelectChunksBySimilarity(ctx context.Context, embedding []float32, limit int) ([]*model.Chunk, error)
}

// Engine retrieves the chunks closest to a query embedding.
type Engine struct {
	chunks    ChunkSearcher
	textLimit int
}

// NewEngine creates a new retrieval engine.
// Hit texts are cut to textLimit characters, a limit <= 0 keeps them whole.
func NewEngine(chunks ChunkSearcher, textLimit int) *Engine {
	return &Engine{
		chunks:    chunks,
		textLimit: textLimit,
	}
}

// Retrieve returns up to topK hits ordered by ascending cosine distance.
// An empty store yields an empty result, not an error.
func (e *Engine) Retrieve(ctx context.Context, embedding []float32, topK int) ([]*model.RetrievedHit, error) {
	if topK < model.MinTopK || topK > model.MaxTopK {
		return nil, fmt.Errorf("%w: top_k must be between %d and %d, got %d", model.ErrInvalidInput, model.MinTopK, model.MaxTopK, topK)
	}

	chunks, err := e.chunks.SelectChunksBySimilarity(ctx, embedding, topK)
	if err != nil {
		return nil, helper.NewError("select chunks by similarity", err)
	}

	hits := make([]*model.RetrievedHit, 0, len(chunks))
	for _, chunk := range chunks {
		bbox := chunk.BBox
		hit := &model.RetrievedHit{
			DocName:    chunk.DocumentName,
			DocVersion: chunk.DocumentVersion,
			Page:       chunk.PageNumber,
			ParaID:     chunk.ParaID,
			BBox:       &bbox,
			Text:       Truncate(chunk.Text, e.textLimit),
			Distance:   chunk.Distance,
		}
		if err := hit.Validate(); err != nil {
			return nil, err
		}
		hits = append(hits, hit)
	}

	return hits, nil
}

// Truncate cuts s to at most limit characters.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}
