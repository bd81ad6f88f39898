package answer

import (
	"context"
	"fmt"
	"math"

	"github.com/siherrmann/provenance/helper"
	"github.com/siherrmann/provenance/model"
)

// Candidate is an informative line together with the bullet it was taken from.
type Candidate struct {
	Line   string
	Bullet *model.AnswerBullet
}

// Cluster removes near duplicate candidates.
//
// Walking the candidates in order, each unclaimed candidate claims every later
// candidate with a cosine similarity of at least the dedup threshold. The
// earliest candidate of each cluster is kept.
func (s *Synthesizer) Cluster(ctx context.Context, candidates []Candidate) ([]Candidate, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.Line
	}

	embeddings, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, helper.NewError("embed lines", err)
	}
	if len(embeddings) != len(texts) {
		return nil, helper.NewError("embed lines", fmt.Errorf("expected %d embeddings, got %d", len(texts), len(embeddings)))
	}

	used := make([]bool, len(candidates))
	var representatives []Candidate
	for i := range candidates {
		if used[i] {
			continue
		}
		used[i] = true

		for j := i + 1; j < len(candidates); j++ {
			if used[j] {
				continue
			}
			if CosineSimilarity(embeddings[i], embeddings[j]) >= s.tuning.DedupThreshold {
				used[j] = true
			}
		}

		representatives = append(representatives, candidates[i])
	}

	return representatives, nil
}

// CosineSimilarity returns the cosine of the angle between a and b.
// It is 0 if either vector is zero.
func CosineSimilarity(a []float32, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		if i >= len(b) {
			break
		}
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
