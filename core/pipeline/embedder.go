package pipeline

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
	"github.com/siherrmann/provenance/helper"
)

const (
	// DefaultModelName is the sentence transformer used when none is configured.
	DefaultModelName = "sentence-transformers/all-MiniLM-L6-v2"
	// DefaultEmbeddingDim is the output dimension of DefaultModelName.
	DefaultEmbeddingDim = 384

	embedBatchSize = 32
)

// HugotEmbedder embeds texts with a sentence transformer run by hugot.
type HugotEmbedder struct {
	mu       sync.Mutex
	session  *hugot.Session
	pipeline *pipelines.FeatureExtractionPipeline
	dim      int
}

// NewHugotEmbedder loads modelName from modelDir, downloading it if needed.
// Close has to be called to release the session.
func NewHugotEmbedder(modelDir string, modelName string) (*HugotEmbedder, error) {
	if modelName == "" {
		modelName = DefaultModelName
	}

	modelPath, err := helper.PrepareModel(modelDir, modelName, "")
	if err != nil {
		return nil, err
	}

	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create hugot session: %w", err)
	}

	config := hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      "embedder-pipeline",
	}
	sentencePipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, fmt.Errorf("failed to create sentence pipeline: %w (cleanup error: %v)", err, destroyErr)
		}
		return nil, fmt.Errorf("failed to create sentence pipeline: %w", err)
	}

	e := &HugotEmbedder{
		session:  session,
		pipeline: sentencePipeline,
	}

	probe, err := e.run([]string{"dimension probe"})
	if err != nil {
		_ = e.Close()
		return nil, err
	}
	e.dim = len(probe[0])

	return e, nil
}

// Embed returns one unit-norm vector per text, in input order.
func (e *HugotEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += embedBatchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := min(start+embedBatchSize, len(texts))
		batch, err := e.run(texts[start:end])
		if err != nil {
			return nil, err
		}
		embeddings = append(embeddings, batch...)
	}
	return embeddings, nil
}

// Dimension returns the dimension of the produced vectors.
func (e *HugotEmbedder) Dimension() int {
	return e.dim
}

// Close destroys the hugot session.
func (e *HugotEmbedder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Destroy()
}

func (e *HugotEmbedder) run(texts []string) ([][]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	result, err := e.pipeline.RunPipeline(texts)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}
	if len(result.Embeddings) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(result.Embeddings))
	}

	for _, embedding := range result.Embeddings {
		Normalize(embedding)
	}
	return result.Embeddings, nil
}

// Normalize scales v to unit length in place. A zero vector is left unchanged.
func Normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	norm := float32(math.Sqrt(sum))
	for i := range v {
		v[i] /= norm
	}
}
