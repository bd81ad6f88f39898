package provenance

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/siherrmann/provenance/core/answer"
	"github.com/siherrmann/provenance/core/pdf"
	"github.com/siherrmann/provenance/core/pipeline"
	"github.com/siherrmann/provenance/core/render"
	"github.com/siherrmann/provenance/core/retrieval"
	"github.com/siherrmann/provenance/database"
	"github.com/siherrmann/provenance/helper"
	"github.com/siherrmann/provenance/model"
	loadSql "github.com/siherrmann/provenance/sql"
)

// Provenance ties the store, the ingestion, the retrieval, the answer
// synthesis and the page rendering together.
type Provenance struct {
	DB        *helper.Database
	Documents *database.DocumentsDBHandler
	Chunks    *database.ChunksDBHandler
	Engine    *retrieval.Engine
	Renderer  *render.Renderer
	Tuning    model.Tuning

	mu          sync.RWMutex
	embedder    pipeline.Embedder
	ingester    *pipeline.Ingester
	synthesizer *answer.Synthesizer

	// Logging
	log *slog.Logger
}

// NewProvenance connects to the database and creates all handlers.
// The embedder is set separately with SetEmbedder or UseDefaultEmbedder,
// queries fail with model.ErrNotReady until then.
func NewProvenance(config *helper.DatabaseConfiguration, embeddingDim int, tuning *model.Tuning, logger *slog.Logger) (*Provenance, error) {
	if logger == nil {
		logger = helper.NewLogger(os.Stdout, slog.LevelInfo)
	}
	if tuning == nil {
		defaults := model.DefaultTuning()
		tuning = &defaults
	}

	db, err := helper.NewDatabase("provenance", config, logger)
	if err != nil {
		return nil, helper.NewError("connect database", err)
	}

	err = loadSql.Init(db.Instance)
	if err != nil {
		db.Close()
		return nil, helper.NewError("initialize database extensions", err)
	}

	// Documents first, chunks reference them.
	documents, err := database.NewDocumentsDBHandler(db, false)
	if err != nil {
		db.Close()
		return nil, helper.NewError("create documents handler", err)
	}

	chunks, err := database.NewChunksDBHandler(db, embeddingDim, false)
	if err != nil {
		db.Close()
		return nil, helper.NewError("create chunks handler", err)
	}

	return &Provenance{
		DB:        db,
		Documents: documents,
		Chunks:    chunks,
		Engine:    retrieval.NewEngine(chunks, tuning.Answer.HitTextLimit),
		Renderer:  render.NewRenderer(documents, chunks, pdf.NewRasterizer(), tuning.Render),
		Tuning:    *tuning,
		log:       logger,
	}, nil
}

// Close closes the database connection and the embedder if it can be closed.
func (p *Provenance) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if closer, ok := p.embedder.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.log.Error("Error closing embedder", slog.String("error", err.Error()))
		}
	}

	if p.DB != nil && p.DB.Instance != nil {
		return p.DB.Close()
	}
	return nil
}

// SetEmbedder sets the embedding model used for ingestion and queries.
// Its dimension has to match the embedding column.
func (p *Provenance) SetEmbedder(embedder pipeline.Embedder) error {
	if embedder == nil {
		return helper.NewError("set embedder", fmt.Errorf("embedder is nil"))
	}
	if embedder.Dimension() != p.Chunks.EmbeddingDim() {
		return helper.NewError("set embedder", fmt.Errorf("embedder dimension %d does not match embedding column dimension %d", embedder.Dimension(), p.Chunks.EmbeddingDim()))
	}

	synthesizer, err := answer.NewSynthesizer(embedder, p.Tuning.Answer)
	if err != nil {
		return helper.NewError("create synthesizer", err)
	}

	ingester := pipeline.NewIngester(p.Documents, p.Chunks, embedder, decodePDF, p.Tuning.Grouper, p.log)

	p.mu.Lock()
	p.embedder = embedder
	p.synthesizer = synthesizer
	p.ingester = ingester
	p.mu.Unlock()

	p.log.Info("Embedder ready", slog.Int("dimension", embedder.Dimension()))

	return nil
}

// UseDefaultEmbedder loads the default sentence transformer from modelDir.
func (p *Provenance) UseDefaultEmbedder(modelDir string) error {
	embedder, err := pipeline.NewHugotEmbedder(modelDir, pipeline.DefaultModelName)
	if err != nil {
		return helper.NewError("create default embedder", err)
	}

	err = p.SetEmbedder(embedder)
	if err != nil {
		_ = embedder.Close()
		return err
	}
	return nil
}

func decodePDF(data []byte) (pipeline.PageSource, error) {
	return pdf.NewTextReader(data)
}

func (p *Provenance) ready() (pipeline.Embedder, *pipeline.Ingester, *answer.Synthesizer, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.embedder == nil {
		return nil, nil, nil, model.ErrNotReady
	}
	return p.embedder, p.ingester, p.synthesizer, nil
}

// Ingest stores the chunks of the PDF at path under name.
// An empty name defaults to the file name without extension.
func (p *Provenance) Ingest(ctx context.Context, path string, name string) (*pipeline.IngestResult, error) {
	_, ingester, _, err := p.ready()
	if err != nil {
		return nil, err
	}
	return ingester.IngestFile(ctx, path, name)
}

// Suggest returns the passages closest to the case fields of req.
// baseURL is the root the provenance URLs are built on.
func (p *Provenance) Suggest(ctx context.Context, req *model.SuggestRequest, baseURL string) (*model.SuggestResult, error) {
	err := req.Validate()
	if err != nil {
		return nil, err
	}

	query := retrieval.BuildQuery(req.Fields, p.Tuning.Answer.FallbackQuery)
	hits, err := p.retrieve(ctx, query, req.TopK)
	if err != nil {
		return nil, err
	}
	retrieval.AttachURLs(baseURL, hits)

	p.log.Info(
		"Suggest",
		slog.String("case_id", req.CaseID),
		slog.String("user_id", req.UserID),
		slog.String("query", query),
		slog.Int("hits", len(hits)),
	)

	return &model.SuggestResult{QueryUsed: query, Suggestions: hits}, nil
}

// Answer returns a grounded answer to the case fields of req.
func (p *Provenance) Answer(ctx context.Context, req *model.AnswerRequest, baseURL string) (*model.AnswerResult, error) {
	err := req.Validate()
	if err != nil {
		return nil, err
	}

	_, _, synthesizer, err := p.ready()
	if err != nil {
		return nil, err
	}

	query := retrieval.BuildQuery(req.Fields, p.Tuning.Answer.FallbackQuery)
	hits, err := p.retrieve(ctx, query, req.TopK)
	if err != nil {
		return nil, err
	}
	retrieval.AttachURLs(baseURL, hits)

	result, err := synthesizer.Answer(ctx, query, hits, req.MaxBullets)
	if err != nil {
		return nil, helper.NewError("answer", err)
	}

	p.log.Info(
		"Answer",
		slog.String("case_id", req.CaseID),
		slog.String("user_id", req.UserID),
		slog.String("query", query),
		slog.Int("sources", len(result.Sources)),
		slog.Int("bullets", len(result.Bullets)),
	)

	return result, nil
}

func (p *Provenance) retrieve(ctx context.Context, query string, topK int) ([]*model.RetrievedHit, error) {
	embedder, _, _, err := p.ready()
	if err != nil {
		return nil, err
	}

	embeddings, err := embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, helper.NewError("embed query", err)
	}
	if len(embeddings) != 1 {
		return nil, helper.NewError("embed query", fmt.Errorf("expected 1 embedding, got %d", len(embeddings)))
	}

	return p.Engine.Retrieve(ctx, embeddings[0], topK)
}

// RenderPage returns the PNG of a page. An empty version resolves to the latest one.
func (p *Provenance) RenderPage(ctx context.Context, docName string, docVersion string, page int) ([]byte, error) {
	return p.Renderer.RenderPage(ctx, docName, docVersion, page)
}

// RenderHighlight returns the PNG of a page with one paragraph highlighted.
func (p *Provenance) RenderHighlight(ctx context.Context, docName string, docVersion string, page int, paraID string, crop bool) ([]byte, error) {
	return p.Renderer.RenderHighlight(ctx, docName, docVersion, page, paraID, crop)
}

// ListDocuments returns all versions of the named document, newest first.
func (p *Provenance) ListDocuments(ctx context.Context, name string) ([]*model.Document, error) {
	return p.Documents.SelectDocumentsByName(ctx, name)
}

// ChangeIndexType rebuilds the vector index of the chunks.
func (p *Provenance) ChangeIndexType(ctx context.Context, indexType database.IndexType, params database.IndexParams) error {
	return p.Chunks.ChangeIndexType(ctx, indexType, params)
}
