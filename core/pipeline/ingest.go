package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/siherrmann/provenance/helper"
	"github.com/siherrmann/provenance/model"
)

// IngestResult summarises one ingestion run.
type IngestResult struct {
	Document  *model.Document
	Pages     int
	Fragments int
	Groups    int
	Inserted  int
}

// Ingester populates the store with the chunks of PDF documents.
type Ingester struct {
	documents DocumentStore
	chunks    ChunkStore
	embedder  Embedder
	decode    DecodeFunc
	grouper   *Grouper
	logger    *slog.Logger
}

// NewIngester creates an ingester.
func NewIngester(documents DocumentStore, chunks ChunkStore, embedder Embedder, decode DecodeFunc, tuning model.GrouperTuning, logger *slog.Logger) *Ingester {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingester{
		documents: documents,
		chunks:    chunks,
		embedder:  embedder,
		decode:    decode,
		grouper:   NewGrouper(tuning),
		logger:    logger,
	}
}

// IngestFile reads the PDF at path and ingests it under name.
// An empty name defaults to the file name without extension.
func (i *Ingester) IngestFile(ctx context.Context, path string, name string) (*IngestResult, error) {
	doc, data, err := model.NewDocumentFromFile(path, name)
	if err != nil {
		return nil, helper.NewError("read file", err)
	}
	return i.Ingest(ctx, doc, data)
}

// Ingest groups, embeds and stores the pages of data as chunks of doc.
//
// The document row is only written once every page was grouped and embedded.
// Re-ingesting identical bytes under the same name inserts nothing new.
func (i *Ingester) Ingest(ctx context.Context, doc *model.Document, data []byte) (*IngestResult, error) {
	source, err := i.decode(data)
	if err != nil {
		return nil, helper.NewError("decode pdf", err)
	}
	defer source.Close()

	result := &IngestResult{Document: doc, Pages: source.PageCount()}

	var chunks []*model.Chunk
	var texts []string
	for page := 1; page <= result.Pages; page++ {
		fragments, err := source.Fragments(page)
		if err != nil {
			return nil, helper.NewError(fmt.Sprintf("fragments of page %d", page), err)
		}
		result.Fragments += len(fragments)

		groups := i.grouper.Group(fragments)
		result.Groups += len(groups)

		for idx, group := range groups {
			if group.Text == "" {
				continue
			}
			texts = append(texts, group.Text)
			chunks = append(chunks, &model.Chunk{
				PageNumber: page,
				ParaID:     model.ParagraphID(page, idx),
				BBox:       group.BoundingBox(),
				Text:       group.Text,
			})
		}
	}

	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: no text blocks found in %q: this PDF may be scanned (image-only), OCR is required", model.ErrIngest, doc.Name)
	}

	embeddings, err := i.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, helper.NewError("embed", err)
	}
	if len(embeddings) != len(chunks) {
		return nil, helper.NewError("embed", fmt.Errorf("expected %d embeddings, got %d", len(chunks), len(embeddings)))
	}

	if doc.Metadata == nil {
		doc.Metadata = model.Metadata{}
	}
	doc.Metadata["pages"] = result.Pages

	err = i.documents.UpsertDocument(ctx, doc)
	if err != nil {
		return nil, helper.NewError("upsert document", err)
	}

	for idx, chunk := range chunks {
		chunk.DocumentID = doc.ID
		chunk.Embedding = embeddings[idx]
	}

	result.Inserted, err = i.chunks.InsertChunksIfAbsent(ctx, chunks)
	if err != nil {
		return nil, helper.NewError("insert chunks", err)
	}

	i.logger.Info(
		"Ingested document",
		slog.String("name", doc.Name),
		slog.String("version", doc.VersionHash),
		slog.Int("pages", result.Pages),
		slog.Int("fragments", result.Fragments),
		slog.Int("groups", result.Groups),
		slog.Int("inserted", result.Inserted),
	)

	return result, nil
}
