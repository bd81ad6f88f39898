package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/siherrmann/provenance/helper"
	"github.com/siherrmann/provenance/model"
)

// PageRasterizer renders a page of a PDF file to a bitmap.
type PageRasterizer interface {
	Rasterize(path string, page int, zoom float64) (*image.RGBA, error)
}

// DocumentResolver resolves a document by name and optional version.
type DocumentResolver interface {
	SelectDocument(ctx context.Context, name string, version string) (*model.Document, error)
}

// ChunkResolver looks up a chunk by its provenance key.
type ChunkResolver interface {
	SelectChunk(ctx context.Context, documentID int64, page int, paraID string) (*model.Chunk, error)
}

// Renderer produces page images with highlighted chunks.
type Renderer struct {
	documents  DocumentResolver
	chunks     ChunkResolver
	rasterizer PageRasterizer
	tuning     model.RenderTuning
}

// NewRenderer creates a renderer.
func NewRenderer(documents DocumentResolver, chunks ChunkResolver, rasterizer PageRasterizer, tuning model.RenderTuning) *Renderer {
	return &Renderer{
		documents:  documents,
		chunks:     chunks,
		rasterizer: rasterizer,
		tuning:     tuning,
	}
}

// RenderPage returns the PNG of a page of the resolved document.
func (r *Renderer) RenderPage(ctx context.Context, docName string, docVersion string, page int) ([]byte, error) {
	doc, err := r.documents.SelectDocument(ctx, docName, docVersion)
	if err != nil {
		return nil, err
	}

	img, err := r.rasterizer.Rasterize(doc.FilePath, page, r.tuning.Zoom)
	if err != nil {
		return nil, helper.NewError("rasterize", err)
	}

	return EncodePNG(img)
}

// RenderHighlight returns the PNG of a page with the region of paraID highlighted.
// With crop the image is cut to the region and a margin around it.
func (r *Renderer) RenderHighlight(ctx context.Context, docName string, docVersion string, page int, paraID string, crop bool) ([]byte, error) {
	doc, err := r.documents.SelectDocument(ctx, docName, docVersion)
	if err != nil {
		return nil, err
	}

	chunk, err := r.chunks.SelectChunk(ctx, doc.ID, page, paraID)
	if err != nil {
		return nil, err
	}

	img, err := r.rasterizer.Rasterize(doc.FilePath, page, r.tuning.Zoom)
	if err != nil {
		return nil, helper.NewError("rasterize", err)
	}

	rect := HighlightRect(chunk.BBox, r.tuning.Zoom, r.tuning.HighlightPad, img.Bounds())
	Highlight(img, rect, r.tuning.FillAlpha, r.tuning.OutlineWidth)

	var out image.Image = img
	if crop {
		out = img.SubImage(Expand(rect, r.tuning.CropPad, img.Bounds()))
	}

	return EncodePNG(out)
}

// HighlightRect maps a bounding box from PDF points to pixels at zoom and
// pads it, clamped to bounds. The corners of the result are inclusive.
func HighlightRect(bbox model.BoundingBox, zoom float64, pad int, bounds image.Rectangle) image.Rectangle {
	bbox = bbox.Normalized()
	scaled := image.Rect(
		int(float64(bbox.X1)*zoom),
		int(float64(bbox.Y1)*zoom),
		int(float64(bbox.X2)*zoom),
		int(float64(bbox.Y2)*zoom),
	)
	return Expand(scaled, pad, bounds)
}

// Expand grows r by pad on every side, clamped to the last pixel of bounds.
func Expand(r image.Rectangle, pad int, bounds image.Rectangle) image.Rectangle {
	return image.Rectangle{
		Min: image.Point{
			X: max(bounds.Min.X, r.Min.X-pad),
			Y: max(bounds.Min.Y, r.Min.Y-pad),
		},
		Max: image.Point{
			X: min(bounds.Max.X-1, r.Max.X+pad),
			Y: min(bounds.Max.Y-1, r.Max.Y+pad),
		},
	}
}

// Highlight blends a translucent red fill over rect and draws an opaque
// red outline of width pixels along its inner edge. rect is inclusive.
func Highlight(img draw.Image, rect image.Rectangle, fillAlpha uint8, width int) {
	area := inclusive(rect).Intersect(img.Bounds())
	if area.Empty() {
		return
	}

	fill := image.NewUniform(color.NRGBA{R: 255, A: fillAlpha})
	draw.Draw(img, area, fill, image.Point{}, draw.Over)

	outline := image.NewUniform(color.NRGBA{R: 255, A: 255})
	for _, edge := range outlineEdges(area, width) {
		draw.Draw(img, edge, outline, image.Point{}, draw.Over)
	}
}

func outlineEdges(area image.Rectangle, width int) []image.Rectangle {
	if width <= 0 {
		return nil
	}
	return []image.Rectangle{
		image.Rect(area.Min.X, area.Min.Y, area.Max.X, min(area.Min.Y+width, area.Max.Y)),
		image.Rect(area.Min.X, max(area.Max.Y-width, area.Min.Y), area.Max.X, area.Max.Y),
		image.Rect(area.Min.X, area.Min.Y, min(area.Min.X+width, area.Max.X), area.Max.Y),
		image.Rect(max(area.Max.X-width, area.Min.X), area.Min.Y, area.Max.X, area.Max.Y),
	}
}

// inclusive converts a rectangle with inclusive corners to Go's half open form.
func inclusive(r image.Rectangle) image.Rectangle {
	return image.Rect(r.Min.X, r.Min.Y, r.Max.X+1, r.Max.Y+1)
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}
