package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"testing"

	"github.com/siherrmann/provenance/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDocuments struct{}

func (fakeDocuments) SelectDocument(ctx context.Context, name string, version string) (*model.Document, error) {
	if name != "policy" {
		return nil, fmt.Errorf("%w: document %q", model.ErrNotFound, name)
	}
	return &model.Document{ID: 1, Name: name, VersionHash: "v1", FilePath: "/policy.pdf"}, nil
}

type fakeChunks struct{}

func (fakeChunks) SelectChunk(ctx context.Context, documentID int64, page int, paraID string) (*model.Chunk, error) {
	if page != 1 || paraID != "p001-g000" {
		return nil, fmt.Errorf("%w: chunk %s", model.ErrNotFound, paraID)
	}
	return &model.Chunk{DocumentID: documentID, PageNumber: 1, ParaID: paraID, BBox: model.BoundingBox{X1: 300, Y1: 250, X2: 100, Y2: 200}}, nil
}

// whitePages rasterizes every page as a white letter sized bitmap.
type whitePages struct {
	pages int
}

func (w whitePages) Rasterize(path string, page int, zoom float64) (*image.RGBA, error) {
	if page < 1 || page > w.pages {
		return nil, fmt.Errorf("%w: invalid page %d", model.ErrNotFound, page)
	}
	img := image.NewRGBA(image.Rect(0, 0, int(612*zoom), int(792*zoom)))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	return img, nil
}

func newTestRenderer() *Renderer {
	return NewRenderer(fakeDocuments{}, fakeChunks{}, whitePages{pages: 2}, model.DefaultTuning().Render)
}

func decode(t *testing.T, data []byte) image.Image {
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func TestHighlightRect(t *testing.T) {
	bounds := image.Rect(0, 0, 1224, 1584)

	t.Run("Scale then pad", func(t *testing.T) {
		rect := HighlightRect(model.BoundingBox{X1: 100, Y1: 200, X2: 300, Y2: 250}, 2.0, 6, bounds)
		assert.Equal(t, image.Point{X: 194, Y: 394}, rect.Min)
		assert.Equal(t, image.Point{X: 606, Y: 506}, rect.Max)
	})

	t.Run("Corners are normalized", func(t *testing.T) {
		rect := HighlightRect(model.BoundingBox{X1: 300, Y1: 250, X2: 100, Y2: 200}, 2.0, 6, bounds)
		assert.Equal(t, image.Point{X: 194, Y: 394}, rect.Min)
	})

	t.Run("Clamped to the image", func(t *testing.T) {
		rect := HighlightRect(model.BoundingBox{X1: 1, Y1: 2, X2: 700, Y2: 900}, 2.0, 6, bounds)
		assert.Equal(t, image.Point{X: 0, Y: 0}, rect.Min)
		assert.Equal(t, image.Point{X: 1223, Y: 1583}, rect.Max)
	})
}

func TestHighlight(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	Highlight(img, image.Rect(10, 10, 50, 50), 45, 4)

	assert.Equal(t, color.RGBA{R: 255, A: 255}, img.RGBAAt(10, 10), "Expected outline at the corner")
	assert.Equal(t, color.RGBA{R: 255, A: 255}, img.RGBAAt(50, 30), "Expected outline on the inclusive right edge")

	inner := img.RGBAAt(30, 30)
	assert.Equal(t, uint8(255), inner.R)
	assert.Less(t, inner.G, uint8(255), "Expected tinted fill")
	assert.Greater(t, inner.G, uint8(200), "Expected translucent fill")

	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, img.RGBAAt(60, 60), "Expected untouched pixel outside")
}

func TestRenderPage(t *testing.T) {
	r := newTestRenderer()
	ctx := context.Background()

	t.Run("Renders at zoom", func(t *testing.T) {
		data, err := r.RenderPage(ctx, "policy", "", 1)
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 1224, 1584), decode(t, data).Bounds())
	})

	t.Run("Unknown document", func(t *testing.T) {
		_, err := r.RenderPage(ctx, "unknown", "", 1)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("Page out of range", func(t *testing.T) {
		_, err := r.RenderPage(ctx, "policy", "", 3)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestRenderHighlight(t *testing.T) {
	r := newTestRenderer()
	ctx := context.Background()

	t.Run("Full page with highlight", func(t *testing.T) {
		data, err := r.RenderHighlight(ctx, "policy", "v1", 1, "p001-g000", false)
		require.NoError(t, err)
		img := decode(t, data)
		assert.Equal(t, image.Rect(0, 0, 1224, 1584), img.Bounds())

		red, _, _, _ := img.At(194, 394).RGBA()
		_, green, _, _ := img.At(194, 394).RGBA()
		assert.Equal(t, uint32(0xffff), red)
		assert.Equal(t, uint32(0), green, "Expected outline at the padded corner")

		_, green, _, _ = img.At(193, 393).RGBA()
		assert.Equal(t, uint32(0xffff), green, "Expected white outside the padded box")
	})

	t.Run("Cropped", func(t *testing.T) {
		data, err := r.RenderHighlight(ctx, "policy", "v1", 1, "p001-g000", true)
		require.NoError(t, err)
		img := decode(t, data)
		// (194-60, 394-60) to (606+60, 506+60)
		assert.Equal(t, 666-134, img.Bounds().Dx())
		assert.Equal(t, 566-334, img.Bounds().Dy())
	})

	t.Run("Unknown paragraph", func(t *testing.T) {
		_, err := r.RenderHighlight(ctx, "policy", "v1", 1, "p001-g999", false)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("Paragraph on another page", func(t *testing.T) {
		_, err := r.RenderHighlight(ctx, "policy", "v1", 2, "p001-g000", false)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}
