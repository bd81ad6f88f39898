package pdf

import (
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
	"github.com/siherrmann/provenance/model"
)

// Native PDF resolution, one point per pixel.
const pointsPerInch = 72

// Rasterizer renders PDF pages with MuPDF.
type Rasterizer struct{}

// NewRasterizer creates a rasterizer.
func NewRasterizer() *Rasterizer {
	return &Rasterizer{}
}

// Rasterize renders page (1-based) of the PDF at path scaled by zoom.
func (r *Rasterizer) Rasterize(path string, page int, zoom float64) (*image.RGBA, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf %s: %w", path, err)
	}
	defer doc.Close()

	if page < 1 || page > doc.NumPage() {
		return nil, fmt.Errorf("%w: invalid page %d, document has %d pages", model.ErrNotFound, page, doc.NumPage())
	}

	img, err := doc.ImageDPI(page-1, pointsPerInch*zoom)
	if err != nil {
		return nil, fmt.Errorf("failed to render page %d: %w", page, err)
	}

	return img, nil
}

// PageCount returns the number of pages of the PDF at path.
func (r *Rasterizer) PageCount(path string) (int, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open pdf %s: %w", path, err)
	}
	defer doc.Close()

	return doc.NumPage(), nil
}
