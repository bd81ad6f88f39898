package model

import (
	"fmt"
	"time"
)

// BoundingBox is a rectangle in PDF point space.
// The corners are stored as extracted, x1 < x2 and y1 < y2 are not guaranteed.
type BoundingBox struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Normalized returns the box with x1 <= x2 and y1 <= y2.
func (b BoundingBox) Normalized() BoundingBox {
	if b.X1 > b.X2 {
		b.X1, b.X2 = b.X2, b.X1
	}
	if b.Y1 > b.Y2 {
		b.Y1, b.Y2 = b.Y2, b.Y1
	}
	return b
}

// Chunk is a clause-like unit of a document page.
type Chunk struct {
	ID          int64       `json:"id"`
	DocumentID  int64       `json:"document_id"`
	PageNumber  int         `json:"page_number"` // 1-based
	ParaID      string      `json:"para_id"`
	BBox        BoundingBox `json:"bbox"`
	Text        string      `json:"text"`
	Embedding   []float32   `json:"embedding,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`

	// Results
	DocumentName    string  `json:"document_name,omitempty"`
	DocumentVersion string  `json:"document_version,omitempty"`
	Distance        float64 `json:"distance,omitempty"`
}

// ParagraphID formats the per page group identifier, e.g. p003-g012.
func ParagraphID(page int, groupIndex int) string {
	return fmt.Sprintf("p%03d-g%03d", page, groupIndex)
}
