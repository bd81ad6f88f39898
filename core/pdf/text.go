package pdf

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/siherrmann/provenance/model"
)

// Letter size, used when a page has no media box.
var defaultMediaBox = [4]float64{0, 0, 612, 792}

// TextReader extracts positioned text fragments from a PDF.
type TextReader struct {
	reader *pdf.Reader
}

// NewTextReader parses data as a PDF.
func NewTextReader(data []byte) (*TextReader, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}
	return &TextReader{reader: reader}, nil
}

// PageCount returns the number of pages.
func (r *TextReader) PageCount() int {
	return r.reader.NumPage()
}

// Fragments returns the text lines of a page, 1-based.
// Coordinates are in points with the origin at the top left corner of the page.
func (r *TextReader) Fragments(page int) (fragments []model.Fragment, err error) {
	if page < 1 || page > r.reader.NumPage() {
		return nil, fmt.Errorf("%w: page %d of %d", model.ErrNotFound, page, r.reader.NumPage())
	}

	p := r.reader.Page(page)
	if p.V.IsNull() {
		return nil, fmt.Errorf("%w: page %d", model.ErrNotFound, page)
	}

	// The content stream parser panics on malformed input.
	defer func() {
		if rec := recover(); rec != nil {
			fragments = nil
			err = fmt.Errorf("failed to read content of page %d: %v", page, rec)
		}
	}()

	box := mediaBox(p.V)
	return LinesFromTexts(p.Content().Text, box[0], box[3]), nil
}

// Close releases the reader.
func (r *TextReader) Close() error {
	return nil
}

// LinesFromTexts joins glyphs that share a baseline and follow each other
// closely into one fragment. left and top are the page origin in PDF space.
func LinesFromTexts(texts []pdf.Text, left float64, top float64) []model.Fragment {
	var fragments []model.Fragment
	var line strings.Builder
	var cur *model.Fragment
	var baseline, end, size float64

	flush := func() {
		if cur != nil {
			cur.Text = strings.TrimSpace(line.String())
			if cur.Text != "" {
				fragments = append(fragments, *cur)
			}
		}
		cur = nil
		line.Reset()
	}

	for _, t := range texts {
		if t.S == "" {
			continue
		}
		fontSize := t.FontSize
		if fontSize <= 0 {
			fontSize = 1
		}

		if cur != nil {
			sameLine := math.Abs(t.Y-baseline) <= 0.3*size
			gap := t.X - end
			if !sameLine || gap > 2*size || gap < -size {
				flush()
			} else if gap > 0.15*size && !strings.HasSuffix(line.String(), " ") && t.S != " " {
				line.WriteByte(' ')
			}
		}

		x0 := t.X - left
		x1 := t.X + t.W - left
		y0 := top - (t.Y + fontSize)
		y1 := top - t.Y

		if cur == nil {
			cur = &model.Fragment{X0: x0, Y0: y0, X1: x1, Y1: y1}
			baseline = t.Y
			size = fontSize
		} else {
			cur.X0 = math.Min(cur.X0, x0)
			cur.Y0 = math.Min(cur.Y0, y0)
			cur.X1 = math.Max(cur.X1, x1)
			cur.Y1 = math.Max(cur.Y1, y1)
		}

		line.WriteString(t.S)
		end = t.X + t.W
	}
	flush()

	return fragments
}

// mediaBox returns the media box of a page, inherited from its parents if needed.
func mediaBox(page pdf.Value) [4]float64 {
	for v := page; !v.IsNull(); v = v.Key("Parent") {
		box := v.Key("MediaBox")
		if box.Len() != 4 {
			continue
		}
		var out [4]float64
		for i := range out {
			out[i] = box.Index(i).Float64()
		}
		if out[0] > out[2] {
			out[0], out[2] = out[2], out[0]
		}
		if out[1] > out[3] {
			out[1], out[3] = out[3], out[1]
		}
		return out
	}
	return defaultMediaBox
}
