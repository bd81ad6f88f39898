package pipeline

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/siherrmann/provenance/model"
)

// Group is a clause-like unit formed from one or more fragments.
type Group struct {
	X0   float64
	Y0   float64
	X1   float64
	Y1   float64
	Text string
}

// BoundingBox truncates the group rectangle to integer points.
func (g Group) BoundingBox() model.BoundingBox {
	return model.Fragment{X0: g.X0, Y0: g.Y0, X1: g.X1, Y1: g.Y1}.BoundingBox()
}

// Grouper merges the fragments of one page into groups in reading order.
type Grouper struct {
	tuning model.GrouperTuning
}

// NewGrouper creates a grouper with the given tuning.
func NewGrouper(tuning model.GrouperTuning) *Grouper {
	return &Grouper{tuning: tuning}
}

// Group returns the groups of one page.
//
// Fragments are read top to bottom, then left to right. A fragment opens a new
// group if the vertical gap to the open group exceeds the threshold, if it is a
// header or if it starts with a section marker. Otherwise it is merged into the
// open group. A header forms a group of its own, the fragment after it always
// opens a new group.
func (g *Grouper) Group(fragments []model.Fragment) []Group {
	frags := make([]model.Fragment, 0, len(fragments))
	for _, f := range fragments {
		f.Text = strings.TrimSpace(f.Text)
		if f.Text == "" {
			continue
		}
		frags = append(frags, f)
	}

	sort.SliceStable(frags, func(i, j int) bool {
		if frags[i].Y0 != frags[j].Y0 {
			return frags[i].Y0 < frags[j].Y0
		}
		return frags[i].X0 < frags[j].X0
	})

	groups := []Group{}
	var cur *Group

	for _, f := range frags {
		header := g.IsHeader(f.Text)
		opens := cur == nil || header || g.IsSectionStart(f.Text) || f.Y0-cur.Y1 > g.tuning.YGap

		if !opens {
			cur.X0 = math.Min(cur.X0, f.X0)
			cur.Y0 = math.Min(cur.Y0, f.Y0)
			cur.X1 = math.Max(cur.X1, f.X1)
			cur.Y1 = math.Max(cur.Y1, f.Y1)
			cur.Text += "\n" + f.Text
			continue
		}

		if cur != nil {
			groups = append(groups, *cur)
		}
		cur = &Group{X0: f.X0, Y0: f.Y0, X1: f.X1, Y1: f.Y1, Text: f.Text}

		if header {
			groups = append(groups, *cur)
			cur = nil
		}
	}

	if cur != nil {
		groups = append(groups, *cur)
	}

	return groups
}

// IsHeader reports whether text looks like an all caps heading.
// Only ASCII letters are counted.
func (g *Grouper) IsHeader(text string) bool {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) > g.tuning.HeaderMaxLength {
		return false
	}

	letters := 0
	for _, r := range text {
		switch {
		case r >= 'A' && r <= 'Z':
			letters++
		case r >= 'a' && r <= 'z':
			return false
		}
	}
	return letters >= g.tuning.HeaderMinLetters
}

// IsSectionStart reports whether text begins with one of the section markers.
func (g *Grouper) IsSectionStart(text string) bool {
	text = strings.TrimSpace(text)
	for _, marker := range g.tuning.SectionMarkers {
		if marker != "" && strings.HasPrefix(text, marker) {
			return true
		}
	}
	return false
}
