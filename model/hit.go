package model

import (
	"fmt"
)

// RetrievedHit is a chunk joined with its document as returned by the retriever.
type RetrievedHit struct {
	DocName      string       `json:"doc_name"`
	DocVersion   string       `json:"doc_version"`
	Page         int          `json:"page"`
	ParaID       string       `json:"para_id"`
	BBox         *BoundingBox `json:"bbox,omitempty"`
	Text         string       `json:"text"`
	Distance     float64      `json:"distance"`
	PageURL      string       `json:"page_url,omitempty"`
	HighlightURL string       `json:"highlight_url,omitempty"`
}

// Validate checks that all provenance fields are present.
func (h *RetrievedHit) Validate() error {
	if h == nil || h.DocName == "" || h.DocVersion == "" || h.Page < 1 || h.ParaID == "" {
		return fmt.Errorf("%w: hit missing provenance keys: %+v", ErrIntegrity, h)
	}
	return nil
}

// AnswerBullet is one cited hit shortened for display.
type AnswerBullet struct {
	Text         string `json:"text"`
	DocName      string `json:"doc_name"`
	DocVersion   string `json:"doc_version"`
	Page         int    `json:"page"`
	ParaID       string `json:"para_id"`
	PageURL      string `json:"page_url"`
	HighlightURL string `json:"highlight_url"`
}

// NewAnswerBullet copies the provenance of hit and sets text.
func NewAnswerBullet(hit *RetrievedHit, text string) *AnswerBullet {
	return &AnswerBullet{
		Text:         text,
		DocName:      hit.DocName,
		DocVersion:   hit.DocVersion,
		Page:         hit.Page,
		ParaID:       hit.ParaID,
		PageURL:      hit.PageURL,
		HighlightURL: hit.HighlightURL,
	}
}

// SuggestResult is the result of a suggest query.
type SuggestResult struct {
	QueryUsed   string          `json:"query_used"`
	Suggestions []*RetrievedHit `json:"suggestions"`
}

// AnswerResult is the result of an answer query.
type AnswerResult struct {
	QueryUsed string          `json:"query_used"`
	Answer    string          `json:"answer"`
	Bullets   []*AnswerBullet `json:"bullets"`
	Sources   []*RetrievedHit `json:"sources"`
}
