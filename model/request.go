package model

import "fmt"

// SuggestRequest asks for the passages closest to a case.
// CaseID and UserID only identify the caller in logs.
type SuggestRequest struct {
	CaseID string `json:"case_id"`
	UserID string `json:"user_id"`
	Fields Fields `json:"fields"`
	TopK   int    `json:"top_k"`
}

// NewSuggestRequest returns a request with default bounds.
func NewSuggestRequest() *SuggestRequest {
	return &SuggestRequest{TopK: DefaultSuggestConfig().TopK}
}

// Validate checks the caller identity and the bounds.
func (r *SuggestRequest) Validate() error {
	if err := validateCaller(r.CaseID, r.UserID); err != nil {
		return err
	}
	return QueryConfig{TopK: r.TopK, MaxBullets: MinMaxBullets}.Validate()
}

// AnswerRequest asks for a grounded answer to a case.
type AnswerRequest struct {
	CaseID     string `json:"case_id"`
	UserID     string `json:"user_id"`
	Fields     Fields `json:"fields"`
	TopK       int    `json:"top_k"`
	MaxBullets int    `json:"max_bullets"`
}

// NewAnswerRequest returns a request with default bounds.
func NewAnswerRequest() *AnswerRequest {
	config := DefaultAnswerConfig()
	return &AnswerRequest{TopK: config.TopK, MaxBullets: config.MaxBullets}
}

// Validate checks the caller identity and the bounds.
func (r *AnswerRequest) Validate() error {
	if err := validateCaller(r.CaseID, r.UserID); err != nil {
		return err
	}
	return QueryConfig{TopK: r.TopK, MaxBullets: r.MaxBullets}.Validate()
}

func validateCaller(caseID string, userID string) error {
	if caseID == "" {
		return fmt.Errorf("%w: case_id is required", ErrInvalidInput)
	}
	if userID == "" {
		return fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	return nil
}
