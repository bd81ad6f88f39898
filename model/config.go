package model

import "fmt"

// Bounds for QueryConfig.
const (
	MinTopK       = 1
	MaxTopK       = 20
	MinMaxBullets = 1
	MaxMaxBullets = 10
)

// QueryConfig represents the configuration of a suggest or answer query.
type QueryConfig struct {
	TopK       int `json:"top_k"`
	MaxBullets int `json:"max_bullets,omitempty"` // answer only
}

// DefaultSuggestConfig returns the defaults of a suggest query.
func DefaultSuggestConfig() QueryConfig {
	return QueryConfig{
		TopK:       5,
		MaxBullets: 4,
	}
}

// DefaultAnswerConfig returns the defaults of an answer query.
func DefaultAnswerConfig() QueryConfig {
	return QueryConfig{
		TopK:       6,
		MaxBullets: 4,
	}
}

// Validate checks the bounds of TopK and MaxBullets.
func (c QueryConfig) Validate() error {
	if c.TopK < MinTopK || c.TopK > MaxTopK {
		return fmt.Errorf("%w: top_k must be between %d and %d, got %d", ErrInvalidInput, MinTopK, MaxTopK, c.TopK)
	}
	if c.MaxBullets < MinMaxBullets || c.MaxBullets > MaxMaxBullets {
		return fmt.Errorf("%w: max_bullets must be between %d and %d, got %d", ErrInvalidInput, MinMaxBullets, MaxMaxBullets, c.MaxBullets)
	}
	return nil
}
