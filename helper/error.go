package helper

import "fmt"

// NewError wraps err with the step that failed.
// The original error stays reachable through errors.Is and errors.As.
func NewError(step string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", step, err)
}
