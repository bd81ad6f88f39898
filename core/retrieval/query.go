package retrieval

import (
	"fmt"
	"strings"

	"github.com/siherrmann/provenance/model"
)

// BuildQuery turns case fields into the retrieval query "k1: v1 | k2: v2".
// Empty and null values are skipped, with no value left the fallback is used.
func BuildQuery(fields model.Fields, fallback string) string {
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		if field.Value == nil {
			continue
		}
		if s, ok := field.Value.(string); ok && s == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %v", field.Key, field.Value))
	}

	if len(parts) == 0 {
		return fallback
	}
	return strings.Join(parts, " | ")
}
