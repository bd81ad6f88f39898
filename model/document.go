package model

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Document is one version of a named source file.
// Name and VersionHash together identify it.
type Document struct {
	ID          int64     `json:"id"`
	RID         uuid.UUID `json:"rid"`
	Name        string    `json:"name"`
	VersionHash string    `json:"version_hash"` // sha256 of the raw file bytes
	FilePath    string    `json:"file_path"`
	Metadata    Metadata  `json:"metadata,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HashBytes returns the hex encoded sha256 digest of data.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// NewDocumentFromFile reads a file and returns the document describing it together with its bytes.
// The name defaults to the file name without extension.
func NewDocumentFromFile(filePath string, name string) (*Document, []byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, nil, err
	}

	if name == "" {
		filename := filepath.Base(filePath)
		name = filename[:len(filename)-len(filepath.Ext(filename))]
		if name == "" {
			name = filename
		}
	}

	return &Document{
		Name:        name,
		VersionHash: HashBytes(data),
		FilePath:    filePath,
		Metadata:    Metadata{},
	}, data, nil
}
