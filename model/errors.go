package model

import "errors"

var (
	// ErrNotFound marks an unknown document, version, page or chunk.
	ErrNotFound = errors.New("not found")
	// ErrIngest marks a document that cannot be ingested.
	ErrIngest = errors.New("ingest failed")
	// ErrIntegrity marks a retrieved hit missing provenance fields.
	ErrIntegrity = errors.New("integrity violation")
	// ErrInvalidInput marks a request that fails validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotReady marks a query issued before the embedding model is loaded.
	ErrNotReady = errors.New("model not loaded yet")
)
