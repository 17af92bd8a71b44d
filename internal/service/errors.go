package service

import "errors"

var (
	ErrInvalidMediaType     = errors.New("only PDF files are supported")
	ErrInvalidIdentifier    = errors.New("invalid document id")
	ErrDocumentNotFound     = errors.New("document not found")
	ErrDatastoreUnavailable = errors.New("datastore not configured")
	ErrReaderNil            = errors.New("reader is nil")

	// ErrContentExpired means the metadata record exists but retention already removed the stored file.
	ErrContentExpired = errors.New("document content expired")
)
