package model

import "time"

// Document represents one uploaded PDF's metadata.
// It carries no datastore-specific tags; each repository maps it to its own record.
// Records are written once on upload and never updated; UpdatedAt equals CreatedAt.
type Document struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	StoragePath string    `json:"storage_path"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
