package repository

import (
	"context"
	"errors"
)

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (postgres, mongo) inside this directory.

// ErrNotFound is returned by implementations when the requested row/document does not exist.
// Driver-specific sentinels (sql.ErrNoRows, mongo.ErrNoDocuments) never leave this layer.
var ErrNotFound = errors.New("record not found")

// Inspector exposes read-only datastore introspection for health and diagnostics.
type Inspector interface {
	// Name returns the database name the repository is bound to.
	Name() string
	// Ping verifies the datastore is reachable.
	Ping(ctx context.Context) error
	// ListCollections returns collection (or table) names in the bound database.
	ListCollections(ctx context.Context) ([]string, error)
}
