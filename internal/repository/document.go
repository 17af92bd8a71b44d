package repository

import (
	"context"

	"pdfchat/internal/model"
)

// DocumentRepository defines data access for document records.
// No business logic here, strictly persistence operations.
// Records are insert-only; there is no update or delete path.
type DocumentRepository interface {
	// Create inserts a new document record. The datastore assigns the ID;
	// any ID on the input is ignored. Returns the stored document.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID, or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// List returns a paginated list of documents, newest first, and the total count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Document], error)
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
