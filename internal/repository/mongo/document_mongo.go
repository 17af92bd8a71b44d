package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"pdfchat/internal/model"
	"pdfchat/internal/repository"
)

// documentRecord is the stored shape of a document. Field names match the
// records written by earlier deployments of this service.
type documentRecord struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	Filename    string        `bson:"filename"`
	StoredPath  string        `bson:"stored_path"`
	ContentType string        `bson:"content_type"`
	Size        int64         `bson:"size"`
	CreatedAt   time.Time     `bson:"created_at"`
	UpdatedAt   time.Time     `bson:"updated_at"`
}

func (r documentRecord) toModel() *model.Document {
	return &model.Document{
		ID:          r.ID.Hex(),
		Filename:    r.Filename,
		StoragePath: r.StoredPath,
		ContentType: r.ContentType,
		Size:        r.Size,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

// DocumentMongo is a MongoDB implementation of repository.DocumentRepository.
type DocumentMongo struct {
	db   *mongo.Database
	coll *mongo.Collection
}

// NewDocumentMongo binds the repository to one collection of db.
func NewDocumentMongo(db *mongo.Database, collection string) *DocumentMongo {
	return &DocumentMongo{db: db, coll: db.Collection(collection)}
}

var (
	_ repository.DocumentRepository = (*DocumentMongo)(nil)
	_ repository.Inspector          = (*DocumentMongo)(nil)
)

// Collection exposes the underlying collection for index management.
func (r *DocumentMongo) Collection() *mongo.Collection {
	return r.coll
}

// Create inserts the document and lets the driver assign the ObjectID.
func (r *DocumentMongo) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	rec := documentRecord{
		Filename:    doc.Filename,
		StoredPath:  doc.StoragePath,
		ContentType: doc.ContentType,
		Size:        doc.Size,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
	res, err := r.coll.InsertOne(ctx, rec)
	if err != nil {
		return nil, err
	}
	oid, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return nil, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	rec.ID = oid
	return rec.toModel(), nil
}

// FindByID looks a document up by its hex ObjectID.
func (r *DocumentMongo) FindByID(ctx context.Context, id string) (*model.Document, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("parse id %q: %w", id, err)
	}

	var rec documentRecord
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return rec.toModel(), nil
}

// List returns documents newest first with skip/limit pagination and a total count.
func (r *DocumentMongo) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	total, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(pq.Limit)).
		SetSkip(int64(pq.Offset))

	cursor, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]model.Document, 0)
	for cursor.Next(ctx) {
		var rec documentRecord
		if err := cursor.Decode(&rec); err != nil {
			return nil, err
		}
		items = append(items, *rec.toModel())
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Document]{
		Items: items,
		Total: int(total),
	}, nil
}

// Name returns the bound database name.
func (r *DocumentMongo) Name() string {
	return r.db.Name()
}

// Ping checks the primary is reachable.
func (r *DocumentMongo) Ping(ctx context.Context) error {
	return r.db.Client().Ping(ctx, readpref.Primary())
}

// ListCollections returns the collection names of the bound database.
func (r *DocumentMongo) ListCollections(ctx context.Context) ([]string, error) {
	return r.db.ListCollectionNames(ctx, bson.D{})
}
