// internal/app/store/files/filestore.go
package filestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/webstackhq/webstack/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound maps mongo.ErrNoDocuments for callers outside the store.
var ErrNotFound = errors.New("file not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("files")}
}

// Create records file metadata for a project. The storage key is minted
// here rather than taken from the client, so names can never collide or
// traverse outside the bucket.
func (s *Store) Create(ctx context.Context, f models.File) (models.File, error) {
	f.ID = primitive.NewObjectID()
	f.Name = strings.TrimSpace(f.Name)
	f.StorageKey = uuid.NewString()
	f.CreatedAt = time.Now().UTC()

	if _, err := s.c.InsertOne(ctx, f); err != nil {
		return models.File{}, err
	}
	return f, nil
}

// GetByID loads one file record.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.File, error) {
	var f models.File
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&f); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

// ListByProject returns all file records for a project, newest first.
func (s *Store) ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.File, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"project_id": projectID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.File{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a single file record.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
