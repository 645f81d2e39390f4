// internal/app/store/messages/messagestore.go
package messagestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/webstackhq/webstack/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound maps mongo.ErrNoDocuments for callers outside the store.
var ErrNotFound = errors.New("message not found")

// Messages are append-only: there is no update or single-delete path.
// The whole thread is removed only by the project cascade.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("messages")}
}

// Create appends a message to the project thread. Sender name and role are
// denormalized at write time so the thread reads the same even after the
// sender's account changes or is deleted.
func (s *Store) Create(ctx context.Context, m models.Message) (models.Message, error) {
	m.ID = primitive.NewObjectID()
	m.Body = strings.TrimSpace(m.Body)
	m.CreatedAt = time.Now().UTC()

	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.Message{}, err
	}
	return m, nil
}

// ListByProject returns the full thread in chronological order.
func (s *Store) ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"project_id": projectID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Message{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
