// internal/app/store/feedback/feedbackstore.go

// Package feedbackstore owns customer feedback and iteration requests,
// which share a lifecycle: both hang off a project and are written by the
// project's customer.
package feedbackstore

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

// ErrBadRating is returned when a rating falls outside 1..5.
var ErrBadRating = errors.New("rating must be between 1 and 5")

type Store struct {
	feedback   *mongo.Collection
	iterations *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		feedback:   db.Collection("feedback"),
		iterations: db.Collection("iterations"),
	}
}

// CreateFeedback records a customer rating and comment for a project.
func (s *Store) CreateFeedback(ctx context.Context, f models.Feedback) (models.Feedback, error) {
	if f.Rating < 1 || f.Rating > 5 {
		return models.Feedback{}, ErrBadRating
	}

	f.ID = primitive.NewObjectID()
	f.Comment = strings.TrimSpace(f.Comment)
	f.CreatedAt = time.Now().UTC()

	if _, err := s.feedback.InsertOne(ctx, f); err != nil {
		return models.Feedback{}, err
	}
	return f, nil
}

// ListFeedback returns all feedback for a project, newest first.
func (s *Store) ListFeedback(ctx context.Context, projectID primitive.ObjectID) ([]models.Feedback, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.feedback.Find(ctx, bson.M{"project_id": projectID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Feedback{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateIteration records a customer's change request against a project.
func (s *Store) CreateIteration(ctx context.Context, it models.Iteration) (models.Iteration, error) {
	it.ID = primitive.NewObjectID()
	it.Title = strings.TrimSpace(it.Title)
	it.CreatedAt = time.Now().UTC()

	if _, err := s.iterations.InsertOne(ctx, it); err != nil {
		return models.Iteration{}, err
	}
	return it, nil
}

// ListIterations returns all iteration requests for a project, newest first.
func (s *Store) ListIterations(ctx context.Context, projectID primitive.ObjectID) ([]models.Iteration, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.iterations.Find(ctx, bson.M{"project_id": projectID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Iteration{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
