// internal/app/store/payments/paymentstore.go

// Package paymentstore is read-only from the API's point of view: payment
// rows arrive through the billing pipeline, and the only mutation this
// service performs is the project cascade nulling project_id.
package paymentstore

import (
	"context"

	"github.com/webstackhq/webstack/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("payments")}
}

// ListAll returns every payment, newest first. Admin-only at the route
// layer.
func (s *Store) ListAll(ctx context.Context) ([]models.Payment, error) {
	return s.list(ctx, bson.M{})
}

// ListByProject returns payments recorded against a project.
func (s *Store) ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Payment, error) {
	return s.list(ctx, bson.M{"project_id": projectID})
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.Payment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Payment{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
