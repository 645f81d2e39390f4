// internal/app/store/memberships/membershipstore.go
package membershipstore

import (
	"context"
	"errors"
	"time"

	"github.com/webstackhq/webstack/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrDuplicate is returned when the user is already on the project team.
	ErrDuplicate = errors.New("user is already a member of this project")
	// ErrNotFound maps mongo.ErrNoDocuments for callers outside the store.
	ErrNotFound = errors.New("membership not found")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("project_team_members")}
}

// Add enrolls a user on a project team. The unique index on
// (project_id, user_id) keeps double-enrollment out.
func (s *Store) Add(ctx context.Context, projectID, userID primitive.ObjectID) (models.ProjectTeamMember, error) {
	m := models.ProjectTeamMember{
		ID:        primitive.NewObjectID(),
		ProjectID: projectID,
		UserID:    userID,
		JoinedAt:  time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		if wafflemongo.IsDup(err) {
			return models.ProjectTeamMember{}, ErrDuplicate
		}
		return models.ProjectTeamMember{}, err
	}
	return m, nil
}

// Remove drops a user from a project team.
func (s *Store) Remove(ctx context.Context, projectID, userID primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"project_id": projectID, "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Exists reports whether the user holds a membership row on the project.
func (s *Store) Exists(ctx context.Context, projectID, userID primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx,
		bson.M{"project_id": projectID, "user_id": userID},
		options.Count().SetLimit(1),
	)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListByProject returns the team roster for a project, oldest joiner first.
func (s *Store) ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.ProjectTeamMember, error) {
	opts := options.Find().SetSort(bson.D{{Key: "joined_at", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"project_id": projectID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.ProjectTeamMember{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
