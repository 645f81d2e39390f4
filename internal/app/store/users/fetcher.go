// internal/app/store/users/fetcher.go
package userstore

import (
	"context"
	"time"

	"github.com/webstackhq/webstack/internal/app/system/auth"
	"github.com/webstackhq/webstack/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const fetchTimeout = 5 * time.Second

// Fetcher implements auth.UserFetcher, loading fresh user data on each
// request so role changes and deletions take effect immediately. The role
// embedded in the session token is never trusted for authorization.
type Fetcher struct {
	users *mongo.Collection
}

// NewFetcher creates a UserFetcher that queries the given database.
func NewFetcher(db *mongo.Database) *Fetcher {
	return &Fetcher{users: db.Collection("users")}
}

// FetchSessionUser retrieves a user by ID. A missing user yields
// auth.ErrUserNotFound, which the middleware treats as an invalid session.
func (f *Fetcher) FetchSessionUser(ctx context.Context, userID string) (*auth.SessionUser, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, auth.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	var u models.User
	proj := options.FindOne().SetProjection(bson.M{
		"_id":       1,
		"user_name": 1,
		"email":     1,
		"role":      1,
	})
	if err := f.users.FindOne(ctx, bson.M{"_id": oid}, proj).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}

	return &auth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  u.UserName,
		Email: u.Email,
		Role:  u.Role,
	}, nil
}
