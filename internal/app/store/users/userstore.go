// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/webstackhq/webstack/internal/app/system/authz"
	"github.com/webstackhq/webstack/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c     *mongo.Collection
	tasks *mongo.Collection
}

var (
	// ErrDuplicate is returned when the email or user name already exists.
	ErrDuplicate = errors.New("a user with this email or user name already exists")
	// ErrNotFound maps mongo.ErrNoDocuments for callers outside the store.
	ErrNotFound = errors.New("user not found")
	// ErrBadRole is returned for a role outside the closed set.
	ErrBadRole = errors.New(`role must be "customer", "team_member", or "admin"`)
)

func New(db *mongo.Database) *Store {
	return &Store{
		c:     db.Collection("users"),
		tasks: db.Collection("tasks"),
	}
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email_ci": text.Fold(email)}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user after normalizing and validating fields. New
// accounts start unverified with no password hash; sign-in stays impossible
// until the verification flow sets a password.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	role := strings.ToLower(strings.TrimSpace(u.Role))
	if !authz.ValidRole(role) {
		return models.User{}, ErrBadRole
	}

	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.Email = strings.TrimSpace(u.Email)
	u.EmailCI = text.Fold(u.Email)
	u.UserName = strings.TrimSpace(u.UserName)
	u.UserNameCI = text.Fold(u.UserName)
	u.Role = role
	u.Verified = false
	u.PasswordHash = ""
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicate
		}
		return models.User{}, err
	}
	return u, nil
}

// SetPassword stores a new password hash and marks the account verified.
// Used by the verification and reset flows.
func (s *Store) SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"password_hash": hash,
		"verified":      true,
		"updated_at":    time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkVerified sets the verified flag. Idempotent.
func (s *Store) MarkVerified(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"verified":   true,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ProfileUpdate is the set of self-service profile fields.
type ProfileUpdate struct {
	UserName     string
	TeamRole     string
	Department   string
	ProfileImage string
}

// UpdateProfile applies non-empty profile fields.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, p ProfileUpdate) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if v := strings.TrimSpace(p.UserName); v != "" {
		set["user_name"] = v
		set["user_name_ci"] = text.Fold(v)
	}
	if p.TeamRole != "" {
		set["team_role"] = p.TeamRole
	}
	if p.Department != "" {
		set["department"] = p.Department
	}
	if p.ProfileImage != "" {
		set["profile_image"] = p.ProfileImage
	}

	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicate
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// FirstAdmin returns any admin user, used as the message-receiver fallback
// when a project has no assigned team member yet.
func (s *Store) FirstAdmin(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"role": authz.RoleAdmin}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Delete removes a user and unassigns their tasks (assigned_to nulled).
// Admin-only at the route layer. Returns the number of users deleted.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	if _, err := s.tasks.UpdateMany(ctx,
		bson.M{"assigned_to": id},
		bson.M{"$unset": bson.M{"assigned_to": ""}},
	); err != nil {
		return 0, err
	}

	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
