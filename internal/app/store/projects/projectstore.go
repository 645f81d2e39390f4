// internal/app/store/projects/projectstore.go

// Package projectstore owns Project documents and their derived task
// counters. The counters (total_tasks, completed_tasks,
// progress_percentage) are mutated only through ApplyTaskDelta so the three
// fields can never be observed out of step with each other.
package projectstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/webstackhq/webstack/internal/app/system/authz"
	"github.com/webstackhq/webstack/internal/app/system/txn"
	"github.com/webstackhq/webstack/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound maps mongo.ErrNoDocuments for callers outside the store.
var ErrNotFound = errors.New("project not found")

const (
	defaultPricingTier = "Standard"
)

type Store struct {
	db          *mongo.Database
	c           *mongo.Collection
	tasks       *mongo.Collection
	memberships *mongo.Collection
	feedback    *mongo.Collection
	iterations  *mongo.Collection
	files       *mongo.Collection
	messages    *mongo.Collection
	payments    *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		db:          db,
		c:           db.Collection("projects"),
		tasks:       db.Collection("tasks"),
		memberships: db.Collection("project_team_members"),
		feedback:    db.Collection("feedback"),
		iterations:  db.Collection("iterations"),
		files:       db.Collection("files"),
		messages:    db.Collection("messages"),
		payments:    db.Collection("payments"),
	}
}

// GetByID loads a project by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	var p models.Project
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Create inserts a project. CustomerID must already be forced to the
// authenticated caller by the handler; this store never reads it from
// client input. Unset phase and pricing tier get their defaults.
func (s *Store) Create(ctx context.Context, p models.Project) (models.Project, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.Title = strings.TrimSpace(p.Title)
	p.TitleCI = text.Fold(p.Title)
	if p.Phase == "" {
		p.Phase = models.PhasePlanning
	}
	if p.PricingTier == "" {
		p.PricingTier = defaultPricingTier
	}
	p.TotalTasks = 0
	p.CompletedTasks = 0
	p.ProgressPercentage = 0
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

// Update is the set of admin-patchable project fields. Nil pointers leave
// the field unchanged.
type Update struct {
	Title        *string
	Description  *string
	Phase        *models.ProjectPhase
	PricingTier  *string
	Budget       *float64
	PaymentType  *string
	StartDate    *time.Time
	DurationDays *int
	Priority     *string
	Visibility   *string
}

// Apply patches the project. Counter fields are never touched here.
func (s *Store) Apply(ctx context.Context, id primitive.ObjectID, u Update) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if u.Title != nil {
		t := strings.TrimSpace(*u.Title)
		set["title"] = t
		set["title_ci"] = text.Fold(t)
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.Phase != nil {
		set["phase"] = *u.Phase
	}
	if u.PricingTier != nil {
		set["pricing_tier"] = *u.PricingTier
	}
	if u.Budget != nil {
		set["budget"] = *u.Budget
	}
	if u.PaymentType != nil {
		set["payment_type"] = *u.PaymentType
	}
	if u.StartDate != nil {
		set["start_date"] = *u.StartDate
	}
	if u.DurationDays != nil {
		set["duration_days"] = *u.DurationDays
	}
	if u.Priority != nil {
		set["priority"] = *u.Priority
	}
	if u.Visibility != nil {
		set["visibility"] = *u.Visibility
	}

	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ApplyTaskDelta adjusts the task counters and recomputes the progress
// percentage in one pipeline update, so the document moves atomically from
// one consistent counter state to the next. Counters are clamped at zero.
//
// Rounding is half-away-from-zero (floor(x + 0.5)) to match the derived
// invariant progress == round(completed/total*100).
func (s *Store) ApplyTaskDelta(ctx context.Context, id primitive.ObjectID, totalDelta, completedDelta int64) error {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.M{
			"total_tasks": bson.M{"$max": bson.A{
				0, bson.M{"$add": bson.A{"$total_tasks", totalDelta}},
			}},
			"completed_tasks": bson.M{"$max": bson.A{
				0, bson.M{"$add": bson.A{"$completed_tasks", completedDelta}},
			}},
			"updated_at": time.Now().UTC(),
		}}},
		bson.D{{Key: "$set", Value: bson.M{
			"progress_percentage": bson.M{"$cond": bson.A{
				bson.M{"$gt": bson.A{"$total_tasks", 0}},
				bson.M{"$floor": bson.A{bson.M{"$add": bson.A{
					bson.M{"$multiply": bson.A{
						bson.M{"$divide": bson.A{"$completed_tasks", "$total_tasks"}},
						100,
					}},
					0.5,
				}}}},
				0,
			}},
		}}},
	}

	res, err := s.c.UpdateByID(ctx, id, pipeline)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListForRole returns the projects visible to the given user:
// admins see everything, customers their own projects, team members the
// projects where they hold an assigned task or a team membership row.
func (s *Store) ListForRole(ctx context.Context, role string, userID primitive.ObjectID) ([]models.Project, error) {
	var filter bson.M
	switch role {
	case authz.RoleAdmin:
		filter = bson.M{}
	case authz.RoleCustomer:
		filter = bson.M{"customer_id": userID}
	case authz.RoleTeamMember:
		ids, err := s.visibleProjectIDs(ctx, userID)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return []models.Project{}, nil
		}
		filter = bson.M{"_id": bson.M{"$in": ids}}
	default:
		return []models.Project{}, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Project{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// VisibleProjectIDs exposes the team-member scope for aggregation queries.
func (s *Store) VisibleProjectIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	return s.visibleProjectIDs(ctx, userID)
}

func (s *Store) visibleProjectIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	seen := map[primitive.ObjectID]struct{}{}

	fromTasks, err := s.tasks.Distinct(ctx, "project_id", bson.M{"assigned_to": userID})
	if err != nil {
		return nil, err
	}
	for _, v := range fromTasks {
		if oid, ok := v.(primitive.ObjectID); ok {
			seen[oid] = struct{}{}
		}
	}

	fromMemberships, err := s.memberships.Distinct(ctx, "project_id", bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	for _, v := range fromMemberships {
		if oid, ok := v.(primitive.ObjectID); ok {
			seen[oid] = struct{}{}
		}
	}

	ids := make([]primitive.ObjectID, 0, len(seen))
	for oid := range seen {
		ids = append(ids, oid)
	}
	return ids, nil
}

// Delete removes the project and every record under it: tasks, feedback,
// iterations, files, messages, and team memberships are deleted; payments
// keep their history with project_id nulled. Runs inside a transaction
// when the server supports one, ordered sequential deletes otherwise.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	return txn.WithTransaction(ctx, s.db.Client(), func(ctx context.Context) error {
		scoped := bson.M{"project_id": id}

		if _, err := s.tasks.DeleteMany(ctx, scoped); err != nil {
			return err
		}
		if _, err := s.feedback.DeleteMany(ctx, scoped); err != nil {
			return err
		}
		if _, err := s.iterations.DeleteMany(ctx, scoped); err != nil {
			return err
		}
		if _, err := s.files.DeleteMany(ctx, scoped); err != nil {
			return err
		}
		if _, err := s.messages.DeleteMany(ctx, scoped); err != nil {
			return err
		}
		if _, err := s.memberships.DeleteMany(ctx, scoped); err != nil {
			return err
		}
		if _, err := s.payments.UpdateMany(ctx, scoped,
			bson.M{"$unset": bson.M{"project_id": ""}},
		); err != nil {
			return err
		}

		res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			return err
		}
		if res.DeletedCount == 0 {
			return ErrNotFound
		}
		return nil
	})
}
