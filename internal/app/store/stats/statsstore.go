// internal/app/store/stats/statsstore.go

// Package statsstore computes the role-scoped dashboard aggregates. Every
// number is derived from the projects visible to the caller, so a customer
// and an admin looking at the same endpoint see different totals.
package statsstore

import (
	"context"
	"math"

	"github.com/webstackhq/webstack/internal/app/system/authz"
	"github.com/webstackhq/webstack/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ProjectScoper yields the project IDs a team member may see. Satisfied by
// the project store.
type ProjectScoper interface {
	VisibleProjectIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error)
}

// Dashboard is the aggregate snapshot served at /dashboard.
type Dashboard struct {
	TotalProjects     int64            `json:"total_projects"`
	ActiveProjects    int64            `json:"active_projects"`
	CompletedProjects int64            `json:"completed_projects"`
	ProjectsByPhase   map[string]int64 `json:"projects_by_phase"`
	TotalTasks        int64            `json:"total_tasks"`
	CompletedTasks    int64            `json:"completed_tasks"`
	TasksByStatus     map[string]int64 `json:"tasks_by_status"`
	AverageProgress   int              `json:"average_progress"`

	// Admin-only extras; zero for other roles.
	TotalUsers     int64 `json:"total_users,omitempty"`
	TotalCustomers int64 `json:"total_customers,omitempty"`
	TotalTeam      int64 `json:"total_team_members,omitempty"`
}

type Store struct {
	db     *mongo.Database
	scoper ProjectScoper
}

func New(db *mongo.Database, scoper ProjectScoper) *Store {
	return &Store{db: db, scoper: scoper}
}

// FetchDashboard computes the dashboard for one user. Intentionally
// tolerant: an aggregate that errors contributes zero rather than failing
// the whole dashboard.
func (s *Store) FetchDashboard(ctx context.Context, role string, userID primitive.ObjectID) (Dashboard, error) {
	out := Dashboard{
		ProjectsByPhase: map[string]int64{},
		TasksByStatus:   map[string]int64{},
	}

	projectFilter, taskFilter, empty, err := s.scopeFilters(ctx, role, userID)
	if err != nil {
		return out, err
	}
	if empty {
		return out, nil
	}

	s.projectAggregates(ctx, projectFilter, &out)
	s.taskAggregates(ctx, taskFilter, &out)

	if role == authz.RoleAdmin {
		s.userCounts(ctx, &out)
	}
	return out, nil
}

// scopeFilters builds the project and task filters for the role. empty is
// true when the scope provably contains nothing, which skips the queries.
func (s *Store) scopeFilters(ctx context.Context, role string, userID primitive.ObjectID) (projectFilter, taskFilter bson.M, empty bool, err error) {
	switch role {
	case authz.RoleAdmin:
		return bson.M{}, bson.M{}, false, nil
	case authz.RoleCustomer:
		ids, err := s.customerProjectIDs(ctx, userID)
		if err != nil {
			return nil, nil, false, err
		}
		if len(ids) == 0 {
			return nil, nil, true, nil
		}
		return bson.M{"customer_id": userID}, bson.M{"project_id": bson.M{"$in": ids}}, false, nil
	case authz.RoleTeamMember:
		ids, err := s.scoper.VisibleProjectIDs(ctx, userID)
		if err != nil {
			return nil, nil, false, err
		}
		if len(ids) == 0 {
			return nil, nil, true, nil
		}
		in := bson.M{"$in": ids}
		return bson.M{"_id": in}, bson.M{"project_id": in}, false, nil
	default:
		return nil, nil, true, nil
	}
}

func (s *Store) customerProjectIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	raw, err := s.db.Collection("projects").Distinct(ctx, "_id", bson.M{"customer_id": userID})
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, v := range raw {
		if oid, ok := v.(primitive.ObjectID); ok {
			ids = append(ids, oid)
		}
	}
	return ids, nil
}

func (s *Store) projectAggregates(ctx context.Context, filter bson.M, out *Dashboard) {
	projects := s.db.Collection("projects")

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: filter}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":          "$phase",
			"count":        bson.M{"$sum": 1},
			"avg_progress": bson.M{"$avg": "$progress_percentage"},
		}}},
	}

	cur, err := projects.Aggregate(ctx, pipeline)
	if err != nil {
		return
	}
	defer cur.Close(ctx)

	var rows []struct {
		Phase       string  `bson:"_id"`
		Count       int64   `bson:"count"`
		AvgProgress float64 `bson:"avg_progress"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return
	}

	var progressSum float64
	for _, r := range rows {
		out.ProjectsByPhase[r.Phase] = r.Count
		out.TotalProjects += r.Count
		if r.Phase == string(models.PhaseCompleted) {
			out.CompletedProjects += r.Count
		} else {
			out.ActiveProjects += r.Count
		}
		progressSum += r.AvgProgress * float64(r.Count)
	}
	if out.TotalProjects > 0 {
		out.AverageProgress = int(math.Round(progressSum / float64(out.TotalProjects)))
	}
}

func (s *Store) taskAggregates(ctx context.Context, filter bson.M, out *Dashboard) {
	tasks := s.db.Collection("tasks")

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: filter}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cur, err := tasks.Aggregate(ctx, pipeline)
	if err != nil {
		return
	}
	defer cur.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return
	}

	for _, r := range rows {
		out.TasksByStatus[r.Status] = r.Count
		out.TotalTasks += r.Count
		if r.Status == string(models.TaskStatusCompleted) {
			out.CompletedTasks += r.Count
		}
	}
}

func (s *Store) userCounts(ctx context.Context, out *Dashboard) {
	users := s.db.Collection("users")

	if n, err := users.CountDocuments(ctx, bson.M{}); err == nil {
		out.TotalUsers = n
	}
	if n, err := users.CountDocuments(ctx, bson.M{"role": authz.RoleCustomer}); err == nil {
		out.TotalCustomers = n
	}
	if n, err := users.CountDocuments(ctx, bson.M{"role": authz.RoleTeamMember}); err == nil {
		out.TotalTeam = n
	}
}
