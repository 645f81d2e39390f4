// Package projectpolicy provides authorization policies for project access.
//
// Authorization rules:
//   - Admins may access every project
//   - Customers may access only projects they own (customer_id)
//   - Team members may access a project when they hold an assigned task on
//     it or a project_team_members row
//   - The route middleware RequireRole handles basic role enforcement;
//     these checks decide per-project access after that
package projectpolicy

import (
	"context"

	"github.com/webstackhq/webstack/internal/app/system/authz"
	"github.com/webstackhq/webstack/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CanAccess reports whether the user may read the project and its
// sub-resources (tasks, messages, feedback, files, team roster).
//
// Existence is checked before permission: callers load the project first
// and 404 on a miss, then run this check and 403 on a deny.
func CanAccess(ctx context.Context, db *mongo.Database, role string, userID primitive.ObjectID, p *models.Project) (bool, error) {
	switch role {
	case authz.RoleAdmin:
		return true, nil
	case authz.RoleCustomer:
		return p.CustomerID == userID, nil
	case authz.RoleTeamMember:
		return teamMemberLinked(ctx, db, p.ID, userID)
	default:
		return false, nil
	}
}

// CanModify reports whether the user may change project fields or manage
// its tasks. Customers never modify; they read and comment.
func CanModify(ctx context.Context, db *mongo.Database, role string, userID primitive.ObjectID, p *models.Project) (bool, error) {
	switch role {
	case authz.RoleAdmin:
		return true, nil
	case authz.RoleTeamMember:
		return teamMemberLinked(ctx, db, p.ID, userID)
	default:
		return false, nil
	}
}

// teamMemberLinked is true when the user holds an assigned task on the
// project or an explicit membership row.
func teamMemberLinked(ctx context.Context, db *mongo.Database, projectID, userID primitive.ObjectID) (bool, error) {
	one := options.Count().SetLimit(1)

	n, err := db.Collection("tasks").CountDocuments(ctx,
		bson.M{"project_id": projectID, "assigned_to": userID}, one)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return true, nil
	}

	n, err = db.Collection("project_team_members").CountDocuments(ctx,
		bson.M{"project_id": projectID, "user_id": userID}, one)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
