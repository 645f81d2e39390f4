package projectpolicy_test

import (
	"testing"

	"github.com/webstackhq/webstack/internal/app/policy/projectpolicy"
	"github.com/webstackhq/webstack/internal/domain/models"
	"github.com/webstackhq/webstack/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCanAccess_Admin(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()
	ctx := testutil.TestContext(t)

	p := &models.Project{ID: primitive.NewObjectID(), CustomerID: primitive.NewObjectID()}

	ok, err := projectpolicy.CanAccess(ctx, db, "admin", primitive.NewObjectID(), p)
	if err != nil {
		t.Fatalf("CanAccess failed: %v", err)
	}
	if !ok {
		t.Error("admin should access every project")
	}
}

func TestCanAccess_CustomerOwnership(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()
	ctx := testutil.TestContext(t)

	ownerID := primitive.NewObjectID()
	p := &models.Project{ID: primitive.NewObjectID(), CustomerID: ownerID}

	ok, err := projectpolicy.CanAccess(ctx, db, "customer", ownerID, p)
	if err != nil {
		t.Fatalf("CanAccess failed: %v", err)
	}
	if !ok {
		t.Error("owner should access their project")
	}

	ok, err = projectpolicy.CanAccess(ctx, db, "customer", primitive.NewObjectID(), p)
	if err != nil {
		t.Fatalf("CanAccess failed: %v", err)
	}
	if ok {
		t.Error("a different customer should be denied")
	}
}

func TestCanAccess_TeamMemberViaAssignedTask(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()
	fixtures := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	memberID := primitive.NewObjectID()
	p := &models.Project{ID: primitive.NewObjectID(), CustomerID: primitive.NewObjectID()}
	fixtures.CreateTask(ctx, p.ID, "Assigned work", models.TaskStatusPending, &memberID)

	ok, err := projectpolicy.CanAccess(ctx, db, "team_member", memberID, p)
	if err != nil {
		t.Fatalf("CanAccess failed: %v", err)
	}
	if !ok {
		t.Error("an assigned task should grant access")
	}
}

func TestCanAccess_TeamMemberViaMembership(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()
	fixtures := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	memberID := primitive.NewObjectID()
	p := &models.Project{ID: primitive.NewObjectID(), CustomerID: primitive.NewObjectID()}
	fixtures.CreateMembership(ctx, p.ID, memberID)

	ok, err := projectpolicy.CanAccess(ctx, db, "team_member", memberID, p)
	if err != nil {
		t.Fatalf("CanAccess failed: %v", err)
	}
	if !ok {
		t.Error("a roster membership should grant access")
	}
}

func TestCanAccess_TeamMemberUnlinked(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()
	ctx := testutil.TestContext(t)

	p := &models.Project{ID: primitive.NewObjectID(), CustomerID: primitive.NewObjectID()}

	ok, err := projectpolicy.CanAccess(ctx, db, "team_member", primitive.NewObjectID(), p)
	if err != nil {
		t.Fatalf("CanAccess failed: %v", err)
	}
	if ok {
		t.Error("an unlinked team member should be denied")
	}
}

func TestCanModify_CustomerNeverModifies(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()
	ctx := testutil.TestContext(t)

	ownerID := primitive.NewObjectID()
	p := &models.Project{ID: primitive.NewObjectID(), CustomerID: ownerID}

	// Even the owning customer only reads and comments.
	ok, err := projectpolicy.CanModify(ctx, db, "customer", ownerID, p)
	if err != nil {
		t.Fatalf("CanModify failed: %v", err)
	}
	if ok {
		t.Error("customers should never modify projects")
	}
}

func TestCanModify_LinkedTeamMember(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()
	fixtures := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	memberID := primitive.NewObjectID()
	p := &models.Project{ID: primitive.NewObjectID(), CustomerID: primitive.NewObjectID()}
	fixtures.CreateMembership(ctx, p.ID, memberID)

	ok, err := projectpolicy.CanModify(ctx, db, "team_member", memberID, p)
	if err != nil {
		t.Fatalf("CanModify failed: %v", err)
	}
	if !ok {
		t.Error("a linked team member should modify the project")
	}
}
