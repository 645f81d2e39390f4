package projectstore_test

import (
	"testing"

	projectstore "github.com/webstackhq/webstack/internal/app/store/projects"
	"github.com/webstackhq/webstack/internal/domain/models"
	"github.com/webstackhq/webstack/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create_Defaults(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()
	store := projectstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	customer := fixtures.CreateCustomer(ctx, "Casey", "casey@example.com")

	created, err := store.Create(ctx, models.Project{
		CustomerID: customer.ID,
		Title:      "  Website Redesign  ",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.Title != "Website Redesign" {
		t.Errorf("Title: got %q, want trimmed", created.Title)
	}
	if created.Phase != models.PhasePlanning {
		t.Errorf("Phase: got %q, want %q", created.Phase, models.PhasePlanning)
	}
	if created.PricingTier != "Standard" {
		t.Errorf("PricingTier: got %q, want Standard", created.PricingTier)
	}
	if created.TotalTasks != 0 || created.CompletedTasks != 0 || created.ProgressPercentage != 0 {
		t.Errorf("counters should start at zero, got %d/%d/%d",
			created.TotalTasks, created.CompletedTasks, created.ProgressPercentage)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestStore_ApplyTaskDelta_CounterScenario(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()
	store := projectstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	customer := fixtures.CreateCustomer(ctx, "Casey", "casey@example.com")
	p, err := store.Create(ctx, models.Project{CustomerID: customer.ID, Title: "Counters"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	assert := func(total, completed int64, progress int) {
		t.Helper()
		got, err := store.GetByID(ctx, p.ID)
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if got.TotalTasks != total || got.CompletedTasks != completed || got.ProgressPercentage != progress {
			t.Errorf("counters: got %d/%d/%d, want %d/%d/%d",
				got.TotalTasks, got.CompletedTasks, got.ProgressPercentage,
				total, completed, progress)
		}
	}

	// Three tasks created.
	if err := store.ApplyTaskDelta(ctx, p.ID, 3, 0); err != nil {
		t.Fatalf("ApplyTaskDelta failed: %v", err)
	}
	assert(3, 0, 0)

	// One moves to completed: 1/3 rounds to 33.
	if err := store.ApplyTaskDelta(ctx, p.ID, 0, 1); err != nil {
		t.Fatalf("ApplyTaskDelta failed: %v", err)
	}
	assert(3, 1, 33)

	// The completed task is deleted: 0/2 is back to 0.
	if err := store.ApplyTaskDelta(ctx, p.ID, -1, -1); err != nil {
		t.Fatalf("ApplyTaskDelta failed: %v", err)
	}
	assert(2, 0, 0)

	// 1/2 rounds half away from zero to 50.
	if err := store.ApplyTaskDelta(ctx, p.ID, 0, 1); err != nil {
		t.Fatalf("ApplyTaskDelta failed: %v", err)
	}
	assert(2, 1, 50)
}

func TestStore_ApplyTaskDelta_ClampsAtZero(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()
	store := projectstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	customer := fixtures.CreateCustomer(ctx, "Casey", "casey@example.com")
	p, err := store.Create(ctx, models.Project{CustomerID: customer.ID, Title: "Clamp"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.ApplyTaskDelta(ctx, p.ID, -5, -5); err != nil {
		t.Fatalf("ApplyTaskDelta failed: %v", err)
	}

	got, err := store.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.TotalTasks != 0 || got.CompletedTasks != 0 || got.ProgressPercentage != 0 {
		t.Errorf("counters should clamp at zero, got %d/%d/%d",
			got.TotalTasks, got.CompletedTasks, got.ProgressPercentage)
	}
}

func TestStore_ApplyTaskDelta_NotFound(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()
	store := projectstore.New(db)
	ctx := testutil.TestContext(t)

	err := store.ApplyTaskDelta(ctx, primitive.NewObjectID(), 1, 0)
	if err != projectstore.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_ListForRole(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()
	store := projectstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	owner := fixtures.CreateCustomer(ctx, "Owner", "owner@example.com")
	other := fixtures.CreateCustomer(ctx, "Other", "other@example.com")
	member := fixtures.CreateTeamMember(ctx, "Member", "member@example.com")
	assignee := fixtures.CreateTeamMember(ctx, "Assignee", "assignee@example.com")
	admin := fixtures.CreateAdmin(ctx, "Admin", "admin@example.com")

	owned := fixtures.CreateProject(ctx, "Owned", owner.ID)
	foreign := fixtures.CreateProject(ctx, "Foreign", other.ID)

	// member is on the roster of "owned"; assignee holds a task on "foreign".
	fixtures.CreateMembership(ctx, owned.ID, member.ID)
	fixtures.CreateTask(ctx, foreign.ID, "Assigned work", models.TaskStatusPending, &assignee.ID)

	adminList, err := store.ListForRole(ctx, "admin", admin.ID)
	if err != nil {
		t.Fatalf("ListForRole(admin) failed: %v", err)
	}
	if len(adminList) != 2 {
		t.Errorf("admin should see every project, got %d", len(adminList))
	}

	ownerList, err := store.ListForRole(ctx, "customer", owner.ID)
	if err != nil {
		t.Fatalf("ListForRole(customer) failed: %v", err)
	}
	if len(ownerList) != 1 || ownerList[0].ID != owned.ID {
		t.Errorf("customer should see only their own project, got %d", len(ownerList))
	}

	memberList, err := store.ListForRole(ctx, "team_member", member.ID)
	if err != nil {
		t.Fatalf("ListForRole(team_member) failed: %v", err)
	}
	if len(memberList) != 1 || memberList[0].ID != owned.ID {
		t.Errorf("roster membership should scope to the project, got %d", len(memberList))
	}

	assigneeList, err := store.ListForRole(ctx, "team_member", assignee.ID)
	if err != nil {
		t.Fatalf("ListForRole(team_member) failed: %v", err)
	}
	if len(assigneeList) != 1 || assigneeList[0].ID != foreign.ID {
		t.Errorf("task assignment should scope to the project, got %d", len(assigneeList))
	}

	unlinked, err := store.ListForRole(ctx, "team_member", primitive.NewObjectID())
	if err != nil {
		t.Fatalf("ListForRole(team_member) failed: %v", err)
	}
	if len(unlinked) != 0 {
		t.Errorf("unlinked team member should see nothing, got %d", len(unlinked))
	}
}

func TestStore_Delete_Cascade(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()
	store := projectstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	customer := fixtures.CreateCustomer(ctx, "Casey", "casey@example.com")
	member := fixtures.CreateTeamMember(ctx, "Member", "member@example.com")
	p := fixtures.CreateProject(ctx, "Doomed", customer.ID)

	fixtures.CreateTask(ctx, p.ID, "Task A", models.TaskStatusPending, nil)
	fixtures.CreateTask(ctx, p.ID, "Task B", models.TaskStatusCompleted, &member.ID)
	fixtures.CreateMembership(ctx, p.ID, member.ID)
	fixtures.CreateMessage(ctx, p.ID, member.ID, customer.ID, "hello")
	payment := fixtures.CreatePayment(ctx, p.ID, 1500)

	if err := store.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := store.GetByID(ctx, p.ID); err != projectstore.ErrNotFound {
		t.Errorf("project should be gone, got %v", err)
	}

	for _, coll := range []string{"tasks", "messages", "project_team_members"} {
		n, err := db.Collection(coll).CountDocuments(ctx, bson.M{"project_id": p.ID})
		if err != nil {
			t.Fatalf("count %s failed: %v", coll, err)
		}
		if n != 0 {
			t.Errorf("%s: expected cascade delete, %d rows remain", coll, n)
		}
	}

	// Payment history survives with the project reference nulled.
	var kept models.Payment
	if err := db.Collection("payments").FindOne(ctx, bson.M{"_id": payment.ID}).Decode(&kept); err != nil {
		t.Fatalf("payment should survive project deletion: %v", err)
	}
	if kept.ProjectID != nil {
		t.Errorf("payment project_id should be nulled, got %v", kept.ProjectID)
	}
	if kept.Amount != 1500 {
		t.Errorf("payment amount should be untouched, got %v", kept.Amount)
	}
}

func TestStore_Delete_NotFound(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()
	store := projectstore.New(db)
	ctx := testutil.TestContext(t)

	if err := store.Delete(ctx, primitive.NewObjectID()); err != projectstore.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
