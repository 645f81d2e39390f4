package tasks_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/webstackhq/webstack/internal/app/features/tasks"
	projectstore "github.com/webstackhq/webstack/internal/app/store/projects"
	taskstore "github.com/webstackhq/webstack/internal/app/store/tasks"
	"github.com/webstackhq/webstack/internal/domain/models"
	"github.com/webstackhq/webstack/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*tasks.Handler, *mongo.Database, func()) {
	t.Helper()
	db, cleanup := testutil.SetupTestDB(t)
	h := tasks.NewHandler(db, taskstore.New(db), projectstore.New(db), zap.NewNop())
	return h, db, cleanup
}

func TestHandleList_Unauthenticated(t *testing.T) {
	h := tasks.NewHandler(nil, nil, nil, zap.NewNop())

	req := testutil.NewRequest("GET", "/tasks")
	rec := testutil.NewRecorder()
	h.HandleList(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusUnauthorized)
}

func TestHandleList_CustomerGetsEmptyList(t *testing.T) {
	// Customers follow progress through project counters, never raw tasks,
	// so the stores are not even consulted.
	h := tasks.NewHandler(nil, nil, nil, zap.NewNop())

	req := testutil.NewAuthenticatedRequest("GET", "/tasks", testutil.CustomerUser())
	rec := testutil.NewRecorder()
	h.HandleList(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	var list []models.Task
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("response is not a task list: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("customer task list should be empty, got %d", len(list))
	}
}

func TestHandleList_TeamMemberScope(t *testing.T) {
	h, db, cleanup := newTestHandler(t)
	defer cleanup()
	fixtures := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	member := fixtures.CreateTeamMember(ctx, "Member", "member@example.com")
	customer := fixtures.CreateCustomer(ctx, "Casey", "casey@example.com")
	mine := fixtures.CreateProject(ctx, "Mine", customer.ID)
	other := fixtures.CreateProject(ctx, "Other", customer.ID)

	fixtures.CreateTask(ctx, mine.ID, "Visible", models.TaskStatusPending, &member.ID)
	fixtures.CreateTask(ctx, mine.ID, "Also visible", models.TaskStatusPending, nil)
	fixtures.CreateTask(ctx, other.ID, "Hidden", models.TaskStatusPending, nil)

	req := testutil.NewAuthenticatedRequest("GET", "/tasks",
		testutil.UserFor(member.ID, member.UserName, member.Email, member.Role))
	rec := testutil.NewRecorder()
	h.HandleList(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	var list []models.Task
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("response is not a task list: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("expected the 2 tasks on the linked project, got %d", len(list))
	}
	for _, task := range list {
		if task.ProjectID != mine.ID {
			t.Errorf("task %q leaked from an unlinked project", task.Title)
		}
	}
}

func TestHandleView_BadID(t *testing.T) {
	h := tasks.NewHandler(nil, nil, nil, zap.NewNop())

	req := testutil.NewAuthenticatedRequest("GET", "/tasks/nope", testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "id", "nope")
	rec := testutil.NewRecorder()
	h.HandleView(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestHandleCreate_UpdatesCounters(t *testing.T) {
	h, db, cleanup := newTestHandler(t)
	defer cleanup()
	fixtures := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	customer := fixtures.CreateCustomer(ctx, "Casey", "casey@example.com")
	p := fixtures.CreateProject(ctx, "Counters", customer.ID)
	admin := testutil.AdminUser()

	body := fmt.Sprintf(`{"project_id": %q, "title": "New task"}`, p.ID.Hex())
	req := testutil.NewAuthenticatedJSONRequest("POST", "/tasks", body, admin)
	rec := testutil.NewRecorder()
	h.HandleCreate(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusCreated)

	// A task born completed counts toward both counters at once.
	body = fmt.Sprintf(`{"project_id": %q, "title": "Done already", "status": "completed"}`, p.ID.Hex())
	req = testutil.NewAuthenticatedJSONRequest("POST", "/tasks", body, admin)
	rec = testutil.NewRecorder()
	h.HandleCreate(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusCreated)

	got, err := projectstore.New(db).GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.TotalTasks != 2 || got.CompletedTasks != 1 || got.ProgressPercentage != 50 {
		t.Errorf("counters: got %d/%d/%d, want 2/1/50",
			got.TotalTasks, got.CompletedTasks, got.ProgressPercentage)
	}
}

func TestHandleCreate_MissingTitle(t *testing.T) {
	h, db, cleanup := newTestHandler(t)
	defer cleanup()
	fixtures := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	customer := fixtures.CreateCustomer(ctx, "Casey", "casey@example.com")
	p := fixtures.CreateProject(ctx, "No title", customer.ID)

	body := fmt.Sprintf(`{"project_id": %q, "title": "   "}`, p.ID.Hex())
	req := testutil.NewAuthenticatedJSONRequest("POST", "/tasks", body, testutil.AdminUser())
	rec := testutil.NewRecorder()
	h.HandleCreate(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, "title is required")
}

func TestHandleCreate_UnlinkedTeamMemberForbidden(t *testing.T) {
	h, db, cleanup := newTestHandler(t)
	defer cleanup()
	fixtures := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	customer := fixtures.CreateCustomer(ctx, "Casey", "casey@example.com")
	p := fixtures.CreateProject(ctx, "Not yours", customer.ID)

	body := fmt.Sprintf(`{"project_id": %q, "title": "Sneaky"}`, p.ID.Hex())
	req := testutil.NewAuthenticatedJSONRequest("POST", "/tasks", body, testutil.TeamMemberUser())
	rec := testutil.NewRecorder()
	h.HandleCreate(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusForbidden)
}

func TestHandleCreateBulk_OneCombinedDelta(t *testing.T) {
	h, db, cleanup := newTestHandler(t)
	defer cleanup()
	fixtures := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	customer := fixtures.CreateCustomer(ctx, "Casey", "casey@example.com")
	p := fixtures.CreateProject(ctx, "Bulk", customer.ID)

	body := fmt.Sprintf(`{"project_id": %q, "tasks": [
		{"title": "One"},
		{"title": "Two", "status": "completed"},
		{"title": "Three", "status": "in_progress"}
	]}`, p.ID.Hex())
	req := testutil.NewAuthenticatedJSONRequest("POST", "/tasks/bulk", body, testutil.AdminUser())
	rec := testutil.NewRecorder()
	h.HandleCreateBulk(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusCreated)

	got, err := projectstore.New(db).GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.TotalTasks != 3 || got.CompletedTasks != 1 || got.ProgressPercentage != 33 {
		t.Errorf("counters: got %d/%d/%d, want 3/1/33",
			got.TotalTasks, got.CompletedTasks, got.ProgressPercentage)
	}
}

func TestHandleEdit_StatusCrossesCompletedBoundary(t *testing.T) {
	h, db, cleanup := newTestHandler(t)
	defer cleanup()
	fixtures := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)
	projects := projectstore.New(db)

	customer := fixtures.CreateCustomer(ctx, "Casey", "casey@example.com")
	p := fixtures.CreateProject(ctx, "Boundary", customer.ID)
	task := fixtures.CreateTask(ctx, p.ID, "Work", models.TaskStatusPending, nil)
	if err := projects.ApplyTaskDelta(ctx, p.ID, 1, 0); err != nil {
		t.Fatalf("ApplyTaskDelta failed: %v", err)
	}
	admin := testutil.AdminUser()

	// pending -> completed: completed counter up, progress 100.
	req := testutil.NewAuthenticatedJSONRequest("PATCH", "/tasks/"+task.ID.Hex(),
		`{"status": "completed"}`, admin)
	req = testutil.WithChiURLParam(req, "id", task.ID.Hex())
	rec := testutil.NewRecorder()
	h.HandleEdit(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)

	got, err := projects.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.CompletedTasks != 1 || got.ProgressPercentage != 100 {
		t.Errorf("after completion: got %d completed / %d%%, want 1/100",
			got.CompletedTasks, got.ProgressPercentage)
	}

	// completed -> in_progress: counter back down.
	req = testutil.NewAuthenticatedJSONRequest("PATCH", "/tasks/"+task.ID.Hex(),
		`{"status": "in_progress"}`, admin)
	req = testutil.WithChiURLParam(req, "id", task.ID.Hex())
	rec = testutil.NewRecorder()
	h.HandleEdit(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)

	got, err = projects.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.CompletedTasks != 0 || got.ProgressPercentage != 0 {
		t.Errorf("after reopening: got %d completed / %d%%, want 0/0",
			got.CompletedTasks, got.ProgressPercentage)
	}
}

func TestHandleDelete_CompletedTaskComesOffBothCounters(t *testing.T) {
	h, db, cleanup := newTestHandler(t)
	defer cleanup()
	fixtures := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)
	projects := projectstore.New(db)

	customer := fixtures.CreateCustomer(ctx, "Casey", "casey@example.com")
	p := fixtures.CreateProject(ctx, "Delete", customer.ID)
	keep := fixtures.CreateTask(ctx, p.ID, "Keep", models.TaskStatusPending, nil)
	doomed := fixtures.CreateTask(ctx, p.ID, "Doomed", models.TaskStatusCompleted, nil)
	if err := projects.ApplyTaskDelta(ctx, p.ID, 2, 1); err != nil {
		t.Fatalf("ApplyTaskDelta failed: %v", err)
	}

	req := testutil.NewAuthenticatedRequest("DELETE", "/tasks/"+doomed.ID.Hex(), testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "id", doomed.ID.Hex())
	rec := testutil.NewRecorder()
	h.HandleDelete(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)

	got, err := projects.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.TotalTasks != 1 || got.CompletedTasks != 0 || got.ProgressPercentage != 0 {
		t.Errorf("counters: got %d/%d/%d, want 1/0/0",
			got.TotalTasks, got.CompletedTasks, got.ProgressPercentage)
	}

	if _, err := taskstore.New(db).GetByID(ctx, keep.ID); err != nil {
		t.Errorf("unrelated task should survive: %v", err)
	}
}
