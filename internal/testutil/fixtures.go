package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"github.com/webstackhq/webstack/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a verified test user with the given role.
func (f *Fixtures) CreateUser(ctx context.Context, userName, email, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		UserName:   userName,
		UserNameCI: text.Fold(userName),
		Email:      email,
		EmailCI:    text.Fold(email),
		Role:       role,
		Verified:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateCustomer creates a verified test customer.
func (f *Fixtures) CreateCustomer(ctx context.Context, userName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, userName, email, "customer")
}

// CreateTeamMember creates a verified test team member.
func (f *Fixtures) CreateTeamMember(ctx context.Context, userName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, userName, email, "team_member")
}

// CreateAdmin creates a verified test admin.
func (f *Fixtures) CreateAdmin(ctx context.Context, userName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, userName, email, "admin")
}

// CreateUnverifiedUser creates a user who has not completed verification.
func (f *Fixtures) CreateUnverifiedUser(ctx context.Context, userName, email, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		UserName:   userName,
		UserNameCI: text.Fold(userName),
		Email:      email,
		EmailCI:    text.Fold(email),
		Role:       role,
		Verified:   false,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create unverified test user: %v", err)
	}
	return user
}

// CreateProject creates a test project owned by the given customer.
func (f *Fixtures) CreateProject(ctx context.Context, title string, customerID primitive.ObjectID) models.Project {
	f.t.Helper()

	now := time.Now().UTC()
	project := models.Project{
		ID:          primitive.NewObjectID(),
		CustomerID:  customerID,
		Title:       title,
		TitleCI:     text.Fold(title),
		Phase:       models.PhasePlanning,
		PricingTier: "Standard",
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := f.db.Collection("projects").InsertOne(ctx, project); err != nil {
		f.t.Fatalf("failed to create test project: %v", err)
	}
	return project
}

// CreateTask creates a test task on a project. assignedTo may be nil.
func (f *Fixtures) CreateTask(ctx context.Context, projectID primitive.ObjectID, title string, status models.TaskStatus, assignedTo *primitive.ObjectID) models.Task {
	f.t.Helper()

	now := time.Now().UTC()
	task := models.Task{
		ID:         primitive.NewObjectID(),
		ProjectID:  projectID,
		Title:      title,
		Status:     status,
		AssignedTo: assignedTo,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("tasks").InsertOne(ctx, task); err != nil {
		f.t.Fatalf("failed to create test task: %v", err)
	}
	return task
}

// CreateMembership enrolls a user on a project team.
func (f *Fixtures) CreateMembership(ctx context.Context, projectID, userID primitive.ObjectID) models.ProjectTeamMember {
	f.t.Helper()

	m := models.ProjectTeamMember{
		ID:        primitive.NewObjectID(),
		ProjectID: projectID,
		UserID:    userID,
		JoinedAt:  time.Now().UTC(),
	}

	if _, err := f.db.Collection("project_team_members").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test membership: %v", err)
	}
	return m
}

// CreateMessage appends a message to a project thread.
func (f *Fixtures) CreateMessage(ctx context.Context, projectID, senderID, receiverID primitive.ObjectID, body string) models.Message {
	f.t.Helper()

	msg := models.Message{
		ID:         primitive.NewObjectID(),
		ProjectID:  projectID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		SenderName: "Test Sender",
		SenderRole: "team_member",
		Body:       body,
		CreatedAt:  time.Now().UTC(),
	}

	if _, err := f.db.Collection("messages").InsertOne(ctx, msg); err != nil {
		f.t.Fatalf("failed to create test message: %v", err)
	}
	return msg
}

// CreatePayment records a payment against a project.
func (f *Fixtures) CreatePayment(ctx context.Context, projectID primitive.ObjectID, amount float64) models.Payment {
	f.t.Helper()

	p := models.Payment{
		ID:        primitive.NewObjectID(),
		ProjectID: &projectID,
		Amount:    amount,
		Status:    "paid",
		CreatedAt: time.Now().UTC(),
	}

	if _, err := f.db.Collection("payments").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test payment: %v", err)
	}
	return p
}
