// internal/app/store/tasks/taskstore.go
package taskstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/webstackhq/webstack/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound maps mongo.ErrNoDocuments for callers outside the store.
	ErrNotFound = errors.New("task not found")
	// ErrBadStatus is returned for a status outside the closed set.
	ErrBadStatus = errors.New("unknown task status")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("tasks")}
}

// GetByID loads a task by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	var t models.Task
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Create inserts one task. The caller applies the project counter delta
// (+1 total) afterwards.
func (s *Store) Create(ctx context.Context, t models.Task) (models.Task, error) {
	if t.Status == "" {
		t.Status = models.TaskStatusPending
	}
	if !t.Status.Valid() {
		return models.Task{}, ErrBadStatus
	}

	now := time.Now().UTC()
	t.ID = primitive.NewObjectID()
	t.Title = strings.TrimSpace(t.Title)
	t.CreatedAt = now
	t.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// CreateBatch inserts tasks under one project in a single insert. The
// caller applies the project counter delta (+len total) afterwards.
func (s *Store) CreateBatch(ctx context.Context, projectID primitive.ObjectID, tasks []models.Task) ([]models.Task, error) {
	if len(tasks) == 0 {
		return []models.Task{}, nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(tasks))
	for i := range tasks {
		if tasks[i].Status == "" {
			tasks[i].Status = models.TaskStatusPending
		}
		if !tasks[i].Status.Valid() {
			return nil, ErrBadStatus
		}
		tasks[i].ID = primitive.NewObjectID()
		tasks[i].ProjectID = projectID
		tasks[i].Title = strings.TrimSpace(tasks[i].Title)
		tasks[i].CreatedAt = now
		tasks[i].UpdatedAt = now
		docs = append(docs, tasks[i])
	}

	if _, err := s.c.InsertMany(ctx, docs); err != nil {
		return nil, err
	}
	return tasks, nil
}

// StatusTransition describes a status change that already happened, so the
// caller can mirror it onto the project counters.
type StatusTransition struct {
	From models.TaskStatus
	To   models.TaskStatus
}

// EnteredCompleted reports a transition into the completed state.
func (t StatusTransition) EnteredCompleted() bool {
	return !t.From.IsCompleted() && t.To.IsCompleted()
}

// LeftCompleted reports a transition out of the completed state.
func (t StatusTransition) LeftCompleted() bool {
	return t.From.IsCompleted() && !t.To.IsCompleted()
}

// SetStatus updates the task status and returns the transition that was
// applied. The previous status comes from the same atomic update, so two
// concurrent changes cannot both observe the same "before" state.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status models.TaskStatus) (StatusTransition, error) {
	if !status.Valid() {
		return StatusTransition{}, ErrBadStatus
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.Before)
	var before models.Task
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}},
		opts,
	).Decode(&before)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return StatusTransition{}, ErrNotFound
		}
		return StatusTransition{}, err
	}

	return StatusTransition{From: before.Status, To: status}, nil
}

// Update is the set of patchable task fields other than status.
type Update struct {
	Title       *string
	Description *string
	TaskGroup   *string
	Priority    *string
	DueDate     *time.Time
	AssignedTo  *primitive.ObjectID // nil leaves unchanged; Unassign clears
	Unassign    bool
}

// Apply patches the task.
func (s *Store) Apply(ctx context.Context, id primitive.ObjectID, u Update) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if u.Title != nil {
		set["title"] = strings.TrimSpace(*u.Title)
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.TaskGroup != nil {
		set["task_group"] = *u.TaskGroup
	}
	if u.Priority != nil {
		set["priority"] = *u.Priority
	}
	if u.DueDate != nil {
		set["due_date"] = *u.DueDate
	}
	if u.AssignedTo != nil {
		set["assigned_to"] = *u.AssignedTo
	}

	update := bson.M{"$set": set}
	if u.Unassign {
		update["$unset"] = bson.M{"assigned_to": ""}
	}

	res, err := s.c.UpdateByID(ctx, id, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a task and reports whether it was completed, so the
// caller can decrement the right project counters.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	var deleted models.Task
	err := s.c.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&deleted)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &deleted, nil
}

// ListByProject returns all tasks under a project, oldest first.
func (s *Store) ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Task, error) {
	return s.list(ctx, bson.M{"project_id": projectID})
}

// ListByProjects returns all tasks under any of the given projects.
func (s *Store) ListByProjects(ctx context.Context, projectIDs []primitive.ObjectID) ([]models.Task, error) {
	if len(projectIDs) == 0 {
		return []models.Task{}, nil
	}
	return s.list(ctx, bson.M{"project_id": bson.M{"$in": projectIDs}})
}

// ListAll returns every task. Admin-only at the route layer.
func (s *Store) ListAll(ctx context.Context) ([]models.Task, error) {
	return s.list(ctx, bson.M{})
}

// HasAssigned reports whether the user holds at least one task on the
// project. Used by the authorization policy.
func (s *Store) HasAssigned(ctx context.Context, projectID, userID primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"project_id": projectID, "assigned_to": userID}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// FirstAssignee returns the assignee of the oldest assigned task on the
// project, used as the message-receiver fallback for customer senders.
func (s *Store) FirstAssignee(ctx context.Context, projectID primitive.ObjectID) (primitive.ObjectID, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: 1}})
	var t models.Task
	err := s.c.FindOne(ctx, bson.M{
		"project_id":  projectID,
		"assigned_to": bson.M{"$exists": true, "$ne": nil},
	}, opts).Decode(&t)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return primitive.NilObjectID, ErrNotFound
		}
		return primitive.NilObjectID, err
	}
	if t.AssignedTo == nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return *t.AssignedTo, nil
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Task{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
