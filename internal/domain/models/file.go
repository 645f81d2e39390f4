// internal/domain/models/file.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// File is the metadata record for a project-scoped upload. The binary
// itself lives in whatever blob backend the deployment configures; the
// record carries only the storage key.
type File struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProjectID  primitive.ObjectID `bson:"project_id" json:"project_id"`
	UploaderID primitive.ObjectID `bson:"uploader_id" json:"uploader_id"`

	Name        string `bson:"name" json:"name"`
	ContentType string `bson:"content_type,omitempty" json:"content_type,omitempty"`
	Size        int64  `bson:"size" json:"size"`
	StorageKey  string `bson:"storage_key" json:"storage_key"` // uuid-based key

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
