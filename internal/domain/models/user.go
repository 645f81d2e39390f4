// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents customers, team members, and admins.
//
// NOTE:
//   - Project team membership is not embedded on User.
//     Use the project_team_members collection to discover a user's projects.
//   - PasswordHash is empty until the verification/reset flow sets one;
//     sign-in is impossible while it is empty.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	EmailCI      string             `bson:"email_ci" json:"-"` // lowercase, diacritics-stripped
	UserName     string             `bson:"user_name" json:"user_name"`
	UserNameCI   string             `bson:"user_name_ci" json:"-"`
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`

	Role         string `bson:"role" json:"role"` // customer | team_member | admin
	TeamRole     string `bson:"team_role,omitempty" json:"team_role,omitempty"`
	Department   string `bson:"department,omitempty" json:"department,omitempty"`
	ProfileImage string `bson:"profile_image,omitempty" json:"profile_image,omitempty"`

	Verified bool `bson:"verified" json:"verified"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
