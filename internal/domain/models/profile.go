package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profile roles. "member" is the default for every self-registered
// traveler; "admin" and "super_admin" unlock the back office.
const (
	RoleMember     = "member"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// Profile is the persisted record for a signed-in traveler or staff
// member. It is keyed by the identity provider's stable subject id and
// is created lazily the first time an identity completes the auth flow.
type Profile struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Subject     string             `bson:"subject"` // identity provider's stable id
	Email       string             `bson:"email"`
	EmailCI     string             `bson:"email_ci"` // case-folded for lookups
	DisplayName string             `bson:"display_name"`
	Role        string             `bson:"role"`

	// PasswordHash is set only for profiles that registered with a
	// password; provider-only profiles leave it empty.
	PasswordHash string `bson:"password_hash,omitempty"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// IsAdminRole reports whether role grants access to the admin zone.
func IsAdminRole(role string) bool {
	return role == RoleAdmin || role == RoleSuperAdmin
}
