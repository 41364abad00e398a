package auth

import (
	"github.com/Eursukkul/event-registration/internal/models"
	"github.com/google/uuid"
)

// Identity is the authenticated caller attached to a request.
type Identity struct {
	UserID   uuid.UUID
	Role     models.Role
	Email    string
	FullName string
}

// IdentityFromUser builds an Identity from an Account Directory record.
func IdentityFromUser(u *models.User) *Identity {
	return &Identity{
		UserID:   u.ID,
		Role:     models.ParseRole(u.Role),
		Email:    u.Email,
		FullName: u.FullName,
	}
}
