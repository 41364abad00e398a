package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the local replica of an Account Directory entry.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FullName  string    `gorm:"not null" json:"fullName"`
	Email     string    `gorm:"not null" json:"email"`
	Phone     string    `json:"phone"`
	Role      string    `gorm:"type:varchar(40);not null" json:"role"`
	IsActive  bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
