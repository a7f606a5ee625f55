package entity

import (
	"time"

	"github.com/google/uuid"
)

// Role IDs carried in JWT claims. The engine never issues tokens; it only
// trusts the already-authenticated principal's role.
const (
	RoleIDAdmin = 1
	RoleIDStaff = 2
)

// User is the minimal principal record kept for audit-log linkage. Identity
// management and credentials live outside this service.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ClinicID  uuid.UUID `gorm:"type:uuid;not null;index" json:"clinic_id"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	FullName  string    `gorm:"type:varchar(255);not null" json:"full_name"`
	RoleID    int       `gorm:"not null" json:"role_id"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
