package model

import "time"

// Role is the fixed system role of a user. The three roles are disjoint:
// there is no hierarchy, and an admin cannot act in a manager-only operation.
type Role string

const (
	RoleSpecialist Role = "specialist"
	RoleManager    Role = "manager"
	RoleAdmin      Role = "admin"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSpecialist, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// User represents an account in the system.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"size:255;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         Role      `json:"role" gorm:"type:varchar(20);not null;default:'specialist';index"`
	ProfilePhoto *string   `json:"profile_photo" gorm:"size:2048"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Principal is the authenticated actor behind a request. Every policy and
// service operation takes it as an explicit argument; a nil *Principal means
// the request carried no resolvable identity.
type Principal struct {
	ID   uint
	Role Role
}
