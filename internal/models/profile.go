package models

import "time"

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Profile mirrors one identity-provider account. The ID is the provider UID;
// account creation itself happens in the identity provider, not here.
type Profile struct {
	ID        string `gorm:"primaryKey"`
	Email     string `gorm:"uniqueIndex;not null"`
	Role      Role   `gorm:"type:varchar(20);default:'member'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}
