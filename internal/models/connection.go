package models

import "time"

// Connection is the locally registered side of a gateway instance. The
// gateway owns existence and live status; this row owns the owner, the team
// assignment and the per-instance token.
//
// Deletes are hard deletes: a soft-deleted row would keep holding the unique
// instance name and block re-registering it.
type Connection struct {
	ID           uint   `gorm:"primaryKey"`
	InstanceName string `gorm:"uniqueIndex;not null"`
	UserID       string `gorm:"not null"`
	Token        string
	TeamID       *uint
	Team         *Team `gorm:"foreignKey:TeamID"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
