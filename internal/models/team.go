package models

import "time"

// Team groups connections for shared visibility. Deleted hard, never soft:
// a tombstoned team would leave assigned connections pointing at a row the
// preloads no longer see.
type Team struct {
	ID        uint         `gorm:"primaryKey"`
	Name      string       `gorm:"not null"`
	Members   []TeamMember `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TeamMember links a profile to a team. The (team_id, user_id) pair is
// unique; membership writes are upserts keyed on it.
type TeamMember struct {
	ID        uint    `gorm:"primaryKey"`
	TeamID    uint    `gorm:"uniqueIndex:idx_team_user;not null"`
	UserID    string  `gorm:"uniqueIndex:idx_team_user;not null"`
	Role      string  `gorm:"type:varchar(20);default:'member'"`
	Profile   Profile `gorm:"foreignKey:UserID"`
	CreatedAt time.Time
}
