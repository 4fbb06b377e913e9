package team

import "time"

// CreateRequest creates a new team
type CreateRequest struct {
	Name string `json:"name" binding:"required"`
}

// AddMembersRequest adds profiles to a team by email
type AddMembersRequest struct {
	Emails []string `json:"emails" binding:"required,min=1,dive,email"`
}

// MemberResponse is one team membership with the member's email
type MemberResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// Response is a team with its members
type Response struct {
	ID        uint             `json:"id"`
	Name      string           `json:"name"`
	Members   []MemberResponse `json:"members"`
	CreatedAt time.Time        `json:"created_at"`
}

// ProfileResponse is one entry of the profile directory
type ProfileResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}
