package connection

import "zapdash/internal/service"

// CreateRequest creates a new gateway instance and registers it locally
type CreateRequest struct {
	InstanceName string `json:"instance_name" binding:"required,instancename"`
}

// SyncRequest promotes unregistered gateway instances into local rows
type SyncRequest struct {
	Instances []service.SyncInstance `json:"instances" binding:"required,dive"`
}

// SyncResponse reports how many instances were registered
type SyncResponse struct {
	Count int `json:"count"`
}

// ConnectRequest starts pairing; with a phone number the gateway answers
// with a numeric pairing code instead of a QR image
type ConnectRequest struct {
	Phone string `json:"phone" binding:"omitempty,pairingphone"`
}

// AssignTeamRequest moves a connection into a team; a null team id clears
// the assignment
type AssignTeamRequest struct {
	TeamID *uint `json:"team_id"`
}

// WebhookRequest carries the normalized webhook configuration
type WebhookRequest struct {
	URL                 string   `json:"url" binding:"omitempty,url"`
	Enabled             bool     `json:"enabled"`
	Events              []string `json:"events"`
	ExcludeMessages     []string `json:"excludeMessages"`
	AddURLEvents        bool     `json:"addUrlEvents"`
	AddURLTypesMessages bool     `json:"addUrlTypesMessages"`
}
