package handlers

import (
	"errors"
	"io"

	"zapdash/internal/api/dto/common"
	connectiondto "zapdash/internal/api/dto/v1/connection"
	"zapdash/internal/gateway"
	"zapdash/internal/logging"
	"zapdash/internal/service"
	"zapdash/internal/utils"

	"github.com/gin-gonic/gin"
)

// ConnectionHandler handles connection-related HTTP requests
type ConnectionHandler struct {
	connectionService service.ConnectionService
}

// NewConnectionHandler creates a new connection handler instance
func NewConnectionHandler(connectionService service.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{
		connectionService: connectionService,
	}
}

// ListConnections returns the merged connection view for the caller
func (h *ConnectionHandler) ListConnections(c *gin.Context) {
	viewer := currentViewer(c)
	connections, err := h.connectionService.ListConnections(c.Request.Context(), viewer)
	if err != nil {
		logging.GetGlobalLogger().Error("ListConnections failed for userID=%s: %v", viewer.UserID, err)
		utils.HandleAPIError(c, err, common.ErrCodeInternalServer, "Failed to load connections")
		return
	}

	utils.HandleSuccess(c, connections)
}

// CreateConnection creates the gateway instance and registers it locally
func (h *ConnectionHandler) CreateConnection(c *gin.Context) {
	var req connectiondto.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleAPIError(c, err, common.ErrCodeValidation, "Instance name is required")
		return
	}

	viewer := currentViewer(c)
	conn, err := h.connectionService.CreateConnection(c.Request.Context(), viewer, req.InstanceName)
	if err != nil {
		logging.GetGlobalLogger().Error("CreateConnection failed for userID=%s name=%s: %v", viewer.UserID, req.InstanceName, err)
		utils.HandleAPIError(c, err, common.ErrCodeGateway, "Failed to create connection")
		return
	}

	utils.HandleCreated(c, conn)
}

// DeleteConnection removes the gateway instance and the local row
func (h *ConnectionHandler) DeleteConnection(c *gin.Context) {
	name := c.Param("name")
	if err := h.connectionService.DeleteConnection(c.Request.Context(), name); err != nil {
		logging.GetGlobalLogger().Error("DeleteConnection failed for name=%s: %v", name, err)
		utils.HandleAPIError(c, err, common.ErrCodeGateway, "Failed to delete connection")
		return
	}

	utils.HandleNoContent(c)
}

// SyncConnections registers gateway instances that have no local row yet
func (h *ConnectionHandler) SyncConnections(c *gin.Context) {
	var req connectiondto.SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleAPIError(c, err, common.ErrCodeValidation, "Invalid request data")
		return
	}

	viewer := currentViewer(c)
	count, err := h.connectionService.SyncConnections(c.Request.Context(), viewer, req.Instances)
	if err != nil {
		logging.GetGlobalLogger().Error("SyncConnections failed for userID=%s: %v", viewer.UserID, err)
		utils.HandleAPIError(c, err, common.ErrCodeInternalServer, "Failed to sync connections")
		return
	}

	utils.HandleSuccess(c, connectiondto.SyncResponse{Count: count})
}

// Connect requests a QR code or pairing code for the instance. A body-less
// request means QR mode; only a present, malformed payload is rejected.
func (h *ConnectionHandler) Connect(c *gin.Context) {
	var req connectiondto.ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.HandleAPIError(c, err, common.ErrCodeValidation, "Invalid pairing phone number")
		return
	}

	name := c.Param("name")
	result, err := h.connectionService.Connect(c.Request.Context(), name, req.Phone)
	if err != nil {
		logging.GetGlobalLogger().Error("Connect failed for name=%s: %v", name, err)
		utils.HandleAPIError(c, err, common.ErrCodeGateway, "Failed to connect instance")
		return
	}

	utils.HandleSuccess(c, result)
}

// Status returns the current pairing/status payload; a null payload is the
// poller's "try again" signal, not an error
func (h *ConnectionHandler) Status(c *gin.Context) {
	status, err := h.connectionService.Status(c.Request.Context(), c.Param("name"))
	if err != nil {
		utils.HandleAPIError(c, err, common.ErrCodeGateway, "Failed to fetch instance status")
		return
	}

	utils.HandleSuccess(c, status)
}

// Logout disconnects the device session best-effort
func (h *ConnectionHandler) Logout(c *gin.Context) {
	if err := h.connectionService.Logout(c.Request.Context(), c.Param("name")); err != nil {
		utils.HandleAPIError(c, err, common.ErrCodeGateway, "Failed to log out instance")
		return
	}

	utils.HandleMessage(c, "Instance logged out")
}

// GetWebhook returns the instance's normalized webhook configuration
func (h *ConnectionHandler) GetWebhook(c *gin.Context) {
	cfg, err := h.connectionService.GetWebhook(c.Request.Context(), c.Param("name"))
	if err != nil {
		utils.HandleAPIError(c, err, common.ErrCodeGateway, "Failed to fetch webhook configuration")
		return
	}

	utils.HandleSuccess(c, cfg)
}

// SetWebhook replaces the instance's webhook configuration
func (h *ConnectionHandler) SetWebhook(c *gin.Context) {
	var req connectiondto.WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleAPIError(c, err, common.ErrCodeValidation, "Invalid webhook configuration")
		return
	}

	name := c.Param("name")
	cfg := gateway.WebhookConfig{
		URL:                 req.URL,
		Enabled:             req.Enabled,
		Events:              req.Events,
		ExcludeMessages:     req.ExcludeMessages,
		AddURLEvents:        req.AddURLEvents,
		AddURLTypesMessages: req.AddURLTypesMessages,
	}
	if err := h.connectionService.SetWebhook(c.Request.Context(), name, cfg); err != nil {
		logging.GetGlobalLogger().Error("SetWebhook failed for name=%s: %v", name, err)
		utils.HandleAPIError(c, err, common.ErrCodeGateway, "Failed to set webhook configuration")
		return
	}

	utils.HandleMessage(c, "Webhook configured")
}

// AssignTeam moves a connection into a team (admin only)
func (h *ConnectionHandler) AssignTeam(c *gin.Context) {
	var req connectiondto.AssignTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleAPIError(c, err, common.ErrCodeValidation, "Invalid request data")
		return
	}

	name := c.Param("name")
	viewer := currentViewer(c)
	if err := h.connectionService.AssignTeam(c.Request.Context(), viewer, name, req.TeamID); err != nil {
		logging.GetGlobalLogger().Error("AssignTeam failed for name=%s: %v", name, err)
		utils.HandleAPIError(c, err, common.ErrCodeInternalServer, "Failed to update team assignment")
		return
	}

	utils.HandleMessage(c, "Team assignment updated")
}
