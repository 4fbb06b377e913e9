package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"zapdash/internal/logging"
)

// API is the gateway surface the rest of the application consumes.
type API interface {
	// FetchInstances returns the gateway's full instance list. Any failure
	// yields an empty list: callers must treat "no instances" as ambiguous
	// between truly empty and a transient fetch failure.
	FetchInstances(ctx context.Context) []Instance
	// CreateInstance registers a new instance. The response shape varies;
	// use ExtractCreateToken on the result.
	CreateInstance(ctx context.Context, name string) (interface{}, error)
	// ConnectInstance requests a QR code, or a numeric pairing code when a
	// phone number is given.
	ConnectInstance(ctx context.Context, token, phone string) (interface{}, error)
	// LogoutInstance disconnects best-effort; failures are logged only.
	LogoutInstance(ctx context.Context, token string)
	// DeleteInstance removes the instance from the gateway.
	DeleteInstance(ctx context.Context, token string) error
	// GetInstanceStatus returns the current status/QR/pairing payload, or
	// nil on failure. A nil result is a valid "try again" signal for pollers.
	GetInstanceStatus(ctx context.Context, token string) interface{}
	// SetWebhook replaces the instance's event-webhook configuration.
	SetWebhook(ctx context.Context, token string, cfg WebhookConfig) (interface{}, error)
	// FindWebhook returns the raw webhook configuration, or nil on failure.
	FindWebhook(ctx context.Context, token string) interface{}
}

// Client issues authenticated requests against the messaging gateway.
type Client struct {
	baseURL    string
	adminToken string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewClient creates a gateway client. The admin token authorizes the
// instance-list and instance-creation calls; everything else uses the
// per-instance token passed per call.
func NewClient(baseURL, adminToken string, logger *logging.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		adminToken: adminToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

func (c *Client) do(ctx context.Context, method, path string, headers map[string]string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return c.httpClient.Do(req)
}

// readError drains the response body into an error message.
func readError(res *http.Response, fallback string) error {
	msg, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
	text := strings.TrimSpace(string(msg))
	if text == "" {
		text = fallback
	}
	return fmt.Errorf("gateway returned %d: %s", res.StatusCode, text)
}

func decodeBody(res *http.Response) (interface{}, error) {
	var data interface{}
	if err := json.NewDecoder(res.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode gateway response: %w", err)
	}
	return data, nil
}

// FetchInstances lists every instance the gateway knows about.
func (c *Client) FetchInstances(ctx context.Context) []Instance {
	res, err := c.do(ctx, http.MethodGet, "/instance/all", map[string]string{"admintoken": c.adminToken}, nil)
	if err != nil {
		c.logger.Error("Gateway instance list fetch failed: %v", err)
		return nil
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		c.logger.Error("Gateway instance list fetch failed: %v", readError(res, "instance list unavailable"))
		return nil
	}

	var items []interface{}
	if err := json.NewDecoder(res.Body).Decode(&items); err != nil {
		c.logger.Error("Gateway instance list fetch failed: %v", err)
		return nil
	}

	instances := make([]Instance, 0, len(items))
	for _, item := range items {
		instances = append(instances, NewInstance(item))
	}
	return instances
}

// CreateInstance registers a new instance under the given name.
func (c *Client) CreateInstance(ctx context.Context, name string) (interface{}, error) {
	res, err := c.do(ctx, http.MethodPost, "/instance/init",
		map[string]string{"admintoken": c.adminToken},
		map[string]string{"name": name})
	if err != nil {
		return nil, fmt.Errorf("failed to create instance: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, readError(res, "failed to create instance")
	}

	return decodeBody(res)
}

// ConnectInstance starts pairing. With a phone number the gateway answers
// with a numeric pairing code instead of a QR image.
func (c *Client) ConnectInstance(ctx context.Context, token, phone string) (interface{}, error) {
	body := map[string]string{}
	if phone != "" {
		body["phone"] = phone
	}

	res, err := c.do(ctx, http.MethodPost, "/instance/connect", map[string]string{"token": token}, body)
	if err != nil {
		return nil, fmt.Errorf("failed to connect instance: %w", err)
	}
	defer res.Body.Close()

	// The gateway rate-limits repeated connect calls with 429
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, readError(res, "failed to connect instance")
	}

	return decodeBody(res)
}

// LogoutInstance disconnects the device session. Failures are logged, never
// raised, so local cleanup can proceed regardless.
func (c *Client) LogoutInstance(ctx context.Context, token string) {
	res, err := c.do(ctx, http.MethodPost, "/instance/disconnect", map[string]string{"token": token}, nil)
	if err != nil {
		c.logger.Error("Gateway logout failed: %v", err)
		return
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		c.logger.Error("Gateway logout failed: %v", readError(res, "logout rejected"))
	}
}

// DeleteInstance removes the instance from the gateway.
func (c *Client) DeleteInstance(ctx context.Context, token string) error {
	res, err := c.do(ctx, http.MethodDelete, "/instance", map[string]string{"token": token}, nil)
	if err != nil {
		return fmt.Errorf("failed to delete instance: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return readError(res, "failed to delete instance")
	}
	return nil
}

// GetInstanceStatus fetches the current pairing/status payload.
func (c *Client) GetInstanceStatus(ctx context.Context, token string) interface{} {
	res, err := c.do(ctx, http.MethodGet, "/instance/status", map[string]string{"token": token}, nil)
	if err != nil {
		c.logger.Warn("Gateway status fetch failed: %v", err)
		return nil
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil
	}

	data, err := decodeBody(res)
	if err != nil {
		c.logger.Warn("Gateway status fetch failed: %v", err)
		return nil
	}
	return data
}

// SetWebhook replaces the instance's webhook configuration.
func (c *Client) SetWebhook(ctx context.Context, token string, cfg WebhookConfig) (interface{}, error) {
	res, err := c.do(ctx, http.MethodPost, "/webhook", map[string]string{"token": token}, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, readError(res, "failed to set webhook")
	}

	return decodeBody(res)
}

// FindWebhook fetches the current webhook configuration. The gateway may
// answer with an object, a list, or an empty body; distinguishing "no
// webhook configured" is the caller's job (see NormalizeWebhook).
func (c *Client) FindWebhook(ctx context.Context, token string) interface{} {
	res, err := c.do(ctx, http.MethodGet, "/webhook", map[string]string{"token": token}, nil)
	if err != nil {
		c.logger.Warn("Gateway webhook fetch failed: %v", err)
		return nil
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil
	}

	data, err := decodeBody(res)
	if err != nil {
		c.logger.Warn("Gateway webhook fetch failed: %v", err)
		return nil
	}
	return data
}
