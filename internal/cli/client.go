package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

// Client is a thin HTTP client for the dashboard API. All requests carry the
// caller's bearer token and unwrap the standard response envelope.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// ClientConfig holds the connection settings for the dashboard API.
type ClientConfig struct {
	BaseURL string
	Token   string
}

// LoadClientConfig reads the API address and bearer token from the
// environment.
func LoadClientConfig() (*ClientConfig, error) {
	baseURL := os.Getenv("ZAPDASH_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	token := os.Getenv("ZAPDASH_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("ZAPDASH_TOKEN is not set")
	}

	return &ClientConfig{BaseURL: baseURL, Token: token}, nil
}

// NewClient creates a dashboard API client.
func NewClient(cfg *ClientConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// envelope mirrors the server's response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("unexpected response (status %d): %s", resp.StatusCode, string(raw))
	}
	if !env.Success {
		if env.Error != nil {
			return fmt.Errorf("%s: %s", env.Error.Code, env.Error.Message)
		}
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}

// Connection is the merged connection entry as the API reports it.
type Connection struct {
	ID           string `json:"id"`
	InstanceName string `json:"instance_name"`
	UserID       string `json:"user_id"`
	Status       string `json:"status"`
	IsRegistered bool   `json:"is_registered"`
	TeamName     string `json:"team_name"`
}

// ListConnections fetches the merged connection view.
func (c *Client) ListConnections(ctx context.Context) ([]Connection, error) {
	var connections []Connection
	if err := c.do(ctx, http.MethodGet, "/api/v1/connections", nil, &connections); err != nil {
		return nil, err
	}
	return connections, nil
}

// CreateConnection creates a new instance and registers it.
func (c *Client) CreateConnection(ctx context.Context, name string) (*Connection, error) {
	var conn Connection
	body := map[string]string{"instance_name": name}
	if err := c.do(ctx, http.MethodPost, "/api/v1/connections", body, &conn); err != nil {
		return nil, err
	}
	return &conn, nil
}

// Connect requests a QR code or pairing code for the named instance.
func (c *Client) Connect(ctx context.Context, name, phone string) (map[string]interface{}, error) {
	body := map[string]string{}
	if phone != "" {
		body["phone"] = phone
	}
	var result map[string]interface{}
	path := "/api/v1/connections/" + url.PathEscape(name) + "/connect"
	if err := c.do(ctx, http.MethodPost, path, body, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Status fetches the live pairing/status payload. A nil payload means the
// gateway had nothing to report yet; callers should poll again.
func (c *Client) Status(ctx context.Context, name string) (map[string]interface{}, error) {
	var result map[string]interface{}
	path := "/api/v1/connections/" + url.PathEscape(name) + "/status"
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}
