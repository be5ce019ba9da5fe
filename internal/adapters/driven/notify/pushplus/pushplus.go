// Package pushplus sends article notifications through the pushplus
// WeChat push service (www.pushplus.plus).
package pushplus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hunterworks/hunter-factory/internal/core/ports/driven"
)

const (
	// DefaultBaseURL is the pushplus API endpoint.
	DefaultBaseURL = "https://www.pushplus.plus"

	// DefaultTimeout bounds a single push request.
	DefaultTimeout = 15 * time.Second
)

// Ensure Channel implements the interface.
var _ driven.NotificationChannel = (*Channel)(nil)

// Config holds pushplus connection settings.
type Config struct {
	// Token is the pushplus user token. Required.
	Token string

	// BaseURL overrides the API endpoint, mainly for tests.
	BaseURL string

	// Timeout bounds a single request. Defaults to DefaultTimeout.
	Timeout time.Duration
}

// Channel pushes markdown messages to WeChat via pushplus.
type Channel struct {
	config Config
	client *http.Client
}

// NewChannel creates a pushplus notification channel.
func NewChannel(config Config) (*Channel, error) {
	if config.Token == "" {
		return nil, fmt.Errorf("pushplus: token is required")
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}
	return &Channel{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}, nil
}

type pushRequest struct {
	Token    string `json:"token"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Template string `json:"template"`
}

type pushResponse struct {
	Code    int    `json:"code"`
	Message string `json:"msg"`
}

// Send pushes one markdown message. The pushplus API returns HTTP 200
// even on failure, so the body's code field is the real status.
func (c *Channel) Send(ctx context.Context, title, body string) error {
	payload, err := json.Marshal(pushRequest{
		Token:    c.config.Token,
		Title:    title,
		Content:  body,
		Template: "markdown",
	})
	if err != nil {
		return fmt.Errorf("pushplus: encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/send", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("pushplus: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("pushplus: sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("pushplus: unexpected status %d", resp.StatusCode)
	}

	var result pushResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("pushplus: decoding response: %w", err)
	}
	if result.Code != 200 {
		return fmt.Errorf("pushplus: push rejected (code %d): %s", result.Code, result.Message)
	}
	return nil
}
