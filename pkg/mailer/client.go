package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/devpush/devpush/internal/config"
)

// Client sends transactional email through the provider's HTTP API.
// When no API key is configured the client is a no-op, so callers can
// always send without checking deployment environment first.
type Client struct {
	config     config.MailerConfig
	httpClient *http.Client
}

type message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

func NewClient(cfg config.MailerConfig) *Client {
	return &Client{
		config:     cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Enabled() bool {
	return c.config.APIKey != "" && c.config.BaseURL != ""
}

func (c *Client) Send(ctx context.Context, to, subject, body string) error {
	if !c.Enabled() {
		return nil
	}

	payload, err := json.Marshal(message{
		From:    c.config.From,
		To:      to,
		Subject: subject,
		Text:    body,
	})
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.config.BaseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("mail API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

// SendProjectDeactivated notifies the owner that their project was put to
// sleep for inactivity.
func (c *Client) SendProjectDeactivated(ctx context.Context, to, projectName string) error {
	subject := fmt.Sprintf("Your project %q was deactivated", projectName)
	body := fmt.Sprintf(
		"Hi,\n\nYour project %q has not received traffic for a while and was deactivated.\n"+
			"Visiting the project URL or pushing a new commit will reactivate it.\n\n— /dev/push",
		projectName,
	)
	return c.Send(ctx, to, subject, body)
}

// SendProjectDisabled notifies the owner that their project was disabled
// after an extended period of inactivity.
func (c *Client) SendProjectDisabled(ctx context.Context, to, projectName string) error {
	subject := fmt.Sprintf("Your project %q was disabled", projectName)
	body := fmt.Sprintf(
		"Hi,\n\nYour project %q stayed inactive past the grace period and has been disabled.\n"+
			"You can restore it from the dashboard at any time.\n\n— /dev/push",
		projectName,
	)
	return c.Send(ctx, to, subject, body)
}
