package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/devpush/devpush/internal/config"
)

// Client talks to the GitHub App REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	jwt        *appJWT
}

// InstallationToken is the token material issued for one installation.
type InstallationToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func NewClient(cfg config.GitHubConfig, privateKeyPEM []byte) (*Client, error) {
	jwtClient, err := newAppJWT(cfg.AppID, privateKeyPEM)
	if err != nil {
		return nil, err
	}

	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    cfg.APIBaseURL,
		jwt:        jwtClient,
	}, nil
}

// CreateInstallationToken asks GitHub to issue a fresh access token for the
// installation. GitHub returns the expiry as a Z-suffixed ISO-8601 string;
// it is normalized to UTC before being handed back.
func (c *Client) CreateInstallationToken(ctx context.Context, installationID int64) (*InstallationToken, error) {
	bearer, err := c.jwt.bearer()
	if err != nil {
		return nil, fmt.Errorf("failed to get app JWT: %w", err)
	}

	url := fmt.Sprintf("%s/app/installations/%d/access_tokens", c.baseURL, installationID)
	req, err := http.NewRequestWithContext(ctx, "POST", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to request installation token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("GitHub API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var issued InstallationToken
	if err := json.NewDecoder(resp.Body).Decode(&issued); err != nil {
		return nil, fmt.Errorf("failed to decode installation token: %w", err)
	}

	if issued.Token == "" {
		return nil, fmt.Errorf("no token in response")
	}

	issued.ExpiresAt = issued.ExpiresAt.UTC()
	return &issued, nil
}
