package github

import (
	"crypto/rsa"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// appJWT mints and caches the short-lived RS256 JWT that authenticates the
// platform as a GitHub App. GitHub caps the JWT lifetime at 10 minutes, so
// the cached token is reused until shortly before expiry.
type appJWT struct {
	appID      string
	privateKey *rsa.PrivateKey

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

func newAppJWT(appID string, privateKeyPEM []byte) (*appJWT, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("invalid GitHub App private key: %w", err)
	}

	return &appJWT{
		appID:      appID,
		privateKey: key,
	}, nil
}

func (a *appJWT) bearer() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Reuse the cached token with a one minute safety margin.
	if a.token != "" && time.Now().Add(time.Minute).Before(a.expiresAt) {
		return a.token, nil
	}

	now := time.Now()
	expiresAt := now.Add(10 * time.Minute)

	claims := jwt.MapClaims{
		// iat is backdated to tolerate clock drift between us and GitHub.
		"iat": jwt.NewNumericDate(now.Add(-60 * time.Second)),
		"exp": jwt.NewNumericDate(expiresAt),
		"iss": a.appID,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(a.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign app JWT: %w", err)
	}

	a.token = signed
	a.expiresAt = expiresAt
	return signed, nil
}
