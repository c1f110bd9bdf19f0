package github

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devpush/devpush/internal/config"
)

func testPrivateKeyPEM(t *testing.T) []byte {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
}

func TestCreateInstallationToken(t *testing.T) {
	var gotPath, gotAuth, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"token":"ghs_abc123","expires_at":"2026-09-01T12:00:00Z"}`))
	}))
	defer srv.Close()

	client, err := NewClient(config.GitHubConfig{
		AppID:      "1234",
		APIBaseURL: srv.URL,
	}, testPrivateKeyPEM(t))
	require.NoError(t, err)

	issued, err := client.CreateInstallationToken(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, "/app/installations/42/access_tokens", gotPath)
	assert.Contains(t, gotAuth, "Bearer ")
	assert.Equal(t, "application/vnd.github+json", gotAccept)
	assert.Equal(t, "ghs_abc123", issued.Token)
	assert.Equal(t, time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC), issued.ExpiresAt)
	assert.Equal(t, time.UTC, issued.ExpiresAt.Location())
}

func TestCreateInstallationToken_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Not Found"}`))
	}))
	defer srv.Close()

	client, err := NewClient(config.GitHubConfig{
		AppID:      "1234",
		APIBaseURL: srv.URL,
	}, testPrivateKeyPEM(t))
	require.NoError(t, err)

	_, err = client.CreateInstallationToken(context.Background(), 42)
	require.Error(t, err)
	assert.ErrorContains(t, err, "status 404")
}

func TestNewClient_RejectsBadKey(t *testing.T) {
	_, err := NewClient(config.GitHubConfig{AppID: "1234"}, []byte("not a pem"))
	require.Error(t, err)
}

func TestAppJWT_CachesToken(t *testing.T) {
	a, err := newAppJWT("1234", testPrivateKeyPEM(t))
	require.NoError(t, err)

	first, err := a.bearer()
	require.NoError(t, err)
	second, err := a.bearer()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
