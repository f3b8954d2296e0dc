// Package clients wraps the hosting-platform and source-hosting REST APIs.
package clients

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

var (
	// ErrInvalidCredentials indicates the provider rejected the token.
	ErrInvalidCredentials = errors.New("invalid vercel credentials")
	// ErrInvalidAPIResponse indicates a non-JSON response body.
	ErrInvalidAPIResponse = errors.New("invalid response from vercel api")
	// ErrInvalidUserData indicates a JSON body missing required identity fields.
	ErrInvalidUserData = errors.New("missing required user fields in response")
)

// VercelClient verifies API tokens against the Vercel user-identity
// endpoint. The three failure modes — rejected token, unparseable body,
// and a body without a user id — are kept distinct so the handler can map
// each to its own response; a malformed response is never coerced into a
// success.
type VercelClient struct {
	base   string
	client *http.Client
	logger *slog.Logger
}

// VercelIdentity is the subset of the user object this system reads.
type VercelIdentity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func NewVercelClient(base string, logger *slog.Logger) *VercelClient {
	return &VercelClient{
		base:   base,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

// VerifyToken checks a bearer token and returns the account identity. The
// token travels only in the Authorization header and is never logged.
func (c *VercelClient) VerifyToken(ctx context.Context, token string) (*VercelIdentity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/v2/user", nil)
	if err != nil {
		return nil, ErrInvalidAPIResponse
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("vercel identity request failed", "error", err)
		return nil, ErrInvalidAPIResponse
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, ErrInvalidCredentials
	}

	var payload struct {
		User *VercelIdentity `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, ErrInvalidAPIResponse
	}

	if payload.User == nil || payload.User.ID == "" {
		return nil, ErrInvalidUserData
	}

	return payload.User, nil
}
