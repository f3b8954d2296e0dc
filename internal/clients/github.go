package clients

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// GitHubClient creates repositories and commits page files for GitHub
// Pages deployments.
type GitHubClient struct {
	base   string
	token  string
	client *http.Client
	logger *slog.Logger
}

// Repository is the subset of the repo object this system reads.
type Repository struct {
	Name    string `json:"name"`
	HTMLURL string `json:"html_url"`
	Owner   struct {
		Login string `json:"login"`
	} `json:"owner"`
}

func NewGitHubClient(base, token string, logger *slog.Logger) *GitHubClient {
	return &GitHubClient{
		base:   base,
		token:  token,
		client: &http.Client{Timeout: 30 * time.Second},
		logger: logger,
	}
}

func (c *GitHubClient) do(ctx context.Context, method, path string, body any, v any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Warn("github api error", "status", resp.StatusCode, "path", path)
		return fmt.Errorf("github api returned %d: %s", resp.StatusCode, string(data))
	}

	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// CreateRepository creates a public, auto-initialized repository for the
// authenticated user.
func (c *GitHubClient) CreateRepository(ctx context.Context, name string) (*Repository, error) {
	body := map[string]any{
		"name":      name,
		"private":   false,
		"auto_init": true,
	}
	var repo Repository
	if err := c.do(ctx, http.MethodPost, "/user/repos", body, &repo); err != nil {
		return nil, err
	}
	return &repo, nil
}

// CommitFile creates or updates one file on a branch via the contents API.
func (c *GitHubClient) CommitFile(ctx context.Context, owner, repo, branch, path, message string, content []byte) error {
	body := map[string]any{
		"branch":  branch,
		"message": message,
		"content": base64.StdEncoding.EncodeToString(content),
	}
	apiPath := fmt.Sprintf("/repos/%s/%s/contents/%s", owner, repo, path)
	return c.do(ctx, http.MethodPut, apiPath, body, nil)
}
