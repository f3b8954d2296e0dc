// Package services wraps the external surge CLI and the per-request
// deployment workspace.
package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/sincherer/wui/internal/config"
)

var (
	// ErrCLINotInstalled indicates the surge binary could not be started.
	ErrCLINotInstalled = errors.New("surge CLI not installed")
	// ErrNetworkUnreachable indicates the provider's health endpoint did not answer.
	ErrNetworkUnreachable = errors.New("cannot reach surge servers")
)

// CallResult captures one external CLI invocation. Non-zero exits, signals,
// start failures, and timeouts are all folded into the result; nothing is
// raised past the adapter boundary.
type CallResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	TimedOut bool
	StartErr error
}

// Failed reports whether the invocation should be treated as unsuccessful.
func (r *CallResult) Failed() bool {
	return r.StartErr != nil || r.TimedOut || r.ExitCode != 0
}

// ErrorOutput returns the most useful error text for classification:
// stderr, falling back to stdout, falling back to the start error.
func (r *CallResult) ErrorOutput() string {
	if strings.TrimSpace(r.Stderr) != "" {
		return r.Stderr
	}
	if strings.TrimSpace(r.Stdout) != "" {
		return r.Stdout
	}
	if r.StartErr != nil {
		return r.StartErr.Error()
	}
	return ""
}

// SurgeCLI invokes the local surge binary with parameterized argument
// arrays. Every invocation carries an explicit timeout and a cap on
// captured output so a hung or runaway process cannot exhaust the server.
type SurgeCLI struct {
	cfg    *config.Config
	logger *slog.Logger
	client *http.Client
}

func NewSurgeCLI(cfg *config.Config, logger *slog.Logger) *SurgeCLI {
	return &SurgeCLI{
		cfg:    cfg,
		logger: logger,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

func (s *SurgeCLI) run(ctx context.Context, timeout time.Duration, env []string, args ...string) *CallResult {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, s.cfg.Surge.CLIPath, args...)
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}

	var stdout, stderr bytes.Buffer
	max := int64(s.cfg.Deploy.MaxOutputSize)
	cmd.Stdout = &cappedWriter{w: &stdout, remaining: max}
	cmd.Stderr = &cappedWriter{w: &stderr, remaining: max}

	err := cmd.Run()

	res := &CallResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if ctx.Err() == context.DeadlineExceeded {
		res.TimedOut = true
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		} else {
			res.ExitCode = -1
			res.StartErr = err
		}
	}

	s.logger.Debug("surge invocation finished",
		"args", args,
		"exit_code", res.ExitCode,
		"timed_out", res.TimedOut,
	)

	return res
}

// CheckInstalled verifies the surge binary can be started at all.
func (s *SurgeCLI) CheckInstalled(ctx context.Context) error {
	res := s.run(ctx, s.cfg.Surge.GetIdentityTimeout(), nil, "--version")
	if res.StartErr != nil {
		return ErrCLINotInstalled
	}
	return nil
}

// CheckNetwork probes the provider's health endpoint before any
// credential-bearing call is attempted.
func (s *SurgeCLI) CheckNetwork(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.Surge.HealthURL, nil)
	if err != nil {
		return ErrNetworkUnreachable
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return ErrNetworkUnreachable
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
	return nil
}

// WhoAmI reports the currently authenticated principal.
func (s *SurgeCLI) WhoAmI(ctx context.Context, email string) *CallResult {
	var env []string
	if email != "" {
		env = []string{"SURGE_LOGIN=" + email}
	}
	return s.run(ctx, s.cfg.Surge.GetIdentityTimeout(), env, "whoami")
}

// IsAuthenticated reports whether the identity check output names the
// expected principal. The adapter classifies this, not the caller.
func (s *SurgeCLI) IsAuthenticated(ctx context.Context, email string) bool {
	res := s.WhoAmI(ctx, email)
	return !res.Failed() && strings.Contains(res.Stdout, email)
}

// List returns the account's deployed domains.
func (s *SurgeCLI) List(ctx context.Context) *CallResult {
	return s.run(ctx, s.cfg.Surge.GetTokenTimeout(), nil, "list")
}

// Login performs the interactive login with credentials passed as argv
// parameters, never interpolated into a shell string. SURGE_TOKEN is
// cleared so a stale token cannot mask a credential failure.
func (s *SurgeCLI) Login(ctx context.Context, email, password string) *CallResult {
	env := []string{"SURGE_TOKEN=", "SURGE_LOGIN=" + email}
	return s.run(ctx, s.cfg.Surge.GetLoginTimeout(), env,
		"login", "--email", email, "--password", password)
}

// Token retrieves the session token for an already authenticated account.
func (s *SurgeCLI) Token(ctx context.Context, email string) *CallResult {
	return s.run(ctx, s.cfg.Surge.GetTokenTimeout(), []string{"SURGE_LOGIN=" + email}, "token")
}

// TokenWithCredentials issues a token directly from credentials. On an
// unknown account surge creates it, which is what the auto-creation
// fallback in the auth handler relies on.
func (s *SurgeCLI) TokenWithCredentials(ctx context.Context, email, password string) *CallResult {
	env := []string{"SURGE_LOGIN=" + email}
	return s.run(ctx, s.cfg.Surge.GetTokenTimeout(), env,
		"token", "--email", email, "--password", password)
}

// Publish deploys a prepared directory to a domain.
func (s *SurgeCLI) Publish(ctx context.Context, dir, domain, project string) *CallResult {
	return s.run(ctx, s.cfg.Deploy.GetCommandTimeout(), nil,
		dir, domain, "--project", project)
}

// cappedWriter discards bytes past the configured limit instead of
// erroring, so an oversized stream cannot fail the copy itself.
type cappedWriter struct {
	w         io.Writer
	remaining int64
}

func (c *cappedWriter) Write(p []byte) (int, error) {
	n := len(p)
	if c.remaining <= 0 {
		return n, nil
	}
	if int64(n) > c.remaining {
		if _, err := c.w.Write(p[:c.remaining]); err != nil {
			return 0, err
		}
		c.remaining = 0
		return n, nil
	}
	c.remaining -= int64(n)
	return c.w.Write(p)
}
