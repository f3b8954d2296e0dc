package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func surgeAuthBody(email, password string) map[string]any {
	return map[string]any{"email": email, "password": password}
}

// healthOK returns a server standing in for the provider health endpoint.
func healthOK(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func sessionCookies(w *httptest.ResponseRecorder) []string {
	var cookies []string
	for _, c := range w.Header().Values("Set-Cookie") {
		if strings.HasPrefix(c, "surge_token=") {
			cookies = append(cookies, c)
		}
	}
	return cookies
}

func TestSurgeAuth_AlreadyAuthenticated(t *testing.T) {
	script := `case "$1" in
  --version) echo "0.24.6" ;;
  whoami) echo "user@example.com - Student" ;;
  token) echo "tok123" ;;
esac`
	cfg := testConfig(t, writeStubCLI(t, script))
	cfg.Surge.HealthURL = healthOK(t).URL
	r, _ := newTestRouter(t, cfg, "http://127.0.0.1:1", "http://127.0.0.1:1")

	w := doJSON(t, r, http.MethodPost, "/api/auth/surge/abc123", surgeAuthBody("user@example.com", "hunter22"))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	if body["message"] != "Already authenticated with Surge" {
		t.Errorf("unexpected message %v", body["message"])
	}
	if body["token"] != "tok123" {
		t.Errorf("unexpected token %v", body["token"])
	}

	cookies := sessionCookies(w)
	if len(cookies) != 1 {
		t.Fatalf("expected exactly one session cookie, got %d", len(cookies))
	}
	cookie := cookies[0]
	if !strings.Contains(cookie, "tok123") {
		t.Errorf("cookie missing token: %q", cookie)
	}
	if !strings.Contains(cookie, "HttpOnly") {
		t.Errorf("cookie must be HttpOnly: %q", cookie)
	}
	if !strings.Contains(cookie, "SameSite=Lax") {
		t.Errorf("cookie must be SameSite=Lax: %q", cookie)
	}
	if strings.Contains(cookie, "Secure") {
		t.Errorf("Secure must be off outside production: %q", cookie)
	}
}

func TestSurgeAuth_LoginSuccess(t *testing.T) {
	// The stub keeps login state in a file next to itself so whoami flips
	// after the login call, mirroring the real CLI's netrc behaviour.
	script := `dir=$(dirname "$0")
case "$1" in
  --version) echo "0.24.6" ;;
  whoami) if [ -f "$dir/.logged" ]; then echo "user@example.com - Student"; else echo "not logged in"; fi ;;
  login) touch "$dir/.logged"; echo "Logged in as user@example.com" ;;
  token) echo "tok456" ;;
esac`
	cfg := testConfig(t, writeStubCLI(t, script))
	cfg.Surge.HealthURL = healthOK(t).URL
	r, _ := newTestRouter(t, cfg, "http://127.0.0.1:1", "http://127.0.0.1:1")

	w := doJSON(t, r, http.MethodPost, "/api/auth/surge/abc123", surgeAuthBody("user@example.com", "hunter22"))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	if body["message"] != "Authenticated with Surge" {
		t.Errorf("unexpected message %v", body["message"])
	}
	if body["token"] != "tok456" {
		t.Errorf("unexpected token %v", body["token"])
	}
	if user, _ := body["user"].(string); !strings.Contains(user, "user@example.com") {
		t.Errorf("unexpected user %v", body["user"])
	}
	if len(sessionCookies(w)) != 1 {
		t.Error("expected exactly one session cookie")
	}
}

func TestSurgeAuth_AccountCreationFallback(t *testing.T) {
	// Login fails; issuing a token from raw credentials succeeds, which is
	// how the CLI creates an account for an unknown email.
	script := `case "$1" in
  --version) echo "0.24.6" ;;
  whoami) echo "not logged in" ;;
  login) echo "login failed" >&2; exit 1 ;;
  token) if [ "$2" = "--email" ]; then echo "Welcome! Token: deadbeef123"; else echo "error" >&2; exit 1; fi ;;
esac`
	cfg := testConfig(t, writeStubCLI(t, script))
	cfg.Surge.HealthURL = healthOK(t).URL
	r, _ := newTestRouter(t, cfg, "http://127.0.0.1:1", "http://127.0.0.1:1")

	w := doJSON(t, r, http.MethodPost, "/api/auth/surge/abc123", surgeAuthBody("new@example.com", "hunter22"))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	if body["status"] != "SURGE_ACCOUNT_CREATED" {
		t.Errorf("unexpected status %v", body["status"])
	}
	if body["token"] != "deadbeef123" {
		t.Errorf("unexpected token %v", body["token"])
	}
	if body["email"] != "new@example.com" {
		t.Errorf("unexpected email %v", body["email"])
	}
	if len(sessionCookies(w)) != 1 {
		t.Error("expected exactly one session cookie")
	}
}

func TestSurgeAuth_InvalidCredentialsClassified(t *testing.T) {
	script := `case "$1" in
  --version) echo "0.24.6" ;;
  whoami) echo "not logged in" ;;
  login) echo "invalid email or password" >&2; exit 1 ;;
  token) echo "invalid email or password" >&2; exit 1 ;;
esac`
	cfg := testConfig(t, writeStubCLI(t, script))
	cfg.Surge.HealthURL = healthOK(t).URL
	r, _ := newTestRouter(t, cfg, "http://127.0.0.1:1", "http://127.0.0.1:1")

	w := doJSON(t, r, http.MethodPost, "/api/auth/surge/abc123", surgeAuthBody("user@example.com", "wrong"))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
	}
	if body := decodeBody(t, w); body["code"] != "SURGE_AUTH_FAILED" {
		t.Errorf("unexpected code %v", body["code"])
	}
}

func TestSurgeAuth_MissingCredentials(t *testing.T) {
	cfg := testConfig(t, writeStubCLI(t, `echo ok`))
	r, _ := newTestRouter(t, cfg, "http://127.0.0.1:1", "http://127.0.0.1:1")

	w := doJSON(t, r, http.MethodPost, "/api/auth/surge/abc123", surgeAuthBody("user@example.com", ""))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if body := decodeBody(t, w); body["code"] != "MISSING_CREDENTIALS" {
		t.Errorf("unexpected code %v", body["code"])
	}
}

func TestSurgeAuth_InvalidWebsiteID(t *testing.T) {
	cfg := testConfig(t, writeStubCLI(t, `echo ok`))
	r, _ := newTestRouter(t, cfg, "http://127.0.0.1:1", "http://127.0.0.1:1")

	w := doJSON(t, r, http.MethodPost, "/api/auth/surge/bad_id!", surgeAuthBody("user@example.com", "hunter22"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if body := decodeBody(t, w); body["code"] != "INVALID_WEBSITE_ID" {
		t.Errorf("unexpected code %v", body["code"])
	}
}

func TestSurgeAuth_NetworkUnreachable(t *testing.T) {
	cfg := testConfig(t, writeStubCLI(t, `echo "0.24.6"`))
	cfg.Surge.HealthURL = "http://127.0.0.1:1/healthcheck"
	r, _ := newTestRouter(t, cfg, "http://127.0.0.1:1", "http://127.0.0.1:1")

	w := doJSON(t, r, http.MethodPost, "/api/auth/surge/abc123", surgeAuthBody("user@example.com", "hunter22"))
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %s", w.Code, w.Body.String())
	}
	if body := decodeBody(t, w); body["code"] != "NETWORK_UNREACHABLE" {
		t.Errorf("unexpected code %v", body["code"])
	}
}

func TestVercelAuth_ShortTokenNoOutboundCall(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	cfg := testConfig(t, writeStubCLI(t, `echo ok`))
	r, _ := newTestRouter(t, cfg, srv.URL, "http://127.0.0.1:1")

	w := doJSON(t, r, http.MethodPost, "/api/auth/vercel", map[string]any{"token": "short"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
	}
	if body := decodeBody(t, w); body["code"] != "INVALID_TOKEN_FORMAT" {
		t.Errorf("unexpected code %v", body["code"])
	}
	if calls.Load() != 0 {
		t.Errorf("malformed token must never reach the API, saw %d calls", calls.Load())
	}
}

func TestVercelAuth_MissingToken(t *testing.T) {
	cfg := testConfig(t, writeStubCLI(t, `echo ok`))
	r, _ := newTestRouter(t, cfg, "http://127.0.0.1:1", "http://127.0.0.1:1")

	w := doJSON(t, r, http.MethodPost, "/api/auth/vercel", map[string]any{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if body := decodeBody(t, w); body["code"] != "MISSING_TOKEN" {
		t.Errorf("unexpected code %v", body["code"])
	}
}

func TestVercelAuth_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user":{"id":"u_123","name":"Ada","email":"ada@example.com"}}`))
	}))
	defer srv.Close()

	cfg := testConfig(t, writeStubCLI(t, `echo ok`))
	r, _ := newTestRouter(t, cfg, srv.URL, "http://127.0.0.1:1")

	w := doJSON(t, r, http.MethodPost, "/api/auth/vercel", map[string]any{"token": "abcdefghijklmnopqrstuv01"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	if body["success"] != true {
		t.Error("expected success true")
	}
	user, _ := body["user"].(map[string]any)
	if user["id"] != "u_123" || user["email"] != "ada@example.com" {
		t.Errorf("unexpected user %v", body["user"])
	}
}

func TestVercelAuth_RejectedCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":"forbidden"}}`))
	}))
	defer srv.Close()

	cfg := testConfig(t, writeStubCLI(t, `echo ok`))
	r, _ := newTestRouter(t, cfg, srv.URL, "http://127.0.0.1:1")

	w := doJSON(t, r, http.MethodPost, "/api/auth/vercel", map[string]any{"token": "abcdefghijklmnopqrstuv01"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
	}
	if body := decodeBody(t, w); body["code"] != "INVALID_CREDENTIALS" {
		t.Errorf("unexpected code %v", body["code"])
	}
}
