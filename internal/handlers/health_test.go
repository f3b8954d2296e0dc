package handlers_test

import (
	"net/http"
	"testing"
)

func TestHealth(t *testing.T) {
	cfg := testConfig(t, writeStubCLI(t, `echo "0.24.6"`))
	r, _ := newTestRouter(t, cfg, "http://127.0.0.1:1", "http://127.0.0.1:1")

	w := doJSON(t, r, http.MethodGet, "/api/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	if body["status"] != "ok" {
		t.Errorf("unexpected status %v", body["status"])
	}
	if body["surge_cli"] != true {
		t.Error("expected surge_cli true")
	}
	if body["system"] == nil {
		t.Error("expected a system snapshot")
	}
	if body["version"] == nil {
		t.Error("expected version info")
	}
}

func TestHealth_DegradedWithoutCLI(t *testing.T) {
	cfg := testConfig(t, "/nonexistent/surge")
	r, _ := newTestRouter(t, cfg, "http://127.0.0.1:1", "http://127.0.0.1:1")

	w := doJSON(t, r, http.MethodGet, "/api/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	body := decodeBody(t, w)
	if body["status"] != "degraded" {
		t.Errorf("unexpected status %v", body["status"])
	}
	if body["surge_cli"] != false {
		t.Error("expected surge_cli false")
	}
}

func TestVersionEndpoint(t *testing.T) {
	cfg := testConfig(t, writeStubCLI(t, `echo ok`))
	r, _ := newTestRouter(t, cfg, "http://127.0.0.1:1", "http://127.0.0.1:1")

	w := doJSON(t, r, http.MethodGet, "/api/version", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body := decodeBody(t, w); body["version"] == nil {
		t.Error("expected version field")
	}
}
