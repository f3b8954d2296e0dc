package services

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/sincherer/wui/internal/models"
	"github.com/sincherer/wui/internal/validation"
)

// Workspace manages per-request deployment directories under a shared
// root. Each request gets a uniquely named subdirectory so concurrent
// deployments for the same site never collide.
type Workspace struct {
	root   string
	logger *slog.Logger
}

func NewWorkspace(root string, logger *slog.Logger) *Workspace {
	return &Workspace{root: root, logger: logger}
}

// EnsureRoot creates the shared deployments root if needed and verifies it
// is writable. Idempotent and side-effect-free once the directory exists.
func (w *Workspace) EnsureRoot() error {
	if err := os.MkdirAll(w.root, 0755); err != nil {
		return err
	}

	probe := filepath.Join(w.root, "perm-test")
	if err := os.WriteFile(probe, []byte("test"), 0644); err != nil {
		return err
	}
	return os.Remove(probe)
}

// Create makes a unique working directory for one deployment request. The
// name combines the website identifier, a millisecond timestamp, and a
// random suffix so requests landing in the same millisecond still get
// distinct directories.
func (w *Workspace) Create(websiteID string) (string, error) {
	name := fmt.Sprintf("%s_%d_%s", websiteID, time.Now().UnixMilli(), uuid.New().String()[:8])
	dir := filepath.Join(w.root, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// WritePages writes one file per page into the working directory with
// sanitized filenames.
func (w *Workspace) WritePages(dir string, pages map[string]models.PageContent) error {
	for name, page := range pages {
		filename := validation.SanitizeFilename(name)
		path := filepath.Join(dir, filename)
		if err := os.WriteFile(path, []byte(page.Content), 0644); err != nil {
			return fmt.Errorf("failed to write page %s: %w", filename, err)
		}
		w.logger.Debug("page written", "path", path, "bytes", len(page.Content))
	}
	return nil
}

// Cleanup removes a working directory. Best-effort: a failure is logged
// and never overrides the deployment outcome already determined.
func (w *Workspace) Cleanup(dir string) {
	if dir == "" {
		return
	}
	if err := os.RemoveAll(dir); err != nil {
		w.logger.Error("workspace cleanup failed", "dir", dir, "error", err)
		return
	}
	w.logger.Debug("workspace cleaned up", "dir", dir)
}
