// Package store persists website configurations and deployment history.
package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/sincherer/wui/internal/database"
	"github.com/sincherer/wui/internal/models"
)

var ErrWebsiteNotFound = errors.New("website not found")

type Store struct {
	db *database.DB
}

func New(db *database.DB) *Store {
	return &Store{db: db}
}

// GetWebsite returns the stored configuration for a website.
func (s *Store) GetWebsite(id string) (*models.Website, error) {
	var w models.Website
	err := s.db.QueryRow(
		"SELECT id, name, configuration, created_at, updated_at FROM websites WHERE id = ?",
		id,
	).Scan(&w.ID, &w.Name, &w.Configuration, &w.CreatedAt, &w.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrWebsiteNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// UpsertWebsite creates or updates a website's configuration.
func (s *Store) UpsertWebsite(id, name, configuration string) (*models.Website, error) {
	now := time.Now()
	_, err := s.db.Exec(`
		INSERT INTO websites (id, name, configuration, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			configuration = excluded.configuration,
			updated_at = excluded.updated_at
	`, id, name, configuration, now, now)
	if err != nil {
		return nil, err
	}
	return s.GetWebsite(id)
}

// RecordDeployment inserts one deployment-history row.
func (s *Store) RecordDeployment(websiteID, provider, domain, status string) (*models.Deployment, error) {
	d := &models.Deployment{
		ID:        uuid.New().String(),
		WebsiteID: websiteID,
		Provider:  provider,
		Domain:    domain,
		Status:    status,
		CreatedAt: time.Now(),
	}

	_, err := s.db.Exec(
		"INSERT INTO deployments (id, website_id, provider, domain, status, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		d.ID, d.WebsiteID, d.Provider, d.Domain, d.Status, d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// ListDeployments returns the most recent deployments for a website.
func (s *Store) ListDeployments(websiteID string, limit int) ([]models.Deployment, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(`
		SELECT id, website_id, provider, COALESCE(domain, ''), status, created_at
		FROM deployments
		WHERE website_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, websiteID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deployments []models.Deployment
	for rows.Next() {
		var d models.Deployment
		if err := rows.Scan(&d.ID, &d.WebsiteID, &d.Provider, &d.Domain, &d.Status, &d.CreatedAt); err != nil {
			return nil, err
		}
		deployments = append(deployments, d)
	}
	return deployments, rows.Err()
}
