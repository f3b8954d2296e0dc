package models

import "time"

// PageContent is one page of a website as sent by the editor.
type PageContent struct {
	Content string `json:"content"`
}

// SurgeDeployRequest is the body of POST /api/deploy/surge.
type SurgeDeployRequest struct {
	WebsiteID string                 `json:"websiteId"`
	Pages     map[string]PageContent `json:"pages"`
	Config    DeployConfig           `json:"config"`
}

// DeployConfig carries per-deployment settings from the editor.
type DeployConfig struct {
	Domain string `json:"domain"`
}

// GitHubPagesRequest is the body of POST /api/deploy/github-pages.
type GitHubPagesRequest struct {
	WebsiteID string                 `json:"websiteId"`
	Pages     map[string]PageContent `json:"pages"`
}

// Deployment is one recorded deployment attempt. Rows are written
// best-effort after the outcome is classified; a failed insert never
// changes the HTTP response.
type Deployment struct {
	ID        string    `json:"id"`
	WebsiteID string    `json:"website_id"`
	Provider  string    `json:"provider"`
	Domain    string    `json:"domain,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	DeploymentStatusSucceeded = "succeeded"
	DeploymentStatusFailed    = "failed"

	ProviderSurge       = "surge"
	ProviderGitHubPages = "github-pages"
)
