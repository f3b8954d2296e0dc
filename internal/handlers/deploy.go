package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sincherer/wui/internal/clients"
	"github.com/sincherer/wui/internal/config"
	"github.com/sincherer/wui/internal/models"
	"github.com/sincherer/wui/internal/services"
	"github.com/sincherer/wui/internal/store"
	"github.com/sincherer/wui/internal/validation"
)

// surgeConfirmation is the literal phrase the surge CLI prints on a
// successful publish. Its presence in stdout is the only positive success
// signal; a zero exit without it is treated as a verification failure,
// never as success.
const surgeConfirmation = "successfully published"

// DeployHandler handles deployment requests for surge and GitHub Pages.
type DeployHandler struct {
	cfg       *config.Config
	surge     *services.SurgeCLI
	workspace *services.Workspace
	github    *clients.GitHubClient
	store     *store.Store
	logger    *slog.Logger
}

func NewDeployHandler(cfg *config.Config, surge *services.SurgeCLI, workspace *services.Workspace, github *clients.GitHubClient, st *store.Store, logger *slog.Logger) *DeployHandler {
	return &DeployHandler{
		cfg:       cfg,
		surge:     surge,
		workspace: workspace,
		github:    github,
		store:     st,
		logger:    logger,
	}
}

// DeploySurge publishes a website's pages to surge.
// POST /api/deploy/surge
func (h *DeployHandler) DeploySurge(c *gin.Context) {
	var req models.SurgeDeployRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.WebsiteID == "" || len(req.Pages) == 0 || req.Config.Domain == "" {
		respondError(c, http.StatusBadRequest, "MISSING_PARAMETERS",
			"Missing required deployment parameters", "", "ValidationError")
		return
	}

	h.logger.Info("surge deployment requested",
		"website_id", req.WebsiteID,
		"domain", req.Config.Domain,
		"pages", len(req.Pages),
	)

	websiteID, err := validation.ValidateWebsiteID(req.WebsiteID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_WEBSITE_ID",
			"Invalid websiteId format - must be alphanumeric with hyphens", "", "ValidationError")
		return
	}

	// Format checks come before any filesystem write so a malformed
	// request leaves no trace on disk.
	if err := validation.ValidateDomain(req.Config.Domain, h.cfg.Surge.DomainSuffix); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_DOMAIN_FORMAT",
			"Invalid domain format",
			"Domain must be in format: your-site."+h.cfg.Surge.DomainSuffix, "ValidationError")
		return
	}
	domain := strings.ToLower(req.Config.Domain)

	if err := h.workspace.EnsureRoot(); err != nil {
		h.logger.Error("deployments directory not writable", "error", err)
		respondError(c, http.StatusInternalServerError, "DEPLOY_DIR_PERMISSION",
			"Server configuration error", "Cannot write to deployments directory", "ConfigurationError")
		return
	}

	if err := h.surge.CheckInstalled(c.Request.Context()); err != nil {
		respondError(c, http.StatusInternalServerError, "SURGE_CLI_MISSING",
			"Surge CLI not installed", "Install with: npm install -g surge", "ConfigurationError")
		return
	}

	list := h.surge.List(c.Request.Context())
	if list.Failed() {
		h.logger.Error("domain availability check failed", "stderr", list.Stderr)
		respondError(c, http.StatusInternalServerError, "DOMAIN_CHECK_FAILED",
			"Domain validation failed", "Could not verify domain availability", "ValidationError")
		return
	}
	if strings.Contains(list.Stdout, domain) {
		respondError(c, http.StatusConflict, "DOMAIN_UNAVAILABLE",
			"Domain already taken", "Please choose a different subdomain", "ConflictError")
		return
	}

	workDir, err := h.workspace.Create(websiteID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "FILE_SYSTEM_ERROR",
			"File system error", "Failed to create deployment directory", "IOError")
		return
	}
	// Cleanup runs on every remaining path; its failure is logged inside
	// the workspace and never changes the response.
	defer h.workspace.Cleanup(workDir)

	if err := h.workspace.WritePages(workDir, req.Pages); err != nil {
		respondError(c, http.StatusInternalServerError, "FILE_SYSTEM_ERROR",
			"File system error", "Failed to write deployment files", "IOError")
		return
	}

	who := h.surge.WhoAmI(c.Request.Context(), "")
	if who.Failed() || strings.Contains(who.Stdout, "not logged") {
		respondError(c, http.StatusUnauthorized, "SURGE_AUTH_REQUIRED",
			"Surge authentication required", "Run: surge login or set SURGE_TOKEN environment variable", "AuthenticationError")
		return
	}

	res := h.surge.Publish(c.Request.Context(), workDir, domain, websiteID)
	h.respondSurgeOutcome(c, websiteID, domain, res)
}

// respondSurgeOutcome classifies the publish result. Error text is trusted
// over exit status, and success additionally requires the confirmation
// phrase in stdout.
func (h *DeployHandler) respondSurgeOutcome(c *gin.Context, websiteID, domain string, res *services.CallResult) {
	if res.Failed() || strings.TrimSpace(res.Stderr) != "" {
		errOutput := res.ErrorOutput()
		h.logger.Error("surge deployment failed",
			"website_id", websiteID,
			"exit_code", res.ExitCode,
			"timed_out", res.TimedOut,
		)
		h.recordDeployment(websiteID, models.ProviderSurge, domain, models.DeploymentStatusFailed)

		switch services.ClassifyDeployOutput(errOutput) {
		case services.KindConflict:
			respondError(c, http.StatusConflict, "DOMAIN_CONFLICT",
				"Domain conflict", "The specified domain is already in use", "ConflictError")
		case services.KindAuthentication:
			respondError(c, http.StatusUnauthorized, "AUTH_FAILED",
				"Authentication failed", "Please check your Surge credentials", "AuthenticationError")
		case services.KindIO:
			respondError(c, http.StatusInternalServerError, "FILE_SYSTEM_ERROR",
				"File system error", "Failed to access deployment files", "IOError")
		default:
			respondError(c, http.StatusInternalServerError, "DEPLOYMENT_FAILED",
				"Deployment failed", errOutput, "DeploymentError")
		}
		return
	}

	if !strings.Contains(res.Stdout, surgeConfirmation) {
		h.logger.Error("surge output missing confirmation phrase", "website_id", websiteID)
		h.recordDeployment(websiteID, models.ProviderSurge, domain, models.DeploymentStatusFailed)
		respondError(c, http.StatusInternalServerError, "DEPLOYMENT_VERIFICATION_FAILED",
			"Deployment verification failed", res.Stdout, "DeploymentError")
		return
	}

	h.logger.Info("surge deployment succeeded", "website_id", websiteID, "domain", domain)
	h.recordDeployment(websiteID, models.ProviderSurge, domain, models.DeploymentStatusSucceeded)

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"surgeUrl":     "https://" + domain,
		"deploymentId": websiteID,
		"timestamp":    timestamp(),
	})
}

// DeployGitHubPages creates a repository and commits the index page to the
// gh-pages branch.
// POST /api/deploy/github-pages
func (h *DeployHandler) DeployGitHubPages(c *gin.Context) {
	var req models.GitHubPagesRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.WebsiteID == "" {
		respondError(c, http.StatusBadRequest, "MISSING_PARAMETERS",
			"Missing required deployment parameters", "", "ValidationError")
		return
	}

	websiteID, err := validation.ValidateWebsiteID(req.WebsiteID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_WEBSITE_ID",
			"Invalid websiteId format - must be alphanumeric with hyphens", "", "ValidationError")
		return
	}

	repoName := "website-" + websiteID
	repo, err := h.github.CreateRepository(c.Request.Context(), repoName)
	if err != nil {
		h.logger.Error("github repository creation failed", "website_id", websiteID, "error", err)
		h.recordDeployment(websiteID, models.ProviderGitHubPages, "", models.DeploymentStatusFailed)
		respondError(c, http.StatusInternalServerError, "GITHUB_DEPLOY_FAILED",
			"GitHub Pages deployment failed", err.Error(), "UpstreamError")
		return
	}

	content := req.Pages["index"].Content
	err = h.github.CommitFile(c.Request.Context(), repo.Owner.Login, repo.Name,
		"gh-pages", "index.html", "Initial commit", []byte(content))
	if err != nil {
		h.logger.Error("github pages commit failed", "website_id", websiteID, "error", err)
		h.recordDeployment(websiteID, models.ProviderGitHubPages, "", models.DeploymentStatusFailed)
		respondError(c, http.StatusInternalServerError, "GITHUB_DEPLOY_FAILED",
			"GitHub Pages deployment failed", err.Error(), "UpstreamError")
		return
	}

	h.recordDeployment(websiteID, models.ProviderGitHubPages, "", models.DeploymentStatusSucceeded)

	c.JSON(http.StatusOK, gin.H{
		"repoUrl": repo.HTMLURL,
		"pageUrl": "https://" + repo.Owner.Login + ".github.io/" + repo.Name,
	})
}

func (h *DeployHandler) recordDeployment(websiteID, provider, domain, status string) {
	if _, err := h.store.RecordDeployment(websiteID, provider, domain, status); err != nil {
		h.logger.Warn("failed to record deployment", "website_id", websiteID, "error", err)
	}
}
