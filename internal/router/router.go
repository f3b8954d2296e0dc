// Package router wires the HTTP surface: API routes, middleware chain and
// the embedded editor SPA.
package router

import (
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/sincherer/wui/internal/assets"
	"github.com/sincherer/wui/internal/config"
	"github.com/sincherer/wui/internal/handlers"
	"github.com/sincherer/wui/internal/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth    *handlers.AuthHandler
	Deploy  *handlers.DeployHandler
	Website *handlers.WebsiteHandler
	Health  *handlers.HealthHandler
}

func New(cfg *config.Config, h Handlers, logger *slog.Logger) *gin.Engine {
	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())

	// Auth routes need credentialed CORS pinned to the editor origin so
	// the session cookie survives; everything else is open.
	authCORS := cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Server.EditorOrigin},
		AllowMethods:     []string{http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type"},
		AllowCredentials: true,
	})
	openCORS := cors.Default()

	authLimiter := middleware.NewRateLimiter(cfg.RateLimit.Max, cfg.RateLimit.GetWindow())

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		auth.Use(authCORS, authLimiter.Middleware(), middleware.AuthBodyLimit())
		{
			auth.POST("/surge/:websiteId", h.Auth.SurgeAuth)
			auth.POST("/vercel", h.Auth.VercelAuth)
		}

		deploy := api.Group("/deploy")
		deploy.Use(openCORS, middleware.DeployBodyLimit())
		{
			deploy.POST("/surge", h.Deploy.DeploySurge)
			deploy.POST("/github-pages", h.Deploy.DeployGitHubPages)
		}

		api.GET("/websites/:websiteId/deployments", openCORS, h.Website.Deployments)
		api.GET("/health", openCORS, h.Health.Health)
		api.GET("/version", openCORS, h.Health.Version)
	}

	r.GET("/website/:websiteId/editor", openCORS, h.Website.Editor)

	mountSPA(r)

	return r
}

// mountSPA serves the embedded editor bundle, falling back to index.html
// for any non-API path so client-side routing works after a refresh.
func mountSPA(r *gin.Engine) {
	dist, err := fs.Sub(assets.EmbeddedFiles, "dist")
	if err != nil {
		panic("editor bundle missing from binary: " + err.Error())
	}
	fileServer := http.FileServer(http.FS(dist))

	r.NoRoute(func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "Not found",
				"code":      "NOT_FOUND",
				"errorType": "ValidationError",
			})
			return
		}

		if _, err := fs.Stat(dist, strings.TrimPrefix(path, "/")); err == nil && path != "/" {
			fileServer.ServeHTTP(c.Writer, c.Request)
			return
		}

		index, err := fs.ReadFile(dist, "index.html")
		if err != nil {
			c.String(http.StatusInternalServerError, "editor bundle unavailable")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", index)
	})
}
