// Package main is the entry point for the website deployment server.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/sincherer/wui/internal/clients"
	"github.com/sincherer/wui/internal/config"
	"github.com/sincherer/wui/internal/database"
	"github.com/sincherer/wui/internal/handlers"
	"github.com/sincherer/wui/internal/logger"
	"github.com/sincherer/wui/internal/router"
	"github.com/sincherer/wui/internal/services"
	"github.com/sincherer/wui/internal/store"
	"github.com/sincherer/wui/internal/version"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	showVersion := flag.Bool("version", false, "show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("wui %s\n", version.Version)
		fmt.Printf("Build Time: %s\n", version.BuildTime)
		fmt.Printf("Git Commit: %s\n", version.GitCommit)
		os.Exit(0)
	}

	log := logger.New("wui", slog.LevelInfo)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Warn("could not load config, using defaults", "path", *configPath, "error", err)
		cfg, _ = config.Load("")
	}

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		log.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database", "error", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		log.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	st := store.New(db)
	surge := services.NewSurgeCLI(cfg, log)
	workspace := services.NewWorkspace(cfg.Deploy.RootDir, log)
	vercel := clients.NewVercelClient(cfg.Vercel.APIBase, log)
	github := clients.NewGitHubClient(cfg.GitHub.APIBase, cfg.GitHub.Token, log)

	r := router.New(cfg, router.Handlers{
		Auth:    handlers.NewAuthHandler(cfg, surge, vercel, log),
		Deploy:  handlers.NewDeployHandler(cfg, surge, workspace, github, st, log),
		Website: handlers.NewWebsiteHandler(st, log),
		Health:  handlers.NewHealthHandler(surge, log),
	}, log)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("server starting", "version", version.Version, "addr", addr, "environment", cfg.Server.Environment)

	if err := r.Run(addr); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}
