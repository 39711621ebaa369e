package main

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/harlowpress/author-site/internal/api"
	"github.com/harlowpress/author-site/internal/config"
	"github.com/harlowpress/author-site/internal/mailchimp"
	"github.com/harlowpress/author-site/internal/pkg/logger"
	"github.com/harlowpress/author-site/internal/site"
)

// checkPortAvailable verifies that the target port is not already in
// use, so a stale process does not silently swallow traffic.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %v", port, addr, err)
	}
	ln.Close()
	return nil
}

func main() {
	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		logger.Error("Failed to load config", "error", err.Error())
		os.Exit(1)
	}

	host := cfg.Server.GetHost()
	port := cfg.Server.Port
	if port == 0 {
		port = 8080
	}
	if err := checkPortAvailable(host, port); err != nil {
		logger.Error("Pre-flight check failed", "error", err.Error())
		os.Exit(1)
	}

	// Database is required; the catalog and page copy live there.
	if cfg.Database.URL == "" {
		logger.Error("DATABASE_URL is not set")
		os.Exit(1)
	}
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		logger.Error("Failed to open database", "error", err.Error())
		os.Exit(1)
	}
	defer db.Close()
	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	if err := db.PingContext(startupCtx); err != nil {
		logger.Error("Database unreachable", "error", err.Error())
		os.Exit(1)
	}
	store := site.NewStore(db)
	if err := store.EnsureSchema(startupCtx); err != nil {
		logger.Error("Schema bootstrap failed", "error", err.Error())
		os.Exit(1)
	}
	logger.Info("Database ready")

	// Image storage is optional; without a bucket the image routes
	// answer 503 and the rest of the site works.
	var images *site.ImageStore
	if cfg.Images.Bucket != "" {
		images, err = site.NewImageStore(startupCtx, cfg.Images)
		if err != nil {
			logger.Error("Failed to initialize image storage", "error", err.Error())
			os.Exit(1)
		}
		logger.Info("Image storage ready", "bucket", cfg.Images.Bucket)
	} else {
		logger.Warn("Image storage not configured, image routes disabled")
	}

	mc := mailchimp.NewClient(cfg.Mailchimp)
	if mc.Configured() {
		logger.Info("Newsletter client ready",
			"server_prefix", mailchimp.ServerPrefix(cfg.Mailchimp.APIKey))
	} else {
		logger.Warn("MAILCHIMP_API_KEY not set, newsletter routes degrade to empty")
	}

	if cfg.Admin.Token == "" {
		logger.Warn("ADMIN_TOKEN not set, admin API disabled")
	}

	server := api.NewServer(cfg, mc, store, images)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		addr := fmt.Sprintf("%s:%d", host, port)
		logger.Info("Starting server", "addr", addr)
		if err := server.ListenAndServe(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", "error", err.Error())
			os.Exit(1)
		}
	}()

	<-done
	logger.Info("Shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err.Error())
	}
	logger.Info("Server stopped")
}
