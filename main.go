// main.go
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Arif-miad/education-economic-dashboard/internal/dataset"
	"github.com/Arif-miad/education-economic-dashboard/internal/schema"
)

func main() {
	if _, envErr := setupLogging(os.Stdout); envErr != nil {
		slog.Info("No .env file loaded", "error", envErr)
	}

	cfg, cli, err := LoadConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	if cli.Discover {
		if err := runDiscover(cfg, os.Stdout); err != nil {
			slog.Error("Schema discovery failed", "error", err)
			os.Exit(1)
		}
		return
	}

	sch, err := schema.Load(cfg.SchemaPath)
	if err != nil {
		slog.Error("Failed to load schema", "path", cfg.SchemaPath, "error", err)
		os.Exit(1)
	}

	if cli.Analyze {
		if err := runAnalyze(cfg, *sch, os.Stdout, cli.JSON); err != nil {
			slog.Error("Feature analysis failed", "error", err)
			os.Exit(1)
		}
		return
	}

	slog.Info("Starting application", "version", version)
	fsys, name := dataFS(cfg.DataPath)
	table, err := dataset.NewLoader(fsys, name, *sch).Load()
	if err != nil {
		slog.Error("Failed to load dataset", "error", err)
		os.Exit(1)
	}

	gin.SetMode(cfg.Mode)
	router, err := NewServer(cfg, *sch, table).Router()
	if err != nil {
		slog.Error("Failed to build router", "error", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		slog.Info("Starting HTTP server", "port", cfg.Port, "data", cfg.DataPath, "rows", table.Rows())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	waitForShutdown(server)
}

func waitForShutdown(server *http.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	slog.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server gracefully stopped")
}
