package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"tailscale.com/tsnet"

	"github.com/claude/studentup/internal/config"
	"github.com/claude/studentup/internal/ingest/alpha"
	"github.com/claude/studentup/internal/mcp"
	"github.com/claude/studentup/internal/persist"
	"github.com/claude/studentup/internal/report"
	"github.com/claude/studentup/internal/roster"
	"github.com/claude/studentup/internal/server"
	"github.com/claude/studentup/internal/sheet"
	"github.com/claude/studentup/internal/tabular"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	envFile := flag.String("env", ".env", "optional dotenv file with STUDENTUP_* overrides")
	migrateOnly := flag.Bool("migrate-only", false, "run sheet database migrations and exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("StudentUp starting", "version", Version)

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn("failed to read env file", "path", *envFile, "error", err)
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Sheets backing the tabular endpoint
	var sheets *sheet.Service
	if cfg.Sheets.Enabled {
		tab, err := openSheets(ctx, cfg.Sheets, log)
		if err != nil {
			log.Error("failed to open sheet store", "error", err)
			os.Exit(1)
		}
		defer tab.Close()

		layout, err := sheet.NewLayout(sheet.Variant(cfg.Sheets.Layout))
		if err != nil {
			log.Error("invalid sheet layout", "error", err)
			os.Exit(1)
		}
		sheets = sheet.NewService(tab, layout, log)
		log.Info("sheets ready", "driver", cfg.Sheets.Driver, "layout", cfg.Sheets.Layout)
	}

	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	// Storage port
	port, closePort, err := openPort(ctx, cfg.Storage, sheets)
	if err != nil {
		log.Error("failed to open storage", "backend", cfg.Storage.Backend, "error", err)
		os.Exit(1)
	}
	defer closePort()

	store := roster.Open(ctx, port, log, roster.Options{
		SaveTimeout: cfg.Storage.SaveTimeout,
		Registerer:  prometheus.DefaultRegisterer,
	})

	reports := report.New(report.Options{FontPath: cfg.Report.FontPath})
	if !reports.Unicode() {
		log.Warn("report font not configured, CJK text in PDF reports prints as '?'", "setting", "report.font_path")
	}

	deps := server.Deps{
		Sheets:     sheets,
		Importer:   alpha.NewImporter(store, log),
		Reports:    reports,
		Registerer: prometheus.DefaultRegisterer,
	}
	if cfg.MCP.Enabled {
		mcpSrv := mcp.New(mcp.NewLocal(store), Version, log)
		deps.MCP = mcpserver.NewStreamableHTTPServer(mcpSrv)
		log.Info("mcp endpoint enabled", "path", "/mcp")
	}

	// Create server
	srv := server.New(store, deps, cfg.Auth.APIKey, log)

	// Start server: tsnet or plain HTTP
	var listener net.Listener

	if cfg.Tailscale.Enabled {
		tsServer := &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}

// openSheets opens the tabular store, running migrations for PostgreSQL.
func openSheets(ctx context.Context, cfg config.SheetsConfig, log *slog.Logger) (tabular.Store, error) {
	if cfg.Driver == "postgres" {
		dsn := cfg.Database.DSN()
		if err := tabular.RunMigrations(dsn); err != nil {
			return nil, fmt.Errorf("migrations: %w", err)
		}
		log.Info("migrations applied")
		return tabular.NewPostgres(ctx, dsn)
	}
	return tabular.OpenSQLite(cfg.Path)
}

// openPort builds the storage port for cfg. The returned func releases it.
func openPort(ctx context.Context, cfg config.StorageConfig, sheets *sheet.Service) (persist.Port, func(), error) {
	noop := func() {}
	switch cfg.Backend {
	case "remote":
		return persist.NewRemote(cfg.Remote.URL, cfg.Remote.Timeout), noop, nil
	case "sheets":
		if sheets == nil {
			return nil, nil, errors.New("sheets backend needs sheets.enabled")
		}
		return sheet.NewPort(sheets), noop, nil
	}

	var kv persist.KV
	switch cfg.Local.Driver {
	case "redis":
		r, err := persist.NewRedisKV(ctx, cfg.Local.Redis.Addr, cfg.Local.Redis.Password, cfg.Local.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		kv = r
	default:
		s, err := persist.OpenSQLiteKV(cfg.Local.Path)
		if err != nil {
			return nil, nil, err
		}
		kv = s
	}
	local := persist.NewLocal(kv)
	return local, closer(local), nil
}

func closer(c io.Closer) func() {
	return func() { _ = c.Close() }
}
