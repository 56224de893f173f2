// cmd/web/main.go
//
// Obrtnik platform – HTTP entry point.
//
// Request life-cycle
// ------------------
//
//  1. Load configuration (conf/global.yaml → env → Vault secrets).
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. Open the control-plane DB and log the active-tenant count.
//
//  4. Connect the hostname map (Redis when configured, in-memory
//     otherwise) and build the tenant cache, resolver, and access gate.
//
//  5. Assemble the middleware chain around the routing tree:
//
//     rewrite → request-id → recover → request-info → session → security
//
//     The rewrite layer folds the Host header into the path before any
//     route matching; everything downstream is host-agnostic.
//
//  6. Expose Prometheus /metrics beside the application routes and serve
//     until SIGINT/SIGTERM, then drain.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/matija2209/obrtnik-platform/internal/access"
	"github.com/matija2209/obrtnik-platform/internal/config"
	"github.com/matija2209/obrtnik-platform/internal/database"
	"github.com/matija2209/obrtnik-platform/internal/forms"
	"github.com/matija2209/obrtnik-platform/internal/handler"
	"github.com/matija2209/obrtnik-platform/internal/hostmap"
	"github.com/matija2209/obrtnik-platform/internal/logger"
	"github.com/matija2209/obrtnik-platform/internal/middleware"
	"github.com/matija2209/obrtnik-platform/internal/page"
	"github.com/matija2209/obrtnik-platform/internal/render"
	"github.com/matija2209/obrtnik-platform/internal/requestinfo"
	"github.com/matija2209/obrtnik-platform/internal/rewrite"
	"github.com/matija2209/obrtnik-platform/internal/server"
	"github.com/matija2209/obrtnik-platform/internal/tenant"
	"github.com/matija2209/obrtnik-platform/internal/viewer"
)

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if _, err := logger.New(cfg.Paths.Root, runningInTTY()); err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer func() { _ = zap.L().Sync() }()

	//
	// ── 1.  Control-plane DB ────────────────────────────────────────────
	//
	zap.S().Info("connecting to control-plane DB")
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		zap.S().Fatalw("connect control-plane DB", "err", err)
	}
	defer db.Close()

	// Log active-tenant count as an early sanity check.
	var active int
	_ = db.Get(&active, `
	    SELECT COUNT(*) FROM tenant
	    WHERE suspended_at IS NULL AND deleted_at IS NULL`)
	zap.S().Infow("control-plane DB online", "active_tenants", active)

	//
	// ── 2.  Hostname map ────────────────────────────────────────────────
	//
	var hosts hostmap.Store
	if cfg.Redis.URL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		rds, err := hostmap.Connect(ctx, cfg.Redis.URL)
		cancel()
		if err != nil {
			zap.S().Fatalw("connect hostname map", "err", err)
		}
		hosts = rds
	} else {
		zap.S().Warn("no redis configured, hostname map is process-local")
		hosts = hostmap.NewMemory(nil)
	}

	//
	// ── 3.  Tenant cache, resolver, renderer ────────────────────────────
	//
	cache := tenant.NewCache(db, cfg.TenantCache.IdleTTL, cfg.TenantCache.MaxEntries)
	resolver := tenant.NewResolver(cache, access.NewChecker(db))

	engine, err := render.NewEngine(filepath.Join(cfg.Paths.Root, "themes"))
	if err != nil {
		zap.S().Fatalw("build render engine", "err", err)
	}

	sessions := viewer.NewSessions(cfg.Session.Secret)
	contact := forms.NewContact(db, nil)

	h := handler.New(db, resolver, cache, page.NewRepo(db), engine, sessions, hosts, contact)

	//
	// ── 4.  Middleware chain ────────────────────────────────────────────
	//
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", h.Routes())

	var root http.Handler = mux
	root = middleware.Security(root)
	root = sessions.Middleware(root)
	root = requestinfo.Enrich(root)
	root = middleware.Recover(root)
	root = middleware.RequestID(root)
	root = rewrite.Middleware(rewrite.New(cfg.Routing.Aliases, cfg.Routing.AdminHost))(root)
	if cfg.HTTP.ForceHTTPS {
		root = middleware.ForceHTTPS(cache, root)
	}

	//
	// ── 5.  Serve ───────────────────────────────────────────────────────
	//
	srv := server.New(cfg.HTTP.ListenAddr, root)
	zap.S().Infow("listening", "addr", cfg.HTTP.ListenAddr)
	if err := server.Run(srv); err != nil {
		zap.S().Fatalw("server", "err", err)
	}
	zap.S().Info("stopped")
}
