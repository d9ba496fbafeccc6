// Package app wires the configurator service together and runs the HTTP
// server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/mycardscz/mycards-server/internal/config"
	"github.com/mycardscz/mycards-server/internal/db"
	"github.com/mycardscz/mycards-server/internal/deck"
	"github.com/mycardscz/mycards-server/internal/export"
	adminapi "github.com/mycardscz/mycards-server/internal/http/api/admin"
	"github.com/mycardscz/mycards-server/internal/http/api/front"
	"github.com/mycardscz/mycards-server/internal/render"
	"github.com/mycardscz/mycards-server/internal/session"
	"github.com/mycardscz/mycards-server/internal/store"
)

// Migrate opens the local database and runs migrations.
func Migrate(cfg config.Config) error {
	conn, err := db.Open(cfg.Database.DSN)
	if err != nil {
		return err
	}
	return db.AutoMigrate(conn)
}

// Run boots the configurator server and blocks until ctx is cancelled.
func Run(ctx context.Context, cfg config.Config) error {
	conn, err := db.Open(cfg.Database.DSN)
	if err != nil {
		return err
	}
	if errMigrate := db.AutoMigrate(conn); errMigrate != nil {
		return errMigrate
	}

	local := store.NewLocalStore(conn)
	remote := store.NewRemoteStore(
		&http.Client{Timeout: cfg.Remote.Timeout.Std()},
		cfg.Remote.Endpoints,
		cfg.Remote.Default,
	)
	orders := store.NewFallbackStore(remote, local)
	store.NewFlusher(remote, local).Start(ctx)

	sessions := buildSessionStore(cfg.Session)
	resolver := deck.NewResolver(cfg.Assets.BaseURL)
	exporter := export.NewExporter(render.NewCompositor(render.NewHTTPFetcher(nil)))

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogMiddleware(), originMiddleware())
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	front.RegisterFrontRoutes(engine, resolver, sessions, orders)
	adminapi.RegisterAdminRoutes(engine, orders, exporter, cfg.Admin)

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if errShutdown := srv.Shutdown(shutdownCtx); errShutdown != nil {
			return fmt.Errorf("app: shutdown: %w", errShutdown)
		}
		return nil
	case errServe := <-errCh:
		if errors.Is(errServe, http.ErrServerClosed) {
			return nil
		}
		return errServe
	}
}

// buildSessionStore picks Redis when configured, in-memory otherwise.
func buildSessionStore(cfg config.SessionConfig) session.Store {
	if cfg.RedisAddr == "" {
		log.Warn("no redis configured, wizard sessions are in-memory and lost on restart")
		return session.NewMemoryStore()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return session.NewRedisStore(client, cfg.TTL.Std())
}

// originMiddleware records the calling origin on the request context so the
// remote order store can route to that origin's legacy backend. Requests
// without an Origin header (the admin panel, curl) fall back to the Host.
func originMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			origin = c.Request.Host
		}
		c.Request = c.Request.WithContext(store.WithOrigin(c.Request.Context(), origin))
		c.Next()
	}
}

// requestLogMiddleware logs one line per request through logrus.
func requestLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"elapsed": time.Since(start).String(),
		}).Info("request")
	}
}
