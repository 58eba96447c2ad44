// Package curioservice embeds the full curio server so other binaries can
// run it in-process.
package curioservice

import (
	"context"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	httpapi "github.com/curiolabs/curio-server/internal/api/http"
	"github.com/curiolabs/curio-server/internal/config"
	"github.com/curiolabs/curio-server/internal/factory"
	"github.com/curiolabs/curio-server/internal/platform/logger"
	"github.com/curiolabs/curio-server/internal/services"
)

// Run starts the curio HTTP server and blocks until shutdown or error.
func Run() error {
	log := logger.New("curio-server")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	log.Info().
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Str("embed_provider", cfg.EmbedProvider).
		Str("embed_model", cfg.EmbedModel).
		Msg("Curio service starting")

	// Cancellable root context bound to SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, db, err := factory.NewStore(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("Store unavailable")
		return err
	}
	defer func() { _ = db.Close() }()

	emb := factory.NewEmbeddings(cfg, log)
	indexer, engine, hydrator := factory.NewSearch(st, emb, cfg, log)

	deps := httpapi.Deps{
		Bookmarks:  services.NewBookmarkService(st, indexer),
		Highlights: services.NewHighlightService(st, indexer),
		Comments:   services.NewCommentService(st, indexer),
		Tags:       services.NewTagService(st),
		Friends:    services.NewFriendService(st),
		Search:     services.NewSearchService(engine, hydrator),
		Admin:      services.NewAdminService(indexer),
		Health:     st,
	}

	server := &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           httpapi.NewRouter(deps),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := serveHTTP(server, log, cfg)

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Err(err).Msg("HTTP server failed")
		return err
	}
}

func serveHTTP(server *http.Server, log zerolog.Logger, cfg *config.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}
