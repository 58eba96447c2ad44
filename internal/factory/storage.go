// Package factory builds the concrete components the server runs with,
// driven by config.
package factory

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/curiolabs/curio-server/internal/config"
	storepkg "github.com/curiolabs/curio-server/internal/store"
	storepg "github.com/curiolabs/curio-server/internal/store/postgres"
	storelite "github.com/curiolabs/curio-server/internal/store/sqlite"
)

const bootstrapTimeout = 30 * time.Second

// NewStore opens the configured database and returns a store.Store plus the
// underlying handle for health pings.
func NewStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storepkg.Store, *sql.DB, error) {
	switch cfg.DBDriver {
	case "postgres":
		db, err := storepg.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		// Schema bootstrap runs in the background so startup stays fast.
		go func() {
			bctx, cancel := context.WithTimeout(ctx, bootstrapTimeout)
			defer cancel()
			if err := storepg.EnsureSchema(bctx, db); err != nil {
				log.Warn().Err(err).Str("driver", cfg.DBDriver).Msg("store bootstrap failed")
			}
		}()
		return storepg.NewWithDB(db), db, nil

	case "sqlite":
		var db *sql.DB
		var err error
		if cfg.SQLitePath == ":memory:" {
			db, err = storelite.OpenMemory()
		} else {
			db, err = storelite.Open(cfg.SQLitePath)
		}
		if err != nil {
			return nil, nil, err
		}
		if err := storelite.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return storelite.NewWithDB(db), db, nil

	default:
		return nil, nil, fmt.Errorf("unknown DB_DRIVER: %s", cfg.DBDriver)
	}
}
