package store

import (
	"context"
	"fmt"

	"github.com/kiranshivaraju/cancerscan/internal/config"
)

// Open constructs the Store selected by cfg.Store.Driver.
// Postgres schemas are not migrated here; see RunMigrations.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Store.Driver {
	case config.StoreFirestore:
		return NewFirestoreStore(ctx, cfg.Firestore.ProjectID, cfg.Store.Collection)
	case config.StorePostgres:
		pool, err := Connect(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		return NewPostgresStore(pool), nil
	case config.StoreSQLite:
		return NewSQLiteStore(cfg.SQLite.Path)
	default:
		return nil, fmt.Errorf("unknown store driver %q: must be one of firestore, postgres, sqlite", cfg.Store.Driver)
	}
}
