package database

import (
	"context"
	"fmt"
)

// Open selects a driver by name: "postgres" for the hosted store, "sqlite"
// for a local file (migrated on open), "memory" for a throwaway demo store.
func Open(ctx context.Context, driver, databaseURL, sqlitePath string) (Store, error) {
	switch driver {
	case "postgres":
		return ConnectDB(ctx, databaseURL)
	case "sqlite":
		store, err := OpenSQLite(sqlitePath)
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, err
		}
		return store, nil
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
