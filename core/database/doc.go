// Package database handles database connections and schema migration.
//
// It provides a wrapper around GORM to configure MySQL (production) or SQLite
// (local runs and tests) connections from the application's configuration.
//
// # Connect
//
// Connect opens the configured dialect, applies pool settings and pings the
// database within the configured timeout.
//
// # Migrate
//
// Migrate creates the tables of the replay data model: plans, action items,
// case items, compare results and comparison configs.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//	err = database.Migrate(db)
package database
