// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to properly configure
// connections based on the application's configuration. MySQL is the production driver;
// SQLite covers local setups and tests.
//
// # Connect
//
// The generic Connect function establishes a connection to the database. The driver
// is selected by Config.Driver, everything downstream works against the *gorm.DB
// regardless of the dialect.
//
// # Schema Inspection
//
// The package includes tools to inspect the database schema, used to verify that
// migrations produced the catalog tables the stores expect.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "media_files")
package database
