// backend/database/connection.go
package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/gewnthar/sitetrack/config"
	_ "github.com/go-sql-driver/mysql" // MariaDB/MySQL driver
	_ "modernc.org/sqlite"             // pure Go SQLite driver
)

var DB *sql.DB

// Open builds a connection pool for the configured driver and verifies it.
func Open(cfg config.DatabaseConfig) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)
	switch cfg.Driver {
	case "sqlite":
		dsn := cfg.Path
		if dsn != ":memory:" {
			dsn += "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
		}
		db, err = sql.Open("sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database %s: %w", cfg.Path, err)
		}
		// One writer; also keeps a :memory: database on a single connection.
		db.SetMaxOpenConns(1)
	case "mysql", "":
		// DSN: username:password@protocol(address)/dbname?param=value
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.DBName,
		)
		db, err = sql.Open("mysql", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open database connection: %w", err)
		}
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := EnsureSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// InitDB opens the configured database into the package-level DB.
func InitDB(cfg config.DatabaseConfig) error {
	db, err := Open(cfg)
	if err != nil {
		return err
	}
	DB = db
	log.Printf("Database: Connected (%s).\n", cfg.Driver)
	return nil
}

// CloseDB closes the database connection pool.
// Typically called on application shutdown.
func CloseDB() {
	if DB != nil {
		DB.Close()
		log.Println("Database: Connection closed.")
	}
}
