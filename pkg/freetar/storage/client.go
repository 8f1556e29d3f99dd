//go:build !js && !wasm
// +build !js,!wasm

// Package storage persists tabs, favorites and setlists through gorm.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DefaultDBFile  = "freetar.sqlite3"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	errDBClientNil = "db client is nil"
)

type DBClient struct {
	DB *gorm.DB
	db *sql.DB
}

// NewDBClient opens the database named by FREETAR_DB_DRIVER and
// FREETAR_DB_DSN, falling back to a SQLite file at FREETAR_DB_PATH.
func NewDBClient() (*DBClient, error) {
	driver := os.Getenv("FREETAR_DB_DRIVER")
	if driver == "" || driver == DriverSQLite {
		dbPath := os.Getenv("FREETAR_DB_PATH")
		if dbPath == "" {
			dbPath = DefaultDBFile
		}
		return NewDBClientWithPath(dbPath)
	}
	return Open(driver, os.Getenv("FREETAR_DB_DSN"))
}

// NewDBClientWithPath opens (creating when needed) a SQLite database file.
func NewDBClientWithPath(dbPath string) (*DBClient, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating db dir: %w", err)
		}
	}
	return Open(DriverSQLite, dbPath)
}

// Open connects with the given driver ("sqlite" or "postgres") and migrates
// the schema.
func Open(driver, dsn string) (*DBClient, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverSQLite, "":
		if dsn == "" {
			dsn = DefaultDBFile
		}
		if !strings.Contains(dsn, "?") {
			dsn += "?_pragma=foreign_keys(1)"
		}
		dialector = sqlite.Open(dsn)
	case DriverPostgres:
		if dsn == "" {
			return nil, errors.New("postgres driver needs a dsn")
		}
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("opening %s db: %w", driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB from gorm: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&Tab{}, &Favorite{}, &Setlist{}, &SetlistItem{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return &DBClient{DB: db, db: sqlDB}, nil
}

func (c *DBClient) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

func (c *DBClient) ready() error {
	if c == nil || c.DB == nil {
		return errors.New(errDBClientNil)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
