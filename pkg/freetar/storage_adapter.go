package freetar

import (
	"github.com/himanishpuri/freetar/pkg/freetar/storage"
)

var _ Storage = (*storage.DBClient)(nil)

// NewSQLiteStorage opens a SQLite storage backend at dbPath.
func NewSQLiteStorage(dbPath string) (Storage, error) {
	db, err := storage.NewDBClientWithPath(dbPath)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// NewDatabaseStorage opens the storage backend for driver and dsn. An empty
// driver falls back to SQLite at dbPath.
func NewDatabaseStorage(driver, dsn, dbPath string) (Storage, error) {
	if driver == "" || (driver == storage.DriverSQLite && dsn == "") {
		return NewSQLiteStorage(dbPath)
	}
	db, err := storage.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	return db, nil
}
