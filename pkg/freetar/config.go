package freetar

import "github.com/himanishpuri/freetar/pkg/freetar/notes"

type Config struct {
	DBPath   string
	DBDriver string
	DBDSN    string
	Spelling notes.Spelling
	Logger   Logger
	Storage  Storage
}

type Option func(*Config)

// WithDBPath selects a SQLite database file.
func WithDBPath(path string) Option {
	return func(c *Config) {
		c.DBPath = path
	}
}

// WithDatabase selects a driver ("sqlite" or "postgres") and its DSN.
func WithDatabase(driver, dsn string) Option {
	return func(c *Config) {
		c.DBDriver = driver
		c.DBDSN = dsn
	}
}

func WithLogger(log Logger) Option {
	return func(c *Config) {
		c.Logger = log
	}
}

func WithStorage(storage Storage) Option {
	return func(c *Config) {
		c.Storage = storage
	}
}

// WithFlats spells transposed notes with flats instead of sharps.
func WithFlats(flats bool) Option {
	return func(c *Config) {
		if flats {
			c.Spelling = notes.Flats
		} else {
			c.Spelling = notes.Sharps
		}
	}
}

func defaultConfig() *Config {
	return &Config{
		DBPath:   "freetar.sqlite3",
		Spelling: notes.Sharps,
	}
}
