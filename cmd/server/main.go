//go:build !js && !wasm
// +build !js,!wasm

package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/himanishpuri/freetar/pkg/freetar"
	"github.com/himanishpuri/freetar/pkg/logger"
)

var (
	port           int
	dbPath         string
	dbDriver       string
	dbDSN          string
	allowedOrigins string
	useFlats       bool
)

func registerFlags() {
	defaultPort, err := strconv.Atoi(getEnvOrDefault("FREETAR_PORT", "8080"))
	if err != nil {
		defaultPort = 8080
	}
	flag.IntVar(&port, "port", defaultPort, "HTTP server port")
	flag.StringVar(&dbPath, "db", getEnvOrDefault("FREETAR_DB_PATH", "freetar.sqlite3"), "Path to SQLite database")
	flag.StringVar(&dbDriver, "driver", os.Getenv("FREETAR_DB_DRIVER"), "Database driver: sqlite or postgres")
	flag.StringVar(&dbDSN, "dsn", os.Getenv("FREETAR_DB_DSN"), "Database DSN (postgres)")
	flag.StringVar(&allowedOrigins, "origins", getEnvOrDefault("FREETAR_ALLOWED_ORIGINS", "*"), "Comma-separated list of allowed CORS origins (use * for all)")
	flag.BoolVar(&useFlats, "flats", os.Getenv("FREETAR_USE_FLATS") == "true", "Spell transposed notes with flats")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseOrigins(s string) []string {
	if s == "*" {
		return []string{"*"}
	}
	origins := strings.Split(s, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return origins
}

func main() {
	// .env is optional; real environment variables take precedence.
	_ = godotenv.Load()
	registerFlags()
	flag.Parse()

	log := logger.GetLogger()
	if err := run(); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

func run() error {
	service, err := freetar.NewService(
		freetar.WithDBPath(dbPath),
		freetar.WithDatabase(dbDriver, dbDSN),
		freetar.WithFlats(useFlats),
	)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	defer service.Close()

	database := dbPath
	if dbDriver != "" && dbDriver != "sqlite" {
		database = dbDriver
	}

	server := NewServer(service, &ServerConfig{
		Port:           port,
		Database:       database,
		AllowedOrigins: parseOrigins(allowedOrigins),
	})
	if err := server.Start(); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
