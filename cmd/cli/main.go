//go:build !js && !wasm
// +build !js,!wasm

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/himanishpuri/freetar/pkg/freetar"
	"github.com/himanishpuri/freetar/pkg/logger"
)

// Global flags
var (
	dbPath   string
	dbDriver string
	dbDSN    string
	useFlats bool
)

func registerFlags() {
	flag.StringVar(&dbPath, "db", getEnvOrDefault("FREETAR_DB_PATH", "freetar.sqlite3"), "Path to the SQLite database file")
	flag.StringVar(&dbDriver, "driver", os.Getenv("FREETAR_DB_DRIVER"), "Database driver: sqlite or postgres")
	flag.StringVar(&dbDSN, "dsn", os.Getenv("FREETAR_DB_DSN"), "Database DSN (postgres)")
	flag.BoolVar(&useFlats, "flats", os.Getenv("FREETAR_USE_FLATS") == "true", "Spell transposed notes with flats")
	flag.Usage = func() { printUsage(os.Stderr) }
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// createService creates a freetar service with the configured options
func createService() (freetar.Service, error) {
	return freetar.NewService(
		freetar.WithDBPath(dbPath),
		freetar.WithDatabase(dbDriver, dbDSN),
		freetar.WithFlats(useFlats),
	)
}

func main() {
	_ = godotenv.Load()
	registerFlags()
	flag.Parse()

	log := logger.GetLogger().With("cli")

	if flag.NArg() < 1 {
		printBanner(os.Stdout)
		printUsage(os.Stdout)
		os.Exit(1)
	}
	log.Debugf("Executing command: %s", flag.Arg(0))

	svc, err := createService()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to create service: %v\n", err)
		log.Errorf("Service initialization failed: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	c := &cli{svc: svc, out: os.Stdout, log: log, flats: useFlats}
	err = c.run(ctx, flag.Args())
	stop()
	svc.Close()

	if errors.Is(err, errUsage) {
		printUsage(os.Stderr)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		log.Errorf("%s failed: %v", flag.Arg(0), err)
		os.Exit(1)
	}
}

func printBanner(w io.Writer) {
	banner := `
  __               _
 / _|_ __ ___  ___| |_ __ _ _ __
| |_| '__/ _ \/ _ \ __/ _' | '__|
|  _| | |  __/  __/ || (_| | |
|_| |_|  \___|\___|\__\__,_|_|

      Guitar tabs, offline
`
	fmt.Fprintln(w, banner)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "freetar - tab library CLI")
	fmt.Fprintln(w, "\nGlobal Options:")
	fmt.Fprintln(w, "  --db <path>        Path to SQLite database (env: FREETAR_DB_PATH, default: freetar.sqlite3)")
	fmt.Fprintln(w, "  --driver <name>    sqlite or postgres (env: FREETAR_DB_DRIVER)")
	fmt.Fprintln(w, "  --dsn <dsn>        Database DSN for postgres (env: FREETAR_DB_DSN)")
	fmt.Fprintln(w, "  --flats            Spell transposed notes with flats (env: FREETAR_USE_FLATS)")
	fmt.Fprintln(w, "\nUsage:")
	fmt.Fprintln(w, "  freetar import <payload.json|->")
	fmt.Fprintln(w, "  freetar list")
	fmt.Fprintln(w, "  freetar show <tab_id> [--transpose n] [--capo n] [--diagrams]")
	fmt.Fprintln(w, "  freetar export <tab_id> [--out dir] [--transpose n] [--capo n]")
	fmt.Fprintln(w, "  freetar parse <file.cho|-> [--transpose n]")
	fmt.Fprintln(w, "  freetar delete <tab_id>")
	fmt.Fprintln(w, "  freetar fav add <tab_id> | rm <tab_url> | list | export [--out dir] | import <file>")
	fmt.Fprintln(w, "  freetar setlist create <name> [--desc text] | list | show <id> | delete <id>")
	fmt.Fprintln(w, "  freetar setlist add <id> <tab_id> [--notes text] | rm <id> <item_id>")
	fmt.Fprintln(w, "  freetar setlist order <id> <item_id>... | set <id> <item_id> [--transpose n] [--capo n] [--notes text]")
	fmt.Fprintln(w, "  freetar setlist share <id> | unshare <id> | stage <id>")
	fmt.Fprintln(w, "\nExamples:")
	fmt.Fprintln(w, "  # Import a scraped tab and play it a tone lower with capo 2")
	fmt.Fprintln(w, "  freetar import swing-life-away.json")
	fmt.Fprintln(w, "  freetar show 3f1c... --transpose -2 --capo 2")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  # Export ChordPro into ./songs")
	fmt.Fprintln(w, "  freetar export 3f1c... --out songs")
}
