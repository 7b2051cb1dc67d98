// Command handsim estimates opening hand quality by Monte Carlo sampling.
//
// Usage:
//
//	handsim [run] -deck deck.ydk -rules rules.txt -trials 100000 -turn first
//	handsim score -rules rules.txt -turn second "Card A" "Card B" ...
//	handsim watch -deck deck.ydk -rules rules.txt
//	handsim serve -port 8080
//	handsim catalog import -csv cards.csv
//	handsim migrate up|down|version
//	handsim version
package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ramonehamilton/handsim/internal/config"
	"github.com/ramonehamilton/handsim/internal/version"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	command, args := "run", os.Args[1:]
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		command, args = args[0], args[1:]
	}

	switch command {
	case "run":
		runSimulateCommand(cfg, args)
	case "score":
		runScoreCommand(cfg, args)
	case "watch":
		runWatchCommand(cfg, args)
	case "serve":
		runServeCommand(cfg, args)
	case "catalog":
		runCatalogCommand(cfg, args)
	case "migrate":
		runMigrationCommand(cfg, args)
	case "version":
		fmt.Printf("handsim %s\n", version.GetVersion())
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

// loadConfig reads the config file named by HANDSIM_CONFIG, or
// ~/.handsim/config.toml.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(os.Getenv("HANDSIM_CONFIG"))
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newLogger returns the text logger handed to long-running services.
func newLogger(debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// defaultCatalogDB returns the configured catalog database path, falling back
// to ~/.handsim/cards.db.
func defaultCatalogDB(cfg *config.Config) string {
	if cfg.Paths.CatalogDB != "" {
		return cfg.Paths.CatalogDB
	}
	dir, err := config.Dir()
	if err != nil {
		log.Fatalf("Error getting data directory: %v", err)
	}
	return filepath.Join(dir, "cards.db")
}

func printUsage() {
	fmt.Println("handsim - opening hand simulator")
	fmt.Println()
	fmt.Println("Usage: handsim <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  run              Simulate opening hands and print a report (default)")
	fmt.Println("  score <cards>    Score a single hand")
	fmt.Println("  watch            Re-run the simulation whenever the rules file changes")
	fmt.Println("  serve            Start the REST API server")
	fmt.Println("  catalog import   Import an id,name card list into the catalog database")
	fmt.Println("  catalog lookup   Print the name of a card id")
	fmt.Println("  migrate          Manage catalog database migrations (up, down, version)")
	fmt.Println("  version          Print the version")
	fmt.Println()
	fmt.Println("Run 'handsim <command> -h' for the flags of a command.")
	fmt.Println("Defaults come from ~/.handsim/config.toml (or $HANDSIM_CONFIG).")
}
