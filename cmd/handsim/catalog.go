package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/ramonehamilton/handsim/internal/catalog"
	"github.com/ramonehamilton/handsim/internal/config"
	"github.com/ramonehamilton/handsim/internal/storage"
)

func runCatalogCommand(cfg *config.Config, args []string) {
	if len(args) < 1 {
		printCatalogUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "import":
		fs := flag.NewFlagSet("catalog import", flag.ExitOnError)
		csvPath := fs.String("csv", cfg.Paths.CatalogCSV, "id,name card list to import")
		dbPath := fs.String("db-path", defaultCatalogDB(cfg), "Catalog database path")
		if err := fs.Parse(args[1:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing catalog flags: %v\n", err)
			os.Exit(1)
		}
		if *csvPath == "" {
			log.Fatal("catalog import needs a card list (use -csv)")
		}

		c, err := catalog.LoadCSVFile(*csvPath)
		if err != nil {
			log.Fatalf("Error reading card list: %v", err)
		}

		repo, closeDB := openCatalogDB(*dbPath)
		defer closeDB()

		n, err := repo.SaveCards(context.Background(), c.Cards())
		if err != nil {
			log.Fatalf("Error importing cards: %v", err)
		}
		fmt.Printf("Imported %d cards into %s\n", n, *dbPath)

	case "lookup":
		fs := flag.NewFlagSet("catalog lookup", flag.ExitOnError)
		dbPath := fs.String("db-path", defaultCatalogDB(cfg), "Catalog database path")
		if err := fs.Parse(args[1:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing catalog flags: %v\n", err)
			os.Exit(1)
		}

		repo, closeDB := openCatalogDB(*dbPath)
		defer closeDB()

		ctx := context.Background()
		for _, arg := range fs.Args() {
			id, err := strconv.Atoi(arg)
			if err != nil {
				fmt.Printf("%s: not a card id\n", arg)
				continue
			}
			name, ok, err := repo.CardName(ctx, id)
			if err != nil {
				log.Fatalf("Error looking up card %d: %v", id, err)
			}
			if !ok {
				fmt.Printf("%d: not found\n", id)
				continue
			}
			fmt.Printf("%d: %s\n", id, name)
		}

	case "count":
		fs := flag.NewFlagSet("catalog count", flag.ExitOnError)
		dbPath := fs.String("db-path", defaultCatalogDB(cfg), "Catalog database path")
		if err := fs.Parse(args[1:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing catalog flags: %v\n", err)
			os.Exit(1)
		}

		repo, closeDB := openCatalogDB(*dbPath)
		defer closeDB()

		n, err := repo.Count(context.Background())
		if err != nil {
			log.Fatalf("Error counting cards: %v", err)
		}
		fmt.Printf("%d cards in %s\n", n, *dbPath)

	default:
		fmt.Fprintf(os.Stderr, "Unknown catalog command: %s\n\n", args[0])
		printCatalogUsage()
		os.Exit(1)
	}
}

func openCatalogDB(path string) (*storage.CardRepository, func()) {
	db, err := storage.Open(storage.DefaultConfig(path))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	return storage.NewCardRepository(db), func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}
}

func printCatalogUsage() {
	fmt.Println("Usage: handsim catalog <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  import -csv cards.csv [-db-path path]   Import an id,name card list")
	fmt.Println("  lookup [-db-path path] <id> ...         Print card names")
	fmt.Println("  count [-db-path path]                   Print the number of cards")
}

func runMigrationCommand(cfg *config.Config, args []string) {
	if len(args) < 1 {
		printMigrationUsage()
		os.Exit(1)
	}

	dbPath := defaultCatalogDB(cfg)
	mgr, err := storage.NewMigrationManager(dbPath)
	if err != nil {
		log.Fatalf("Error creating migration manager: %v", err)
	}
	defer func() {
		if err := mgr.Close(); err != nil {
			log.Printf("Error closing migration manager: %v", err)
		}
	}()

	switch args[0] {
	case "up":
		fmt.Println("Applying all pending migrations...")
		if err := mgr.Up(); err != nil {
			log.Fatalf("Error applying migrations: %v", err)
		}
		printMigrationVersion(mgr)
		fmt.Println("All migrations applied successfully!")

	case "down":
		fmt.Println("Rolling back all migrations...")
		if err := mgr.Down(); err != nil {
			log.Fatalf("Error rolling back migrations: %v", err)
		}
		fmt.Println("Migrations rolled back successfully!")

	case "status", "version":
		printMigrationVersion(mgr)

	default:
		fmt.Fprintf(os.Stderr, "Unknown migrate command: %s\n\n", args[0])
		printMigrationUsage()
		os.Exit(1)
	}
}

func printMigrationVersion(mgr *storage.MigrationManager) {
	version, dirty, err := mgr.Version()
	if err != nil {
		log.Fatalf("Error getting version: %v", err)
	}
	if dirty {
		fmt.Printf("Current version: %d (dirty)\n", version)
	} else {
		fmt.Printf("Current version: %d\n", version)
	}
}

func printMigrationUsage() {
	fmt.Println("Usage: handsim migrate <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  up        Apply all pending migrations")
	fmt.Println("  down      Roll back all migrations")
	fmt.Println("  version   Show the current migration version")
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
