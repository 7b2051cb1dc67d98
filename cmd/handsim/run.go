package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ramonehamilton/handsim/internal/catalog"
	"github.com/ramonehamilton/handsim/internal/charts"
	"github.com/ramonehamilton/handsim/internal/config"
	"github.com/ramonehamilton/handsim/internal/deckimport"
	"github.com/ramonehamilton/handsim/internal/evaluator"
	"github.com/ramonehamilton/handsim/internal/report"
	"github.com/ramonehamilton/handsim/internal/rules"
	"github.com/ramonehamilton/handsim/internal/session"
	"github.com/ramonehamilton/handsim/internal/simulator"
	"github.com/ramonehamilton/handsim/internal/storage"
)

// runOptions are the flags shared by run and watch.
type runOptions struct {
	deckPath   string
	rulesPath  string
	csvPath    string
	dbPath     string
	trials     int
	turn       string
	seed       uint64
	workers    int
	chunkSize  int
	chartPath  string
	trackRoles string
	debug      bool
}

func (o *runOptions) register(fs *flag.FlagSet, cfg *config.Config) {
	fs.StringVar(&o.deckPath, "deck", cfg.Paths.DeckFile, "Deck file (.ydk or card list)")
	fs.StringVar(&o.rulesPath, "rules", cfg.Paths.RulesFile, "Rule configuration file")
	fs.StringVar(&o.csvPath, "catalog-csv", cfg.Paths.CatalogCSV, "id,name card list used to resolve .ydk ids")
	fs.StringVar(&o.dbPath, "catalog-db", cfg.Paths.CatalogDB, "Card catalog database used to resolve .ydk ids")
	fs.IntVar(&o.trials, "trials", cfg.Simulation.Trials, "Number of hands to draw")
	fs.StringVar(&o.turn, "turn", cfg.Simulation.Turn, "Turn: first (5 cards) or second (6 cards)")
	fs.Uint64Var(&o.seed, "seed", cfg.Simulation.Seed, "Random seed (0 = time-based)")
	fs.IntVar(&o.workers, "workers", cfg.Simulation.Workers, "Concurrent workers (0 = number of CPUs)")
	fs.IntVar(&o.chunkSize, "chunk-size", cfg.Simulation.ChunkSize, "Trials per random stream")
	fs.StringVar(&o.chartPath, "chart", "", "Write an HTML chart of the run to this path")
	fs.StringVar(&o.trackRoles, "track", strings.Join(cfg.Simulation.TrackedRoles, ","), "Comma-separated roles reported per hand")
	fs.BoolVar(&o.debug, "debug-mode", cfg.App.DebugMode, "Enable verbose debug logging")
}

func (o *runOptions) trackedRoles() []rules.Role {
	var roles []rules.Role
	for _, name := range strings.Split(o.trackRoles, ",") {
		if role, _ := rules.ParseRole(name); role != "" {
			roles = append(roles, role)
		}
	}
	return roles
}

func runSimulateCommand(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	var opts runOptions
	opts.register(fs, cfg)
	jsonOut := fs.Bool("json", false, "Print the result as JSON instead of the text report")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing run flags: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deck, err := loadDeck(ctx, opts.deckPath, opts.csvPath, opts.dbPath)
	if err != nil {
		log.Fatalf("Error loading deck: %v", err)
	}

	s, err := loadRules(opts.rulesPath)
	if err != nil {
		log.Fatalf("Error loading rules: %v", err)
	}

	result, err := simulate(ctx, &opts, deck, s)
	if err != nil {
		log.Fatalf("Simulation failed: %v", err)
	}

	if *jsonOut {
		err = writeJSON(os.Stdout, result)
	} else {
		err = report.WriteText(os.Stdout, result)
	}
	if err != nil {
		log.Fatalf("Error writing report: %v", err)
	}

	if opts.chartPath != "" {
		if err := charts.WriteFile(opts.chartPath, result, charts.DefaultChartConfig()); err != nil {
			log.Fatalf("Error writing chart: %v", err)
		}
		fmt.Printf("\nChart written to %s\n", opts.chartPath)
	}
}

// simulate runs one simulation with the given options. A zero seed is
// replaced by a time-based one, which is logged to stderr so the run can be
// repeated.
func simulate(ctx context.Context, opts *runOptions, deck []string, s *session.Session) (*simulator.Result, error) {
	turn, err := rules.ParseTurn(opts.turn)
	if err != nil {
		return nil, err
	}

	seed := opts.seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
		log.Printf("Using seed %d", seed)
	}

	sim := simulator.New(simulator.Config{
		Workers:   opts.workers,
		ChunkSize: opts.chunkSize,
	}, newLogger(opts.debug))

	return sim.Run(ctx, simulator.Request{
		Deck:         deck,
		Trials:       opts.trials,
		Turn:         turn,
		Rules:        s.Ruleset(),
		Seed:         seed,
		TrackedRoles: opts.trackedRoles(),
	})
}

// loadDeck parses a deck file. Card ids in .ydk files are resolved through
// the catalog database when one exists, else through the CSV card list.
func loadDeck(ctx context.Context, path, csvPath, dbPath string) ([]string, error) {
	if path == "" {
		return nil, errors.New("no deck file given (use -deck)")
	}

	resolver, closeResolver, err := openResolver(csvPath, dbPath)
	if err != nil {
		return nil, err
	}
	defer closeResolver()

	parsed, err := deckimport.NewParser(resolver).LoadFile(ctx, path)
	if err != nil {
		return nil, err
	}

	for _, w := range parsed.Warnings {
		log.Printf("[WARN] %s", w)
	}
	if len(parsed.Unresolved) > 0 {
		log.Printf("[WARN] %d card ids could not be resolved", len(parsed.Unresolved))
	}

	return parsed.Cards(), nil
}

func openResolver(csvPath, dbPath string) (deckimport.Resolver, func(), error) {
	noop := func() {}

	if dbPath != "" {
		if _, err := os.Stat(dbPath); err == nil {
			db, err := storage.Open(storage.DefaultConfig(dbPath))
			if err != nil {
				return nil, noop, fmt.Errorf("open catalog database: %w", err)
			}
			closer := func() {
				if err := db.Close(); err != nil {
					log.Printf("Error closing catalog database: %v", err)
				}
			}
			return storage.NewCardRepository(db), closer, nil
		}
	}

	if csvPath != "" {
		c, err := catalog.LoadCSVFile(csvPath)
		if err != nil {
			return nil, noop, err
		}
		return c, noop, nil
	}

	return nil, noop, nil
}

// loadRules reads the rules file, or returns an empty session (built-in
// tables only) when no file is given.
func loadRules(path string) (*session.Session, error) {
	if path == "" {
		return session.New(), nil
	}
	s, err := session.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if s.Skipped > 0 {
		log.Printf("[WARN] Skipped %d malformed lines in %s", s.Skipped, path)
	}
	return s, nil
}

func runScoreCommand(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("score", flag.ExitOnError)
	rulesPath := fs.String("rules", cfg.Paths.RulesFile, "Rule configuration file")
	turnFlag := fs.String("turn", cfg.Simulation.Turn, "Turn: first or second")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing score flags: %v\n", err)
		os.Exit(1)
	}

	hand := fs.Args()
	if len(hand) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: handsim score [flags] <card> <card> ...")
		os.Exit(1)
	}

	turn, err := rules.ParseTurn(*turnFlag)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	s, err := loadRules(*rulesPath)
	if err != nil {
		log.Fatalf("Error loading rules: %v", err)
	}

	rs := s.Ruleset()
	writeEvaluation(os.Stdout, hand, rs, evaluator.New(rs, turn).Evaluate(hand))
}

func writeEvaluation(w io.Writer, hand []string, rs *rules.Ruleset, ev evaluator.Evaluation) {
	fmt.Fprintf(w, "Hand: %s\n", strings.Join(hand, ", "))
	fmt.Fprintf(w, "  Card points:   %.3f\n", ev.CardPoints)
	fmt.Fprintf(w, "  Combo bonus:   %.3f\n", ev.ComboBonus)
	fmt.Fprintf(w, "  Pattern bonus: %.3f\n", ev.PatternBonus)
	fmt.Fprintf(w, "  Score:         %.3f\n", ev.Score)

	roles := make([]string, len(ev.Roles))
	for i, r := range ev.Roles {
		roles[i] = string(r)
	}
	if len(roles) == 0 {
		roles = []string{"(none)"}
	}
	fmt.Fprintf(w, "  Roles:         %s\n", strings.Join(roles, ", "))

	for i, matched := range ev.Matched {
		if matched {
			fmt.Fprintf(w, "  Matched:       %s\n", rs.Patterns[i])
		}
	}
}

func runWatchCommand(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	var opts runOptions
	opts.register(fs, cfg)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing watch flags: %v\n", err)
		os.Exit(1)
	}
	if opts.rulesPath == "" {
		log.Fatal("watch needs a rules file (use -rules)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deck, err := loadDeck(ctx, opts.deckPath, opts.csvPath, opts.dbPath)
	if err != nil {
		log.Fatalf("Error loading deck: %v", err)
	}

	fmt.Printf("Watching %s (Ctrl+C to stop)\n", opts.rulesPath)

	// A fixed seed keeps successive runs comparable while the rules change.
	if opts.seed == 0 {
		opts.seed = uint64(time.Now().UnixNano())
		log.Printf("Using seed %d", opts.seed)
	}

	err = session.Watch(ctx, opts.rulesPath, func(s *session.Session) {
		if s.Skipped > 0 {
			log.Printf("[WARN] Skipped %d malformed lines in %s", s.Skipped, opts.rulesPath)
		}
		result, err := simulate(ctx, &opts, deck, s)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				log.Printf("Simulation failed: %v", err)
			}
			return
		}
		fmt.Printf("\n--- %s ---\n", time.Now().Format("15:04:05"))
		if err := report.WriteText(os.Stdout, result); err != nil {
			log.Printf("Error writing report: %v", err)
		}
		if opts.chartPath != "" {
			if err := charts.WriteFile(opts.chartPath, result, charts.DefaultChartConfig()); err != nil {
				log.Printf("Error writing chart: %v", err)
			}
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Watch failed: %v", err)
	}
}
