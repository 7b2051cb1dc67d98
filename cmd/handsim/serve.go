package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ramonehamilton/handsim/internal/api"
	"github.com/ramonehamilton/handsim/internal/config"
	"github.com/ramonehamilton/handsim/internal/metrics"
	"github.com/ramonehamilton/handsim/internal/session"
	"github.com/ramonehamilton/handsim/internal/simulator"
)

func runServeCommand(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	port := fs.Int("port", cfg.API.Port, "API server port")
	maxTrials := fs.Int("max-trials", cfg.API.MaxTrials, "Largest trial count one request may ask for")
	rateInterval := fs.String("rate-interval", cfg.API.RateInterval, "Minimum average spacing between simulation requests")
	rateBurst := fs.Int("rate-burst", cfg.API.RateBurst, "Simulation requests allowed back to back")
	rulesPath := fs.String("rules", cfg.Paths.RulesFile, "Default rule configuration file")
	csvPath := fs.String("catalog-csv", cfg.Paths.CatalogCSV, "id,name card list used to resolve .ydk ids")
	dbPath := fs.String("catalog-db", cfg.Paths.CatalogDB, "Card catalog database used to resolve .ydk ids")
	workers := fs.Int("workers", cfg.Simulation.Workers, "Concurrent workers per simulation (0 = number of CPUs)")
	debug := fs.Bool("debug-mode", cfg.App.DebugMode, "Enable verbose debug logging")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing serve flags: %v\n", err)
		os.Exit(1)
	}

	interval, err := time.ParseDuration(*rateInterval)
	if err != nil {
		log.Fatalf("Invalid rate interval %q: %v", *rateInterval, err)
	}

	fmt.Println("handsim - REST API Server")
	fmt.Println("=========================")
	fmt.Println()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	resolver, closeResolver, err := openResolver(*csvPath, *dbPath)
	if err != nil {
		log.Fatalf("Error opening card catalog: %v", err)
	}
	defer closeResolver()

	var defaults *session.Session
	if *rulesPath != "" {
		if defaults, err = loadRules(*rulesPath); err != nil {
			log.Fatalf("Error loading rules: %v", err)
		}
		fmt.Printf("Default rules: %s\n", *rulesPath)
	}

	server := api.NewServer(&api.Config{
		Port:           *port,
		MaxTrials:      *maxTrials,
		RateInterval:   interval,
		RateBurst:      *rateBurst,
		RequestTimeout: 60 * time.Second,
	}, &api.Services{
		Simulator: simulator.New(simulator.Config{Workers: *workers, ChunkSize: cfg.Simulation.ChunkSize}, newLogger(*debug)),
		Metrics:   metrics.NewSimulationMetrics(),
		Resolver:  resolver,
		Defaults:  defaults,
	})

	if err := server.Start(); err != nil {
		log.Fatalf("Failed to start API server: %v", err)
	}

	fmt.Printf("API server running at http://localhost:%d\n", *port)
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	<-ctx.Done()

	fmt.Println()
	fmt.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	fmt.Println("API server stopped.")
}
