package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/moriartysec/moriarty/internal/adapters/cve"
)

func main() {
	seedFile := flag.String("seed-file", "./configs/cve_seed.json", "Path to CVE seed JSON file")
	dbPath := flag.String("db-path", "./data/cve_cache.db", "Path to CVE cache database")
	flag.Parse()

	log.Println("=== CVE Seed Loader ===")
	log.Printf("Seed file: %s", *seedFile)
	log.Printf("Database: %s", *dbPath)

	// Ensure data directory exists
	if err := os.MkdirAll(filepath.Dir(*dbPath), 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	// Create cache
	cache, err := cve.NewSQLiteCache(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open cache: %v", err)
	}
	defer cache.Close()

	// Load seed data
	loader := cve.NewSeedLoader(cache)
	ctx := context.Background()

	if err := loader.LoadFromFile(ctx, *seedFile); err != nil {
		log.Fatalf("Failed to load seed data: %v", err)
	}

	// Show stats
	count, _ := cache.Count(ctx)
	log.Printf("Cache now contains %d CVEs", count)
}
