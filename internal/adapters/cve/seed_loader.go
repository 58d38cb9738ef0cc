package cve

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/moriartysec/moriarty/internal/core/domain"
	"github.com/moriartysec/moriarty/internal/core/ports"
)

// SeedLoader imports CVE records from a JSON file into the local cache so
// air-gapped setups can resolve known IDs without hitting the registry.
type SeedLoader struct {
	cache ports.CVECache
}

// NewSeedLoader creates a seed loader writing into the given cache.
func NewSeedLoader(cache ports.CVECache) *SeedLoader {
	return &SeedLoader{cache: cache}
}

// LoadFromFile reads a JSON array of CVEDetails and upserts each record.
// Individual bad records are skipped, not fatal.
func (l *SeedLoader) LoadFromFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	var records []domain.CVEDetails
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}

	loaded := 0
	for _, record := range records {
		if record.CVEID == "" {
			log.Printf("Skipping seed record without cve_id")
			continue
		}
		if err := l.cache.Put(ctx, record); err != nil {
			log.Printf("Skipping seed record %s: %v", record.CVEID, err)
			continue
		}
		loaded++
	}

	log.Printf("Loaded %d/%d seed records", loaded, len(records))
	return nil
}
