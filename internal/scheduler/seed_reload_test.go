package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MrSnakeDoc/subtrack/internal/domain"
	"github.com/MrSnakeDoc/subtrack/internal/index"
	"github.com/MrSnakeDoc/subtrack/internal/logger"
	"github.com/MrSnakeDoc/subtrack/internal/sources/seed"
)

func writeSeedFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "subscriptions.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write seed file: %v", err)
	}
	return path
}

func reloaderFor(path string, idx *index.MemoryIndex) *SeedReloader {
	return NewSeedReloader(
		seed.NewLoader(path),
		seed.NewMapper("EUR"),
		nil,
		idx,
		logger.New("error", false),
		time.Hour,
		nil,
	)
}

func TestReloadUpsertsSeedRecords(t *testing.T) {
	path := writeSeedFile(t, `
subscriptions:
  - name: Netflix
    price: 9.99
    billing_cycle: monthly
    first_bill_date: "2024-01-15"
    category: entertainment
`)
	idx := index.NewMemoryIndex()
	sr := reloaderFor(path, idx)

	if err := sr.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() error: %v", err)
	}

	sub, ok := idx.Get("seed:netflix")
	if !ok {
		t.Fatalf("seed record missing from index")
	}
	if sub.Price != 9.99 || sub.Currency != "EUR" || !sub.Active {
		t.Errorf("unexpected mapped record: %+v", sub)
	}
}

func TestReloadPreservesCreatedAt(t *testing.T) {
	path := writeSeedFile(t, `
subscriptions:
  - name: Netflix
    price: 9.99
    billing_cycle: monthly
`)
	idx := index.NewMemoryIndex()
	created := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	idx.Put(&domain.Subscription{
		ID:        "seed:netflix",
		Name:      "Netflix",
		Source:    seed.SourceName,
		CreatedAt: created,
	})

	sr := reloaderFor(path, idx)
	if err := sr.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() error: %v", err)
	}

	sub, _ := idx.Get("seed:netflix")
	if !sub.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want original %v", sub.CreatedAt, created)
	}
}

func TestReloadSoftDeletesVanishedSeedRecords(t *testing.T) {
	path := writeSeedFile(t, `
subscriptions:
  - name: Netflix
    price: 9.99
    billing_cycle: monthly
`)
	idx := index.NewMemoryIndex()
	idx.Put(&domain.Subscription{
		ID:     "seed:spotify",
		Name:   "Spotify",
		Source: seed.SourceName,
		Active: true,
	})
	idx.Put(&domain.Subscription{
		ID:     "api-made",
		Name:   "Gym",
		Source: "api",
		Active: true,
	})

	sr := reloaderFor(path, idx)
	if err := sr.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() error: %v", err)
	}

	gone, _ := idx.Get("seed:spotify")
	if !gone.Deleted || gone.Active {
		t.Errorf("vanished seed record should be soft-deleted and inactive, got %+v", gone)
	}
	kept, _ := idx.Get("api-made")
	if kept.Deleted {
		t.Errorf("API-created record must not be touched by seed reload")
	}
}

func TestReloadBadFileLeavesIndexIntact(t *testing.T) {
	path := writeSeedFile(t, "subscriptions: [")
	idx := index.NewMemoryIndex()
	idx.Put(&domain.Subscription{ID: "seed:netflix", Source: seed.SourceName})

	sr := reloaderFor(path, idx)
	if err := sr.Reload(context.Background()); err == nil {
		t.Fatalf("Reload() = nil error for malformed yaml")
	}
	if idx.Count() != 1 {
		t.Errorf("index mutated after failed reload")
	}
}

func TestTriggerDoesNotBlock(t *testing.T) {
	idx := index.NewMemoryIndex()
	sr := reloaderFor("does-not-exist.yaml", idx)

	// No consumer running; repeated triggers must not block.
	sr.Trigger()
	sr.Trigger()
	sr.Trigger()
}
