package monitor

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pysugar/launcher-accounts/internal/auth/provider"
	"github.com/pysugar/launcher-accounts/internal/db"
	"github.com/pysugar/launcher-accounts/internal/db/models"
	"github.com/pysugar/launcher-accounts/internal/reconcile"
	"gorm.io/gorm"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := db.InitDB(filepath.Join(t.TempDir(), "launcher.db"))
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	return database
}

func TestEntry_FromResult(t *testing.T) {
	started := time.Now().Add(-50 * time.Millisecond)
	result := &reconcile.Result{
		PassID:    "p1",
		Screen:    reconcile.ScreenHome,
		Active:    &models.Account{ID: "a"},
		Refreshed: []string{"a"},
		Evicted: []reconcile.Eviction{
			{AccountID: "b", Name: "Bob", Err: &provider.ProviderError{Message: "Token expired"}},
		},
	}

	entry := Entry("p1", started, result, nil)
	if entry.ID != "p1" || entry.Screen != "home" || entry.ActiveID != "a" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if entry.Refreshed != 1 || entry.Evicted != 1 || entry.Evictions != "Bob: Token expired" {
		t.Fatalf("unexpected counts: %+v", entry)
	}
	if entry.Duration < 50 {
		t.Fatalf("expected duration >= 50ms, got %d", entry.Duration)
	}
}

func TestEntry_FromError(t *testing.T) {
	entry := Entry("p2", time.Now(), nil, errors.New("store unavailable"))
	if entry.Error != "store unavailable" || entry.Screen != "" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestPassMonitor_RecordAndQuery(t *testing.T) {
	database := openDB(t)
	pm, err := NewPassMonitor(database)
	if err != nil {
		t.Fatalf("new monitor: %v", err)
	}

	pm.Record(models.PassLog{ID: "p1", Timestamp: 1000, Screen: "home", Refreshed: 2})
	pm.Record(models.PassLog{ID: "p2", Timestamp: 2000, Screen: "login", Evicted: 1, Evictions: "Bob: Token expired"})
	pm.Record(models.PassLog{ID: "p3", Timestamp: 3000, Error: "store unavailable"})

	recent := pm.Recent(2)
	if len(recent) != 2 || recent[0].ID != "p3" || recent[1].ID != "p2" {
		t.Fatalf("expected newest first, got %+v", recent)
	}

	page, total := pm.Page(1, 10, "Token")
	if total != 1 || len(page) != 1 || page[0].ID != "p2" {
		t.Fatalf("unexpected search result: total=%d page=%+v", total, page)
	}

	stats := pm.Stats()
	if stats.TotalPasses != 3 || stats.FailedPasses != 1 || stats.EvictedAccounts != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	// A second monitor on the same database starts from the stored totals.
	reloaded, err := NewPassMonitor(database)
	if err != nil {
		t.Fatalf("reload monitor: %v", err)
	}
	if got := reloaded.Stats(); got != stats {
		t.Fatalf("expected %+v after reload, got %+v", stats, got)
	}
}

func TestPassMonitor_TruncatesEvictions(t *testing.T) {
	pm, err := NewPassMonitor(openDB(t))
	if err != nil {
		t.Fatalf("new monitor: %v", err)
	}

	pm.Record(models.PassLog{ID: "big", Evictions: strings.Repeat("x", MaxEvictionsSize+10)})
	got := pm.Recent(1)
	if len(got) != 1 || !strings.HasSuffix(got[0].Evictions, "...[truncated]") {
		t.Fatalf("expected truncated evictions, got %d entries", len(got))
	}
	if got[0].Timestamp == 0 {
		t.Fatal("expected timestamp to be filled in")
	}
}

func TestPassMonitor_Clear(t *testing.T) {
	pm, err := NewPassMonitor(openDB(t))
	if err != nil {
		t.Fatalf("new monitor: %v", err)
	}
	pm.Record(models.PassLog{ID: "p1", Evicted: 3})

	if err := pm.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if got := pm.Recent(10); len(got) != 0 {
		t.Fatalf("expected empty history, got %+v", got)
	}
	if got := pm.Stats(); got != (models.PassStats{}) {
		t.Fatalf("expected zero stats, got %+v", got)
	}
}

func TestPassMonitor_PageFallsBackToMemory(t *testing.T) {
	database := openDB(t)
	pm, err := NewPassMonitor(database)
	if err != nil {
		t.Fatalf("new monitor: %v", err)
	}
	pm.Record(models.PassLog{ID: "p1", Timestamp: 1000, Screen: "home"})
	pm.Record(models.PassLog{ID: "p2", Timestamp: 2000, Screen: "login", Evictions: "Bob: Token expired"})

	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.Close()

	passes, total := pm.Page(1, 10, "")
	if total != 2 || len(passes) != 2 || passes[0].ID != "p2" {
		t.Fatalf("expected cached history newest first, got total=%d %+v", total, passes)
	}

	passes, total = pm.Page(1, 10, "token")
	if total != 1 || len(passes) != 1 || passes[0].ID != "p2" {
		t.Fatalf("expected search over cache, got total=%d %+v", total, passes)
	}

	passes, total = pm.Page(2, 1, "")
	if total != 2 || len(passes) != 1 || passes[0].ID != "p1" {
		t.Fatalf("expected second page from cache, got total=%d %+v", total, passes)
	}

	passes, _ = pm.Page(5, 10, "")
	if passes == nil || len(passes) != 0 {
		t.Fatalf("expected empty page past the end, got %+v", passes)
	}
}

func TestPassMonitor_StatsSurviveFailedReload(t *testing.T) {
	database := openDB(t)
	pm, err := NewPassMonitor(database)
	if err != nil {
		t.Fatalf("new monitor: %v", err)
	}
	pm.Record(models.PassLog{ID: "p1", Evicted: 2})
	pm.Record(models.PassLog{ID: "p2", Error: "store unavailable"})
	want := pm.Stats()

	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.Close()

	pm.loadStatsFromDB()
	if got := pm.Stats(); got != want {
		t.Fatalf("expected %+v kept after failed reload, got %+v", want, got)
	}
}
