// Package monitor keeps a history of reconciliation passes in the launcher
// database, with a small in-memory cache for when the database misbehaves.
package monitor

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pysugar/launcher-accounts/internal/db/models"
	"github.com/pysugar/launcher-accounts/internal/reconcile"
	"gorm.io/gorm"
)

const (
	// MaxEvictionsSize limits the stored eviction summary to 64KB
	MaxEvictionsSize = 64 * 1024
	// MaxMemoryPasses limits the in-memory pass cache
	MaxMemoryPasses = 50
)

// PassMonitor records reconciliation passes and aggregates statistics.
type PassMonitor struct {
	db *gorm.DB

	recent   []models.PassLog
	recentMu sync.RWMutex

	totalPasses     atomic.Int64
	failedPasses    atomic.Int64
	evictedAccounts atomic.Int64
}

// NewPassMonitor migrates the pass log table and loads its statistics.
func NewPassMonitor(db *gorm.DB) (*PassMonitor, error) {
	if err := db.AutoMigrate(&models.PassLog{}); err != nil {
		return nil, fmt.Errorf("failed to migrate pass log table: %w", err)
	}

	pm := &PassMonitor{
		db:     db,
		recent: make([]models.PassLog, 0, MaxMemoryPasses),
	}
	pm.loadStatsFromDB()
	return pm, nil
}

// Entry builds the log entry for a pass that started at started. Either
// result or runErr is set.
func Entry(passID string, started time.Time, result *reconcile.Result, runErr error) models.PassLog {
	entry := models.PassLog{
		ID:        passID,
		Timestamp: started.UnixMilli(),
		Duration:  time.Since(started).Milliseconds(),
	}
	if runErr != nil {
		entry.Error = runErr.Error()
		return entry
	}

	entry.Screen = string(result.Screen)
	if result.Active != nil {
		entry.ActiveID = result.Active.ID
	}
	entry.Refreshed = len(result.Refreshed)
	entry.Evicted = len(result.Evicted)

	lines := make([]string, 0, len(result.Evicted))
	for _, ev := range result.Evicted {
		lines = append(lines, ev.Name+": "+ev.Err.Error())
	}
	entry.Evictions = strings.Join(lines, "\n")
	return entry
}

// Record stores a pass entry. Database failures are logged; the entry stays
// in the memory cache either way.
func (pm *PassMonitor) Record(entry models.PassLog) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp == 0 {
		entry.Timestamp = time.Now().UnixMilli()
	}
	if len(entry.Evictions) > MaxEvictionsSize {
		entry.Evictions = entry.Evictions[:MaxEvictionsSize] + "...[truncated]"
	}

	pm.totalPasses.Add(1)
	if entry.Error != "" {
		pm.failedPasses.Add(1)
	}
	pm.evictedAccounts.Add(int64(entry.Evicted))

	pm.recentMu.Lock()
	pm.recent = append([]models.PassLog{entry}, pm.recent...)
	if len(pm.recent) > MaxMemoryPasses {
		pm.recent = pm.recent[:MaxMemoryPasses]
	}
	pm.recentMu.Unlock()

	// Passes are rare and short, so the write is synchronous.
	if err := pm.db.Create(&entry).Error; err != nil {
		log.Printf("[Monitor] Failed to save pass %s: %v", entry.ID, err)
	}
}

// Recent returns the latest passes, newest first.
func (pm *PassMonitor) Recent(limit int) []models.PassLog {
	if limit <= 0 {
		limit = MaxMemoryPasses
	}

	var passes []models.PassLog
	if err := pm.db.Order("timestamp DESC").Order("rowid DESC").Limit(limit).Find(&passes).Error; err != nil {
		log.Printf("[Monitor] Failed to read passes from DB: %v", err)
		pm.recentMu.RLock()
		defer pm.recentMu.RUnlock()
		if limit > len(pm.recent) {
			limit = len(pm.recent)
		}
		return append([]models.PassLog(nil), pm.recent[:limit]...)
	}
	return passes
}

// Page returns one page of history matching search (pass id, screen,
// eviction text or error), plus the total number of matches. When the
// database cannot be read the page is served from the memory cache.
func (pm *PassMonitor) Page(page, pageSize int, search string) ([]models.PassLog, int64) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = MaxMemoryPasses
	}

	var passes []models.PassLog
	var total int64

	query := pm.db.Model(&models.PassLog{})
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("id LIKE ? OR screen LIKE ? OR evictions LIKE ? OR error LIKE ?",
			pattern, pattern, pattern, pattern)
	}
	if err := query.Count(&total).Error; err != nil {
		log.Printf("[Monitor] Failed to count passes: %v", err)
		return pm.pageFromMemory(page, pageSize, search)
	}

	offset := (page - 1) * pageSize
	if err := query.Order("timestamp DESC").Order("rowid DESC").Offset(offset).Limit(pageSize).Find(&passes).Error; err != nil {
		log.Printf("[Monitor] Failed to page passes: %v", err)
		return pm.pageFromMemory(page, pageSize, search)
	}
	return passes, total
}

func (pm *PassMonitor) pageFromMemory(page, pageSize int, search string) ([]models.PassLog, int64) {
	pm.recentMu.RLock()
	defer pm.recentMu.RUnlock()

	needle := strings.ToLower(search)
	matched := make([]models.PassLog, 0, len(pm.recent))
	for _, entry := range pm.recent {
		if needle == "" || matchesSearch(entry, needle) {
			matched = append(matched, entry)
		}
	}

	start := (page - 1) * pageSize
	if start >= len(matched) {
		return []models.PassLog{}, int64(len(matched))
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], int64(len(matched))
}

// matchesSearch mirrors the LIKE filter of Page; needle is lower case.
func matchesSearch(entry models.PassLog, needle string) bool {
	for _, field := range []string{entry.ID, entry.Screen, entry.Evictions, entry.Error} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// Stats returns aggregated pass statistics.
func (pm *PassMonitor) Stats() models.PassStats {
	return models.PassStats{
		TotalPasses:     pm.totalPasses.Load(),
		FailedPasses:    pm.failedPasses.Load(),
		EvictedAccounts: pm.evictedAccounts.Load(),
	}
}

// Clear drops the whole history.
func (pm *PassMonitor) Clear() error {
	pm.recentMu.Lock()
	pm.recent = pm.recent[:0]
	pm.recentMu.Unlock()

	pm.totalPasses.Store(0)
	pm.failedPasses.Store(0)
	pm.evictedAccounts.Store(0)

	if err := pm.db.Exec("DELETE FROM pass_logs").Error; err != nil {
		log.Printf("[Monitor] Failed to clear pass history: %v", err)
		return err
	}
	log.Printf("[Monitor] Pass history cleared")
	return nil
}

func (pm *PassMonitor) loadStatsFromDB() {
	var total, failed int64
	var evicted struct{ Sum int64 }

	// A failed query leaves the counters as they are.
	if err := pm.db.Model(&models.PassLog{}).Count(&total).Error; err != nil {
		log.Printf("[Monitor] Failed to count passes: %v", err)
		return
	}
	if err := pm.db.Model(&models.PassLog{}).Where("error <> ''").Count(&failed).Error; err != nil {
		log.Printf("[Monitor] Failed to count failed passes: %v", err)
		return
	}
	if err := pm.db.Model(&models.PassLog{}).Select("COALESCE(SUM(evicted), 0) AS sum").Scan(&evicted).Error; err != nil {
		log.Printf("[Monitor] Failed to sum evicted accounts: %v", err)
		return
	}

	pm.totalPasses.Store(total)
	pm.failedPasses.Store(failed)
	pm.evictedAccounts.Store(evicted.Sum)

	log.Printf("[Monitor] Loaded pass stats: total=%d, failed=%d, evicted=%d", total, failed, evicted.Sum)
}
