package launcher

import (
	"net/http"
	"strconv"

	"github.com/pysugar/launcher-accounts/internal/monitor"
)

// PassesHandler handles GET /api/passes?page=&page_size=&q=
func PassesHandler(pm *monitor.PassMonitor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		page, _ := strconv.Atoi(query.Get("page"))
		pageSize, _ := strconv.Atoi(query.Get("page_size"))
		if page < 1 {
			page = 1
		}

		passes, total := pm.Page(page, pageSize, query.Get("q"))
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"passes": passes,
			"total":  total,
			"page":   page,
		})
	}
}

// PassStatsHandler handles GET /api/passes/stats
func PassStatsHandler(pm *monitor.PassMonitor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, pm.Stats())
	}
}

// ClearPassesHandler handles DELETE /api/passes
func ClearPassesHandler(pm *monitor.PassMonitor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := pm.Clear(); err != nil {
			http.Error(w, "Failed to clear pass history", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}
