package hotspots

import (
	"encoding/json"
	"log"
	"net/http"
	"sort"
	"strconv"

	"github.com/sfmostwanted/MWP-Backend/internal/db"
)

// GetHotspots returns geocoded hotspots for map display. type=risky (the
// default) orders by citation count descending; type=safe ascending. No date
// filtering happens here: rows are pre-aggregated at seed time.
func GetHotspots(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r, 50)
	if !ok {
		return
	}

	order := "citation_count DESC"
	if r.URL.Query().Get("type") == "safe" {
		order = "citation_count ASC"
	}

	var rows []Hotspot
	err := db.DB.
		Where("latitude IS NOT NULL AND longitude IS NOT NULL").
		Order(order).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		log.Printf("[hotspots] query failed, serving fallback: %v", err)
		rows = fallbackHotspots(limit, r.URL.Query().Get("type") == "safe")
		w.Header().Set("X-Data-Status", "fallback")
	}
	if rows == nil {
		rows = []Hotspot{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rows)
}

// GetAllHotspots includes rows the geocoding batch has not reached yet.
func GetAllHotspots(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r, 1000)
	if !ok {
		return
	}

	var rows []Hotspot
	err := db.DB.Order("citation_count DESC").Limit(limit).Find(&rows).Error
	if err != nil {
		log.Printf("[hotspots] query failed, serving fallback: %v", err)
		rows = fallbackHotspots(limit, false)
		w.Header().Set("X-Data-Status", "fallback")
	}
	if rows == nil {
		rows = []Hotspot{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rows)
}

// GetViolationSummary returns the city-wide violation type counts.
func GetViolationSummary(w http.ResponseWriter, r *http.Request) {
	var rows []ViolationCount
	err := db.DB.Order("count DESC").Find(&rows).Error
	if err != nil {
		log.Printf("[hotspots] violation summary query failed, serving fallback: %v", err)
		rows = fallbackViolationSummary()
		w.Header().Set("X-Data-Status", "fallback")
	}
	if rows == nil {
		rows = []ViolationCount{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rows)
}

// fallbackHotspots reads the static heat map export, which is sorted by
// citation count descending. The safe view reverses it.
func fallbackHotspots(limit int, safe bool) []Hotspot {
	var rows []Hotspot
	if err := store.Read("street_heatmap.json", &rows); err != nil {
		log.Printf("[hotspots] fallback unavailable: %v", err)
		return []Hotspot{}
	}
	if safe {
		for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
			rows[i], rows[j] = rows[j], rows[i]
		}
	}
	if limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}

// fallbackViolationSummary reads the static export, which is a flat
// violation→count object.
func fallbackViolationSummary() []ViolationCount {
	counts := map[string]int{}
	if err := store.Read("violation_summary.json", &counts); err != nil {
		log.Printf("[hotspots] fallback unavailable: %v", err)
		return []ViolationCount{}
	}
	rows := make([]ViolationCount, 0, len(counts))
	for v, n := range counts {
		rows = append(rows, ViolationCount{Violation: v, Count: n})
	}
	sortByCountDesc(rows)
	return rows
}

func sortByCountDesc(rows []ViolationCount) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Violation < rows[j].Violation
	})
}

func parseLimit(w http.ResponseWriter, r *http.Request, def int) (int, bool) {
	s := r.URL.Query().Get("limit")
	if s == "" {
		return def, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		http.Error(w, "Invalid limit", http.StatusBadRequest)
		return 0, false
	}
	return n, true
}
