package citations

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/sfmostwanted/MWP-Backend/internal/db"
	"github.com/sfmostwanted/MWP-Backend/internal/fallback"
	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

// DefaultLeaderboardSize matches the number of rows the seed tool writes.
const DefaultLeaderboardSize = 30

// GetLeaderboard returns the top-N leaderboard rows ordered by rank. When
// the database is unreachable it serves the static export instead and flags
// the response with X-Data-Status: fallback.
func GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := DefaultLeaderboardSize
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	var entries []LeaderboardEntry
	if err := db.DB.Order("rank ASC").Limit(limit).Find(&entries).Error; err != nil {
		log.Printf("[citations] leaderboard query failed, serving fallback: %v", err)
		entries = fallbackLeaderboard(store, limit)
		w.Header().Set("X-Data-Status", "fallback")
	}
	if entries == nil {
		entries = []LeaderboardEntry{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

// GetPlate returns one plate's aggregate plus its citations, filtered to the
// date floor and any year/month query params. Totals are recomputed from the
// filtered set rather than trusting the stored aggregates.
func GetPlate(w http.ResponseWriter, r *http.Request) {
	plate := normalizePlate(chi.URLParam(r, "plate"))
	if plate == "" {
		http.Error(w, "Invalid plate", http.StatusBadRequest)
		return
	}

	detail, status := lookupPlate(plate)
	switch status {
	case http.StatusNotFound:
		http.Error(w, "Plate not found", http.StatusNotFound)
		return
	case http.StatusOK:
	default:
		w.Header().Set("X-Data-Status", "fallback")
	}

	filtered := FilterByFloor(detail.Citations, dateFloor)
	filtered = FilterByMonths(filtered, r.URL.Query().Get("year"), r.URL.Query()["month"])
	detail.TotalFines, detail.CitationCount = Totals(filtered)
	detail.Citations = SortByDateDesc(filtered)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(detail)
}

// GetPlateCitations returns only the filtered citation array for a plate.
func GetPlateCitations(w http.ResponseWriter, r *http.Request) {
	plate := normalizePlate(chi.URLParam(r, "plate"))
	if plate == "" {
		http.Error(w, "Invalid plate", http.StatusBadRequest)
		return
	}

	detail, status := lookupPlate(plate)
	if status == http.StatusNotFound {
		http.Error(w, "Plate not found", http.StatusNotFound)
		return
	}
	if status != http.StatusOK {
		w.Header().Set("X-Data-Status", "fallback")
	}

	filtered := FilterByFloor(detail.Citations, dateFloor)
	filtered = FilterByMonths(filtered, r.URL.Query().Get("year"), r.URL.Query()["month"])

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SortByDateDesc(filtered))
}

// lookupPlate fetches a plate from the database, falling back to the static
// per-plate export when the database is unreachable. The second return value
// is http.StatusOK for a live hit, http.StatusNotFound when the plate is
// absent everywhere, and http.StatusServiceUnavailable for a fallback hit.
func lookupPlate(plate string) (PlateDetail, int) {
	var detail PlateDetail
	err := db.DB.First(&detail, "plate = ?", plate).Error
	if err == nil {
		return detail, http.StatusOK
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return detail, http.StatusNotFound
	}

	log.Printf("[citations] plate query failed, trying fallback: %v", err)
	if ferr := store.ReadPlate(plate, &detail); ferr != nil {
		return detail, http.StatusNotFound
	}
	detail.Plate = plate
	return detail, http.StatusServiceUnavailable
}

func fallbackLeaderboard(s *fallback.Store, limit int) []LeaderboardEntry {
	var entries []LeaderboardEntry
	if err := s.Read("leaderboard.json", &entries); err != nil {
		log.Printf("[citations] fallback unavailable: %v", err)
		return []LeaderboardEntry{}
	}
	if limit < len(entries) {
		entries = entries[:limit]
	}
	return entries
}

func normalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}
