package seeding

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sfmostwanted/MWP-Backend/internal/db"
	"gorm.io/gorm"
)

// GetStatus returns the most recent seed run, so the frontend can show how
// fresh the data is.
func GetStatus(w http.ResponseWriter, r *http.Request) {
	var run SeedRun
	err := db.DB.Order("completed_at DESC").First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "No seed runs recorded", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to fetch seed status: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(run)
}
