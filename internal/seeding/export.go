package seeding

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sfmostwanted/MWP-Backend/internal/citations"
	"github.com/sfmostwanted/MWP-Backend/internal/hotspots"
)

// plateIndexEntry is the per-plate summary in plate_index.json, pointing at
// the full per-plate file.
type plateIndexEntry struct {
	TotalFines        float64 `json:"total_fines"`
	CitationCount     int     `json:"citation_count"`
	PlateState        string  `json:"plate_state"`
	FavoriteViolation string  `json:"favorite_violation"`
	File              string  `json:"file"`
}

// ExportStatic writes the fallback JSON files the API serves when the
// database is unreachable. Shapes mirror the corresponding endpoints
// exactly, so the handlers can decode and truncate them as-is.
func ExportStatic(
	dir string,
	leaderboard []citations.LeaderboardEntry,
	plates map[string]*citations.PlateDetail,
	hs []hotspots.Hotspot,
	summary []hotspots.ViolationCount,
) error {
	platesDir := filepath.Join(dir, "plates")
	if err := os.MkdirAll(platesDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", platesDir, err)
	}

	if err := writeJSON(filepath.Join(dir, "leaderboard.json"), leaderboard); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dir, "street_heatmap.json"), hs); err != nil {
		return err
	}

	counts := make(map[string]int, len(summary))
	for _, v := range summary {
		counts[v.Violation] = v.Count
	}
	if err := writeJSON(filepath.Join(dir, "violation_summary.json"), counts); err != nil {
		return err
	}

	index := make(map[string]plateIndexEntry, len(plates))
	for plate, detail := range plates {
		if err := writeJSON(filepath.Join(platesDir, plate+".json"), detail); err != nil {
			return err
		}
		index[plate] = plateIndexEntry{
			TotalFines:        detail.TotalFines,
			CitationCount:     detail.CitationCount,
			PlateState:        detail.PlateState,
			FavoriteViolation: detail.FavoriteViolation,
			File:              "plates/" + plate + ".json",
		}
	}
	return writeJSON(filepath.Join(dir, "plate_index.json"), index)
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
