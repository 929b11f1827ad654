package seeding

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/sfmostwanted/MWP-Backend/internal/citations"
	"github.com/sfmostwanted/MWP-Backend/internal/db"
	"github.com/sfmostwanted/MWP-Backend/internal/socrata"
)

// HotspotKeep caps how many locations the hotspot table and heat map file
// carry; beyond this the map view is noise.
const HotspotKeep = 1000

// SummaryTop is how many violation types the city-wide summary keeps.
const SummaryTop = 20

// Month identifies one calendar month of citations.
type Month struct {
	Year  int
	Month int
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, m.Month)
}

// MonthRange expands [startYear, endYear] into months, skipping anything
// after now.
func MonthRange(startYear, endYear int, now time.Time) []Month {
	var out []Month
	for y := startYear; y <= endYear; y++ {
		for m := 1; m <= 12; m++ {
			first := time.Date(y, time.Month(m), 1, 0, 0, 0, 0, time.UTC)
			if first.After(now) {
				return out
			}
			out = append(out, Month{Year: y, Month: m})
		}
	}
	return out
}

// Runner drives one seed run end to end: fetch (or load), clean, aggregate,
// store, rebuild the leaderboard, and optionally export the static fallback
// files.
type Runner struct {
	SQL    *sql.DB // pgx stdlib handle for the write path
	Client *socrata.Client
	Floor  time.Time // hotspot/summary aggregation floor
	TopN   int       // leaderboard size

	// ExportDir, when non-empty, receives the static fallback files built
	// from this run's data.
	ExportDir string
}

// RunMonths seeds the database month by month from the Socrata API.
func (r *Runner) RunMonths(ctx context.Context, months []Month) (*SeedRun, error) {
	run := &SeedRun{Source: "socrata", StartedAt: time.Now()}

	allPlates := map[string]*citations.PlateDetail{}
	var allRecords []Record

	for _, m := range months {
		log.Printf("[seeding] processing %s", m)

		raw, err := r.Client.FetchMonth(ctx, m.Year, m.Month)
		if err != nil {
			return nil, fmt.Errorf("fetching %s: %w", m, err)
		}
		if len(raw) == 0 {
			log.Printf("[seeding] no data for %s", m)
			continue
		}

		recs := Clean(raw)
		if len(recs) == 0 {
			log.Printf("[seeding] no valid data after cleaning for %s", m)
			continue
		}

		plates := AggregateByPlate(recs)
		stored, err := UpsertPlates(ctx, r.SQL, plates)
		if err != nil {
			return nil, fmt.Errorf("storing %s: %w", m, err)
		}
		log.Printf("[seeding] stored %d plates for %s", stored, m)

		MergePlates(allPlates, plates)
		allRecords = append(allRecords, recs...)
		run.Months = append(run.Months, m.String())
		run.CitationCount += len(recs)
	}

	return r.finish(ctx, run, allPlates, allRecords)
}

// RunCSV seeds the database from a local Socrata CSV export.
func (r *Runner) RunCSV(ctx context.Context, path string) (*SeedRun, error) {
	run := &SeedRun{Source: "csv", StartedAt: time.Now()}

	raw, err := LoadCSV(path)
	if err != nil {
		return nil, err
	}
	recs := Clean(raw)
	if len(recs) == 0 {
		return nil, fmt.Errorf("no valid records in %s", path)
	}

	plates := AggregateByPlate(recs)
	stored, err := UpsertPlates(ctx, r.SQL, plates)
	if err != nil {
		return nil, fmt.Errorf("storing plates: %w", err)
	}
	log.Printf("[seeding] stored %d plates from %s", stored, path)

	run.Months = distinctMonths(recs)
	run.CitationCount = len(recs)

	return r.finish(ctx, run, plates, recs)
}

// finish runs the shared tail of a seed run: hotspot and summary
// aggregation, leaderboard rebuild, optional export, and the provenance row.
func (r *Runner) finish(
	ctx context.Context,
	run *SeedRun,
	plates map[string]*citations.PlateDetail,
	recs []Record,
) (*SeedRun, error) {
	hs := AggregateHotspots(recs, r.Floor, HotspotKeep)
	if err := UpsertHotspots(ctx, r.SQL, hs); err != nil {
		return nil, fmt.Errorf("storing hotspots: %w", err)
	}
	log.Printf("[seeding] stored %d hotspots", len(hs))

	summary := ViolationSummary(recs, r.Floor, SummaryTop)
	if err := ReplaceViolationSummary(ctx, r.SQL, summary); err != nil {
		return nil, fmt.Errorf("storing violation summary: %w", err)
	}

	n, err := RebuildLeaderboard(ctx, r.SQL, r.TopN)
	if err != nil {
		return nil, fmt.Errorf("rebuilding leaderboard: %w", err)
	}
	log.Printf("[seeding] rebuilt leaderboard with %d entries", n)

	if r.ExportDir != "" {
		board := BuildLeaderboard(plates, r.TopN)
		if err := ExportStatic(r.ExportDir, board, plates, hs, summary); err != nil {
			return nil, fmt.Errorf("exporting static files: %w", err)
		}
		log.Printf("[seeding] exported static files to %s", r.ExportDir)
	}

	run.PlateCount = len(plates)
	run.CompletedAt = time.Now()
	if err := db.DB.Create(run).Error; err != nil {
		return nil, fmt.Errorf("recording seed run: %w", err)
	}

	return run, nil
}

func distinctMonths(recs []Record) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, rec := range recs {
		if rec.Date == nil || len(*rec.Date) < 7 {
			continue
		}
		m := (*rec.Date)[:7]
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}
