package seeding

import (
	"sort"
	"time"

	"github.com/sfmostwanted/MWP-Backend/internal/citations"
	"github.com/sfmostwanted/MWP-Backend/internal/hotspots"
)

// counter tallies string occurrences preserving first-seen order for ties.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: map[string]int{}}
}

func (c *counter) add(s string) {
	if _, ok := c.counts[s]; !ok {
		c.order = append(c.order, s)
	}
	c.counts[s]++
}

// mostCommon returns the top n keys by count, first-seen winning ties.
func (c *counter) mostCommon(n int) []string {
	keys := make([]string, len(c.order))
	copy(keys, c.order)
	sort.SliceStable(keys, func(i, j int) bool {
		return c.counts[keys[i]] > c.counts[keys[j]]
	})
	if n < len(keys) {
		keys = keys[:n]
	}
	return keys
}

// AggregateByPlate groups cleaned records into per-plate aggregates:
// summed fines, citation count, most common plate state (CA when absent),
// most common violation, citations sorted newest first.
func AggregateByPlate(recs []Record) map[string]*citations.PlateDetail {
	type group struct {
		detail     *citations.PlateDetail
		states     *counter
		violations *counter
	}
	groups := map[string]*group{}

	for _, r := range recs {
		g, ok := groups[r.Plate]
		if !ok {
			g = &group{
				detail:     &citations.PlateDetail{Plate: r.Plate},
				states:     newCounter(),
				violations: newCounter(),
			}
			groups[r.Plate] = g
		}

		g.detail.Citations = append(g.detail.Citations, r.Citation)
		g.detail.TotalFines += r.FineAmount
		g.detail.CitationCount++
		g.violations.add(r.Violation)
		if r.PlateState != "" {
			g.states.add(r.PlateState)
		}
	}

	out := make(map[string]*citations.PlateDetail, len(groups))
	for plate, g := range groups {
		g.detail.PlateState = "CA"
		if top := g.states.mostCommon(1); len(top) > 0 {
			g.detail.PlateState = top[0]
		}
		g.detail.FavoriteViolation = "Unknown"
		if top := g.violations.mostCommon(1); len(top) > 0 {
			g.detail.FavoriteViolation = top[0]
		}
		g.detail.Citations = citations.SortByDateDesc(g.detail.Citations)
		out[plate] = g.detail
	}

	return out
}

// MergePlates folds src into dst the same way the database upsert does:
// totals add, citation lists concatenate. Used to keep an in-memory view of
// a multi-month run for the static export.
func MergePlates(dst, src map[string]*citations.PlateDetail) {
	for plate, d := range src {
		existing, ok := dst[plate]
		if !ok {
			dst[plate] = d
			continue
		}
		existing.TotalFines += d.TotalFines
		existing.CitationCount += d.CitationCount
		existing.Citations = citations.SortByDateDesc(
			append(existing.Citations, d.Citations...))
	}
}

// AggregateHotspots groups records at or after floor by location string and
// keeps the top `keep` locations by citation count. The breakdown holds each
// location's five most common violations.
func AggregateHotspots(recs []Record, floor time.Time, keep int) []hotspots.Hotspot {
	type group struct {
		count      int
		fines      float64
		violations *counter
	}
	groups := map[string]*group{}
	var order []string

	for _, r := range recs {
		if r.Location == "" || r.Date == nil {
			continue
		}
		t, ok := citations.ParseDate(*r.Date)
		if !ok || t.Before(floor) {
			continue
		}
		g, ok := groups[r.Location]
		if !ok {
			g = &group{violations: newCounter()}
			groups[r.Location] = g
			order = append(order, r.Location)
		}
		g.count++
		g.fines += r.FineAmount
		g.violations.add(r.Violation)
	}

	out := make([]hotspots.Hotspot, 0, len(groups))
	for _, loc := range order {
		g := groups[loc]
		h := hotspots.Hotspot{
			Location:           loc,
			CitationCount:      g.count,
			TotalFines:         g.fines,
			TopViolation:       "Unknown",
			ViolationBreakdown: hotspots.BreakdownMap{},
		}
		if top := g.violations.mostCommon(1); len(top) > 0 {
			h.TopViolation = top[0]
		}
		for _, v := range g.violations.mostCommon(5) {
			h.ViolationBreakdown[v] = g.violations.counts[v]
		}
		out = append(out, h)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CitationCount > out[j].CitationCount
	})
	if keep < len(out) {
		out = out[:keep]
	}
	return out
}

// ViolationSummary returns the top city-wide violation types at or after
// floor.
func ViolationSummary(recs []Record, floor time.Time, top int) []hotspots.ViolationCount {
	c := newCounter()
	for _, r := range recs {
		if r.Date == nil {
			continue
		}
		t, ok := citations.ParseDate(*r.Date)
		if !ok || t.Before(floor) {
			continue
		}
		c.add(r.Violation)
	}

	out := make([]hotspots.ViolationCount, 0, top)
	for _, v := range c.mostCommon(top) {
		out = append(out, hotspots.ViolationCount{Violation: v, Count: c.counts[v]})
	}
	return out
}

// BuildLeaderboard ranks plates by total fines (citation count breaking
// ties) and assigns 1-based ranks. Used for the static export; the database
// leaderboard is rebuilt with the equivalent SQL in RebuildLeaderboard.
func BuildLeaderboard(plates map[string]*citations.PlateDetail, topN int) []citations.LeaderboardEntry {
	details := make([]*citations.PlateDetail, 0, len(plates))
	for _, d := range plates {
		details = append(details, d)
	}
	sort.Slice(details, func(i, j int) bool {
		if details[i].TotalFines != details[j].TotalFines {
			return details[i].TotalFines > details[j].TotalFines
		}
		if details[i].CitationCount != details[j].CitationCount {
			return details[i].CitationCount > details[j].CitationCount
		}
		return details[i].Plate < details[j].Plate
	})
	if topN < len(details) {
		details = details[:topN]
	}

	out := make([]citations.LeaderboardEntry, 0, len(details))
	for i, d := range details {
		out = append(out, citations.LeaderboardEntry{
			Rank:              i + 1,
			Plate:             d.Plate,
			PlateState:        d.PlateState,
			TotalFines:        d.TotalFines,
			CitationCount:     d.CitationCount,
			FavoriteViolation: d.FavoriteViolation,
		})
	}
	return out
}
