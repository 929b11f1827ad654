package seeding

import (
	"testing"
	"time"

	"github.com/sfmostwanted/MWP-Backend/internal/citations"
)

func cleanRecord(plate, num, date, violation, location string, fine float64) Record {
	d := date
	return Record{
		Plate:      plate,
		PlateState: "CA",
		Citation: citations.Citation{
			CitationNumber: num,
			Date:           &d,
			Violation:      violation,
			Location:       location,
			FineAmount:     fine,
		},
	}
}

func testFloor(t *testing.T, s string) time.Time {
	t.Helper()
	floor, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatal(err)
	}
	return floor
}

// TestAggregateByPlate verifies per-plate totals, favorite violation, and
// newest-first citation ordering.
func TestAggregateByPlate(t *testing.T) {
	recs := []Record{
		cleanRecord("ABC123", "1", "2020-01-15T10:30:00", "Expired Meter", "100 MARKET ST", 100),
		cleanRecord("ABC123", "2", "2020-06-20T14:15:00", "Street Cleaning", "200 MISSION ST", 150),
		cleanRecord("ABC123", "3", "2021-03-10T16:45:00", "Expired Meter", "300 HOWARD ST", 50),
		cleanRecord("XYZ789", "4", "2021-12-01T09:00:00", "No Parking", "400 FOLSOM ST", 200),
	}

	plates := AggregateByPlate(recs)

	abc, ok := plates["ABC123"]
	if !ok {
		t.Fatal("ABC123 missing from aggregation")
	}
	if abc.TotalFines != 300 {
		t.Errorf("expected total_fines 300, got %v", abc.TotalFines)
	}
	if abc.CitationCount != 3 {
		t.Errorf("expected citation_count 3, got %d", abc.CitationCount)
	}
	if abc.FavoriteViolation != "Expired Meter" {
		t.Errorf("expected favorite violation Expired Meter, got %q", abc.FavoriteViolation)
	}
	if abc.Citations[0].CitationNumber != "3" {
		t.Errorf("expected citations newest first, got %q first", abc.Citations[0].CitationNumber)
	}
	if len(plates) != 2 {
		t.Errorf("expected 2 plates, got %d", len(plates))
	}
}

// TestAggregateByPlate_FavoriteViolationTie verifies first-seen wins a tie.
func TestAggregateByPlate_FavoriteViolationTie(t *testing.T) {
	recs := []Record{
		cleanRecord("AAA111", "1", "2025-01-01T00:00:00", "Street Cleaning", "", 80),
		cleanRecord("AAA111", "2", "2025-01-02T00:00:00", "Expired Meter", "", 80),
	}

	plates := AggregateByPlate(recs)
	if got := plates["AAA111"].FavoriteViolation; got != "Street Cleaning" {
		t.Errorf("expected first-seen violation to win tie, got %q", got)
	}
}

// TestMergePlates verifies multi-month accumulation matches the database
// upsert: totals add, citation lists concatenate.
func TestMergePlates(t *testing.T) {
	jan := AggregateByPlate([]Record{
		cleanRecord("AAA111", "1", "2025-01-10T00:00:00", "Expired Meter", "", 100),
	})
	feb := AggregateByPlate([]Record{
		cleanRecord("AAA111", "2", "2025-02-10T00:00:00", "Expired Meter", "", 50),
		cleanRecord("BBB222", "3", "2025-02-11T00:00:00", "No Parking", "", 75),
	})

	all := map[string]*citations.PlateDetail{}
	MergePlates(all, jan)
	MergePlates(all, feb)

	if len(all) != 2 {
		t.Fatalf("expected 2 plates, got %d", len(all))
	}
	aaa := all["AAA111"]
	if aaa.TotalFines != 150 || aaa.CitationCount != 2 {
		t.Errorf("expected 150/2 after merge, got %v/%d", aaa.TotalFines, aaa.CitationCount)
	}
	if aaa.Citations[0].CitationNumber != "2" {
		t.Errorf("expected merged citations newest first, got %q", aaa.Citations[0].CitationNumber)
	}
}

// TestAggregateHotspots verifies grouping by location, the floor filter, and
// the violation breakdown.
func TestAggregateHotspots(t *testing.T) {
	recs := []Record{
		cleanRecord("A", "1", "2025-01-01T00:00:00", "STR CLEAN", "652 PACIFIC", 96),
		cleanRecord("B", "2", "2025-01-02T00:00:00", "STR CLEAN", "652 PACIFIC", 96),
		cleanRecord("C", "3", "2025-01-03T00:00:00", "MTR OUT DT", "652 PACIFIC", 76),
		cleanRecord("D", "4", "2019-06-01T00:00:00", "STR CLEAN", "652 PACIFIC", 96), // pre-floor
		cleanRecord("E", "5", "2025-01-04T00:00:00", "RES/OT", "100 MARKET ST", 108),
		cleanRecord("F", "6", "2025-01-05T00:00:00", "RES/OT", "", 108), // no location
	}

	hs := AggregateHotspots(recs, testFloor(t, "2020-01-01"), 10)

	if len(hs) != 2 {
		t.Fatalf("expected 2 hotspots, got %d", len(hs))
	}
	top := hs[0]
	if top.Location != "652 PACIFIC" {
		t.Fatalf("expected 652 PACIFIC first, got %q", top.Location)
	}
	if top.CitationCount != 3 {
		t.Errorf("expected 3 citations (pre-floor excluded), got %d", top.CitationCount)
	}
	if top.TotalFines != 96+96+76 {
		t.Errorf("expected total fines 268, got %v", top.TotalFines)
	}
	if top.TopViolation != "STR CLEAN" {
		t.Errorf("expected top violation STR CLEAN, got %q", top.TopViolation)
	}
	if top.ViolationBreakdown["STR CLEAN"] != 2 || top.ViolationBreakdown["MTR OUT DT"] != 1 {
		t.Errorf("unexpected breakdown: %v", top.ViolationBreakdown)
	}
}

// TestAggregateHotspots_RemovalShiftsAggregates verifies that removing one
// citation (by citation number) from the input drops the count by one and
// the total by exactly that citation's fine.
func TestAggregateHotspots_RemovalShiftsAggregates(t *testing.T) {
	var recs []Record
	for i := 0; i < 10; i++ {
		recs = append(recs, cleanRecord("P", string(rune('0'+i)), "2025-01-01T00:00:00", "STR CLEAN", "652 PACIFIC", 96))
	}
	recs[4].FineAmount = 120 // the one we remove

	before := AggregateHotspots(recs, testFloor(t, "2020-01-01"), 10)[0]
	if before.CitationCount != 10 {
		t.Fatalf("expected 10 citations, got %d", before.CitationCount)
	}

	// Remove citation "4" by citation number.
	var remaining []Record
	for _, r := range recs {
		if r.CitationNumber != "4" {
			remaining = append(remaining, r)
		}
	}
	after := AggregateHotspots(remaining, testFloor(t, "2020-01-01"), 10)[0]

	if after.CitationCount != 9 {
		t.Errorf("expected citation_count 9, got %d", after.CitationCount)
	}
	if diff := before.TotalFines - after.TotalFines; diff != 120 {
		t.Errorf("expected total_fines to drop by 120, dropped by %v", diff)
	}
}

// TestAggregateHotspots_KeepLimit verifies only the top locations by count
// survive.
func TestAggregateHotspots_KeepLimit(t *testing.T) {
	recs := []Record{
		cleanRecord("A", "1", "2025-01-01T00:00:00", "X", "LOC1", 10),
		cleanRecord("B", "2", "2025-01-01T00:00:00", "X", "LOC2", 10),
		cleanRecord("C", "3", "2025-01-02T00:00:00", "X", "LOC2", 10),
	}

	hs := AggregateHotspots(recs, testFloor(t, "2020-01-01"), 1)
	if len(hs) != 1 || hs[0].Location != "LOC2" {
		t.Errorf("expected only LOC2, got %v", hs)
	}
}

// TestAggregate_NilDateExcluded verifies records without a date are skipped
// rather than crashing the aggregation.
func TestAggregate_NilDateExcluded(t *testing.T) {
	recs := []Record{
		cleanRecord("A", "1", "2025-01-01T00:00:00", "STR CLEAN", "652 PACIFIC", 96),
		{Plate: "B", PlateState: "CA", Citation: citations.Citation{
			CitationNumber: "2",
			Violation:      "STR CLEAN",
			Location:       "652 PACIFIC",
			FineAmount:     96,
		}},
	}

	hs := AggregateHotspots(recs, testFloor(t, "2020-01-01"), 10)
	if len(hs) != 1 || hs[0].CitationCount != 1 {
		t.Errorf("expected 1 hotspot with 1 citation, got %v", hs)
	}

	summary := ViolationSummary(recs, testFloor(t, "2020-01-01"), 10)
	if len(summary) != 1 || summary[0].Count != 1 {
		t.Errorf("expected count 1, got %v", summary)
	}
}

// TestViolationSummary verifies the city-wide counts respect the floor and
// the top-N cap.
func TestViolationSummary(t *testing.T) {
	recs := []Record{
		cleanRecord("A", "1", "2025-01-01T00:00:00", "STR CLEAN", "", 96),
		cleanRecord("B", "2", "2025-01-02T00:00:00", "STR CLEAN", "", 96),
		cleanRecord("C", "3", "2025-01-03T00:00:00", "MTR OUT DT", "", 76),
		cleanRecord("D", "4", "2019-01-01T00:00:00", "MTR OUT DT", "", 76), // pre-floor
	}

	summary := ViolationSummary(recs, testFloor(t, "2020-01-01"), 1)
	if len(summary) != 1 {
		t.Fatalf("expected 1 row, got %d", len(summary))
	}
	if summary[0].Violation != "STR CLEAN" || summary[0].Count != 2 {
		t.Errorf("unexpected summary: %+v", summary[0])
	}
}

// TestBuildLeaderboard verifies ranks are unique, 1-based, ascending, and
// ordered by total fines with citation count breaking ties.
func TestBuildLeaderboard(t *testing.T) {
	plates := AggregateByPlate([]Record{
		cleanRecord("LOW", "1", "2025-01-01T00:00:00", "X", "", 50),
		cleanRecord("HIGH", "2", "2025-01-01T00:00:00", "X", "", 500),
		cleanRecord("MID1", "3", "2025-01-01T00:00:00", "X", "", 100),
		cleanRecord("MID2", "4", "2025-01-01T00:00:00", "X", "", 50),
		cleanRecord("MID2", "5", "2025-01-02T00:00:00", "X", "", 50),
	})

	board := BuildLeaderboard(plates, 3)

	if len(board) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(board))
	}
	// MID1 and MID2 tie at 100; MID2's higher citation count wins.
	wantPlates := []string{"HIGH", "MID2", "MID1"}
	for i, e := range board {
		if e.Rank != i+1 {
			t.Errorf("entry %d: expected rank %d, got %d", i, i+1, e.Rank)
		}
		if e.Plate != wantPlates[i] {
			t.Errorf("entry %d: expected plate %s, got %s", i, wantPlates[i], e.Plate)
		}
	}
}
