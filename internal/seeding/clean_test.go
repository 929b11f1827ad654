package seeding

import (
	"testing"

	"github.com/sfmostwanted/MWP-Backend/internal/socrata"
)

func rawRecord(num, issued, plate string) socrata.Record {
	return socrata.Record{
		CitationNumber: num,
		IssuedDatetime: issued,
		ViolationDesc:  "STR CLEAN",
		Location:       "652 PACIFIC",
		Plate:          plate,
		PlateState:     "CA",
		FineAmount:     "96",
	}
}

// TestClean_DropsInvalidPlates verifies the portal's no-plate placeholders
// and empty plates are removed, and survivors are trimmed and uppercased.
func TestClean_DropsInvalidPlates(t *testing.T) {
	raw := []socrata.Record{
		rawRecord("1", "2025-01-15T10:30:00.000", "  abc123 "),
		rawRecord("2", "2025-01-15T10:30:00.000", "NAN"),
		rawRecord("3", "2025-01-15T10:30:00.000", "NONE"),
		rawRecord("4", "2025-01-15T10:30:00.000", "NULL"),
		rawRecord("5", "2025-01-15T10:30:00.000", ""),
	}

	got := Clean(raw)
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	if got[0].Plate != "ABC123" {
		t.Errorf("expected normalized plate ABC123, got %q", got[0].Plate)
	}
}

// TestClean_DropsUnparseableDates verifies rows without a usable issue date
// are removed and surviving dates are normalized to one layout.
func TestClean_DropsUnparseableDates(t *testing.T) {
	raw := []socrata.Record{
		rawRecord("1", "2025-01-15T10:30:00.000", "AAA111"),
		rawRecord("2", "", "BBB222"),
		rawRecord("3", "garbage", "CCC333"),
	}

	got := Clean(raw)
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	if got[0].Date == nil || *got[0].Date != "2025-01-15T10:30:00" {
		t.Errorf("expected normalized date, got %v", got[0].Date)
	}
}

// TestClean_InvalidFineBecomesZero mirrors the source data's occasional
// non-numeric fine amounts.
func TestClean_InvalidFineBecomesZero(t *testing.T) {
	rec := rawRecord("1", "2025-01-15T10:30:00.000", "AAA111")
	rec.FineAmount = "invalid"

	got := Clean([]socrata.Record{rec})
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	if got[0].FineAmount != 0 {
		t.Errorf("expected fine 0, got %v", got[0].FineAmount)
	}
}

// TestClean_DeduplicatesByCitationNumber verifies keep-first dedupe, and
// that records without a citation number are never deduped against each
// other.
func TestClean_DeduplicatesByCitationNumber(t *testing.T) {
	a := rawRecord("900001", "2025-01-15T10:30:00.000", "AAA111")
	dup := rawRecord("900001", "2025-02-20T10:30:00.000", "AAA111")
	blank1 := rawRecord("", "2025-03-01T10:30:00.000", "AAA111")
	blank2 := rawRecord("", "2025-03-02T10:30:00.000", "AAA111")

	got := Clean([]socrata.Record{a, dup, blank1, blank2})
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	if got[0].Date == nil || *got[0].Date != "2025-01-15T10:30:00" {
		t.Errorf("dedupe should keep the first occurrence, got %v", got[0].Date)
	}
}

// TestClean_ExtractsCoordinates verifies GeoJSON [lng, lat] ordering is
// converted correctly.
func TestClean_ExtractsCoordinates(t *testing.T) {
	rec := rawRecord("1", "2025-01-15T10:30:00.000", "AAA111")
	rec.TheGeom = &socrata.Geometry{
		Type:        "Point",
		Coordinates: []float64{-122.4194, 37.7749},
	}

	got := Clean([]socrata.Record{rec})
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	if got[0].Latitude == nil || *got[0].Latitude != 37.7749 {
		t.Errorf("expected latitude 37.7749, got %v", got[0].Latitude)
	}
	if got[0].Longitude == nil || *got[0].Longitude != -122.4194 {
		t.Errorf("expected longitude -122.4194, got %v", got[0].Longitude)
	}

	noGeom := rawRecord("2", "2025-01-15T10:30:00.000", "BBB222")
	got = Clean([]socrata.Record{noGeom})
	if got[0].Latitude != nil || got[0].Longitude != nil {
		t.Error("expected nil coordinates without geometry")
	}
}
