package seeding

import (
	"strings"
	"testing"
)

const sampleCSV = `citation_number,citation_issued_datetime,violation_desc,citation_location,vehicle_plate_state,vehicle_plate,fine_amount,latitude,longitude
900001,2025-01-15T10:30:00.000,STR CLEAN,652 PACIFIC,CA,ABC123,96,37.7749,-122.4194
900002,2025-02-20T14:15:00.000,MTR OUT DT,100 MARKET ST,CA,XYZ789,76,,
`

// TestParseCSV verifies a Socrata CSV export decodes into the same raw
// record shape the API client returns, including the coordinate-to-geometry
// conversion.
func TestParseCSV(t *testing.T) {
	recs, err := parseCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("parseCSV failed: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}

	first := recs[0]
	if first.Plate != "ABC123" || first.FineAmount != "96" {
		t.Errorf("unexpected first record: %+v", first)
	}
	lat, lng, ok := first.TheGeom.LatLng()
	if !ok || lat != 37.7749 || lng != -122.4194 {
		t.Errorf("expected coordinates (37.7749, -122.4194), got (%v, %v, %v)", lat, lng, ok)
	}

	if recs[1].TheGeom != nil {
		t.Errorf("expected nil geometry for record without coordinates, got %+v", recs[1].TheGeom)
	}
}

// TestParseCSV_FeedsPipeline verifies CSV input flows through Clean the same
// as API input.
func TestParseCSV_FeedsPipeline(t *testing.T) {
	recs, err := parseCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}

	cleaned := Clean(recs)
	if len(cleaned) != 2 {
		t.Fatalf("expected 2 cleaned records, got %d", len(cleaned))
	}
	if cleaned[0].FineAmount != 96 {
		t.Errorf("expected fine 96, got %v", cleaned[0].FineAmount)
	}
	if cleaned[0].Date == nil || *cleaned[0].Date != "2025-01-15T10:30:00" {
		t.Errorf("expected normalized date, got %v", cleaned[0].Date)
	}
}
