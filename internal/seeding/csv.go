package seeding

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jszwec/csvutil"
	"github.com/sfmostwanted/MWP-Backend/internal/socrata"
)

// csvRecord maps a Socrata CSV export row. Headers must match the portal's
// column names; coordinates come as separate columns instead of a geometry.
type csvRecord struct {
	CitationNumber string `csv:"citation_number"`
	IssuedDatetime string `csv:"citation_issued_datetime"`
	ViolationDesc  string `csv:"violation_desc"`
	Location       string `csv:"citation_location"`
	PlateState     string `csv:"vehicle_plate_state"`
	Plate          string `csv:"vehicle_plate"`
	FineAmount     string `csv:"fine_amount"`
	Latitude       string `csv:"latitude"`
	Longitude      string `csv:"longitude"`
}

// LoadCSV reads a Socrata CSV export into raw records, the same shape the
// API client returns, so the rest of the pipeline is identical for both
// sources.
func LoadCSV(path string) ([]socrata.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	return parseCSV(f)
}

func parseCSV(r io.Reader) ([]socrata.Record, error) {
	dec, err := csvutil.NewDecoder(csv.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("creating CSV decoder: %w", err)
	}

	var rows []csvRecord
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("decoding CSV: %w", err)
	}

	out := make([]socrata.Record, 0, len(rows))
	for _, row := range rows {
		rec := socrata.Record{
			CitationNumber: row.CitationNumber,
			IssuedDatetime: row.IssuedDatetime,
			ViolationDesc:  row.ViolationDesc,
			Location:       row.Location,
			PlateState:     row.PlateState,
			Plate:          row.Plate,
			FineAmount:     row.FineAmount,
		}
		lat, latErr := strconv.ParseFloat(row.Latitude, 64)
		lng, lngErr := strconv.ParseFloat(row.Longitude, 64)
		if latErr == nil && lngErr == nil {
			// Geometry coordinates are [longitude, latitude].
			rec.TheGeom = &socrata.Geometry{
				Type:        "Point",
				Coordinates: []float64{lng, lat},
			}
		}
		out = append(out, rec)
	}
	return out, nil
}
