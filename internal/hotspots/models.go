package hotspots

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// BreakdownMap stores a location's violation→count breakdown as JSONB.
type BreakdownMap map[string]int

func (m BreakdownMap) Value() (driver.Value, error) {
	if m == nil {
		m = BreakdownMap{}
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *BreakdownMap) Scan(value interface{}) error {
	if value == nil {
		*m = BreakdownMap{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("unsupported type: %T", value)
	}
}

// Hotspot is a street location aggregated by citation count at seed time.
// Coordinates start out null and are filled in by the geocoding batch; rows
// without coordinates are excluded from map views until then.
type Hotspot struct {
	Location           string       `gorm:"primaryKey" json:"location"`
	CitationCount      int          `gorm:"not null" json:"citation_count"`
	TotalFines         float64      `json:"total_fines"`
	TopViolation       string       `json:"top_violation"`
	ViolationBreakdown BreakdownMap `gorm:"type:jsonb;default:'{}'" json:"violation_breakdown"`
	Latitude           *float64     `json:"latitude,omitempty"`
	Longitude          *float64     `json:"longitude,omitempty"`
}

func (Hotspot) TableName() string {
	return "citation_hotspots"
}

// ViolationCount is one row of the city-wide violation summary.
type ViolationCount struct {
	Violation string `gorm:"primaryKey" json:"violation"`
	Count     int    `gorm:"not null" json:"count"`
}

func (ViolationCount) TableName() string {
	return "violation_summary"
}
