package seeding

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sfmostwanted/MWP-Backend/internal/db"
)

// SeedRun records one execution of the offline seed tool, for provenance and
// the /status endpoint. The running API never writes these; only cmd/seed
// does.
type SeedRun struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Source        string         `gorm:"not null" json:"source"` // "socrata" or "csv"
	Months        pq.StringArray `gorm:"type:text[]" json:"months"`
	CitationCount int            `json:"citation_count"`
	PlateCount    int            `json:"plate_count"`
	StartedAt     time.Time      `json:"started_at"`
	CompletedAt   time.Time      `json:"completed_at"`
}

func (SeedRun) TableName() string {
	return "seed_runs"
}

func Init() {
	if err := db.DB.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		log.Fatal("Failed to enable uuid-ossp extension:", err)
	}

	if err := db.DB.AutoMigrate(&SeedRun{}); err != nil {
		log.Fatal("Failed to auto-migrate seed_runs: ", err)
	}
}
