package hotspots

import (
	"log"

	"github.com/sfmostwanted/MWP-Backend/internal/config"
	"github.com/sfmostwanted/MWP-Backend/internal/db"
	"github.com/sfmostwanted/MWP-Backend/internal/fallback"
)

var store *fallback.Store

func Init(cfg config.Config) {
	if err := db.DB.AutoMigrate(
		&Hotspot{},
		&ViolationCount{},
	); err != nil {
		log.Fatal("Failed to auto-migrate hotspot tables: ", err)
	}

	// The map view reads only geocoded rows, ordered by count.
	if err := db.DB.Exec(`
		CREATE INDEX IF NOT EXISTS idx_hotspots_geocoded
		ON citation_hotspots (citation_count DESC)
		WHERE latitude IS NOT NULL;
	`).Error; err != nil {
		log.Fatal("Failed to create idx_hotspots_geocoded: ", err)
	}

	store = fallback.NewStore(cfg.FallbackDir)

	log.Println("[hotspots] initialized")
}
