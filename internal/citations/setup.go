package citations

import (
	"log"
	"time"

	"github.com/sfmostwanted/MWP-Backend/internal/config"
	"github.com/sfmostwanted/MWP-Backend/internal/db"
	"github.com/sfmostwanted/MWP-Backend/internal/fallback"
)

// dateFloor and store are fixed at startup from configuration. Every read
// path filters to dateFloor; there must be no other floor constant anywhere.
var (
	dateFloor time.Time
	store     *fallback.Store
)

func Init(cfg config.Config) {
	if err := db.DB.AutoMigrate(
		&PlateDetail{},
		&LeaderboardEntry{},
	); err != nil {
		log.Fatal("Failed to auto-migrate citation tables: ", err)
	}

	dateFloor = cfg.Floor()
	store = fallback.NewStore(cfg.FallbackDir)

	log.Printf("[citations] initialized (date floor %s)", cfg.DateFloor)
}
