package citations

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()

	// Public routes
	r.Get("/leaderboard", GetLeaderboard)
	r.Get("/plate/{plate}", GetPlate)
	r.Get("/plate/{plate}/citations", GetPlateCitations)

	return r
}
