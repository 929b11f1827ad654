package hotspots

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()

	// Public routes
	r.Get("/", GetHotspots)
	r.Get("/all", GetAllHotspots)
	r.Get("/violations", GetViolationSummary)

	return r
}
