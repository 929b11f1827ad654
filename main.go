package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/sfmostwanted/MWP-Backend/internal/citations"
	"github.com/sfmostwanted/MWP-Backend/internal/config"
	"github.com/sfmostwanted/MWP-Backend/internal/db"
	"github.com/sfmostwanted/MWP-Backend/internal/hotspots"
	"github.com/sfmostwanted/MWP-Backend/internal/middleware"
	"github.com/sfmostwanted/MWP-Backend/internal/seeding"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	response := "Server is up!"
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, response)
}

func main() {
	_ = godotenv.Load(".env.local")
	cfg := config.Load()
	db.Connect()

	citations.Init(cfg)
	hotspots.Init(cfg)
	seeding.Init()

	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)
	r.Get("/", RootHandler)

	r.Mount("/citations", citations.SetupRoutes())
	r.Mount("/hotspots", hotspots.SetupRoutes())
	r.Mount("/status", seeding.SetupRoutes())

	log.Printf("Server listening on port :%s...", cfg.Port)

	http.ListenAndServe("0.0.0.0:"+cfg.Port, r)
}
