package main

import (
	"flag"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/noah-isme/shopfront/internal/catalog"
	"github.com/noah-isme/shopfront/internal/common"
	"github.com/noah-isme/shopfront/internal/obs"
)

// catalogd serves the fixture catalog over HTTP so the api binary can run
// with CATALOG_MODE=http against a local upstream.
func main() {
	addr := flag.String("addr", ":9090", "listen address")
	failList := flag.Bool("fail-list", false, "answer product listings with 500 to exercise the failed loader state")
	flag.Parse()

	logger := obs.NewLogger("console", "info")
	fixture := catalog.NewFixture(catalog.DefaultProducts()...)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)

	r.Get("/products", func(w http.ResponseWriter, r *http.Request) {
		if *failList {
			common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "simulated failure", nil)
			return
		}
		products, _ := fixture.List(r.Context())
		common.JSON(w, http.StatusOK, map[string]any{"data": products})
	})
	r.Get("/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		product, err := fixture.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
			return
		}
		common.JSON(w, http.StatusOK, map[string]any{"data": product})
	})

	logger.Info().Str("addr", *addr).Msg("catalogd starting")
	if err := http.ListenAndServe(*addr, r); err != nil {
		logger.Fatal().Err(err).Msg("catalogd exited")
	}
}
