// Package dashboard exposes a small operator JSON API: aggregate stats,
// recent analyses, and cache state. Read-only; the user-facing surface is
// the Telegram session.
package dashboard

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/etherscope-bot/pkg/cache"
	"github.com/etherscope-bot/pkg/config"
	"github.com/etherscope-bot/pkg/db"
)

type Dashboard struct {
	store *db.Store
	cache *cache.Cache
	cfg   *config.Config
	port  int
}

func New(store *db.Store, c *cache.Cache, cfg *config.Config, port int) *Dashboard {
	return &Dashboard{store: store, cache: c, cfg: cfg, port: port}
}

func (d *Dashboard) Run() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/stats", cors(d.handleStats))
	mux.HandleFunc("/api/analyses", cors(d.handleAnalyses))
	mux.HandleFunc("/api/health", cors(d.handleHealth))

	addr := fmt.Sprintf(":%d", d.port)
	log.Info().Str("addr", addr).Msg("🌐 dashboard started")
	return http.ListenAndServe(addr, mux)
}

func cors(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(200)
			return
		}
		h(w, r)
	}
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func (d *Dashboard) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := d.store.GetStats()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]interface{}{
		"store": stats,
		"cache": d.cache.GetStats(),
	})
}

func (d *Dashboard) handleAnalyses(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	analyses, err := d.store.RecentAnalyses(limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if analyses == nil {
		analyses = []db.AnalysisRecord{}
	}
	writeJSON(w, analyses)
}

func (d *Dashboard) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"status":      "ok",
		"environment": d.cfg.Environment,
		"provider":    d.cfg.APIProvider,
		"cache":       d.cache.GetStats(),
	})
}
