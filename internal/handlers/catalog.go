package handlers

import (
	"net/http"

	"github.com/benvon/goaltracker/internal/models"
	"github.com/gorilla/mux"
)

// CategoryInfo describes one goal category
type CategoryInfo struct {
	Name   models.Category `json:"name"`
	Accent string          `json:"accent"`
}

// TimeframeInfo describes one timeframe label
type TimeframeInfo struct {
	Label models.Timeframe `json:"label"`
	Days  int              `json:"days"`
}

// RegisterCatalogRoutes registers the fixed category and timeframe lists
func RegisterCatalogRoutes(r *mux.Router) {
	r.HandleFunc("/categories", ListCategories).Methods("GET")
	r.HandleFunc("/timeframes", ListTimeframes).Methods("GET")
}

// ListCategories returns the categories in display order
func ListCategories(w http.ResponseWriter, r *http.Request) {
	out := make([]CategoryInfo, 0, len(models.Categories))
	for _, c := range models.Categories {
		out = append(out, CategoryInfo{Name: c, Accent: c.Accent()})
	}
	respondJSON(w, http.StatusOK, out)
}

// ListTimeframes returns the timeframe labels with their day counts
func ListTimeframes(w http.ResponseWriter, r *http.Request) {
	out := make([]TimeframeInfo, 0, len(models.Timeframes))
	for _, tf := range models.Timeframes {
		out = append(out, TimeframeInfo{Label: tf, Days: tf.Days()})
	}
	respondJSON(w, http.StatusOK, out)
}
