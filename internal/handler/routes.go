package handler

import (
	"github.com/gorilla/mux"
)

// Routes registers the pages and the JSON API on r
func (h *Handler) Routes(r *mux.Router) {
	// Pages
	r.HandleFunc("/", h.Home).Methods("GET")
	r.HandleFunc("/hdb-resale-data", h.ResaleData).Methods("GET")
	r.HandleFunc("/hdb-resale-data", h.SubmitSearch).Methods("POST")
	r.HandleFunc("/hdb-resale-data/street", h.SubmitStreet).Methods("POST")
	r.HandleFunc("/history", h.History).Methods("GET")
	r.HandleFunc("/mortgage-calculator", h.MortgageCalculator).Methods("GET")

	// JSON API
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/search", h.APISearch).Methods("GET")
	api.HandleFunc("/state", h.APIState).Methods("GET")
	api.HandleFunc("/street", h.APIStreet).Methods("POST")
	api.HandleFunc("/history", h.APIHistory).Methods("GET")
	api.HandleFunc("/mortgage", h.APIMortgage).Methods("GET")

	r.HandleFunc("/healthz", h.Health).Methods("GET")
}
