package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"fleetledger-backend/internal/security"
)

// NewRouter wires all handlers under /api/v1. Every route requires a valid
// bearer token; the middleware puts the caller's id and role on the request
// context.
func NewRouter(
	tm security.TokenManager,
	reports *ReportHandler,
	assignments *AssignmentHandler,
	cars *CarHandler,
	stats *StatsHandler,
) *mux.Router {
	root := mux.NewRouter()

	root.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := root.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(tm))

	// Weekly reports
	api.HandleFunc("/reports", reports.Create).Methods(http.MethodPost)
	api.HandleFunc("/reports", reports.ListMine).Methods(http.MethodGet)
	api.HandleFunc("/reports/{id}", reports.Get).Methods(http.MethodGet)
	api.HandleFunc("/reports/{id}", reports.Update).Methods(http.MethodPatch)
	api.HandleFunc("/reports/{id}", reports.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/reports/{id}/submit", reports.Submit).Methods(http.MethodPost)
	api.HandleFunc("/reports/{id}/approve", reports.Approve).Methods(http.MethodPost)
	api.HandleFunc("/reports/{id}/reject", reports.Reject).Methods(http.MethodPost)
	api.HandleFunc("/reports/{id}/income-sources", reports.AddIncomeSource).Methods(http.MethodPost)
	api.HandleFunc("/reports/{id}/income-sources/{sourceID}", reports.RemoveIncomeSource).Methods(http.MethodDelete)

	// Assignment requests
	api.HandleFunc("/assignment-requests", assignments.Create).Methods(http.MethodPost)
	api.HandleFunc("/assignment-requests", assignments.List).Methods(http.MethodGet)
	api.HandleFunc("/assignment-requests/expire", assignments.Expire).Methods(http.MethodPost)
	api.HandleFunc("/assignment-requests/{id}", assignments.Get).Methods(http.MethodGet)
	api.HandleFunc("/assignment-requests/{id}/approve", assignments.Approve).Methods(http.MethodPost)
	api.HandleFunc("/assignment-requests/{id}/reject", assignments.Reject).Methods(http.MethodPost)
	api.HandleFunc("/assignment-requests/{id}/withdraw", assignments.Withdraw).Methods(http.MethodPost)

	// Cars
	api.HandleFunc("/cars", cars.Create).Methods(http.MethodPost)
	api.HandleFunc("/cars", cars.ListMine).Methods(http.MethodGet)
	api.HandleFunc("/cars/{id}", cars.Get).Methods(http.MethodGet)
	api.HandleFunc("/cars/{id}", cars.Update).Methods(http.MethodPut)
	api.HandleFunc("/cars/{id}", cars.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/cars/{id}/reports", cars.ListReports).Methods(http.MethodGet)
	api.HandleFunc("/cars/{id}/assignments", cars.AssignmentHistory).Methods(http.MethodGet)
	api.HandleFunc("/cars/{id}/driver", assignments.AssignDriver).Methods(http.MethodPost)

	// Statistics
	api.HandleFunc("/stats/me", stats.DriverStats).Methods(http.MethodGet)
	api.HandleFunc("/stats/cars/{id}", stats.CarStats).Methods(http.MethodGet)

	return root
}
