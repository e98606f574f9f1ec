package http

import (
	"net/http"

	"fleetledger-backend/internal/domain"
	"fleetledger-backend/internal/service"
)

type AssignmentHandler struct {
	svc service.AssignmentService
}

func NewAssignmentHandler(svc service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{svc: svc}
}

type requestCarRequest struct {
	CarID              int32   `json:"car_id"`
	AvailableStartDate string  `json:"available_start_date"`
	AvailableEndDate   *string `json:"available_end_date"`
	MaxHoursPerWeek    int32   `json:"max_hours_per_week"`
	DriverNotes        string  `json:"driver_notes"`
}

func (h *AssignmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req requestCarRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.svc.RequestCar(r.Context(), callerID(r), req.CarID, service.AssignmentParams{
		AvailableStartDate: req.AvailableStartDate,
		AvailableEndDate:   req.AvailableEndDate,
		MaxHoursPerWeek:    req.MaxHoursPerWeek,
		DriverNotes:        req.DriverNotes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *AssignmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request id"})
		return
	}
	req, err := h.svc.Get(r.Context(), callerID(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// List returns the caller's requests: the ones they filed when they are a
// driver, the ones against their cars when they are an owner.
func (h *AssignmentHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	status := r.URL.Query().Get("status")

	var (
		items []domain.CarAssignmentRequest
		total int32
		err   error
	)
	if callerRole(r) == domain.UserRoleOwner {
		items, total, err = h.svc.ListByOwner(r.Context(), callerID(r), status, page, pageSize)
	} else {
		items, total, err = h.svc.ListByDriver(r.Context(), callerID(r), status, page, pageSize)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[domain.CarAssignmentRequest]{Items: items, Total: total})
}

func (h *AssignmentHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request id"})
		return
	}
	req, err := h.svc.Approve(r.Context(), callerID(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (h *AssignmentHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request id"})
		return
	}
	var body rejectRequest
	if !decodeBody(w, r, &body) {
		return
	}
	req, err := h.svc.Reject(r.Context(), callerID(r), id, body.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (h *AssignmentHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request id"})
		return
	}
	req, err := h.svc.Withdraw(r.Context(), callerID(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

type assignDriverRequest struct {
	DriverID int32 `json:"driver_id"`
}

func (h *AssignmentHandler) AssignDriver(w http.ResponseWriter, r *http.Request) {
	carID, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid car id"})
		return
	}
	var req assignDriverRequest
	if !decodeBody(w, r, &req) {
		return
	}
	car, err := h.svc.AssignDriver(r.Context(), callerID(r), carID, req.DriverID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, car)
}

// Expire triggers the sweep outside its schedule. Idempotent, so exposing it
// is harmless.
func (h *AssignmentHandler) Expire(w http.ResponseWriter, r *http.Request) {
	expired, err := h.svc.ExpireRequests(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"expired": len(expired)})
}
