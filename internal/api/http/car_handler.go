package http

import (
	"net/http"

	"fleetledger-backend/internal/domain"
	"fleetledger-backend/internal/service"
)

type CarHandler struct {
	carSvc    service.CarService
	reportSvc service.ReportService
}

func NewCarHandler(carSvc service.CarService, reportSvc service.ReportService) *CarHandler {
	return &CarHandler{carSvc: carSvc, reportSvc: reportSvc}
}

type carRequest struct {
	Make           string `json:"make"`
	Model          string `json:"model"`
	Year           int32  `json:"year"`
	LicensePlate   string `json:"license_plate"`
	InitialMileage int32  `json:"initial_mileage"`
	Status         string `json:"status"`
}

func (h *CarHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req carRequest
	if !decodeBody(w, r, &req) {
		return
	}

	car := &domain.Car{
		Make:           req.Make,
		Model:          req.Model,
		Year:           req.Year,
		LicensePlate:   req.LicensePlate,
		InitialMileage: req.InitialMileage,
	}
	if err := h.carSvc.AddCar(r.Context(), callerID(r), car); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, car)
}

func (h *CarHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid car id"})
		return
	}
	car, err := h.carSvc.GetCar(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, car)
}

func (h *CarHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid car id"})
		return
	}
	var req carRequest
	if !decodeBody(w, r, &req) {
		return
	}

	car := &domain.Car{
		ID:           id,
		Make:         req.Make,
		Model:        req.Model,
		Year:         req.Year,
		LicensePlate: req.LicensePlate,
		Status:       domain.CarStatus(req.Status),
	}
	if err := h.carSvc.UpdateCar(r.Context(), callerID(r), car); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, car)
}

func (h *CarHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid car id"})
		return
	}
	if err := h.carSvc.DeleteCar(r.Context(), callerID(r), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *CarHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	cars, total, err := h.carSvc.ListMyCars(r.Context(), callerID(r), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[domain.Car]{Items: cars, Total: total})
}

func (h *CarHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid car id"})
		return
	}
	reports, err := h.reportSvc.ListByCar(r.Context(), callerID(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[domain.WeeklyReport]{Items: reports, Total: int32(len(reports))})
}

func (h *CarHandler) AssignmentHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid car id"})
		return
	}
	history, err := h.carSvc.AssignmentHistory(r.Context(), callerID(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[domain.CarAssignment]{Items: history, Total: int32(len(history))})
}
