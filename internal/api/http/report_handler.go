package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"fleetledger-backend/internal/domain"
	"fleetledger-backend/internal/service"
)

type ReportHandler struct {
	svc service.ReportService
}

func NewReportHandler(svc service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

type createReportRequest struct {
	CarID         int32  `json:"car_id"`
	WeekStartDate string `json:"week_start_date"`
	WeekEndDate   string `json:"week_end_date"`
	Currency      string `json:"currency"`
}

func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createReportRequest
	if !decodeBody(w, r, &req) {
		return
	}

	report, err := h.svc.CreateDraft(r.Context(), callerID(r), req.CarID, req.WeekStartDate, req.WeekEndDate, req.Currency)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, report)
}

type updateReportRequest struct {
	WeekStartDate       *string          `json:"week_start_date"`
	WeekEndDate         *string          `json:"week_end_date"`
	EndMileage          *int32           `json:"end_mileage"`
	DriverEarnings      *decimal.Decimal `json:"driver_earnings"`
	MaintenanceExpenses *decimal.Decimal `json:"maintenance_expenses"`
	GasExpense          *decimal.Decimal `json:"gas_expense"`
	RideShareIncome     *decimal.Decimal `json:"ride_share_income"`
	RentalIncome        *decimal.Decimal `json:"rental_income"`
	TaxiIncome          *decimal.Decimal `json:"taxi_income"`
	Currency            *string          `json:"currency"`
}

func (h *ReportHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid report id"})
		return
	}
	var req updateReportRequest
	if !decodeBody(w, r, &req) {
		return
	}

	report, err := h.svc.UpdateDraft(r.Context(), callerID(r), id, service.ReportUpdate{
		WeekStartDate:       req.WeekStartDate,
		WeekEndDate:         req.WeekEndDate,
		EndMileage:          req.EndMileage,
		DriverEarnings:      req.DriverEarnings,
		MaintenanceExpenses: req.MaintenanceExpenses,
		GasExpense:          req.GasExpense,
		RideShareIncome:     req.RideShareIncome,
		RentalIncome:        req.RentalIncome,
		TaxiIncome:          req.TaxiIncome,
		Currency:            req.Currency,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *ReportHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid report id"})
		return
	}
	report, err := h.svc.Submit(r.Context(), callerID(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *ReportHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid report id"})
		return
	}
	report, err := h.svc.Approve(r.Context(), callerID(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (h *ReportHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid report id"})
		return
	}
	var req rejectRequest
	if !decodeBody(w, r, &req) {
		return
	}
	report, err := h.svc.Reject(r.Context(), callerID(r), id, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *ReportHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid report id"})
		return
	}
	if err := h.svc.DeleteDraft(r.Context(), callerID(r), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

type reportResponse struct {
	Report        *domain.WeeklyReport  `json:"report"`
	IncomeSources []domain.IncomeSource `json:"income_sources"`
}

func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid report id"})
		return
	}
	report, sources, err := h.svc.Get(r.Context(), callerID(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reportResponse{Report: report, IncomeSources: sources})
}

func (h *ReportHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	reports, total, err := h.svc.ListByDriver(r.Context(), callerID(r), r.URL.Query().Get("status"), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[domain.WeeklyReport]{Items: reports, Total: total})
}

type addIncomeSourceRequest struct {
	SourceType string          `json:"source_type"`
	Amount     decimal.Decimal `json:"amount"`
}

func (h *ReportHandler) AddIncomeSource(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid report id"})
		return
	}
	var req addIncomeSourceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	src, err := h.svc.AddIncomeSource(r.Context(), callerID(r), id, domain.IncomeSourceType(req.SourceType), req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, src)
}

func (h *ReportHandler) RemoveIncomeSource(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid report id"})
		return
	}
	sourceID, ok := pathID(r, "sourceID")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid income source id"})
		return
	}
	if err := h.svc.RemoveIncomeSource(r.Context(), callerID(r), id, sourceID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
