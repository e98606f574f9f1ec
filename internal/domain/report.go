package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReportStatus string

const (
	ReportStatusDraft     ReportStatus = "DRAFT"
	ReportStatusSubmitted ReportStatus = "SUBMITTED"
	ReportStatusApproved  ReportStatus = "APPROVED"
	ReportStatusRejected  ReportStatus = "REJECTED"
)

// reportTransitions is the allowed flow for a weekly report. APPROVED and
// REJECTED are terminal.
var reportTransitions = map[ReportStatus][]ReportStatus{
	ReportStatusDraft:     {ReportStatusSubmitted},
	ReportStatusSubmitted: {ReportStatusApproved, ReportStatusRejected},
	ReportStatusApproved:  {},
	ReportStatusRejected:  {},
}

// CanTransitionTo reports whether from -> to is an allowed status change.
func (from ReportStatus) CanTransitionTo(to ReportStatus) bool {
	for _, s := range reportTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is allowed.
func (s ReportStatus) IsTerminal() bool {
	return len(reportTransitions[s]) == 0
}

// WeeklyReport is a driver's financial and mileage report for one week of
// driving a car. Dates use the YYYY-MM-DD form. Fields are mutable only while
// the report is a draft; the status and its timestamps only move through the
// transition table above.
type WeeklyReport struct {
	ID            int32  `json:"id"`
	CarID         int32  `json:"car_id"`
	DriverID      int32  `json:"driver_id"`
	WeekStartDate string `json:"week_start_date"`
	WeekEndDate   string `json:"week_end_date"`
	// StartMileage is assigned by the continuity resolver at creation and
	// never edited afterwards; EndMileage starts at StartMileage+1 and the
	// driver revises it upward before submission.
	StartMileage        int32           `json:"start_mileage"`
	EndMileage          int32           `json:"end_mileage"`
	DriverEarnings      decimal.Decimal `json:"driver_earnings"`
	MaintenanceExpenses decimal.Decimal `json:"maintenance_expenses"`
	GasExpense          decimal.Decimal `json:"gas_expense"`
	RideShareIncome     decimal.Decimal `json:"ride_share_income"`
	RentalIncome        decimal.Decimal `json:"rental_income"`
	TaxiIncome          decimal.Decimal `json:"taxi_income"`
	Currency            string          `json:"currency"`
	Status              ReportStatus    `json:"status"`
	SubmittedAt         *time.Time      `json:"submitted_at,omitempty"`
	ApprovedAt          *time.Time      `json:"approved_at,omitempty"`
	ApprovedBy          *int32          `json:"approved_by,omitempty"`
	RejectedAt          *time.Time      `json:"rejected_at,omitempty"`
	RejectedBy          *int32          `json:"rejected_by,omitempty"`
	RejectionReason     string          `json:"rejection_reason,omitempty"`
	CreatedOn           time.Time       `json:"created_on"`
	UpdatedOn           time.Time       `json:"updated_on"`
}

// MileageDelta returns the distance covered by this report's odometer range.
func (r *WeeklyReport) MileageDelta() int32 {
	return r.EndMileage - r.StartMileage
}

// HasRecordedIncome reports whether any income figure is positive. A report
// with no recorded income may not be submitted; itemized income sources count
// and are checked by the caller alongside this.
func (r *WeeklyReport) HasRecordedIncome() bool {
	return r.RideShareIncome.IsPositive() ||
		r.RentalIncome.IsPositive() ||
		r.TaxiIncome.IsPositive()
}

type IncomeSourceType string

const (
	IncomeSourceRentals   IncomeSourceType = "RENTALS"
	IncomeSourceRideShare IncomeSourceType = "RIDE_SHARE"
)

// IncomeSource itemizes a report's income per origin. It never alters the
// mileage invariant.
type IncomeSource struct {
	ID         int32            `json:"id"`
	ReportID   int32            `json:"report_id"`
	SourceType IncomeSourceType `json:"source_type"`
	Amount     decimal.Decimal  `json:"amount"`
	CreatedOn  time.Time        `json:"created_on"`
}
