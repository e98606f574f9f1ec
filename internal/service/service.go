package service

import (
	"context"

	"github.com/shopspring/decimal"

	"fleetledger-backend/internal/domain"
	"fleetledger-backend/internal/stats"
)

// ReportUpdate is a partial update of a draft report. Nil fields are left
// untouched. StartMileage is deliberately absent: the continuity resolver
// owns it.
type ReportUpdate struct {
	WeekStartDate       *string
	WeekEndDate         *string
	EndMileage          *int32
	DriverEarnings      *decimal.Decimal
	MaintenanceExpenses *decimal.Decimal
	GasExpense          *decimal.Decimal
	RideShareIncome     *decimal.Decimal
	RentalIncome        *decimal.Decimal
	TaxiIncome          *decimal.Decimal
	Currency            *string
}

type ReportService interface {
	CreateDraft(ctx context.Context, driverID, carID int32, weekStart, weekEnd, currency string) (*domain.WeeklyReport, error)
	UpdateDraft(ctx context.Context, driverID, reportID int32, upd ReportUpdate) (*domain.WeeklyReport, error)
	Submit(ctx context.Context, driverID, reportID int32) (*domain.WeeklyReport, error)
	Approve(ctx context.Context, approverID, reportID int32) (*domain.WeeklyReport, error)
	Reject(ctx context.Context, rejecterID, reportID int32, reason string) (*domain.WeeklyReport, error)
	DeleteDraft(ctx context.Context, driverID, reportID int32) error
	Get(ctx context.Context, userID, reportID int32) (*domain.WeeklyReport, []domain.IncomeSource, error)
	ListByDriver(ctx context.Context, driverID int32, status string, page, pageSize int32) ([]domain.WeeklyReport, int32, error)
	ListByCar(ctx context.Context, ownerID, carID int32) ([]domain.WeeklyReport, error)
	AddIncomeSource(ctx context.Context, driverID, reportID int32, sourceType domain.IncomeSourceType, amount decimal.Decimal) (*domain.IncomeSource, error)
	RemoveIncomeSource(ctx context.Context, driverID, reportID, sourceID int32) error
}

// AssignmentParams are the driver-editable fields of an assignment request.
type AssignmentParams struct {
	AvailableStartDate string
	AvailableEndDate   *string
	MaxHoursPerWeek    int32
	DriverNotes        string
}

type AssignmentService interface {
	RequestCar(ctx context.Context, driverID, carID int32, params AssignmentParams) (*domain.CarAssignmentRequest, error)
	Approve(ctx context.Context, ownerID, requestID int32) (*domain.CarAssignmentRequest, error)
	Reject(ctx context.Context, ownerID, requestID int32, reason string) (*domain.CarAssignmentRequest, error)
	Withdraw(ctx context.Context, driverID, requestID int32) (*domain.CarAssignmentRequest, error)
	ExpireRequests(ctx context.Context) ([]domain.CarAssignmentRequest, error)
	AssignDriver(ctx context.Context, ownerID, carID, driverID int32) (*domain.Car, error)
	Get(ctx context.Context, userID, requestID int32) (*domain.CarAssignmentRequest, error)
	ListByDriver(ctx context.Context, driverID int32, status string, page, pageSize int32) ([]domain.CarAssignmentRequest, int32, error)
	ListByOwner(ctx context.Context, ownerID int32, status string, page, pageSize int32) ([]domain.CarAssignmentRequest, int32, error)
}

type StatsService interface {
	DriverStats(ctx context.Context, driverID int32, window *stats.Window) (*stats.Stats, error)
	CarStats(ctx context.Context, ownerID, carID int32, window *stats.Window) (*stats.Stats, error)
}

type CarService interface {
	AddCar(ctx context.Context, ownerID int32, car *domain.Car) error
	GetCar(ctx context.Context, id int32) (*domain.Car, error)
	UpdateCar(ctx context.Context, ownerID int32, car *domain.Car) error
	DeleteCar(ctx context.Context, ownerID, carID int32) error
	ListMyCars(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Car, int32, error)
	AssignmentHistory(ctx context.Context, ownerID, carID int32) ([]domain.CarAssignment, error)
}

type EmailService interface {
	SendReportSubmittedNotification(ctx context.Context, to, toName, driverName, plate, weekStart string) error
	SendReportDecisionNotification(ctx context.Context, to, toName, plate, weekStart, decision, reason string) error
	SendAssignmentRequestNotification(ctx context.Context, to, toName, driverName, plate string) error
	SendAssignmentDecisionNotification(ctx context.Context, to, toName, plate, decision, reason string) error
}
