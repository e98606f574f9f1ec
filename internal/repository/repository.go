package repository

import (
	"context"
	"errors"
	"time"

	"fleetledger-backend/internal/domain"
)

// ErrDuplicatePending is returned by AssignmentRepository.Create when the
// partial unique index on (car_id, driver_id) WHERE status='PENDING' rejects
// the insert: another pending request for the pair already exists and the
// caller should switch to the update path.
var ErrDuplicatePending = errors.New("pending request already exists for this car and driver")

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type CarRepository interface {
	Create(ctx context.Context, car *domain.Car) error
	GetByID(ctx context.Context, id int32) (*domain.Car, error)
	Update(ctx context.Context, car *domain.Car) error
	Delete(ctx context.Context, id int32) error
	ListByOwner(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Car, int32, error)
	ListByDriver(ctx context.Context, driverID int32) ([]domain.Car, error)

	// AssignDriver sets the car's driver in one transaction: the open
	// assignment history row (if any) gets its unassigned_at stamped first,
	// then a new history row is inserted and the car row updated.
	AssignDriver(ctx context.Context, carID, driverID int32, at time.Time) error
	GetOpenAssignment(ctx context.Context, carID int32) (*domain.CarAssignment, error)
	ListAssignments(ctx context.Context, carID int32) ([]domain.CarAssignment, error)
}

// ReportRepository persists weekly reports. The transition methods (Submit,
// Approve, Reject) are conditional writes: the update only applies when the
// row's current status still matches the required source status, and the
// returned row count tells the caller whether it won.
type ReportRepository interface {
	Create(ctx context.Context, report *domain.WeeklyReport) error
	GetByID(ctx context.Context, id int32) (*domain.WeeklyReport, error)

	// UpdateDraft rewrites the editable fields, guarded by status='DRAFT'.
	UpdateDraft(ctx context.Context, report *domain.WeeklyReport) (int64, error)
	// DeleteDraft hard-deletes a draft, freeing its mileage range.
	DeleteDraft(ctx context.Context, id int32) (int64, error)

	Submit(ctx context.Context, id int32, at time.Time) (int64, error)
	// Approve also rolls the car's cached current_mileage forward, in the
	// same transaction as the status change.
	Approve(ctx context.Context, id, approverID int32, at time.Time) (int64, error)
	Reject(ctx context.Context, id, rejecterID int32, reason string, at time.Time) (int64, error)

	// ListByCar returns all of a car's reports, any status, in creation
	// order. This is the prior set the continuity resolver folds over.
	ListByCar(ctx context.Context, carID int32) ([]domain.WeeklyReport, error)
	ListByDriver(ctx context.Context, driverID int32, status string, page, pageSize int32) ([]domain.WeeklyReport, int32, error)
	// ListApproved filters to approved reports; either carID or driverID may
	// be zero to skip that filter. Feed for the statistics aggregator.
	ListApproved(ctx context.Context, carID, driverID int32) ([]domain.WeeklyReport, error)

	CreateIncomeSource(ctx context.Context, src *domain.IncomeSource) error
	ListIncomeSources(ctx context.Context, reportID int32) ([]domain.IncomeSource, error)
	DeleteIncomeSource(ctx context.Context, id, reportID int32) (int64, error)
}

// AssignmentRepository persists car assignment requests with the same
// conditional-write discipline as ReportRepository.
type AssignmentRepository interface {
	Create(ctx context.Context, req *domain.CarAssignmentRequest) error
	GetByID(ctx context.Context, id int32) (*domain.CarAssignmentRequest, error)
	// GetPending looks up the single pending request for a (car, driver)
	// pair; domain.ErrNotFound when there is none.
	GetPending(ctx context.Context, carID, driverID int32) (*domain.CarAssignmentRequest, error)

	// UpdatePending rewrites the driver-editable fields, guarded by
	// status='PENDING'.
	UpdatePending(ctx context.Context, req *domain.CarAssignmentRequest) (int64, error)

	Decide(ctx context.Context, id, reviewerID int32, to domain.AssignmentStatus, reason string, at time.Time) (int64, error)
	Withdraw(ctx context.Context, id int32, at time.Time) (int64, error)

	// ExpirePending moves every pending request whose available_end_date is
	// before asOf into EXPIRED and returns the rows it touched. Safe to
	// re-run: decided and already-expired rows are skipped by the status
	// guard.
	ExpirePending(ctx context.Context, asOf string, at time.Time) ([]domain.CarAssignmentRequest, error)

	ListByDriver(ctx context.Context, driverID int32, status string, page, pageSize int32) ([]domain.CarAssignmentRequest, int32, error)
	ListByOwner(ctx context.Context, ownerID int32, status string, page, pageSize int32) ([]domain.CarAssignmentRequest, int32, error)
}
