package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"fleetledger-backend/internal/domain"
	"fleetledger-backend/internal/repository"
)

type assignmentRepository struct {
	db *sql.DB
}

func NewAssignmentRepository(db *sql.DB) repository.AssignmentRepository {
	return &assignmentRepository{db: db}
}

const assignmentColumns = `id, car_id, driver_id, owner_id, available_start_date,
	available_end_date, max_hours_per_week, driver_notes, status,
	reviewed_at, reviewed_by, rejection_reason, created_on, updated_on`

func scanAssignment(row interface{ Scan(...any) error }, a *domain.CarAssignmentRequest) error {
	var availableStart time.Time
	var availableEnd sql.NullTime
	err := row.Scan(&a.ID, &a.CarID, &a.DriverID, &a.OwnerID, &availableStart,
		&availableEnd, &a.MaxHoursPerWeek, &a.DriverNotes, &a.Status,
		&a.ReviewedAt, &a.ReviewedBy, &a.RejectionReason, &a.CreatedOn, &a.UpdatedOn)
	if err != nil {
		return err
	}
	a.AvailableStartDate = availableStart.Format(dateLayout)
	a.AvailableEndDate = nil
	if availableEnd.Valid {
		end := availableEnd.Time.Format(dateLayout)
		a.AvailableEndDate = &end
	}
	return nil
}

func (r *assignmentRepository) Create(ctx context.Context, a *domain.CarAssignmentRequest) error {
	query := `INSERT INTO car_assignment_requests (car_id, driver_id, owner_id,
	          available_start_date, available_end_date, max_hours_per_week, driver_notes,
	          status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query, a.CarID, a.DriverID, a.OwnerID,
		a.AvailableStartDate, a.AvailableEndDate, a.MaxHoursPerWeek, a.DriverNotes,
		a.Status, now, now).Scan(&a.ID)
	if err != nil {
		// The partial unique index rejects a second PENDING row for the same
		// (car, driver); the caller switches to the update path.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return repository.ErrDuplicatePending
		}
		return storeErr("assignment.Create", "assignment request", 0, err)
	}
	a.CreatedOn = now
	a.UpdatedOn = now
	return nil
}

func (r *assignmentRepository) GetByID(ctx context.Context, id int32) (*domain.CarAssignmentRequest, error) {
	a := &domain.CarAssignmentRequest{}
	query := `SELECT ` + assignmentColumns + ` FROM car_assignment_requests WHERE id = $1`
	if err := scanAssignment(r.db.QueryRowContext(ctx, query, id), a); err != nil {
		return nil, storeErr("assignment.GetByID", "assignment request", id, err)
	}
	return a, nil
}

func (r *assignmentRepository) GetPending(ctx context.Context, carID, driverID int32) (*domain.CarAssignmentRequest, error) {
	a := &domain.CarAssignmentRequest{}
	query := `SELECT ` + assignmentColumns + ` FROM car_assignment_requests
	          WHERE car_id = $1 AND driver_id = $2 AND status = $3`
	err := scanAssignment(r.db.QueryRowContext(ctx, query, carID, driverID, domain.AssignmentStatusPending), a)
	if err != nil {
		return nil, storeErr("assignment.GetPending", "assignment request", 0, err)
	}
	return a, nil
}

func (r *assignmentRepository) UpdatePending(ctx context.Context, a *domain.CarAssignmentRequest) (int64, error) {
	query := `UPDATE car_assignment_requests SET available_start_date=$1, available_end_date=$2,
	          max_hours_per_week=$3, driver_notes=$4, updated_on=$5
	          WHERE id=$6 AND status=$7`
	res, err := r.db.ExecContext(ctx, query, a.AvailableStartDate, a.AvailableEndDate,
		a.MaxHoursPerWeek, a.DriverNotes, time.Now(), a.ID, domain.AssignmentStatusPending)
	if err != nil {
		return 0, storeErr("assignment.UpdatePending", "assignment request", a.ID, err)
	}
	return res.RowsAffected()
}

func (r *assignmentRepository) Decide(ctx context.Context, id, reviewerID int32, to domain.AssignmentStatus, reason string, at time.Time) (int64, error) {
	query := `UPDATE car_assignment_requests SET status=$1, reviewed_at=$2, reviewed_by=$3,
	          rejection_reason=$4, updated_on=$2
	          WHERE id=$5 AND status=$6`
	res, err := r.db.ExecContext(ctx, query, to, at, reviewerID, reason, id, domain.AssignmentStatusPending)
	if err != nil {
		return 0, storeErr("assignment.Decide", "assignment request", id, err)
	}
	return res.RowsAffected()
}

func (r *assignmentRepository) Withdraw(ctx context.Context, id int32, at time.Time) (int64, error) {
	query := `UPDATE car_assignment_requests SET status=$1, updated_on=$2
	          WHERE id=$3 AND status=$4`
	res, err := r.db.ExecContext(ctx, query, domain.AssignmentStatusWithdrawn, at, id, domain.AssignmentStatusPending)
	if err != nil {
		return 0, storeErr("assignment.Withdraw", "assignment request", id, err)
	}
	return res.RowsAffected()
}

func (r *assignmentRepository) ExpirePending(ctx context.Context, asOf string, at time.Time) ([]domain.CarAssignmentRequest, error) {
	query := `UPDATE car_assignment_requests SET status=$1, updated_on=$2
	          WHERE status=$3 AND available_end_date IS NOT NULL AND available_end_date < $4
	          RETURNING ` + assignmentColumns
	rows, err := r.db.QueryContext(ctx, query,
		domain.AssignmentStatusExpired, at, domain.AssignmentStatusPending, asOf)
	if err != nil {
		return nil, storeErr("assignment.ExpirePending", "assignment request", 0, err)
	}
	defer rows.Close()

	var expired []domain.CarAssignmentRequest
	for rows.Next() {
		var a domain.CarAssignmentRequest
		if err := scanAssignment(rows, &a); err != nil {
			return nil, storeErr("assignment.ExpirePending", "assignment request", 0, err)
		}
		expired = append(expired, a)
	}
	return expired, rows.Err()
}

func (r *assignmentRepository) ListByDriver(ctx context.Context, driverID int32, status string, page, pageSize int32) ([]domain.CarAssignmentRequest, int32, error) {
	return r.list(ctx, "driver_id", driverID, status, page, pageSize)
}

func (r *assignmentRepository) ListByOwner(ctx context.Context, ownerID int32, status string, page, pageSize int32) ([]domain.CarAssignmentRequest, int32, error) {
	return r.list(ctx, "owner_id", ownerID, status, page, pageSize)
}

func (r *assignmentRepository) list(ctx context.Context, column string, id int32, status string, page, pageSize int32) ([]domain.CarAssignmentRequest, int32, error) {
	base := fmt.Sprintf("FROM car_assignment_requests WHERE %s = $1", column)
	args := []interface{}{id}
	argIdx := 2
	if status != "" {
		base += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, "SELECT count(*) "+base, args...).Scan(&count); err != nil {
		return nil, 0, storeErr("assignment.list", "assignment request", 0, err)
	}

	offset := (int64(page) - 1) * int64(pageSize)
	query := fmt.Sprintf("SELECT %s %s ORDER BY created_on DESC LIMIT $%d OFFSET $%d",
		assignmentColumns, base, argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, storeErr("assignment.list", "assignment request", 0, err)
	}
	defer rows.Close()

	var out []domain.CarAssignmentRequest
	for rows.Next() {
		var a domain.CarAssignmentRequest
		if err := scanAssignment(rows, &a); err != nil {
			return nil, 0, storeErr("assignment.list", "assignment request", 0, err)
		}
		out = append(out, a)
	}
	return out, count, rows.Err()
}
