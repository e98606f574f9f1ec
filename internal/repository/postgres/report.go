package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fleetledger-backend/internal/domain"
	"fleetledger-backend/internal/repository"
)

type reportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) repository.ReportRepository {
	return &reportRepository{db: db}
}

const reportColumns = `id, car_id, driver_id, week_start_date, week_end_date,
	start_mileage, end_mileage, driver_earnings, maintenance_expenses, gas_expense,
	ride_share_income, rental_income, taxi_income, currency, status,
	submitted_at, approved_at, approved_by, rejected_at, rejected_by, rejection_reason,
	created_on, updated_on`

func scanReport(row interface{ Scan(...any) error }, rp *domain.WeeklyReport) error {
	var weekStart, weekEnd time.Time
	err := row.Scan(&rp.ID, &rp.CarID, &rp.DriverID, &weekStart, &weekEnd,
		&rp.StartMileage, &rp.EndMileage, &rp.DriverEarnings, &rp.MaintenanceExpenses,
		&rp.GasExpense, &rp.RideShareIncome, &rp.RentalIncome, &rp.TaxiIncome,
		&rp.Currency, &rp.Status, &rp.SubmittedAt, &rp.ApprovedAt, &rp.ApprovedBy,
		&rp.RejectedAt, &rp.RejectedBy, &rp.RejectionReason, &rp.CreatedOn, &rp.UpdatedOn)
	if err != nil {
		return err
	}
	rp.WeekStartDate = weekStart.Format(dateLayout)
	rp.WeekEndDate = weekEnd.Format(dateLayout)
	return nil
}

func (r *reportRepository) Create(ctx context.Context, rp *domain.WeeklyReport) error {
	query := `INSERT INTO weekly_reports (car_id, driver_id, week_start_date, week_end_date,
	          start_mileage, end_mileage, driver_earnings, maintenance_expenses, gas_expense,
	          ride_share_income, rental_income, taxi_income, currency, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	          RETURNING id`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query, rp.CarID, rp.DriverID, rp.WeekStartDate, rp.WeekEndDate,
		rp.StartMileage, rp.EndMileage, rp.DriverEarnings, rp.MaintenanceExpenses, rp.GasExpense,
		rp.RideShareIncome, rp.RentalIncome, rp.TaxiIncome, rp.Currency, rp.Status, now, now).Scan(&rp.ID)
	if err != nil {
		return storeErr("report.Create", "report", 0, err)
	}
	rp.CreatedOn = now
	rp.UpdatedOn = now
	return nil
}

func (r *reportRepository) GetByID(ctx context.Context, id int32) (*domain.WeeklyReport, error) {
	rp := &domain.WeeklyReport{}
	query := `SELECT ` + reportColumns + ` FROM weekly_reports WHERE id = $1`
	if err := scanReport(r.db.QueryRowContext(ctx, query, id), rp); err != nil {
		return nil, storeErr("report.GetByID", "report", id, err)
	}
	return rp, nil
}

func (r *reportRepository) UpdateDraft(ctx context.Context, rp *domain.WeeklyReport) (int64, error) {
	query := `UPDATE weekly_reports SET week_start_date=$1, week_end_date=$2, end_mileage=$3,
	          driver_earnings=$4, maintenance_expenses=$5, gas_expense=$6,
	          ride_share_income=$7, rental_income=$8, taxi_income=$9, currency=$10, updated_on=$11
	          WHERE id=$12 AND status=$13`
	res, err := r.db.ExecContext(ctx, query, rp.WeekStartDate, rp.WeekEndDate, rp.EndMileage,
		rp.DriverEarnings, rp.MaintenanceExpenses, rp.GasExpense,
		rp.RideShareIncome, rp.RentalIncome, rp.TaxiIncome, rp.Currency, time.Now(),
		rp.ID, domain.ReportStatusDraft)
	if err != nil {
		return 0, storeErr("report.UpdateDraft", "report", rp.ID, err)
	}
	return res.RowsAffected()
}

func (r *reportRepository) DeleteDraft(ctx context.Context, id int32) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM weekly_reports WHERE id = $1 AND status = $2`, id, domain.ReportStatusDraft)
	if err != nil {
		return 0, storeErr("report.DeleteDraft", "report", id, err)
	}
	return res.RowsAffected()
}

func (r *reportRepository) Submit(ctx context.Context, id int32, at time.Time) (int64, error) {
	query := `UPDATE weekly_reports SET status=$1, submitted_at=$2, updated_on=$2
	          WHERE id=$3 AND status=$4`
	res, err := r.db.ExecContext(ctx, query,
		domain.ReportStatusSubmitted, at, id, domain.ReportStatusDraft)
	if err != nil {
		return 0, storeErr("report.Submit", "report", id, err)
	}
	return res.RowsAffected()
}

// Approve is the one transition with a side effect: the winning update also
// rolls the car's cached current_mileage forward, inside the same
// transaction. The GREATEST guard keeps the cache monotonic.
func (r *reportRepository) Approve(ctx context.Context, id, approverID int32, at time.Time) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, storeErr("report.Approve", "report", id, err)
	}
	defer tx.Rollback()

	var carID, endMileage int32
	query := `UPDATE weekly_reports SET status=$1, approved_at=$2, approved_by=$3, updated_on=$2
	          WHERE id=$4 AND status=$5 RETURNING car_id, end_mileage`
	err = tx.QueryRowContext(ctx, query,
		domain.ReportStatusApproved, at, approverID, id, domain.ReportStatusSubmitted).
		Scan(&carID, &endMileage)
	if err == sql.ErrNoRows {
		// Lost the conditional write; nothing to commit.
		return 0, nil
	}
	if err != nil {
		return 0, storeErr("report.Approve", "report", id, err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE cars SET current_mileage = GREATEST(current_mileage, $1), updated_on = $2 WHERE id = $3`,
		endMileage, at, carID)
	if err != nil {
		return 0, storeErr("report.Approve", "report", id, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, storeErr("report.Approve", "report", id, err)
	}
	return 1, nil
}

func (r *reportRepository) Reject(ctx context.Context, id, rejecterID int32, reason string, at time.Time) (int64, error) {
	query := `UPDATE weekly_reports SET status=$1, rejected_at=$2, rejected_by=$3, rejection_reason=$4, updated_on=$2
	          WHERE id=$5 AND status=$6`
	res, err := r.db.ExecContext(ctx, query,
		domain.ReportStatusRejected, at, rejecterID, reason, id, domain.ReportStatusSubmitted)
	if err != nil {
		return 0, storeErr("report.Reject", "report", id, err)
	}
	return res.RowsAffected()
}

func (r *reportRepository) ListByCar(ctx context.Context, carID int32) ([]domain.WeeklyReport, error) {
	query := `SELECT ` + reportColumns + ` FROM weekly_reports WHERE car_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, carID)
	if err != nil {
		return nil, storeErr("report.ListByCar", "report", 0, err)
	}
	defer rows.Close()

	var reports []domain.WeeklyReport
	for rows.Next() {
		var rp domain.WeeklyReport
		if err := scanReport(rows, &rp); err != nil {
			return nil, storeErr("report.ListByCar", "report", 0, err)
		}
		reports = append(reports, rp)
	}
	return reports, rows.Err()
}

func (r *reportRepository) ListByDriver(ctx context.Context, driverID int32, status string, page, pageSize int32) ([]domain.WeeklyReport, int32, error) {
	base := `FROM weekly_reports WHERE driver_id = $1`
	args := []interface{}{driverID}
	argIdx := 2
	if status != "" {
		base += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, "SELECT count(*) "+base, args...).Scan(&count); err != nil {
		return nil, 0, storeErr("report.ListByDriver", "report", 0, err)
	}

	// int64 math so an adversarial page number cannot wrap into a negative
	// OFFSET.
	offset := (int64(page) - 1) * int64(pageSize)
	query := fmt.Sprintf("SELECT %s %s ORDER BY week_start_date DESC, id DESC LIMIT $%d OFFSET $%d",
		reportColumns, base, argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, storeErr("report.ListByDriver", "report", 0, err)
	}
	defer rows.Close()

	var reports []domain.WeeklyReport
	for rows.Next() {
		var rp domain.WeeklyReport
		if err := scanReport(rows, &rp); err != nil {
			return nil, 0, storeErr("report.ListByDriver", "report", 0, err)
		}
		reports = append(reports, rp)
	}
	return reports, count, rows.Err()
}

func (r *reportRepository) ListApproved(ctx context.Context, carID, driverID int32) ([]domain.WeeklyReport, error) {
	base := `FROM weekly_reports WHERE status = $1`
	args := []interface{}{domain.ReportStatusApproved}
	argIdx := 2
	if carID != 0 {
		base += fmt.Sprintf(" AND car_id = $%d", argIdx)
		args = append(args, carID)
		argIdx++
	}
	if driverID != 0 {
		base += fmt.Sprintf(" AND driver_id = $%d", argIdx)
		args = append(args, driverID)
	}

	query := fmt.Sprintf("SELECT %s %s ORDER BY week_start_date", reportColumns, base)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr("report.ListApproved", "report", 0, err)
	}
	defer rows.Close()

	var reports []domain.WeeklyReport
	for rows.Next() {
		var rp domain.WeeklyReport
		if err := scanReport(rows, &rp); err != nil {
			return nil, storeErr("report.ListApproved", "report", 0, err)
		}
		reports = append(reports, rp)
	}
	return reports, rows.Err()
}

func (r *reportRepository) CreateIncomeSource(ctx context.Context, src *domain.IncomeSource) error {
	query := `INSERT INTO income_sources (report_id, source_type, amount, created_on)
	          VALUES ($1, $2, $3, $4) RETURNING id`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query, src.ReportID, src.SourceType, src.Amount, now).Scan(&src.ID)
	if err != nil {
		return storeErr("report.CreateIncomeSource", "income source", 0, err)
	}
	src.CreatedOn = now
	return nil
}

func (r *reportRepository) ListIncomeSources(ctx context.Context, reportID int32) ([]domain.IncomeSource, error) {
	query := `SELECT id, report_id, source_type, amount, created_on
	          FROM income_sources WHERE report_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, reportID)
	if err != nil {
		return nil, storeErr("report.ListIncomeSources", "income source", 0, err)
	}
	defer rows.Close()

	var out []domain.IncomeSource
	for rows.Next() {
		var s domain.IncomeSource
		if err := rows.Scan(&s.ID, &s.ReportID, &s.SourceType, &s.Amount, &s.CreatedOn); err != nil {
			return nil, storeErr("report.ListIncomeSources", "income source", 0, err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *reportRepository) DeleteIncomeSource(ctx context.Context, id, reportID int32) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM income_sources WHERE id = $1 AND report_id = $2`, id, reportID)
	if err != nil {
		return 0, storeErr("report.DeleteIncomeSource", "income source", id, err)
	}
	return res.RowsAffected()
}
