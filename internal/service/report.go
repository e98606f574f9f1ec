package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"fleetledger-backend/internal/domain"
	"fleetledger-backend/internal/logger"
	"fleetledger-backend/internal/mileage"
	"fleetledger-backend/internal/repository"
)

type reportService struct {
	reportRepo repository.ReportRepository
	carRepo    repository.CarRepository
	userRepo   repository.UserRepository
	emailSvc   EmailService
}

func NewReportService(
	reportRepo repository.ReportRepository,
	carRepo repository.CarRepository,
	userRepo repository.UserRepository,
	emailSvc EmailService,
) ReportService {
	return &reportService{
		reportRepo: reportRepo,
		carRepo:    carRepo,
		userRepo:   userRepo,
		emailSvc:   emailSvc,
	}
}

func (s *reportService) CreateDraft(ctx context.Context, driverID, carID int32, weekStart, weekEnd, currency string) (*domain.WeeklyReport, error) {
	if err := validDate("week_start_date", weekStart); err != nil {
		return nil, err
	}
	if err := validDate("week_end_date", weekEnd); err != nil {
		return nil, err
	}
	if weekEnd < weekStart {
		return nil, &domain.ValidationError{Field: "week_end_date", Message: "must not precede week_start_date"}
	}
	if currency == "" {
		currency = "USD"
	}

	car, err := s.carRepo.GetByID(ctx, carID)
	if err != nil {
		return nil, err
	}

	// Every existing report of this car, drafts included, reserves its
	// odometer range; deleted drafts have already left the set.
	prior, err := s.reportRepo.ListByCar(ctx, car.ID)
	if err != nil {
		return nil, err
	}
	bounds := mileage.ResolveBounds(car.InitialMileage, prior)

	report := &domain.WeeklyReport{
		CarID:               car.ID,
		DriverID:            driverID,
		WeekStartDate:       weekStart,
		WeekEndDate:         weekEnd,
		StartMileage:        bounds.StartMileage,
		EndMileage:          bounds.EndMileage,
		DriverEarnings:      decimal.Zero,
		MaintenanceExpenses: decimal.Zero,
		GasExpense:          decimal.Zero,
		RideShareIncome:     decimal.Zero,
		RentalIncome:        decimal.Zero,
		TaxiIncome:          decimal.Zero,
		Currency:            currency,
		Status:              domain.ReportStatusDraft,
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *reportService) UpdateDraft(ctx context.Context, driverID, reportID int32, upd ReportUpdate) (*domain.WeeklyReport, error) {
	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.DriverID != driverID {
		return nil, domain.ErrUnauthorized
	}
	if report.Status != domain.ReportStatusDraft {
		return nil, &domain.InvalidStateError{
			Entity: "report", ID: reportID,
			Current: string(report.Status), Attempted: "update",
		}
	}

	applyReportUpdate(report, upd)
	if err := validateReportFields(report); err != nil {
		return nil, err
	}

	n, err := s.reportRepo.UpdateDraft(ctx, report)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, &domain.ConflictError{Entity: "report", ID: reportID, Attempted: "update"}
	}
	return report, nil
}

func (s *reportService) Submit(ctx context.Context, driverID, reportID int32) (*domain.WeeklyReport, error) {
	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.DriverID != driverID {
		return nil, domain.ErrUnauthorized
	}
	if !report.Status.CanTransitionTo(domain.ReportStatusSubmitted) {
		return nil, &domain.InvalidStateError{
			Entity: "report", ID: reportID,
			Current: string(report.Status), Attempted: "submit",
		}
	}

	if !report.HasRecordedIncome() {
		sources, err := s.reportRepo.ListIncomeSources(ctx, reportID)
		if err != nil {
			return nil, err
		}
		itemized := false
		for i := range sources {
			if sources[i].Amount.IsPositive() {
				itemized = true
				break
			}
		}
		if !itemized {
			return nil, &domain.ValidationError{
				Field:   "income",
				Message: "a report with no recorded income may not be submitted",
			}
		}
	}

	now := time.Now()
	n, err := s.reportRepo.Submit(ctx, reportID, now)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, &domain.ConflictError{Entity: "report", ID: reportID, Attempted: "submit"}
	}
	report.Status = domain.ReportStatusSubmitted
	report.SubmittedAt = &now

	s.notifySubmitted(ctx, report)
	return report, nil
}

func (s *reportService) Approve(ctx context.Context, approverID, reportID int32) (*domain.WeeklyReport, error) {
	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	car, err := s.carRepo.GetByID(ctx, report.CarID)
	if err != nil {
		return nil, err
	}
	if car.OwnerID != approverID {
		return nil, domain.ErrUnauthorized
	}
	if !report.Status.CanTransitionTo(domain.ReportStatusApproved) {
		return nil, &domain.InvalidStateError{
			Entity: "report", ID: reportID,
			Current: string(report.Status), Attempted: "approve",
		}
	}

	now := time.Now()
	n, err := s.reportRepo.Approve(ctx, reportID, approverID, now)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, &domain.ConflictError{Entity: "report", ID: reportID, Attempted: "approve"}
	}
	report.Status = domain.ReportStatusApproved
	report.ApprovedAt = &now
	report.ApprovedBy = &approverID

	s.notifyDecision(ctx, report, car, "approved", "")
	return report, nil
}

func (s *reportService) Reject(ctx context.Context, rejecterID, reportID int32, reason string) (*domain.WeeklyReport, error) {
	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	car, err := s.carRepo.GetByID(ctx, report.CarID)
	if err != nil {
		return nil, err
	}
	if car.OwnerID != rejecterID {
		return nil, domain.ErrUnauthorized
	}
	if !report.Status.CanTransitionTo(domain.ReportStatusRejected) {
		return nil, &domain.InvalidStateError{
			Entity: "report", ID: reportID,
			Current: string(report.Status), Attempted: "reject",
		}
	}

	now := time.Now()
	n, err := s.reportRepo.Reject(ctx, reportID, rejecterID, reason, now)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, &domain.ConflictError{Entity: "report", ID: reportID, Attempted: "reject"}
	}
	report.Status = domain.ReportStatusRejected
	report.RejectedAt = &now
	report.RejectedBy = &rejecterID
	report.RejectionReason = reason

	s.notifyDecision(ctx, report, car, "rejected", reason)
	return report, nil
}

func (s *reportService) DeleteDraft(ctx context.Context, driverID, reportID int32) error {
	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return err
	}
	if report.DriverID != driverID {
		return domain.ErrUnauthorized
	}
	if report.Status != domain.ReportStatusDraft {
		return &domain.InvalidStateError{
			Entity: "report", ID: reportID,
			Current: string(report.Status), Attempted: "delete",
		}
	}

	n, err := s.reportRepo.DeleteDraft(ctx, reportID)
	if err != nil {
		return err
	}
	if n == 0 {
		return &domain.ConflictError{Entity: "report", ID: reportID, Attempted: "delete"}
	}
	return nil
}

func (s *reportService) Get(ctx context.Context, userID, reportID int32) (*domain.WeeklyReport, []domain.IncomeSource, error) {
	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, nil, err
	}
	if report.DriverID != userID {
		car, err := s.carRepo.GetByID(ctx, report.CarID)
		if err != nil {
			return nil, nil, err
		}
		if car.OwnerID != userID {
			return nil, nil, domain.ErrUnauthorized
		}
	}
	sources, err := s.reportRepo.ListIncomeSources(ctx, reportID)
	if err != nil {
		return nil, nil, err
	}
	return report, sources, nil
}

func (s *reportService) ListByDriver(ctx context.Context, driverID int32, status string, page, pageSize int32) ([]domain.WeeklyReport, int32, error) {
	return s.reportRepo.ListByDriver(ctx, driverID, status, page, pageSize)
}

func (s *reportService) ListByCar(ctx context.Context, ownerID, carID int32) ([]domain.WeeklyReport, error) {
	car, err := s.carRepo.GetByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	if car.OwnerID != ownerID {
		return nil, domain.ErrUnauthorized
	}
	return s.reportRepo.ListByCar(ctx, carID)
}

func (s *reportService) AddIncomeSource(ctx context.Context, driverID, reportID int32, sourceType domain.IncomeSourceType, amount decimal.Decimal) (*domain.IncomeSource, error) {
	if sourceType != domain.IncomeSourceRentals && sourceType != domain.IncomeSourceRideShare {
		return nil, &domain.ValidationError{Field: "source_type", Message: "must be RENTALS or RIDE_SHARE"}
	}
	if amount.IsNegative() {
		return nil, &domain.ValidationError{Field: "amount", Message: "must not be negative"}
	}

	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.DriverID != driverID {
		return nil, domain.ErrUnauthorized
	}
	if report.Status != domain.ReportStatusDraft {
		return nil, &domain.InvalidStateError{
			Entity: "report", ID: reportID,
			Current: string(report.Status), Attempted: "add income source",
		}
	}

	src := &domain.IncomeSource{ReportID: reportID, SourceType: sourceType, Amount: amount}
	if err := s.reportRepo.CreateIncomeSource(ctx, src); err != nil {
		return nil, err
	}
	return src, nil
}

func (s *reportService) RemoveIncomeSource(ctx context.Context, driverID, reportID, sourceID int32) error {
	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return err
	}
	if report.DriverID != driverID {
		return domain.ErrUnauthorized
	}
	if report.Status != domain.ReportStatusDraft {
		return &domain.InvalidStateError{
			Entity: "report", ID: reportID,
			Current: string(report.Status), Attempted: "remove income source",
		}
	}

	n, err := s.reportRepo.DeleteIncomeSource(ctx, sourceID, reportID)
	if err != nil {
		return err
	}
	if n == 0 {
		return &domain.NotFoundError{Entity: "income source", ID: sourceID}
	}
	return nil
}

func applyReportUpdate(report *domain.WeeklyReport, upd ReportUpdate) {
	if upd.WeekStartDate != nil {
		report.WeekStartDate = *upd.WeekStartDate
	}
	if upd.WeekEndDate != nil {
		report.WeekEndDate = *upd.WeekEndDate
	}
	if upd.EndMileage != nil {
		report.EndMileage = *upd.EndMileage
	}
	if upd.DriverEarnings != nil {
		report.DriverEarnings = *upd.DriverEarnings
	}
	if upd.MaintenanceExpenses != nil {
		report.MaintenanceExpenses = *upd.MaintenanceExpenses
	}
	if upd.GasExpense != nil {
		report.GasExpense = *upd.GasExpense
	}
	if upd.RideShareIncome != nil {
		report.RideShareIncome = *upd.RideShareIncome
	}
	if upd.RentalIncome != nil {
		report.RentalIncome = *upd.RentalIncome
	}
	if upd.TaxiIncome != nil {
		report.TaxiIncome = *upd.TaxiIncome
	}
	if upd.Currency != nil {
		report.Currency = *upd.Currency
	}
}

func validateReportFields(report *domain.WeeklyReport) error {
	if err := validDate("week_start_date", report.WeekStartDate); err != nil {
		return err
	}
	if err := validDate("week_end_date", report.WeekEndDate); err != nil {
		return err
	}
	if report.WeekEndDate < report.WeekStartDate {
		return &domain.ValidationError{Field: "week_end_date", Message: "must not precede week_start_date"}
	}
	if report.EndMileage < report.StartMileage {
		return &domain.ValidationError{Field: "end_mileage", Message: "must not be below start_mileage"}
	}
	money := []struct {
		field string
		value decimal.Decimal
	}{
		{"driver_earnings", report.DriverEarnings},
		{"maintenance_expenses", report.MaintenanceExpenses},
		{"gas_expense", report.GasExpense},
		{"ride_share_income", report.RideShareIncome},
		{"rental_income", report.RentalIncome},
		{"taxi_income", report.TaxiIncome},
	}
	for _, m := range money {
		if m.value.IsNegative() {
			return &domain.ValidationError{Field: m.field, Message: "must not be negative"}
		}
	}
	return nil
}

// Notifications are best effort: a lost email never unwinds a transition.
func (s *reportService) notifySubmitted(ctx context.Context, report *domain.WeeklyReport) {
	car, err := s.carRepo.GetByID(ctx, report.CarID)
	if err != nil {
		return
	}
	owner, _ := s.userRepo.GetByID(ctx, car.OwnerID)
	driver, _ := s.userRepo.GetByID(ctx, report.DriverID)
	if owner == nil || driver == nil {
		return
	}
	if err := s.emailSvc.SendReportSubmittedNotification(ctx, owner.Email, owner.Name, driver.Name, car.LicensePlate, report.WeekStartDate); err != nil {
		logger.Warn("Failed to send report submitted notification", "report_id", report.ID, "error", err)
	}
}

func (s *reportService) notifyDecision(ctx context.Context, report *domain.WeeklyReport, car *domain.Car, decision, reason string) {
	driver, _ := s.userRepo.GetByID(ctx, report.DriverID)
	if driver == nil {
		return
	}
	if err := s.emailSvc.SendReportDecisionNotification(ctx, driver.Email, driver.Name, car.LicensePlate, report.WeekStartDate, decision, reason); err != nil {
		logger.Warn("Failed to send report decision notification", "report_id", report.ID, "error", err)
	}
}
