package service

import (
	"context"
	"errors"
	"time"

	"fleetledger-backend/internal/domain"
	"fleetledger-backend/internal/logger"
	"fleetledger-backend/internal/repository"
)

type assignmentService struct {
	assignmentRepo repository.AssignmentRepository
	carRepo        repository.CarRepository
	userRepo       repository.UserRepository
	emailSvc       EmailService
}

func NewAssignmentService(
	assignmentRepo repository.AssignmentRepository,
	carRepo repository.CarRepository,
	userRepo repository.UserRepository,
	emailSvc EmailService,
) AssignmentService {
	return &assignmentService{
		assignmentRepo: assignmentRepo,
		carRepo:        carRepo,
		userRepo:       userRepo,
		emailSvc:       emailSvc,
	}
}

// RequestCar collapses repeated requests for the same car into one mutable
// pending row. The fast path is lookup-then-branch; the partial unique index
// backs it up, so an insert that loses the race falls back to the update
// path instead of creating a second pending request.
func (s *assignmentService) RequestCar(ctx context.Context, driverID, carID int32, params AssignmentParams) (*domain.CarAssignmentRequest, error) {
	if err := validateAssignmentParams(params); err != nil {
		return nil, err
	}

	car, err := s.carRepo.GetByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	if car.Status == domain.CarStatusRetired {
		return nil, &domain.InvalidStateError{
			Entity: "car", ID: carID,
			Current: string(car.Status), Attempted: "request assignment",
		}
	}

	existing, err := s.assignmentRepo.GetPending(ctx, carID, driverID)
	if err == nil {
		return s.updatePending(ctx, existing, params)
	}
	if !domain.IsNotFound(err) {
		return nil, err
	}

	req := &domain.CarAssignmentRequest{
		CarID:              carID,
		DriverID:           driverID,
		OwnerID:            car.OwnerID,
		AvailableStartDate: params.AvailableStartDate,
		AvailableEndDate:   params.AvailableEndDate,
		MaxHoursPerWeek:    params.MaxHoursPerWeek,
		DriverNotes:        params.DriverNotes,
		Status:             domain.AssignmentStatusPending,
	}
	err = s.assignmentRepo.Create(ctx, req)
	if errors.Is(err, repository.ErrDuplicatePending) {
		// Lost the insert race; the pending row now exists, update it.
		existing, err := s.assignmentRepo.GetPending(ctx, carID, driverID)
		if err != nil {
			return nil, err
		}
		return s.updatePending(ctx, existing, params)
	}
	if err != nil {
		return nil, err
	}

	s.notifyRequested(ctx, req, car)
	return req, nil
}

func (s *assignmentService) updatePending(ctx context.Context, req *domain.CarAssignmentRequest, params AssignmentParams) (*domain.CarAssignmentRequest, error) {
	req.AvailableStartDate = params.AvailableStartDate
	req.AvailableEndDate = params.AvailableEndDate
	req.MaxHoursPerWeek = params.MaxHoursPerWeek
	req.DriverNotes = params.DriverNotes

	n, err := s.assignmentRepo.UpdatePending(ctx, req)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// Decided, withdrawn or expired between our read and write.
		return nil, &domain.ConflictError{Entity: "assignment request", ID: req.ID, Attempted: "update"}
	}
	return req, nil
}

func (s *assignmentService) Approve(ctx context.Context, ownerID, requestID int32) (*domain.CarAssignmentRequest, error) {
	return s.decide(ctx, ownerID, requestID, domain.AssignmentStatusApproved, "")
}

func (s *assignmentService) Reject(ctx context.Context, ownerID, requestID int32, reason string) (*domain.CarAssignmentRequest, error) {
	return s.decide(ctx, ownerID, requestID, domain.AssignmentStatusRejected, reason)
}

// decide applies an owner decision. Approval does not touch the car's
// driver; callers follow up with AssignDriver explicitly.
func (s *assignmentService) decide(ctx context.Context, ownerID, requestID int32, to domain.AssignmentStatus, reason string) (*domain.CarAssignmentRequest, error) {
	req, err := s.assignmentRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.OwnerID != ownerID {
		return nil, domain.ErrUnauthorized
	}
	if !req.Status.CanTransitionTo(to) {
		return nil, &domain.InvalidStateError{
			Entity: "assignment request", ID: requestID,
			Current: string(req.Status), Attempted: string(to),
		}
	}

	now := time.Now()
	n, err := s.assignmentRepo.Decide(ctx, requestID, ownerID, to, reason, now)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, &domain.ConflictError{Entity: "assignment request", ID: requestID, Attempted: string(to)}
	}
	req.Status = to
	req.ReviewedAt = &now
	req.ReviewedBy = &ownerID
	req.RejectionReason = reason

	s.notifyDecided(ctx, req)
	return req, nil
}

func (s *assignmentService) Withdraw(ctx context.Context, driverID, requestID int32) (*domain.CarAssignmentRequest, error) {
	req, err := s.assignmentRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.DriverID != driverID {
		return nil, domain.ErrUnauthorized
	}
	if !req.Status.CanTransitionTo(domain.AssignmentStatusWithdrawn) {
		return nil, &domain.InvalidStateError{
			Entity: "assignment request", ID: requestID,
			Current: string(req.Status), Attempted: "withdraw",
		}
	}

	now := time.Now()
	n, err := s.assignmentRepo.Withdraw(ctx, requestID, now)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, &domain.ConflictError{Entity: "assignment request", ID: requestID, Attempted: "withdraw"}
	}
	req.Status = domain.AssignmentStatusWithdrawn
	return req, nil
}

// ExpireRequests sweeps pending requests whose availability window has
// closed. Idempotent: the PENDING guard in the store skips rows any other
// actor already moved.
func (s *assignmentService) ExpireRequests(ctx context.Context) ([]domain.CarAssignmentRequest, error) {
	now := time.Now()
	return s.assignmentRepo.ExpirePending(ctx, now.Format(dateLayout), now)
}

// AssignDriver is the explicit follow-up to an approval. Re-assigning the
// current driver is a no-op; replacing a driver stamps the outgoing
// assignment's unassigned_at inside the store transaction.
func (s *assignmentService) AssignDriver(ctx context.Context, ownerID, carID, driverID int32) (*domain.Car, error) {
	car, err := s.carRepo.GetByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	if car.OwnerID != ownerID {
		return nil, domain.ErrUnauthorized
	}
	if car.Status == domain.CarStatusRetired {
		return nil, &domain.InvalidStateError{
			Entity: "car", ID: carID,
			Current: string(car.Status), Attempted: "assign driver",
		}
	}

	driver, err := s.userRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if driver.Role != domain.UserRoleDriver {
		return nil, &domain.ValidationError{Field: "driver_id", Message: "user is not a driver"}
	}

	if car.DriverID != nil && *car.DriverID == driverID {
		return car, nil
	}

	if err := s.carRepo.AssignDriver(ctx, carID, driverID, time.Now()); err != nil {
		return nil, err
	}
	car.DriverID = &driverID
	car.Status = domain.CarStatusAssigned
	return car, nil
}

func (s *assignmentService) Get(ctx context.Context, userID, requestID int32) (*domain.CarAssignmentRequest, error) {
	req, err := s.assignmentRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.DriverID != userID && req.OwnerID != userID {
		return nil, domain.ErrUnauthorized
	}
	return req, nil
}

func (s *assignmentService) ListByDriver(ctx context.Context, driverID int32, status string, page, pageSize int32) ([]domain.CarAssignmentRequest, int32, error) {
	return s.assignmentRepo.ListByDriver(ctx, driverID, status, page, pageSize)
}

func (s *assignmentService) ListByOwner(ctx context.Context, ownerID int32, status string, page, pageSize int32) ([]domain.CarAssignmentRequest, int32, error) {
	return s.assignmentRepo.ListByOwner(ctx, ownerID, status, page, pageSize)
}

func validateAssignmentParams(params AssignmentParams) error {
	if err := validDate("available_start_date", params.AvailableStartDate); err != nil {
		return err
	}
	if params.AvailableEndDate != nil {
		if err := validDate("available_end_date", *params.AvailableEndDate); err != nil {
			return err
		}
		if *params.AvailableEndDate < params.AvailableStartDate {
			return &domain.ValidationError{Field: "available_end_date", Message: "must not precede available_start_date"}
		}
	}
	if params.MaxHoursPerWeek < 0 {
		return &domain.ValidationError{Field: "max_hours_per_week", Message: "must not be negative"}
	}
	return nil
}

func (s *assignmentService) notifyRequested(ctx context.Context, req *domain.CarAssignmentRequest, car *domain.Car) {
	owner, _ := s.userRepo.GetByID(ctx, req.OwnerID)
	driver, _ := s.userRepo.GetByID(ctx, req.DriverID)
	if owner == nil || driver == nil {
		return
	}
	if err := s.emailSvc.SendAssignmentRequestNotification(ctx, owner.Email, owner.Name, driver.Name, car.LicensePlate); err != nil {
		logger.Warn("Failed to send assignment request notification", "request_id", req.ID, "error", err)
	}
}

func (s *assignmentService) notifyDecided(ctx context.Context, req *domain.CarAssignmentRequest) {
	driver, _ := s.userRepo.GetByID(ctx, req.DriverID)
	car, _ := s.carRepo.GetByID(ctx, req.CarID)
	if driver == nil || car == nil {
		return
	}
	decision := "approved"
	if req.Status == domain.AssignmentStatusRejected {
		decision = "rejected"
	}
	if err := s.emailSvc.SendAssignmentDecisionNotification(ctx, driver.Email, driver.Name, car.LicensePlate, decision, req.RejectionReason); err != nil {
		logger.Warn("Failed to send assignment decision notification", "request_id", req.ID, "error", err)
	}
}
