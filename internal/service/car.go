package service

import (
	"context"

	"fleetledger-backend/internal/domain"
	"fleetledger-backend/internal/repository"
)

type carService struct {
	carRepo repository.CarRepository
}

func NewCarService(carRepo repository.CarRepository) CarService {
	return &carService{carRepo: carRepo}
}

func (s *carService) AddCar(ctx context.Context, ownerID int32, car *domain.Car) error {
	if car.LicensePlate == "" {
		return &domain.ValidationError{Field: "license_plate", Message: "required"}
	}
	if car.InitialMileage < 0 {
		return &domain.ValidationError{Field: "initial_mileage", Message: "must not be negative"}
	}

	car.OwnerID = ownerID
	car.DriverID = nil
	car.CurrentMileage = car.InitialMileage
	car.Status = domain.CarStatusAvailable
	return s.carRepo.Create(ctx, car)
}

func (s *carService) GetCar(ctx context.Context, id int32) (*domain.Car, error) {
	return s.carRepo.GetByID(ctx, id)
}

func (s *carService) UpdateCar(ctx context.Context, ownerID int32, car *domain.Car) error {
	existing, err := s.carRepo.GetByID(ctx, car.ID)
	if err != nil {
		return err
	}
	if existing.OwnerID != ownerID {
		return domain.ErrUnauthorized
	}
	if car.LicensePlate == "" {
		return &domain.ValidationError{Field: "license_plate", Message: "required"}
	}
	return s.carRepo.Update(ctx, car)
}

func (s *carService) DeleteCar(ctx context.Context, ownerID, carID int32) error {
	existing, err := s.carRepo.GetByID(ctx, carID)
	if err != nil {
		return err
	}
	if existing.OwnerID != ownerID {
		return domain.ErrUnauthorized
	}
	return s.carRepo.Delete(ctx, carID)
}

func (s *carService) ListMyCars(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Car, int32, error) {
	return s.carRepo.ListByOwner(ctx, ownerID, page, pageSize)
}

func (s *carService) AssignmentHistory(ctx context.Context, ownerID, carID int32) ([]domain.CarAssignment, error) {
	car, err := s.carRepo.GetByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	if car.OwnerID != ownerID {
		return nil, domain.ErrUnauthorized
	}
	return s.carRepo.ListAssignments(ctx, carID)
}
