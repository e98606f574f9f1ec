package service_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"fleetledger-backend/internal/domain"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockCarRepo
type MockCarRepo struct {
	mock.Mock
}

func (m *MockCarRepo) Create(ctx context.Context, car *domain.Car) error {
	args := m.Called(ctx, car)
	return args.Error(0)
}
func (m *MockCarRepo) GetByID(ctx context.Context, id int32) (*domain.Car, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Car), args.Error(1)
}
func (m *MockCarRepo) Update(ctx context.Context, car *domain.Car) error {
	args := m.Called(ctx, car)
	return args.Error(0)
}
func (m *MockCarRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockCarRepo) ListByOwner(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Car, int32, error) {
	args := m.Called(ctx, ownerID, page, pageSize)
	return args.Get(0).([]domain.Car), args.Get(1).(int32), args.Error(2)
}
func (m *MockCarRepo) ListByDriver(ctx context.Context, driverID int32) ([]domain.Car, error) {
	args := m.Called(ctx, driverID)
	return args.Get(0).([]domain.Car), args.Error(1)
}
func (m *MockCarRepo) AssignDriver(ctx context.Context, carID, driverID int32, at time.Time) error {
	args := m.Called(ctx, carID, driverID, at)
	return args.Error(0)
}
func (m *MockCarRepo) GetOpenAssignment(ctx context.Context, carID int32) (*domain.CarAssignment, error) {
	args := m.Called(ctx, carID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CarAssignment), args.Error(1)
}
func (m *MockCarRepo) ListAssignments(ctx context.Context, carID int32) ([]domain.CarAssignment, error) {
	args := m.Called(ctx, carID)
	return args.Get(0).([]domain.CarAssignment), args.Error(1)
}

// MockReportRepo
type MockReportRepo struct {
	mock.Mock
}

func (m *MockReportRepo) Create(ctx context.Context, report *domain.WeeklyReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}
func (m *MockReportRepo) GetByID(ctx context.Context, id int32) (*domain.WeeklyReport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WeeklyReport), args.Error(1)
}
func (m *MockReportRepo) UpdateDraft(ctx context.Context, report *domain.WeeklyReport) (int64, error) {
	args := m.Called(ctx, report)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockReportRepo) DeleteDraft(ctx context.Context, id int32) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockReportRepo) Submit(ctx context.Context, id int32, at time.Time) (int64, error) {
	args := m.Called(ctx, id, at)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockReportRepo) Approve(ctx context.Context, id, approverID int32, at time.Time) (int64, error) {
	args := m.Called(ctx, id, approverID, at)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockReportRepo) Reject(ctx context.Context, id, rejecterID int32, reason string, at time.Time) (int64, error) {
	args := m.Called(ctx, id, rejecterID, reason, at)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockReportRepo) ListByCar(ctx context.Context, carID int32) ([]domain.WeeklyReport, error) {
	args := m.Called(ctx, carID)
	return args.Get(0).([]domain.WeeklyReport), args.Error(1)
}
func (m *MockReportRepo) ListByDriver(ctx context.Context, driverID int32, status string, page, pageSize int32) ([]domain.WeeklyReport, int32, error) {
	args := m.Called(ctx, driverID, status, page, pageSize)
	return args.Get(0).([]domain.WeeklyReport), args.Get(1).(int32), args.Error(2)
}
func (m *MockReportRepo) ListApproved(ctx context.Context, carID, driverID int32) ([]domain.WeeklyReport, error) {
	args := m.Called(ctx, carID, driverID)
	return args.Get(0).([]domain.WeeklyReport), args.Error(1)
}
func (m *MockReportRepo) CreateIncomeSource(ctx context.Context, src *domain.IncomeSource) error {
	args := m.Called(ctx, src)
	return args.Error(0)
}
func (m *MockReportRepo) ListIncomeSources(ctx context.Context, reportID int32) ([]domain.IncomeSource, error) {
	args := m.Called(ctx, reportID)
	return args.Get(0).([]domain.IncomeSource), args.Error(1)
}
func (m *MockReportRepo) DeleteIncomeSource(ctx context.Context, id, reportID int32) (int64, error) {
	args := m.Called(ctx, id, reportID)
	return args.Get(0).(int64), args.Error(1)
}

// MockAssignmentRepo
type MockAssignmentRepo struct {
	mock.Mock
}

func (m *MockAssignmentRepo) Create(ctx context.Context, req *domain.CarAssignmentRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
func (m *MockAssignmentRepo) GetByID(ctx context.Context, id int32) (*domain.CarAssignmentRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CarAssignmentRequest), args.Error(1)
}
func (m *MockAssignmentRepo) GetPending(ctx context.Context, carID, driverID int32) (*domain.CarAssignmentRequest, error) {
	args := m.Called(ctx, carID, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CarAssignmentRequest), args.Error(1)
}
func (m *MockAssignmentRepo) UpdatePending(ctx context.Context, req *domain.CarAssignmentRequest) (int64, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockAssignmentRepo) Decide(ctx context.Context, id, reviewerID int32, to domain.AssignmentStatus, reason string, at time.Time) (int64, error) {
	args := m.Called(ctx, id, reviewerID, to, reason, at)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockAssignmentRepo) Withdraw(ctx context.Context, id int32, at time.Time) (int64, error) {
	args := m.Called(ctx, id, at)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockAssignmentRepo) ExpirePending(ctx context.Context, asOf string, at time.Time) ([]domain.CarAssignmentRequest, error) {
	args := m.Called(ctx, asOf, at)
	return args.Get(0).([]domain.CarAssignmentRequest), args.Error(1)
}
func (m *MockAssignmentRepo) ListByDriver(ctx context.Context, driverID int32, status string, page, pageSize int32) ([]domain.CarAssignmentRequest, int32, error) {
	args := m.Called(ctx, driverID, status, page, pageSize)
	return args.Get(0).([]domain.CarAssignmentRequest), args.Get(1).(int32), args.Error(2)
}
func (m *MockAssignmentRepo) ListByOwner(ctx context.Context, ownerID int32, status string, page, pageSize int32) ([]domain.CarAssignmentRequest, int32, error) {
	args := m.Called(ctx, ownerID, status, page, pageSize)
	return args.Get(0).([]domain.CarAssignmentRequest), args.Get(1).(int32), args.Error(2)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendReportSubmittedNotification(ctx context.Context, to, toName, driverName, plate, weekStart string) error {
	args := m.Called(ctx, to, toName, driverName, plate, weekStart)
	return args.Error(0)
}
func (m *MockEmailService) SendReportDecisionNotification(ctx context.Context, to, toName, plate, weekStart, decision, reason string) error {
	args := m.Called(ctx, to, toName, plate, weekStart, decision, reason)
	return args.Error(0)
}
func (m *MockEmailService) SendAssignmentRequestNotification(ctx context.Context, to, toName, driverName, plate string) error {
	args := m.Called(ctx, to, toName, driverName, plate)
	return args.Error(0)
}
func (m *MockEmailService) SendAssignmentDecisionNotification(ctx context.Context, to, toName, plate, decision, reason string) error {
	args := m.Called(ctx, to, toName, plate, decision, reason)
	return args.Error(0)
}
