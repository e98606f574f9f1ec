package service_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fleetledger-backend/internal/domain"
	"fleetledger-backend/internal/service"
)

func newReportService(reportRepo *MockReportRepo, carRepo *MockCarRepo, userRepo *MockUserRepo, emailSvc *MockEmailService) service.ReportService {
	return service.NewReportService(reportRepo, carRepo, userRepo, emailSvc)
}

func TestReportService_CreateDraft(t *testing.T) {
	ctx := context.Background()

	t.Run("BoundsComeFromPriorReports", func(t *testing.T) {
		reportRepo := new(MockReportRepo)
		carRepo := new(MockCarRepo)
		svc := newReportService(reportRepo, carRepo, new(MockUserRepo), new(MockEmailService))

		car := &domain.Car{ID: 7, OwnerID: 1, InitialMileage: 10000}
		carRepo.On("GetByID", ctx, int32(7)).Return(car, nil)
		reportRepo.On("ListByCar", ctx, int32(7)).Return([]domain.WeeklyReport{
			{StartMileage: 10000, EndMileage: 10150, Status: domain.ReportStatusApproved},
		}, nil)
		reportRepo.On("Create", ctx, mock.AnythingOfType("*domain.WeeklyReport")).Return(nil)

		report, err := svc.CreateDraft(ctx, 2, 7, "2026-03-09", "2026-03-15", "")
		require.NoError(t, err)

		assert.Equal(t, int32(10150), report.StartMileage)
		assert.Equal(t, int32(10151), report.EndMileage)
		assert.Equal(t, domain.ReportStatusDraft, report.Status)
		assert.Equal(t, "USD", report.Currency)
		assert.True(t, report.DriverEarnings.IsZero())
		reportRepo.AssertExpectations(t)
	})

	t.Run("FirstReportAnchorsOnInitialMileage", func(t *testing.T) {
		reportRepo := new(MockReportRepo)
		carRepo := new(MockCarRepo)
		svc := newReportService(reportRepo, carRepo, new(MockUserRepo), new(MockEmailService))

		car := &domain.Car{ID: 7, OwnerID: 1, InitialMileage: 10000}
		carRepo.On("GetByID", ctx, int32(7)).Return(car, nil)
		reportRepo.On("ListByCar", ctx, int32(7)).Return([]domain.WeeklyReport{}, nil)
		reportRepo.On("Create", ctx, mock.AnythingOfType("*domain.WeeklyReport")).Return(nil)

		report, err := svc.CreateDraft(ctx, 2, 7, "2026-03-02", "2026-03-08", "EUR")
		require.NoError(t, err)
		assert.Equal(t, int32(10000), report.StartMileage)
		assert.Equal(t, int32(10001), report.EndMileage)
		assert.Equal(t, "EUR", report.Currency)
	})

	t.Run("BadDateIsRejected", func(t *testing.T) {
		svc := newReportService(new(MockReportRepo), new(MockCarRepo), new(MockUserRepo), new(MockEmailService))

		_, err := svc.CreateDraft(ctx, 2, 7, "03/09/2026", "2026-03-15", "")
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("WeekEndBeforeStartIsRejected", func(t *testing.T) {
		svc := newReportService(new(MockReportRepo), new(MockCarRepo), new(MockUserRepo), new(MockEmailService))

		_, err := svc.CreateDraft(ctx, 2, 7, "2026-03-15", "2026-03-09", "")
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("MissingCar", func(t *testing.T) {
		reportRepo := new(MockReportRepo)
		carRepo := new(MockCarRepo)
		svc := newReportService(reportRepo, carRepo, new(MockUserRepo), new(MockEmailService))

		carRepo.On("GetByID", ctx, int32(99)).Return(nil, &domain.NotFoundError{Entity: "car", ID: 99})

		_, err := svc.CreateDraft(ctx, 2, 99, "2026-03-09", "2026-03-15", "")
		assert.True(t, domain.IsNotFound(err))
	})
}

func TestReportService_UpdateDraft(t *testing.T) {
	ctx := context.Background()

	draft := func() *domain.WeeklyReport {
		return &domain.WeeklyReport{
			ID: 5, CarID: 7, DriverID: 2,
			WeekStartDate: "2026-03-09", WeekEndDate: "2026-03-15",
			StartMileage: 10150, EndMileage: 10151,
			Status: domain.ReportStatusDraft,
		}
	}

	t.Run("Success", func(t *testing.T) {
		reportRepo := new(MockReportRepo)
		svc := newReportService(reportRepo, new(MockCarRepo), new(MockUserRepo), new(MockEmailService))

		reportRepo.On("GetByID", ctx, int32(5)).Return(draft(), nil)
		reportRepo.On("UpdateDraft", ctx, mock.AnythingOfType("*domain.WeeklyReport")).Return(int64(1), nil)

		end := int32(10300)
		income := decimal.NewFromInt(250)
		report, err := svc.UpdateDraft(ctx, 2, 5, service.ReportUpdate{
			EndMileage:      &end,
			RideShareIncome: &income,
		})
		require.NoError(t, err)
		assert.Equal(t, int32(10300), report.EndMileage)
		assert.Equal(t, int32(10150), report.StartMileage)
	})

	t.Run("NotTheDriver", func(t *testing.T) {
		reportRepo := new(MockReportRepo)
		svc := newReportService(reportRepo, new(MockCarRepo), new(MockUserRepo), new(MockEmailService))

		reportRepo.On("GetByID", ctx, int32(5)).Return(draft(), nil)

		_, err := svc.UpdateDraft(ctx, 3, 5, service.ReportUpdate{})
		assert.True(t, domain.IsUnauthorized(err))
	})

	t.Run("NotADraft", func(t *testing.T) {
		reportRepo := new(MockReportRepo)
		svc := newReportService(reportRepo, new(MockCarRepo), new(MockUserRepo), new(MockEmailService))

		submitted := draft()
		submitted.Status = domain.ReportStatusSubmitted
		reportRepo.On("GetByID", ctx, int32(5)).Return(submitted, nil)

		_, err := svc.UpdateDraft(ctx, 2, 5, service.ReportUpdate{})
		assert.True(t, domain.IsInvalidState(err))
	})

	t.Run("EndMileageBelowStartIsRejected", func(t *testing.T) {
		reportRepo := new(MockReportRepo)
		svc := newReportService(reportRepo, new(MockCarRepo), new(MockUserRepo), new(MockEmailService))

		reportRepo.On("GetByID", ctx, int32(5)).Return(draft(), nil)

		end := int32(9000)
		_, err := svc.UpdateDraft(ctx, 2, 5, service.ReportUpdate{EndMileage: &end})
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("NegativeMoneyIsRejected", func(t *testing.T) {
		reportRepo := new(MockReportRepo)
		svc := newReportService(reportRepo, new(MockCarRepo), new(MockUserRepo), new(MockEmailService))

		reportRepo.On("GetByID", ctx, int32(5)).Return(draft(), nil)

		bad := decimal.NewFromInt(-10)
		_, err := svc.UpdateDraft(ctx, 2, 5, service.ReportUpdate{GasExpense: &bad})
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("ZeroRowsMeansConflict", func(t *testing.T) {
		reportRepo := new(MockReportRepo)
		svc := newReportService(reportRepo, new(MockCarRepo), new(MockUserRepo), new(MockEmailService))

		reportRepo.On("GetByID", ctx, int32(5)).Return(draft(), nil)
		reportRepo.On("UpdateDraft", ctx, mock.AnythingOfType("*domain.WeeklyReport")).Return(int64(0), nil)

		_, err := svc.UpdateDraft(ctx, 2, 5, service.ReportUpdate{})
		assert.True(t, domain.IsConflict(err))
	})
}

func TestReportService_Submit(t *testing.T) {
	ctx := context.Background()

	draftWithIncome := func() *domain.WeeklyReport {
		return &domain.WeeklyReport{
			ID: 5, CarID: 7, DriverID: 2,
			WeekStartDate: "2026-03-09", WeekEndDate: "2026-03-15",
			StartMileage: 10150, EndMileage: 10300,
			RideShareIncome: decimal.NewFromInt(250),
			Status:          domain.ReportStatusDraft,
		}
	}

	t.Run("Success", func(t *testing.T) {
		reportRepo := new(MockReportRepo)
		carRepo := new(MockCarRepo)
		userRepo := new(MockUserRepo)
		emailSvc := new(MockEmailService)
		svc := newReportService(reportRepo, carRepo, userRepo, emailSvc)

		reportRepo.On("GetByID", ctx, int32(5)).Return(draftWithIncome(), nil)
		reportRepo.On("Submit", ctx, int32(5), mock.AnythingOfType("time.Time")).Return(int64(1), nil)

		car := &domain.Car{ID: 7, OwnerID: 1, LicensePlate: "ABC-123"}
		carRepo.On("GetByID", ctx, int32(7)).Return(car, nil)
		userRepo.On("GetByID", ctx, int32(1)).Return(&domain.User{ID: 1, Name: "Olive", Email: "olive@example.com"}, nil)
		userRepo.On("GetByID", ctx, int32(2)).Return(&domain.User{ID: 2, Name: "Dana", Email: "dana@example.com"}, nil)
		emailSvc.On("SendReportSubmittedNotification", ctx, "olive@example.com", "Olive", "Dana", "ABC-123", "2026-03-09").Return(nil)

		report, err := svc.Submit(ctx, 2, 5)
		require.NoError(t, err)
		assert.Equal(t, domain.ReportStatusSubmitted, report.Status)
		assert.NotNil(t, report.SubmittedAt)
		emailSvc.AssertExpectations(t)
	})

	t.Run("DoubleSubmit", func(t *testing.T) {
		reportRepo := new(MockReportRepo)
		svc := newReportService(reportRepo, new(MockCarRepo), new(MockUserRepo), new(MockEmailService))

		submitted := draftWithIncome()
		submitted.Status = domain.ReportStatusSubmitted
		reportRepo.On("GetByID", ctx, int32(5)).Return(submitted, nil)

		_, err := svc.Submit(ctx, 2, 5)
		assert.True(t, domain.IsInvalidState(err))
	})

	t.Run("NoIncomeAnywhere", func(t *testing.T) {
		reportRepo := new(MockReportRepo)
		svc := newReportService(reportRepo, new(MockCarRepo), new(MockUserRepo), new(MockEmailService))

		empty := draftWithIncome()
		empty.RideShareIncome = decimal.Zero
		reportRepo.On("GetByID", ctx, int32(5)).Return(empty, nil)
		reportRepo.On("ListIncomeSources", ctx, int32(5)).Return([]domain.IncomeSource{}, nil)

		_, err := svc.Submit(ctx, 2, 5)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("ItemizedIncomeAloneSuffices", func(t *testing.T) {
		reportRepo := new(MockReportRepo)
		carRepo := new(MockCarRepo)
		userRepo := new(MockUserRepo)
		emailSvc := new(MockEmailService)
		svc := newReportService(reportRepo, carRepo, userRepo, emailSvc)

		empty := draftWithIncome()
		empty.RideShareIncome = decimal.Zero
		reportRepo.On("GetByID", ctx, int32(5)).Return(empty, nil)
		reportRepo.On("ListIncomeSources", ctx, int32(5)).Return([]domain.IncomeSource{
			{ID: 1, ReportID: 5, SourceType: domain.IncomeSourceRentals, Amount: decimal.NewFromInt(80)},
		}, nil)
		reportRepo.On("Submit", ctx, int32(5), mock.AnythingOfType("time.Time")).Return(int64(1), nil)

		carRepo.On("GetByID", ctx, int32(7)).Return(&domain.Car{ID: 7, OwnerID: 1, LicensePlate: "ABC-123"}, nil)
		userRepo.On("GetByID", ctx, mock.AnythingOfType("int32")).Return(&domain.User{ID: 1, Name: "x", Email: "x@example.com"}, nil)
		emailSvc.On("SendReportSubmittedNotification", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		report, err := svc.Submit(ctx, 2, 5)
		require.NoError(t, err)
		assert.Equal(t, domain.ReportStatusSubmitted, report.Status)
	})

	t.Run("LostTheConditionalWrite", func(t *testing.T) {
		reportRepo := new(MockReportRepo)
		svc := newReportService(reportRepo, new(MockCarRepo), new(MockUserRepo), new(MockEmailService))

		reportRepo.On("GetByID", ctx, int32(5)).Return(draftWithIncome(), nil)
		reportRepo.On("Submit", ctx, int32(5), mock.AnythingOfType("time.Time")).Return(int64(0), nil)

		_, err := svc.Submit(ctx, 2, 5)
		assert.True(t, domain.IsConflict(err))
	})
}

func TestReportService_ApproveReject(t *testing.T) {
	ctx := context.Background()

	submitted := func() *domain.WeeklyReport {
		return &domain.WeeklyReport{
			ID: 5, CarID: 7, DriverID: 2,
			WeekStartDate: "2026-03-09",
			StartMileage:  10150, EndMileage: 10300,
			RideShareIncome: decimal.NewFromInt(250),
			Status:          domain.ReportStatusSubmitted,
		}
	}

	t.Run("ApproveSuccess", func(t *testing.T) {
		reportRepo := new(MockReportRepo)
		carRepo := new(MockCarRepo)
		userRepo := new(MockUserRepo)
		emailSvc := new(MockEmailService)
		svc := newReportService(reportRepo, carRepo, userRepo, emailSvc)

		reportRepo.On("GetByID", ctx, int32(5)).Return(submitted(), nil)
		carRepo.On("GetByID", ctx, int32(7)).Return(&domain.Car{ID: 7, OwnerID: 1, LicensePlate: "ABC-123"}, nil)
		reportRepo.On("Approve", ctx, int32(5), int32(1), mock.AnythingOfType("time.Time")).Return(int64(1), nil)
		userRepo.On("GetByID", ctx, int32(2)).Return(&domain.User{ID: 2, Name: "Dana", Email: "dana@example.com"}, nil)
		emailSvc.On("SendReportDecisionNotification", ctx, "dana@example.com", "Dana", "ABC-123", "2026-03-09", "approved", "").Return(nil)

		report, err := svc.Approve(ctx, 1, 5)
		require.NoError(t, err)
		assert.Equal(t, domain.ReportStatusApproved, report.Status)
		assert.NotNil(t, report.ApprovedAt)
		require.NotNil(t, report.ApprovedBy)
		assert.Equal(t, int32(1), *report.ApprovedBy)
	})

	t.Run("ApproveByNonOwner", func(t *testing.T) {
		reportRepo := new(MockReportRepo)
		carRepo := new(MockCarRepo)
		svc := newReportService(reportRepo, carRepo, new(MockUserRepo), new(MockEmailService))

		reportRepo.On("GetByID", ctx, int32(5)).Return(submitted(), nil)
		carRepo.On("GetByID", ctx, int32(7)).Return(&domain.Car{ID: 7, OwnerID: 1}, nil)

		_, err := svc.Approve(ctx, 42, 5)
		assert.True(t, domain.IsUnauthorized(err))
	})

	t.Run("ApproveADraft", func(t *testing.T) {
		reportRepo := new(MockReportRepo)
		carRepo := new(MockCarRepo)
		svc := newReportService(reportRepo, carRepo, new(MockUserRepo), new(MockEmailService))

		draft := submitted()
		draft.Status = domain.ReportStatusDraft
		reportRepo.On("GetByID", ctx, int32(5)).Return(draft, nil)
		carRepo.On("GetByID", ctx, int32(7)).Return(&domain.Car{ID: 7, OwnerID: 1}, nil)

		_, err := svc.Approve(ctx, 1, 5)
		assert.True(t, domain.IsInvalidState(err))
	})

	t.Run("RejectRecordsReason", func(t *testing.T) {
		reportRepo := new(MockReportRepo)
		carRepo := new(MockCarRepo)
		userRepo := new(MockUserRepo)
		emailSvc := new(MockEmailService)
		svc := newReportService(reportRepo, carRepo, userRepo, emailSvc)

		reportRepo.On("GetByID", ctx, int32(5)).Return(submitted(), nil)
		carRepo.On("GetByID", ctx, int32(7)).Return(&domain.Car{ID: 7, OwnerID: 1, LicensePlate: "ABC-123"}, nil)
		reportRepo.On("Reject", ctx, int32(5), int32(1), "odometer photo missing", mock.AnythingOfType("time.Time")).Return(int64(1), nil)
		userRepo.On("GetByID", ctx, int32(2)).Return(&domain.User{ID: 2, Name: "Dana", Email: "dana@example.com"}, nil)
		emailSvc.On("SendReportDecisionNotification", ctx, "dana@example.com", "Dana", "ABC-123", "2026-03-09", "rejected", "odometer photo missing").Return(nil)

		report, err := svc.Reject(ctx, 1, 5, "odometer photo missing")
		require.NoError(t, err)
		assert.Equal(t, domain.ReportStatusRejected, report.Status)
		assert.Equal(t, "odometer photo missing", report.RejectionReason)
	})

	t.Run("ApproveConflict", func(t *testing.T) {
		reportRepo := new(MockReportRepo)
		carRepo := new(MockCarRepo)
		svc := newReportService(reportRepo, carRepo, new(MockUserRepo), new(MockEmailService))

		reportRepo.On("GetByID", ctx, int32(5)).Return(submitted(), nil)
		carRepo.On("GetByID", ctx, int32(7)).Return(&domain.Car{ID: 7, OwnerID: 1}, nil)
		reportRepo.On("Approve", ctx, int32(5), int32(1), mock.AnythingOfType("time.Time")).Return(int64(0), nil)

		_, err := svc.Approve(ctx, 1, 5)
		assert.True(t, domain.IsConflict(err))
	})
}

func TestReportService_DeleteDraft(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		reportRepo := new(MockReportRepo)
		svc := newReportService(reportRepo, new(MockCarRepo), new(MockUserRepo), new(MockEmailService))

		reportRepo.On("GetByID", ctx, int32(5)).Return(&domain.WeeklyReport{
			ID: 5, DriverID: 2, Status: domain.ReportStatusDraft,
		}, nil)
		reportRepo.On("DeleteDraft", ctx, int32(5)).Return(int64(1), nil)

		assert.NoError(t, svc.DeleteDraft(ctx, 2, 5))
	})

	t.Run("SubmittedReportsAreImmortal", func(t *testing.T) {
		reportRepo := new(MockReportRepo)
		svc := newReportService(reportRepo, new(MockCarRepo), new(MockUserRepo), new(MockEmailService))

		reportRepo.On("GetByID", ctx, int32(5)).Return(&domain.WeeklyReport{
			ID: 5, DriverID: 2, Status: domain.ReportStatusSubmitted,
		}, nil)

		err := svc.DeleteDraft(ctx, 2, 5)
		assert.True(t, domain.IsInvalidState(err))
	})
}

func TestReportService_IncomeSources(t *testing.T) {
	ctx := context.Background()

	draft := &domain.WeeklyReport{ID: 5, DriverID: 2, Status: domain.ReportStatusDraft}

	t.Run("AddRejectsUnknownType", func(t *testing.T) {
		svc := newReportService(new(MockReportRepo), new(MockCarRepo), new(MockUserRepo), new(MockEmailService))

		_, err := svc.AddIncomeSource(ctx, 2, 5, "LEMONADE_STAND", decimal.NewFromInt(10))
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("AddRejectsNegativeAmount", func(t *testing.T) {
		svc := newReportService(new(MockReportRepo), new(MockCarRepo), new(MockUserRepo), new(MockEmailService))

		_, err := svc.AddIncomeSource(ctx, 2, 5, domain.IncomeSourceRentals, decimal.NewFromInt(-1))
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("AddToDraft", func(t *testing.T) {
		reportRepo := new(MockReportRepo)
		svc := newReportService(reportRepo, new(MockCarRepo), new(MockUserRepo), new(MockEmailService))

		reportRepo.On("GetByID", ctx, int32(5)).Return(draft, nil)
		reportRepo.On("CreateIncomeSource", ctx, mock.AnythingOfType("*domain.IncomeSource")).Return(nil)

		src, err := svc.AddIncomeSource(ctx, 2, 5, domain.IncomeSourceRideShare, decimal.NewFromInt(120))
		require.NoError(t, err)
		assert.Equal(t, int32(5), src.ReportID)
		assert.Equal(t, domain.IncomeSourceRideShare, src.SourceType)
	})

	t.Run("RemoveMissingSource", func(t *testing.T) {
		reportRepo := new(MockReportRepo)
		svc := newReportService(reportRepo, new(MockCarRepo), new(MockUserRepo), new(MockEmailService))

		reportRepo.On("GetByID", ctx, int32(5)).Return(draft, nil)
		reportRepo.On("DeleteIncomeSource", ctx, int32(9), int32(5)).Return(int64(0), nil)

		err := svc.RemoveIncomeSource(ctx, 2, 5, 9)
		assert.True(t, domain.IsNotFound(err))
	})
}
