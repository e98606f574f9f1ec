package jobs

import (
	"context"

	"fleetledger-backend/internal/logger"
)

// ExpireAssignmentRequests moves pending assignment requests whose
// availability window has closed into EXPIRED. The sweep is idempotent;
// rerunning it only touches rows still pending.
func (jr *JobRunner) ExpireAssignmentRequests() {
	jr.runWithRecovery("ExpireAssignmentRequests", func() {
		ctx := context.Background()

		expired, err := jr.services.Assignment.ExpireRequests(ctx)
		if err != nil {
			logger.Error("Failed to expire assignment requests", "error", err)
			return
		}

		logger.Info("Expired assignment requests", "count", len(expired))
		for _, req := range expired {
			logger.Debug("Expired assignment request",
				"request_id", req.ID,
				"car_id", req.CarID,
				"driver_id", req.DriverID,
				"available_end_date", req.AvailableEndDate)
		}
	})
}
