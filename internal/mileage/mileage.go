// Package mileage derives odometer bounds for new weekly reports.
//
// A car's reports must form a contiguous, non-overlapping chain of odometer
// ranges anchored at the car's intake mileage. The chain is never stored; it
// is recomputed from the report ledger, so deleting a draft automatically
// frees its range for the next report.
package mileage

import "fleetledger-backend/internal/domain"

// Bounds is the odometer range assigned to a new report.
type Bounds struct {
	// StartMileage is fixed: the car's initial mileage plus every distance
	// already claimed by prior reports.
	StartMileage int32
	// EndMileage is an editable placeholder, one past the start. The driver
	// revises it upward before submission.
	EndMileage int32
}

// ResolveBounds computes the bounds for the next report of a car, given the
// car's initial mileage and all of that car's prior reports. Reports of any
// status count: even a draft reserves its range until it is deleted.
//
// The result is deterministic for a given prior set, and adding a report with
// a positive distance strictly advances the next start.
func ResolveBounds(initialMileage int32, prior []domain.WeeklyReport) Bounds {
	start := initialMileage
	for i := range prior {
		start += prior[i].MileageDelta()
	}
	return Bounds{
		StartMileage: start,
		EndMileage:   start + 1,
	}
}
