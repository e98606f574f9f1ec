package domain

import "time"

type CarStatus string

const (
	CarStatusAvailable   CarStatus = "AVAILABLE"
	CarStatusAssigned    CarStatus = "ASSIGNED"
	CarStatusMaintenance CarStatus = "MAINTENANCE"
	CarStatusRetired     CarStatus = "RETIRED"
)

// Car is the aggregate root for weekly reports and assignment requests:
// mileage continuity is scoped per car, the single-pending-request rule per
// (car, driver).
type Car struct {
	ID           int32     `json:"id"`
	OwnerID      int32     `json:"owner_id"`
	DriverID     *int32    `json:"driver_id,omitempty"`
	Make         string    `json:"make"`
	Model        string    `json:"model"`
	Year         int32     `json:"year"`
	LicensePlate string    `json:"license_plate"`
	// InitialMileage is the odometer reading at intake. Immutable; the
	// continuity resolver anchors every report chain on it.
	InitialMileage int32 `json:"initial_mileage"`
	// CurrentMileage is a read cache derived from approved reports. It is
	// only written in the same transaction that approves a report and is
	// monotonically non-decreasing.
	CurrentMileage int32     `json:"current_mileage"`
	Status         CarStatus `json:"status"`
	CreatedOn      time.Time `json:"created_on"`
	UpdatedOn      time.Time `json:"updated_on"`
}

// CarAssignment is one row of the driver history for a car. At most one row
// per car has a nil UnassignedAt; replacing a driver stamps the open row
// before inserting the next one.
type CarAssignment struct {
	ID           int32      `json:"id"`
	CarID        int32      `json:"car_id"`
	DriverID     int32      `json:"driver_id"`
	AssignedAt   time.Time  `json:"assigned_at"`
	UnassignedAt *time.Time `json:"unassigned_at,omitempty"`
}
