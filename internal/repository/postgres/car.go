package postgres

import (
	"context"
	"database/sql"
	"time"

	"fleetledger-backend/internal/domain"
	"fleetledger-backend/internal/repository"
)

type carRepository struct {
	db *sql.DB
}

func NewCarRepository(db *sql.DB) repository.CarRepository {
	return &carRepository{db: db}
}

const carColumns = `id, owner_id, driver_id, make, model, year, license_plate,
	initial_mileage, current_mileage, status, created_on, updated_on`

func scanCar(row interface{ Scan(...any) error }, c *domain.Car) error {
	return row.Scan(&c.ID, &c.OwnerID, &c.DriverID, &c.Make, &c.Model, &c.Year,
		&c.LicensePlate, &c.InitialMileage, &c.CurrentMileage, &c.Status,
		&c.CreatedOn, &c.UpdatedOn)
}

func (r *carRepository) Create(ctx context.Context, c *domain.Car) error {
	query := `INSERT INTO cars (owner_id, driver_id, make, model, year, license_plate,
	          initial_mileage, current_mileage, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query, c.OwnerID, c.DriverID, c.Make, c.Model,
		c.Year, c.LicensePlate, c.InitialMileage, c.CurrentMileage, c.Status, now, now).Scan(&c.ID)
	if err != nil {
		return storeErr("car.Create", "car", 0, err)
	}
	c.CreatedOn = now
	c.UpdatedOn = now
	return nil
}

func (r *carRepository) GetByID(ctx context.Context, id int32) (*domain.Car, error) {
	c := &domain.Car{}
	query := `SELECT ` + carColumns + ` FROM cars WHERE id = $1`
	if err := scanCar(r.db.QueryRowContext(ctx, query, id), c); err != nil {
		return nil, storeErr("car.GetByID", "car", id, err)
	}
	return c, nil
}

func (r *carRepository) Update(ctx context.Context, c *domain.Car) error {
	query := `UPDATE cars SET make=$1, model=$2, year=$3, license_plate=$4, status=$5, updated_on=$6
	          WHERE id=$7`
	_, err := r.db.ExecContext(ctx, query, c.Make, c.Model, c.Year, c.LicensePlate, c.Status, time.Now(), c.ID)
	if err != nil {
		return storeErr("car.Update", "car", c.ID, err)
	}
	return nil
}

func (r *carRepository) Delete(ctx context.Context, id int32) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cars WHERE id = $1`, id)
	if err != nil {
		return storeErr("car.Delete", "car", id, err)
	}
	return nil
}

func (r *carRepository) ListByOwner(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Car, int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM cars WHERE owner_id = $1`, ownerID).Scan(&count)
	if err != nil {
		return nil, 0, storeErr("car.ListByOwner", "car", 0, err)
	}

	offset := (int64(page) - 1) * int64(pageSize)
	query := `SELECT ` + carColumns + ` FROM cars WHERE owner_id = $1 ORDER BY id LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, ownerID, pageSize, offset)
	if err != nil {
		return nil, 0, storeErr("car.ListByOwner", "car", 0, err)
	}
	defer rows.Close()

	var cars []domain.Car
	for rows.Next() {
		var c domain.Car
		if err := scanCar(rows, &c); err != nil {
			return nil, 0, storeErr("car.ListByOwner", "car", 0, err)
		}
		cars = append(cars, c)
	}
	return cars, count, rows.Err()
}

func (r *carRepository) ListByDriver(ctx context.Context, driverID int32) ([]domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE driver_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, driverID)
	if err != nil {
		return nil, storeErr("car.ListByDriver", "car", 0, err)
	}
	defer rows.Close()

	var cars []domain.Car
	for rows.Next() {
		var c domain.Car
		if err := scanCar(rows, &c); err != nil {
			return nil, storeErr("car.ListByDriver", "car", 0, err)
		}
		cars = append(cars, c)
	}
	return cars, rows.Err()
}

// AssignDriver closes the open history row, opens a new one and points the
// car at the driver, all in one transaction. The unassigned_at stamp lands
// before the new row is visible.
func (r *carRepository) AssignDriver(ctx context.Context, carID, driverID int32, at time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("car.AssignDriver", "car", carID, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE car_assignments SET unassigned_at = $1 WHERE car_id = $2 AND unassigned_at IS NULL`,
		at, carID)
	if err != nil {
		return storeErr("car.AssignDriver", "car", carID, err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO car_assignments (car_id, driver_id, assigned_at) VALUES ($1, $2, $3)`,
		carID, driverID, at)
	if err != nil {
		return storeErr("car.AssignDriver", "car", carID, err)
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE cars SET driver_id = $1, status = $2, updated_on = $3 WHERE id = $4`,
		driverID, domain.CarStatusAssigned, at, carID)
	if err != nil {
		return storeErr("car.AssignDriver", "car", carID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.NotFoundError{Entity: "car", ID: carID}
	}

	if err := tx.Commit(); err != nil {
		return storeErr("car.AssignDriver", "car", carID, err)
	}
	return nil
}

func (r *carRepository) GetOpenAssignment(ctx context.Context, carID int32) (*domain.CarAssignment, error) {
	a := &domain.CarAssignment{}
	query := `SELECT id, car_id, driver_id, assigned_at, unassigned_at
	          FROM car_assignments WHERE car_id = $1 AND unassigned_at IS NULL`
	err := r.db.QueryRowContext(ctx, query, carID).
		Scan(&a.ID, &a.CarID, &a.DriverID, &a.AssignedAt, &a.UnassignedAt)
	if err != nil {
		return nil, storeErr("car.GetOpenAssignment", "assignment", carID, err)
	}
	return a, nil
}

func (r *carRepository) ListAssignments(ctx context.Context, carID int32) ([]domain.CarAssignment, error) {
	query := `SELECT id, car_id, driver_id, assigned_at, unassigned_at
	          FROM car_assignments WHERE car_id = $1 ORDER BY assigned_at`
	rows, err := r.db.QueryContext(ctx, query, carID)
	if err != nil {
		return nil, storeErr("car.ListAssignments", "assignment", carID, err)
	}
	defer rows.Close()

	var out []domain.CarAssignment
	for rows.Next() {
		var a domain.CarAssignment
		if err := rows.Scan(&a.ID, &a.CarID, &a.DriverID, &a.AssignedAt, &a.UnassignedAt); err != nil {
			return nil, storeErr("car.ListAssignments", "assignment", carID, err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
