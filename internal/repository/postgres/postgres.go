package postgres

import (
	"database/sql"
	"errors"

	_ "github.com/lib/pq"

	"fleetledger-backend/internal/domain"
	"fleetledger-backend/internal/repository"
)

// dateLayout renders DATE columns back into the YYYY-MM-DD strings the
// domain uses. The driver delivers DATE values as time.Time.
const dateLayout = "2006-01-02"

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.CarRepository
	repository.ReportRepository
	repository.AssignmentRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                   db,
		UserRepository:       NewUserRepository(db),
		CarRepository:        NewCarRepository(db),
		ReportRepository:     NewReportRepository(db),
		AssignmentRepository: NewAssignmentRepository(db),
	}
}

// storeErr maps driver errors into the workflow taxonomy: missing rows become
// NotFound, everything else a StoreError eligible for caller-directed retry.
func storeErr(op, entity string, id int32, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.NotFoundError{Entity: entity, ID: id}
	}
	return &domain.StoreError{Op: op, Err: err}
}
