package postgres

import (
	"context"
	"database/sql"
	"time"

	"fleetledger-backend/internal/domain"
	"fleetledger-backend/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (name, email, phone, role, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query, u.Name, u.Email, u.Phone, u.Role, now, now).Scan(&u.ID)
	if err != nil {
		return storeErr("user.Create", "user", 0, err)
	}
	u.CreatedOn = now
	u.UpdatedOn = now
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT id, name, email, phone, role, created_on, updated_on FROM users WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role, &u.CreatedOn, &u.UpdatedOn)
	if err != nil {
		return nil, storeErr("user.GetByID", "user", id, err)
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT id, name, email, phone, role, created_on, updated_on FROM users WHERE email = $1`
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role, &u.CreatedOn, &u.UpdatedOn)
	if err != nil {
		return nil, storeErr("user.GetByEmail", "user", 0, err)
	}
	return u, nil
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET name=$1, email=$2, phone=$3, updated_on=$4 WHERE id=$5`
	_, err := r.db.ExecContext(ctx, query, u.Name, u.Email, u.Phone, time.Now(), u.ID)
	if err != nil {
		return storeErr("user.Update", "user", u.ID, err)
	}
	return nil
}
