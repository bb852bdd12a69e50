// Package repository persists employee accounts for authentication.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"solarfield_backend/platform/apperr"
)

// Employee is the persisted employee account.
type Employee struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         string
	Active       bool
}

// Repository is the persistence boundary of the auth module.
type Repository interface {
	GetByEmail(ctx context.Context, email string) (Employee, error)
	GetByID(ctx context.Context, id int64) (Employee, error)
}

const employeeColumns = `id, name, email, password_hash, role, active`

// Repo implements the auth repository on Postgres.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates an auth repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

// GetByEmail looks an employee up by email for sign-in.
func (r *Repo) GetByEmail(ctx context.Context, email string) (Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE lower(email) = lower($1)`

	var e Employee
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&e.ID, &e.Name, &e.Email, &e.PasswordHash, &e.Role, &e.Active,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Employee{}, apperr.NotFound("employee not found")
		}
		return Employee{}, fmt.Errorf("get employee by email: %w", err)
	}
	return e, nil
}

// GetByID retrieves an employee profile.
func (r *Repo) GetByID(ctx context.Context, id int64) (Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	var e Employee
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.Name, &e.Email, &e.PasswordHash, &e.Role, &e.Active,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Employee{}, apperr.NotFound("employee not found")
		}
		return Employee{}, fmt.Errorf("get employee by id: %w", err)
	}
	return e, nil
}
