package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGDirectory resolves employee addresses from the employees table.
type PGDirectory struct {
	pool *pgxpool.Pool
}

// NewPGDirectory creates a Postgres-backed employee directory.
func NewPGDirectory(pool *pgxpool.Pool) *PGDirectory {
	return &PGDirectory{pool: pool}
}

var _ EmployeeDirectory = (*PGDirectory)(nil)

// EmailFor returns the name and email of an active employee.
func (d *PGDirectory) EmailFor(ctx context.Context, employeeID int64) (string, string, error) {
	var name, email string
	err := d.pool.QueryRow(ctx,
		`SELECT name, email FROM employees WHERE id = $1 AND active`,
		employeeID,
	).Scan(&name, &email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", "", fmt.Errorf("employee %d not found or inactive", employeeID)
		}
		return "", "", fmt.Errorf("lookup employee email: %w", err)
	}
	return name, email, nil
}
