// Package repository provides the read-only reference data lookups backing
// the enquiry, job and assignment forms.
package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Country is one selectable country.
type Country struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// State is one selectable state within a country.
type State struct {
	ID        int64  `json:"id"`
	CountryID int64  `json:"country_id"`
	Name      string `json:"name"`
}

// District is one selectable district within a state.
type District struct {
	ID      int64  `json:"id"`
	StateID int64  `json:"state_id"`
	Name    string `json:"name"`
}

// Package is one offered solar package.
type Package struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	CapacityKW  float64 `json:"capacity_kw"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
}

// Employee is one assignable employee, as shown in assignment pickers.
type Employee struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Repo reads reference data from Postgres.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a reference data repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Countries lists all countries.
func (r *Repo) Countries(ctx context.Context) ([]Country, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM countries ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}
	return collect(rows, func(row pgx.Rows) (Country, error) {
		var c Country
		err := row.Scan(&c.ID, &c.Name)
		return c, err
	})
}

// States lists states, optionally narrowed to one country.
func (r *Repo) States(ctx context.Context, countryID int64) ([]State, error) {
	query := `SELECT id, country_id, name FROM states`
	args := []interface{}{}
	if countryID > 0 {
		query += ` WHERE country_id = $1`
		args = append(args, countryID)
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list states: %w", err)
	}
	return collect(rows, func(row pgx.Rows) (State, error) {
		var s State
		err := row.Scan(&s.ID, &s.CountryID, &s.Name)
		return s, err
	})
}

// Districts lists districts, optionally narrowed to one state.
func (r *Repo) Districts(ctx context.Context, stateID int64) ([]District, error) {
	query := `SELECT id, state_id, name FROM districts`
	args := []interface{}{}
	if stateID > 0 {
		query += ` WHERE state_id = $1`
		args = append(args, stateID)
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list districts: %w", err)
	}
	return collect(rows, func(row pgx.Rows) (District, error) {
		var d District
		err := row.Scan(&d.ID, &d.StateID, &d.Name)
		return d, err
	})
}

// Packages lists the offered solar packages.
func (r *Repo) Packages(ctx context.Context) ([]Package, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, capacity_kw, price, COALESCE(description, '') FROM packages ORDER BY capacity_kw`)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	return collect(rows, func(row pgx.Rows) (Package, error) {
		var p Package
		err := row.Scan(&p.ID, &p.Name, &p.CapacityKW, &p.Price, &p.Description)
		return p, err
	})
}

// Employees lists active employees, optionally narrowed to one role.
func (r *Repo) Employees(ctx context.Context, role string) ([]Employee, error) {
	query := `SELECT id, name, email, role FROM employees WHERE active`
	args := []interface{}{}
	if role != "" {
		query += ` AND role = $1`
		args = append(args, role)
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return collect(rows, func(row pgx.Rows) (Employee, error) {
		var e Employee
		err := row.Scan(&e.ID, &e.Name, &e.Email, &e.Role)
		return e, err
	})
}

func collect[T any](rows pgx.Rows, scan func(pgx.Rows) (T, error)) ([]T, error) {
	defer rows.Close()

	items := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		items = append(items, item)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate rows: %w", rows.Err())
	}
	return items, nil
}
