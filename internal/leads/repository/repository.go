package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"solarfield_backend/internal/workflow"
	"solarfield_backend/platform/apperr"
)

const leadNotFoundMessage = "lead not found"

const leadColumns = `id, first_name, last_name, mobile, email, solar_service,
	capacity_kw, location, property_type, channel, message, status, assigned_to,
	created_at, updated_at`

// Repo implements the leads repository on Postgres.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new leads repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// Insert creates a lead from a public enquiry.
func (r *Repo) Insert(ctx context.Context, params CreateLeadParams) (Lead, error) {
	query := `
		INSERT INTO leads (
			first_name, last_name, mobile, email, solar_service, capacity_kw,
			location, property_type, channel, message, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + leadColumns

	row := r.pool.QueryRow(ctx, query,
		params.FirstName, params.LastName, params.Mobile, params.Email,
		params.SolarService, params.CapacityKW, params.Location,
		params.PropertyType, params.Channel, params.Message, string(params.Status),
	)

	lead, err := scanLead(row)
	if err != nil {
		return Lead{}, fmt.Errorf("insert lead: %w", err)
	}
	return lead, nil
}

// GetByID retrieves a lead by ID.
func (r *Repo) GetByID(ctx context.Context, id int64) (Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`

	lead, err := scanLead(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		return Lead{}, fmt.Errorf("get lead by id: %w", err)
	}
	return lead, nil
}

// List lists leads with filters and pagination.
func (r *Repo) List(ctx context.Context, params ListLeadsParams) ([]Lead, int, error) {
	whereClauses := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if params.AssignedTo != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("assigned_to = $%d", argIdx))
		args = append(args, *params.AssignedTo)
		argIdx++
	}
	if params.Search != "" {
		clause := fmt.Sprintf(
			"(first_name ILIKE $%d OR last_name ILIKE $%d OR mobile ILIKE $%d OR email ILIKE $%d)",
			argIdx, argIdx, argIdx, argIdx)
		whereClauses = append(whereClauses, clause)
		args = append(args, "%"+params.Search+"%")
		argIdx++
	}
	if params.Status != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, params.Status)
		argIdx++
	}
	if params.SolarService != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("solar_service = $%d", argIdx))
		args = append(args, params.SolarService)
		argIdx++
	}
	if params.Channel != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("channel = $%d", argIdx))
		args = append(args, params.Channel)
		argIdx++
	}
	if params.DateFrom != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("created_at >= $%d", argIdx))
		args = append(args, *params.DateFrom)
		argIdx++
	}
	if params.DateTo != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("created_at < $%d", argIdx))
		args = append(args, params.DateTo.AddDate(0, 0, 1))
		argIdx++
	}

	whereClause := strings.Join(whereClauses, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM leads WHERE %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count leads: %w", err)
	}

	args = append(args, params.Limit, params.Offset)
	query := fmt.Sprintf(`
		SELECT %s
		FROM leads
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, leadColumns, whereClause, argIdx, argIdx+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	items := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan lead: %w", err)
		}
		items = append(items, lead)
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("iterate leads: %w", rows.Err())
	}

	return items, total, nil
}

// Assign binds a fresh lead to a field employee and moves it to Assigned in
// one transaction. The Created precondition makes concurrent assignments lose
// cleanly instead of silently reassigning.
func (r *Repo) Assign(ctx context.Context, params AssignParams) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin assign lead: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, `
		UPDATE leads SET assigned_to = $2, status = $3, updated_at = now()
		WHERE id = $1 AND status = $4`,
		params.LeadID, params.EmployeeID,
		string(workflow.StatusAssigned), string(workflow.StatusCreated),
	)
	if err != nil {
		return fmt.Errorf("assign lead: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.Conflict("lead is not available for assignment")
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO lead_status_history (lead_id, old_status, new_status, comments, changed_by)
		VALUES ($1, $2, $3, $4, $5)`,
		params.LeadID, string(workflow.StatusCreated), string(workflow.StatusAssigned),
		"", params.AssignedBy,
	)
	if err != nil {
		return fmt.Errorf("insert lead assignment history: %w", err)
	}

	return tx.Commit(ctx)
}

// UpdateStatus persists a validated transition and its history row in one
// transaction.
func (r *Repo) UpdateStatus(ctx context.Context, params UpdateStatusParams) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update lead status: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, `
		UPDATE leads SET status = $2, updated_at = now()
		WHERE id = $1 AND status = $3`,
		params.LeadID, string(params.NewStatus), string(params.OldStatus),
	)
	if err != nil {
		return fmt.Errorf("update lead status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.Conflict("lead status changed concurrently")
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO lead_status_history (lead_id, old_status, new_status, comments, changed_by)
		VALUES ($1, $2, $3, $4, $5)`,
		params.LeadID, string(params.OldStatus), string(params.NewStatus),
		params.Comment, params.ChangedBy,
	)
	if err != nil {
		return fmt.Errorf("insert lead status history: %w", err)
	}

	return tx.Commit(ctx)
}

// Summary counts an employee's leads by bucket.
func (r *Repo) Summary(ctx context.Context, employeeID int64) (workflow.SummaryCounts, error) {
	query := fmt.Sprintf(`
		SELECT
			COUNT(*) FILTER (WHERE status = $2),
			COUNT(*) FILTER (WHERE status IN (%s)),
			COUNT(*) FILTER (WHERE status IN (%s)),
			COUNT(*)
		FROM leads
		WHERE assigned_to = $1`,
		statusList(workflow.OngoingStatuses(workflow.KindLead)),
		statusList(workflow.ClosedStatuses(workflow.KindLead)),
	)

	var counts workflow.SummaryCounts
	err := r.pool.QueryRow(ctx, query, employeeID, string(workflow.StatusAssigned)).Scan(
		&counts.Assigned, &counts.Ongoing, &counts.Closed, &counts.Total,
	)
	if err != nil {
		return workflow.SummaryCounts{}, fmt.Errorf("lead summary: %w", err)
	}
	return counts, nil
}

// statusList renders a fixed status set as a SQL IN-list. The values come
// from the workflow vocabulary, never from user input.
func statusList(statuses []workflow.Status) string {
	quoted := make([]string, len(statuses))
	for i, s := range statuses {
		quoted[i] = "'" + string(s) + "'"
	}
	return strings.Join(quoted, ", ")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLead(row rowScanner) (Lead, error) {
	var lead Lead
	var status string
	err := row.Scan(
		&lead.ID, &lead.FirstName, &lead.LastName, &lead.Mobile, &lead.Email,
		&lead.SolarService, &lead.CapacityKW, &lead.Location, &lead.PropertyType,
		&lead.Channel, &lead.Message, &status, &lead.AssignedTo, &lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		return Lead{}, err
	}
	lead.Status = workflow.Status(status)
	return lead, nil
}
