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

const jobNotFoundMessage = "job not found"

const jobColumns = `id, job_code, customer_first_name, customer_last_name,
	customer_mobile, customer_email, address_line, city, district, state,
	pincode, service_type, solar_service, package_id, priority, scheduled_date,
	description, special_instructions, estimated_cost, status, assigned_to,
	lead_id, created_by, created_at, updated_at`

// Repo implements the jobs repository on Postgres.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new jobs repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// Insert creates a job in status Created and stamps its job code from the
// generated id, all in one transaction.
func (r *Repo) Insert(ctx context.Context, params CreateJobParams) (Job, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Job{}, fmt.Errorf("begin insert job: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO jobs (
			customer_first_name, customer_last_name, customer_mobile,
			customer_email, address_line, city, district, state, pincode,
			service_type, solar_service, package_id, priority, scheduled_date,
			description, special_instructions, estimated_cost, status, lead_id,
			created_by
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20
		)
		RETURNING id`,
		params.CustomerFirstName, params.CustomerLastName, params.CustomerMobile,
		params.CustomerEmail, params.AddressLine, params.City, params.District,
		params.State, params.Pincode, params.ServiceType, params.SolarService,
		params.PackageID, params.Priority, params.ScheduledDate,
		params.Description, params.SpecialInstructions, params.EstimatedCost,
		string(workflow.StatusCreated), params.LeadID, params.CreatedBy,
	).Scan(&id)
	if err != nil {
		return Job{}, fmt.Errorf("insert job: %w", err)
	}

	jobCode := fmt.Sprintf("JOB-%05d", id)
	row := tx.QueryRow(ctx,
		`UPDATE jobs SET job_code = $2 WHERE id = $1 RETURNING `+jobColumns,
		id, jobCode,
	)
	job, err := scanJob(row)
	if err != nil {
		return Job{}, fmt.Errorf("stamp job code: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Job{}, fmt.Errorf("commit insert job: %w", err)
	}
	return job, nil
}

// GetByID retrieves a job by ID.
func (r *Repo) GetByID(ctx context.Context, id int64) (Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`

	job, err := scanJob(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Job{}, apperr.NotFound(jobNotFoundMessage)
		}
		return Job{}, fmt.Errorf("get job by id: %w", err)
	}
	return job, nil
}

// List lists jobs with filters and pagination.
func (r *Repo) List(ctx context.Context, params ListJobsParams) ([]Job, int, error) {
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
			"(job_code ILIKE $%d OR customer_first_name ILIKE $%d OR customer_last_name ILIKE $%d OR customer_mobile ILIKE $%d)",
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
	if params.ServiceType != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("service_type = $%d", argIdx))
		args = append(args, params.ServiceType)
		argIdx++
	}
	if params.Priority != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("priority = $%d", argIdx))
		args = append(args, params.Priority)
		argIdx++
	}
	if params.DateFrom != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("scheduled_date >= $%d", argIdx))
		args = append(args, *params.DateFrom)
		argIdx++
	}
	if params.DateTo != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("scheduled_date <= $%d", argIdx))
		args = append(args, *params.DateTo)
		argIdx++
	}

	whereClause := strings.Join(whereClauses, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM jobs WHERE %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count jobs: %w", err)
	}

	args = append(args, params.Limit, params.Offset)
	query := fmt.Sprintf(`
		SELECT %s
		FROM jobs
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, jobColumns, whereClause, argIdx, argIdx+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	items := make([]Job, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan job: %w", err)
		}
		items = append(items, job)
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("iterate jobs: %w", rows.Err())
	}

	return items, total, nil
}

// ListAll is the unscoped supervisory listing: every job with its joined
// package, newest first.
func (r *Repo) ListAll(ctx context.Context, limit, offset int) ([]JobDetail, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count all jobs: %w", err)
	}

	query := `
		SELECT j.id, j.job_code, j.customer_first_name, j.customer_last_name,
			j.customer_mobile, j.customer_email, j.address_line, j.city,
			j.district, j.state, j.pincode, j.service_type, j.solar_service,
			j.package_id, j.priority, j.scheduled_date, j.description,
			j.special_instructions, j.estimated_cost, j.status, j.assigned_to,
			j.lead_id, j.created_by, j.created_at, j.updated_at,
			p.id, p.name, p.capacity_kw, p.price
		FROM jobs j
		LEFT JOIN packages p ON p.id = j.package_id
		ORDER BY j.created_at DESC, j.id DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list all jobs: %w", err)
	}
	defer rows.Close()

	items := make([]JobDetail, 0)
	for rows.Next() {
		var job Job
		var status string
		var pkgID *int64
		var pkgName *string
		var pkgCapacity, pkgPrice *float64

		err := rows.Scan(
			&job.ID, &job.JobCode, &job.CustomerFirstName, &job.CustomerLastName,
			&job.CustomerMobile, &job.CustomerEmail, &job.AddressLine, &job.City,
			&job.District, &job.State, &job.Pincode, &job.ServiceType,
			&job.SolarService, &job.PackageID, &job.Priority, &job.ScheduledDate,
			&job.Description, &job.SpecialInstructions, &job.EstimatedCost,
			&status, &job.AssignedTo, &job.LeadID, &job.CreatedBy,
			&job.CreatedAt, &job.UpdatedAt,
			&pkgID, &pkgName, &pkgCapacity, &pkgPrice,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan job detail: %w", err)
		}
		job.Status = workflow.Status(status)

		detail := JobDetail{Job: job}
		if pkgID != nil {
			detail.Package = &PackageRow{
				ID:         *pkgID,
				Name:       *pkgName,
				CapacityKW: *pkgCapacity,
				Price:      *pkgPrice,
			}
		}
		items = append(items, detail)
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("iterate job details: %w", rows.Err())
	}

	return items, total, nil
}

// UpdateStatus persists a validated transition, its history row and, for a
// Completed transition, the payment settlement, all in one transaction.
func (r *Repo) UpdateStatus(ctx context.Context, params UpdateStatusParams) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update job status: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, `
		UPDATE jobs SET status = $2, updated_at = now()
		WHERE id = $1 AND status = $3`,
		params.JobID, string(params.NewStatus), string(params.OldStatus),
	)
	if err != nil {
		return fmt.Errorf("update job status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.Conflict("job status changed concurrently")
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO job_status_history (job_id, old_status, new_status, comments, status_reason, changed_by)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		params.JobID, string(params.OldStatus), string(params.NewStatus),
		params.Comment, params.StatusReason, params.ChangedBy,
	)
	if err != nil {
		return fmt.Errorf("insert job status history: %w", err)
	}

	if params.Payment != nil {
		_, err = tx.Exec(ctx, `
			INSERT INTO job_payments (job_id, payment_method, transaction_id, amount, discount_amount, payment_status, recorded_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			params.JobID, params.Payment.PaymentMethod, params.Payment.TransactionID,
			params.Payment.Amount, params.Payment.DiscountAmount,
			params.Payment.PaymentStatus, params.ChangedBy,
		)
		if err != nil {
			return fmt.Errorf("insert job payment: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// CreateAssignment binds a job to an employee and moves it to Assigned in one
// transaction. The Created-status guard in the UPDATE is the precondition: a
// job already assigned (or further along) reports a conflict.
func (r *Repo) CreateAssignment(ctx context.Context, params AssignParams) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create assignment: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, `
		UPDATE jobs SET status = $2, assigned_to = $3, updated_at = now()
		WHERE id = $1 AND status = $4`,
		params.JobID, string(workflow.StatusAssigned), params.EmployeeID,
		string(workflow.StatusCreated),
	)
	if err != nil {
		return fmt.Errorf("assign job: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.Conflict("job is not available for assignment")
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO job_assignments (job_id, employee_id, assigned_by)
		VALUES ($1, $2, $3)`,
		params.JobID, params.EmployeeID, params.AssignedBy,
	)
	if err != nil {
		return fmt.Errorf("insert job assignment: %w", err)
	}

	return tx.Commit(ctx)
}

// Summary counts an employee's jobs by bucket.
func (r *Repo) Summary(ctx context.Context, employeeID int64) (workflow.SummaryCounts, error) {
	query := fmt.Sprintf(`
		SELECT
			COUNT(*) FILTER (WHERE status = $2),
			COUNT(*) FILTER (WHERE status IN (%s)),
			COUNT(*) FILTER (WHERE status IN (%s)),
			COUNT(*)
		FROM jobs
		WHERE assigned_to = $1`,
		statusList(workflow.OngoingStatuses(workflow.KindJob)),
		statusList(workflow.ClosedStatuses(workflow.KindJob)),
	)

	var counts workflow.SummaryCounts
	err := r.pool.QueryRow(ctx, query, employeeID, string(workflow.StatusAssigned)).Scan(
		&counts.Assigned, &counts.Ongoing, &counts.Closed, &counts.Total,
	)
	if err != nil {
		return workflow.SummaryCounts{}, fmt.Errorf("job summary: %w", err)
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

func scanJob(row rowScanner) (Job, error) {
	var job Job
	var status string
	err := row.Scan(
		&job.ID, &job.JobCode, &job.CustomerFirstName, &job.CustomerLastName,
		&job.CustomerMobile, &job.CustomerEmail, &job.AddressLine, &job.City,
		&job.District, &job.State, &job.Pincode, &job.ServiceType,
		&job.SolarService, &job.PackageID, &job.Priority, &job.ScheduledDate,
		&job.Description, &job.SpecialInstructions, &job.EstimatedCost,
		&status, &job.AssignedTo, &job.LeadID, &job.CreatedBy,
		&job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return Job{}, err
	}
	job.Status = workflow.Status(status)
	return job, nil
}
