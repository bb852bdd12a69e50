// Package service implements the My Tasks aggregator: per-employee summary
// counts and fixed-size task listings composed from the lead and job modules.
package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	jobstransport "solarfield_backend/internal/jobs/transport"
	leadstransport "solarfield_backend/internal/leads/transport"
	"solarfield_backend/internal/mytasks/transport"
	"solarfield_backend/internal/workflow"
	"solarfield_backend/platform/logger"
)

// taskPageSize is the fixed page size of the My Tasks listings.
const taskPageSize = 10

// LeadSource is the slice of the leads module the aggregator consumes.
type LeadSource interface {
	Summary(ctx context.Context, employeeID int64) (workflow.SummaryCounts, error)
	ListForEmployee(ctx context.Context, employeeID int64, req leadstransport.ListLeadsRequest) (leadstransport.LeadListResponse, error)
}

// JobSource is the slice of the jobs module the aggregator consumes.
type JobSource interface {
	Summary(ctx context.Context, employeeID int64) (workflow.SummaryCounts, error)
	ListForEmployee(ctx context.Context, employeeID int64, req jobstransport.ListJobsRequest) (jobstransport.JobListResponse, error)
}

// Service composes lead and job views for one employee.
type Service struct {
	leads LeadSource
	jobs  JobSource
	cache *OverviewCache
	log   *logger.Logger
}

// New creates the My Tasks service.
func New(leads LeadSource, jobs JobSource, cache *OverviewCache, log *logger.Logger) *Service {
	return &Service{leads: leads, jobs: jobs, cache: cache, log: log}
}

// Overview returns the employee's lead and job buckets. The two summaries are
// queried concurrently; results are cached per employee for a short TTL.
func (s *Service) Overview(ctx context.Context, employeeID int64) (transport.OverviewResponse, error) {
	if cached, ok := s.cache.Get(ctx, employeeID); ok {
		return cached, nil
	}

	var overview transport.OverviewResponse
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		counts, err := s.leads.Summary(gctx, employeeID)
		if err != nil {
			return err
		}
		overview.Leads = counts
		return nil
	})
	g.Go(func() error {
		counts, err := s.jobs.Summary(gctx, employeeID)
		if err != nil {
			return err
		}
		overview.Jobs = counts
		return nil
	})
	if err := g.Wait(); err != nil {
		return transport.OverviewResponse{}, err
	}

	s.cache.Set(ctx, employeeID, overview)
	return overview, nil
}

// InvalidateOverview drops the employee's cached overview. Wired to the
// status and assignment events so reads after a write see fresh counts.
func (s *Service) InvalidateOverview(ctx context.Context, employeeID int64) {
	s.cache.Invalidate(ctx, employeeID)
}

// MyLeads lists the employee's leads at the fixed task page size.
func (s *Service) MyLeads(ctx context.Context, employeeID int64, req leadstransport.ListLeadsRequest) (leadstransport.LeadListResponse, error) {
	req.Limit = taskPageSize
	return s.leads.ListForEmployee(ctx, employeeID, req)
}

// MyJobs lists the employee's jobs at the fixed task page size.
func (s *Service) MyJobs(ctx context.Context, employeeID int64, req jobstransport.ListJobsRequest) (jobstransport.JobListResponse, error) {
	req.Limit = taskPageSize
	return s.jobs.ListForEmployee(ctx, employeeID, req)
}
