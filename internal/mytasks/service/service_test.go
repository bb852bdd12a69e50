package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	jobstransport "solarfield_backend/internal/jobs/transport"
	leadstransport "solarfield_backend/internal/leads/transport"
	"solarfield_backend/internal/workflow"
	"solarfield_backend/platform/logger"
)

type fakeLeadSource struct {
	summaryCalls int
	counts       workflow.SummaryCounts
	listLimit    int
}

func (f *fakeLeadSource) Summary(_ context.Context, _ int64) (workflow.SummaryCounts, error) {
	f.summaryCalls++
	return f.counts, nil
}

func (f *fakeLeadSource) ListForEmployee(_ context.Context, _ int64, req leadstransport.ListLeadsRequest) (leadstransport.LeadListResponse, error) {
	f.listLimit = req.Limit
	return leadstransport.LeadListResponse{}, nil
}

type fakeJobSource struct {
	summaryCalls int
	counts       workflow.SummaryCounts
	listLimit    int
}

func (f *fakeJobSource) Summary(_ context.Context, _ int64) (workflow.SummaryCounts, error) {
	f.summaryCalls++
	return f.counts, nil
}

func (f *fakeJobSource) ListForEmployee(_ context.Context, _ int64, req jobstransport.ListJobsRequest) (jobstransport.JobListResponse, error) {
	f.listLimit = req.Limit
	return jobstransport.JobListResponse{}, nil
}

func newCacheOnMiniredis(t *testing.T, ttl time.Duration) *OverviewCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewOverviewCache(client, ttl, logger.NewNop())
}

func TestOverviewAggregatesBuckets(t *testing.T) {
	leads := &fakeLeadSource{counts: workflow.SummaryCounts{Assigned: 3, Ongoing: 2, Closed: 1, Total: 6}}
	jobs := &fakeJobSource{counts: workflow.SummaryCounts{Assigned: 1, Ongoing: 1, Closed: 0, Total: 2}}
	svc := New(leads, jobs, nil, logger.NewNop())

	overview, err := svc.Overview(context.Background(), 7)
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if overview.Leads.Assigned != 3 || overview.Leads.Ongoing != 2 || overview.Leads.Closed != 1 || overview.Leads.Total != 6 {
		t.Errorf("lead buckets = %+v", overview.Leads)
	}
	if overview.Jobs.Total != 2 {
		t.Errorf("job buckets = %+v", overview.Jobs)
	}
}

func TestOverviewServedFromCacheUntilInvalidated(t *testing.T) {
	leads := &fakeLeadSource{counts: workflow.SummaryCounts{Assigned: 3, Total: 3}}
	jobs := &fakeJobSource{}
	svc := New(leads, jobs, newCacheOnMiniredis(t, time.Minute), logger.NewNop())

	ctx := context.Background()
	if _, err := svc.Overview(ctx, 7); err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if _, err := svc.Overview(ctx, 7); err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if leads.summaryCalls != 1 || jobs.summaryCalls != 1 {
		t.Errorf("summary calls with warm cache = %d/%d, want 1/1", leads.summaryCalls, jobs.summaryCalls)
	}

	svc.InvalidateOverview(ctx, 7)
	if _, err := svc.Overview(ctx, 7); err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if leads.summaryCalls != 2 {
		t.Errorf("summary calls after invalidation = %d, want 2", leads.summaryCalls)
	}
}

func TestOverviewCacheIsPerEmployee(t *testing.T) {
	leads := &fakeLeadSource{}
	jobs := &fakeJobSource{}
	svc := New(leads, jobs, newCacheOnMiniredis(t, time.Minute), logger.NewNop())

	ctx := context.Background()
	if _, err := svc.Overview(ctx, 7); err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if _, err := svc.Overview(ctx, 8); err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if leads.summaryCalls != 2 {
		t.Errorf("summary calls = %d, want one per employee", leads.summaryCalls)
	}
}

func TestTaskListingsUseFixedPageSize(t *testing.T) {
	leads := &fakeLeadSource{}
	jobs := &fakeJobSource{}
	svc := New(leads, jobs, nil, logger.NewNop())

	ctx := context.Background()
	if _, err := svc.MyLeads(ctx, 7, leadstransport.ListLeadsRequest{Limit: 50}); err != nil {
		t.Fatalf("MyLeads: %v", err)
	}
	if _, err := svc.MyJobs(ctx, 7, jobstransport.ListJobsRequest{Limit: 50}); err != nil {
		t.Fatalf("MyJobs: %v", err)
	}
	if leads.listLimit != 10 {
		t.Errorf("lead listing limit = %d, want 10", leads.listLimit)
	}
	if jobs.listLimit != 10 {
		t.Errorf("job listing limit = %d, want 10", jobs.listLimit)
	}
}
