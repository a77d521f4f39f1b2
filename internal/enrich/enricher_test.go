package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Lingikaushikreddy/nova-matches/internal/nova"
	"go.uber.org/zap"
)

type fakeAPI struct {
	matches  *nova.MatchList
	matchErr error
	jobs     map[string]*nova.Job
	jobErrs  map[string]error
	list     *nova.JobList
	listErr  error

	delay       time.Duration
	jobCalls    int32
	inFlight    int32
	maxInFlight int32
}

func (f *fakeAPI) ResumeMatches(resumeID string, limit int) (*nova.MatchList, error) {
	if f.matchErr != nil {
		return nil, f.matchErr
	}

	return f.matches, nil
}

func (f *fakeAPI) GetJob(jobID string) (*nova.Job, error) {
	cur := atomic.AddInt32(&f.inFlight, 1)
	for {
		max := atomic.LoadInt32(&f.maxInFlight)
		if cur <= max || atomic.CompareAndSwapInt32(&f.maxInFlight, max, cur) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	atomic.AddInt32(&f.inFlight, -1)
	atomic.AddInt32(&f.jobCalls, 1)

	if err := f.jobErrs[jobID]; err != nil {
		return nil, err
	}
	job, ok := f.jobs[jobID]
	if !ok {
		return nil, fmt.Errorf("job %s not found", jobID)
	}

	return job, nil
}

func (f *fakeAPI) ListJobs(limit int) (*nova.JobList, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}

	return f.list, nil
}

type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func (c *fakeCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	b, ok := c.data[key]
	if !ok {
		return false, nil
	}

	return true, json.Unmarshal(b, out)
}

func (c *fakeCache) SetJSON(_ context.Context, key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data == nil {
		c.data = make(map[string][]byte)
	}
	c.data[key] = b
	c.sets++

	return nil
}

func rawMatch(jobID string, score float64) *nova.RawMatch {
	return &nova.RawMatch{
		MatchID:       "m-" + jobID,
		ResumeID:      "res-1",
		JobID:         jobID,
		FinalScore:    score,
		SemanticScore: score,
		SkillScore:    score,
	}
}

func fixtureJob(id, title string) *nova.Job {
	return &nova.Job{
		ID:      id,
		Title:   title,
		Company: "Acme Federal",
		Data: &nova.JobData{
			SalaryMin:      120000,
			SalaryMax:      160000,
			ClearanceLevel: "SECRET",
		},
	}
}

func TestEnrichJoinsMatchesWithPostings(t *testing.T) {
	api := &fakeAPI{
		matches: &nova.MatchList{
			ResumeID:     "res-1",
			TotalMatches: 2,
			Items: []*nova.RawMatch{
				{
					MatchID:       "m-1",
					JobID:         "job-1",
					FinalScore:    0.92,
					SemanticScore: 0.875,
					SkillScore:    0.95,
					MatchTier:     "Excellent",
					Explainability: nova.Explainability{
						MatchedSkills:          []string{"Go", "AWS"},
						MissingRequiredSkills:  []string{"Kubernetes"},
						MissingPreferredSkills: []string{"Terraform"},
						ExplanationText:        "Strong skill overlap with the role's core stack.",
					},
				},
				rawMatch("job-2", 0.71),
			},
		},
		jobs: map[string]*nova.Job{
			"job-1": fixtureJob("job-1", "Senior AI Engineer"),
			"job-2": fixtureJob("job-2", "Cloud Architect"),
		},
	}

	records, err := New(api, zap.NewNop()).Enrich(context.Background(), "res-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if records.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", records.Len())
	}

	first := records.Items[0]
	if first.ID != "job-1" || first.Title != "Senior AI Engineer" {
		t.Fatalf("unexpected first record: %+v", first)
	}
	if first.MatchScore != 92 || first.SemanticScore != 88 || first.SkillScore != 95 {
		t.Fatalf("unexpected scaled scores: %d/%d/%d", first.MatchScore, first.SemanticScore, first.SkillScore)
	}
	if first.Tier != "Excellent" {
		t.Fatalf("unexpected tier: %q", first.Tier)
	}
	if first.Salary != "$120,000 - $160,000" {
		t.Fatalf("unexpected salary: %q", first.Salary)
	}
	if got := first.Clearance.String(); got != "Secret" {
		t.Fatalf("unexpected clearance: %q", got)
	}
	if len(first.MissingSkills) != 2 || first.MissingSkills[0] != "Kubernetes" {
		t.Fatalf("unexpected missing skills: %v", first.MissingSkills)
	}
	if first.Explanation == "" {
		t.Fatalf("expected the explanation text to be carried over")
	}

	if records.Items[1].ID != "job-2" {
		t.Fatalf("expected matcher order to be kept, got %s", records.Items[1].ID)
	}
}

func TestEnrichFallsBackToComputedTier(t *testing.T) {
	api := &fakeAPI{
		matches: &nova.MatchList{Items: []*nova.RawMatch{rawMatch("job-1", 0.92)}},
		jobs:    map[string]*nova.Job{"job-1": fixtureJob("job-1", "Engineer")},
	}

	records, err := New(api, zap.NewNop()).Enrich(context.Background(), "res-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := records.Items[0].Tier; got != "Excellent" {
		t.Fatalf("expected computed tier Excellent, got %q", got)
	}
}

func TestEnrichDropsRecordsWithFailedFetches(t *testing.T) {
	api := &fakeAPI{
		matches: &nova.MatchList{Items: []*nova.RawMatch{
			rawMatch("job-1", 0.9),
			rawMatch("job-2", 0.8),
			rawMatch("job-3", 0.7),
		}},
		jobs: map[string]*nova.Job{
			"job-1": fixtureJob("job-1", "First"),
			"job-3": fixtureJob("job-3", "Third"),
		},
		jobErrs: map[string]error{"job-2": errors.New("boom")},
	}

	records, err := New(api, zap.NewNop()).Enrich(context.Background(), "res-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if records.Len() != 2 {
		t.Fatalf("expected the failed record to be dropped, got %d records", records.Len())
	}
	if records.Items[0].ID != "job-1" || records.Items[1].ID != "job-3" {
		t.Fatalf("expected remaining records in order, got %s then %s", records.Items[0].ID, records.Items[1].ID)
	}
}

func TestEnrichPropagatesMatchFailure(t *testing.T) {
	api := &fakeAPI{matchErr: errors.New("matcher down")}

	if _, err := New(api, zap.NewNop()).Enrich(context.Background(), "res-1"); err == nil {
		t.Fatalf("expected an error")
	}
}

func TestEnrichStopsOnCanceledContext(t *testing.T) {
	api := &fakeAPI{
		matches: &nova.MatchList{Items: []*nova.RawMatch{rawMatch("job-1", 0.9)}},
		jobs:    map[string]*nova.Job{"job-1": fixtureJob("job-1", "First")},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New(api, zap.NewNop()).Enrich(ctx, "res-1"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestEnrichBoundsConcurrency(t *testing.T) {
	items := make([]*nova.RawMatch, 0, 6)
	jobs := make(map[string]*nova.Job, 6)
	for i := 0; i < 6; i++ {
		id := fmt.Sprintf("job-%d", i)
		items = append(items, rawMatch(id, 0.5))
		jobs[id] = fixtureJob(id, id)
	}

	api := &fakeAPI{
		matches: &nova.MatchList{Items: items},
		jobs:    jobs,
		delay:   10 * time.Millisecond,
	}

	enricher := New(api, zap.NewNop())
	enricher.Workers = 2

	records, err := enricher.Enrich(context.Background(), "res-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if records.Len() != 6 {
		t.Fatalf("expected 6 records, got %d", records.Len())
	}
	if max := atomic.LoadInt32(&api.maxInFlight); max > 2 {
		t.Fatalf("expected at most 2 concurrent fetches, saw %d", max)
	}
}

func TestEnrichUsesCache(t *testing.T) {
	api := &fakeAPI{
		matches: &nova.MatchList{Items: []*nova.RawMatch{rawMatch("job-1", 0.9)}},
		jobs:    map[string]*nova.Job{"job-1": fixtureJob("job-1", "First")},
	}
	cache := &fakeCache{}

	enricher := New(api, zap.NewNop())
	enricher.SetCache(cache)

	if _, err := enricher.Enrich(context.Background(), "res-1"); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if calls := atomic.LoadInt32(&api.jobCalls); calls != 1 {
		t.Fatalf("expected 1 fetch on a cold cache, got %d", calls)
	}
	if cache.sets != 1 {
		t.Fatalf("expected 1 cache write, got %d", cache.sets)
	}

	records, err := enricher.Enrich(context.Background(), "res-1")
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if calls := atomic.LoadInt32(&api.jobCalls); calls != 1 {
		t.Fatalf("expected the warm cache to skip fetching, got %d calls", calls)
	}
	if records.Items[0].Title != "First" {
		t.Fatalf("unexpected cached record: %+v", records.Items[0])
	}
}

func TestEnrichJobsBuildsScorelessRecords(t *testing.T) {
	restore := now
	now = func() time.Time { return time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC) }
	defer func() { now = restore }()

	// The catalog list carries headline fields only; details come from the
	// per-job fetch.
	api := &fakeAPI{
		list: &nova.JobList{
			Count: 1,
			Items: []*nova.Job{
				{ID: "job-1", Title: "Cloud Architect", Company: "AWS Federal", Location: "Herndon, VA"},
			},
		},
		jobs: map[string]*nova.Job{
			"job-1": {
				ID:       "job-1",
				Title:    "Cloud Architect",
				Company:  "AWS Federal",
				Location: "Herndon, VA",
				Data: &nova.JobData{
					SalaryText:    "$160k - $210k",
					ClearanceText: "Top Secret",
					Remote:        true,
					PostedDate:    "2026-08-23T12:00:00Z",
				},
				CreatedAt: "2026-08-01T00:00:00Z",
			},
		},
	}

	records, err := New(api, zap.NewNop()).EnrichJobs(context.Background(), 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if calls := atomic.LoadInt32(&api.jobCalls); calls != 1 {
		t.Fatalf("expected one detail fetch, got %d", calls)
	}

	record := records.Items[0]
	if record.MatchScore != 0 || record.Tier != "" {
		t.Fatalf("expected scoreless record, got score=%d tier=%q", record.MatchScore, record.Tier)
	}
	if record.Salary != "$160k - $210k" {
		t.Fatalf("unexpected salary: %q", record.Salary)
	}
	if !record.IsRemote {
		t.Fatalf("expected remote record")
	}
	if record.PostedAt != "2 days ago" {
		t.Fatalf("expected posted_date to win over created_at, got %q", record.PostedAt)
	}
}

func TestEnrichJobsDropsFailedDetails(t *testing.T) {
	api := &fakeAPI{
		list: &nova.JobList{
			Count: 3,
			Items: []*nova.Job{
				{ID: "job-1", Title: "First"},
				{ID: "job-2", Title: "Second"},
				{ID: "job-3", Title: "Third"},
			},
		},
		jobs: map[string]*nova.Job{
			"job-1": fixtureJob("job-1", "First"),
			"job-3": fixtureJob("job-3", "Third"),
		},
		jobErrs: map[string]error{"job-2": errors.New("boom")},
	}

	records, err := New(api, zap.NewNop()).EnrichJobs(context.Background(), 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if records.Len() != 2 {
		t.Fatalf("expected the failed job to be dropped, got %d records", records.Len())
	}
	if records.Items[0].ID != "job-1" || records.Items[1].ID != "job-3" {
		t.Fatalf("expected catalog order to be kept, got %s then %s", records.Items[0].ID, records.Items[1].ID)
	}
}

func TestScorePercent(t *testing.T) {
	cases := []struct {
		in   float64
		want int
	}{
		{in: 0.92, want: 92},
		{in: 0.875, want: 88},
		{in: 0.004, want: 0},
		{in: 0.005, want: 1},
		{in: 1.2, want: 100},
		{in: -0.1, want: 0},
	}

	for _, tc := range cases {
		if got := scorePercent(tc.in); got != tc.want {
			t.Fatalf("scorePercent(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestRecencyLabel(t *testing.T) {
	restore := now
	now = func() time.Time { return time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC) }
	defer func() { now = restore }()

	cases := []struct {
		in   string
		want string
	}{
		{in: "2026-08-25T07:00:00Z", want: "5 hours ago"},
		{in: "2026-08-25T11:30:00Z", want: "1 hour ago"},
		{in: "2026-08-23T12:00:00Z", want: "2 days ago"},
		{in: "2026-08-04T12:00:00Z", want: "3 weeks ago"},
		{in: "2026-08-23T12:00:00", want: "2 days ago"},
		{in: "not a date", want: ""},
		{in: "", want: ""},
	}

	for _, tc := range cases {
		if got := recencyLabel(tc.in); got != tc.want {
			t.Fatalf("recencyLabel(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
