package enrich

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/Lingikaushikreddy/nova-matches/internal/match"
	"github.com/Lingikaushikreddy/nova-matches/internal/nova"
	"go.uber.org/zap"
)

const (
	defaultLimit   = 10
	defaultWorkers = 10
)

// now is a variable so tests can pin the clock.
var now = time.Now

// API is the slice of the NOVA client the enricher needs.
type API interface {
	ResumeMatches(resumeID string, limit int) (*nova.MatchList, error)
	GetJob(jobID string) (*nova.Job, error)
	ListJobs(limit int) (*nova.JobList, error)
}

// JobCache stores fetched postings between runs. A nil cache disables
// caching.
type JobCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any) error
}

// Enricher turns raw match results into display records by joining each
// match with its posting's details.
type Enricher struct {
	api    API
	cache  JobCache
	logger *zap.Logger

	// Limit caps how many matches are requested per resume.
	Limit int
	// Workers bounds concurrent posting fetches.
	Workers int
}

func New(api API, logger *zap.Logger) *Enricher {
	return &Enricher{
		api:     api,
		logger:  logger,
		Limit:   defaultLimit,
		Workers: defaultWorkers,
	}
}

func (e *Enricher) SetCache(c JobCache) {
	e.cache = c
}

// Enrich fetches the top matches for a resume and joins each one with
// its posting. Matches whose posting cannot be fetched are dropped, the
// rest keep the matcher's order.
func (e *Enricher) Enrich(ctx context.Context, resumeID string) (*match.Records, error) {
	list, err := e.api.ResumeMatches(resumeID, e.Limit)
	if err != nil {
		return nil, fmt.Errorf("requesting matches: %w", err)
	}

	slots := make([]*match.Record, list.Len())
	e.fanOut(ctx, list.Len(), func(idx int) {
		slots[idx] = e.buildRecord(ctx, list.Items[idx])
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records := collectRecords(slots)
	e.logger.Info("enrichment step",
		zap.Int("initial", list.Len()),
		zap.Int("dropped", list.Len()-records.Len()),
		zap.Int("left", records.Len()),
	)

	return records, nil
}

// EnrichJobs builds records straight from the job catalog, with no match
// scores attached. Used for browsing without a resume. The catalog list
// carries only headline fields, so each posting's details are fetched
// through the same bounded fan-out as Enrich; jobs whose details cannot
// be fetched are dropped.
func (e *Enricher) EnrichJobs(ctx context.Context, limit int) (*match.Records, error) {
	list, err := e.api.ListJobs(limit)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}

	slots := make([]*match.Record, list.Len())
	e.fanOut(ctx, list.Len(), func(idx int) {
		job, err := e.lookupJob(ctx, list.Items[idx].ID)
		if err != nil {
			e.logger.Warn("fetching job details failed. It will be skipped.",
				zap.String("job_id", list.Items[idx].ID),
				zap.Error(err),
			)

			return
		}
		slots[idx] = jobRecord(job)
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records := collectRecords(slots)
	e.logger.Info("job catalog loaded",
		zap.Int("initial", list.Len()),
		zap.Int("dropped", list.Len()-records.Len()),
		zap.Int("left", records.Len()),
	)

	return records, nil
}

// fanOut runs work(idx) for every index through the bounded worker pool,
// stopping the feed once ctx is canceled. Workers never outnumber tasks.
func (e *Enricher) fanOut(ctx context.Context, n int, work func(idx int)) {
	workers := e.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	if workers > n {
		workers = n
	}
	if workers == 0 {
		return
	}

	tasks := make(chan int)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for idx := range tasks {
				work(idx)
			}
		}()
	}

feed:
	for idx := 0; idx < n; idx++ {
		select {
		case <-ctx.Done():
			break feed
		case tasks <- idx:
		}
	}
	close(tasks)
	wg.Wait()
}

// collectRecords compacts the fan-out result, keeping input order and
// skipping dropped slots.
func collectRecords(slots []*match.Record) *match.Records {
	records := &match.Records{}
	for _, record := range slots {
		if record != nil {
			records.Items = append(records.Items, record)
		}
	}

	return records
}

func (e *Enricher) buildRecord(ctx context.Context, raw *nova.RawMatch) *match.Record {
	job, err := e.lookupJob(ctx, raw.JobID)
	if err != nil {
		e.logger.Warn("fetching job details failed. It will be skipped.",
			zap.String("job_id", raw.JobID),
			zap.Error(err),
		)

		return nil
	}

	record := jobRecord(job)
	record.MatchScore = scorePercent(raw.FinalScore)
	record.SemanticScore = scorePercent(raw.SemanticScore)
	record.SkillScore = scorePercent(raw.SkillScore)
	record.ExperienceScore = scorePercent(raw.ExperienceScore)
	record.Tier = raw.MatchTier
	if record.Tier == "" {
		record.Tier = match.TierFor(raw.FinalScore)
	}
	record.MatchedSkills = raw.Explainability.MatchedSkills
	record.MissingSkills = raw.MissingSkills()
	record.Explanation = raw.Explainability.ExplanationText

	return record
}

func (e *Enricher) lookupJob(ctx context.Context, jobID string) (*nova.Job, error) {
	key := "job:" + jobID

	if e.cache != nil {
		var cached nova.Job
		if ok, err := e.cache.GetJSON(ctx, key, &cached); err == nil && ok {
			return &cached, nil
		}
	}

	job, err := e.api.GetJob(jobID)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		_ = e.cache.SetJSON(ctx, key, job)
	}

	return job, nil
}

func jobRecord(job *nova.Job) *match.Record {
	data := job.Data

	record := &match.Record{
		ID:        job.ID,
		Title:     job.Title,
		Company:   job.Company,
		Location:  job.Location,
		Salary:    data.SalaryDisplay(),
		Clearance: match.ParseClearance(data.ClearanceString()),
		IsRemote:  data.RemoteFlag(),
	}

	posted := job.CreatedAt
	if data != nil {
		record.SalaryMin = data.SalaryMin
		record.SalaryMax = data.SalaryMax
		record.MinExperienceYears = data.MinExperienceYears
		record.JobType = match.ParseJobType(data.JobType)
		if data.PostedDate != "" {
			posted = data.PostedDate
		}
	}
	record.PostedAt = recencyLabel(posted)

	return record
}

// scorePercent converts a fractional score to a whole percentage,
// rounding half up and clamping to [0, 100].
func scorePercent(f float64) int {
	p := int(math.Round(f * 100))
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}

	return p
}

// recencyLabel renders a timestamp as "N hours/days/weeks ago". Unknown
// or unparsable input yields an empty label.
func recencyLabel(raw string) string {
	t, ok := parseTimestamp(raw)
	if !ok {
		return ""
	}

	hours := int(now().Sub(t).Hours())
	if hours < 1 {
		hours = 1
	}

	switch {
	case hours < 24:
		return agoLabel(hours, "hour")
	case hours < 24*7:
		return agoLabel(hours/24, "day")
	default:
		return agoLabel(hours/(24*7), "week")
	}
}

func agoLabel(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}

	return fmt.Sprintf("%d %ss ago", n, unit)
}

// parseTimestamp accepts RFC 3339 as well as the zone-less variant the
// seeded catalog uses.
func parseTimestamp(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}
