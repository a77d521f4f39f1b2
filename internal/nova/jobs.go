package nova

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

type JobList struct {
	Count int
	Items []*Job
}

type Job struct {
	ID        string
	Title     string
	Company   string
	Location  string
	Data      *JobData
	CreatedAt string
	IsActive  bool
}

// JobData carries the posting attributes nested under job_data. Listings
// arrive in two shapes: parsed postings use numeric salary bounds and
// enum clearance names, seeded postings use display strings. Both key
// sets are mapped here and reconciled by the accessors.
type JobData struct {
	Description        string   `mapstructure:"description"`
	EmploymentType     string   `mapstructure:"employment_type"`
	SalaryMin          int      `mapstructure:"salary_min"`
	SalaryMax          int      `mapstructure:"salary_max"`
	SalaryText         string   `mapstructure:"salary"`
	ClearanceLevel     string   `mapstructure:"clearance_level"`
	ClearanceText      string   `mapstructure:"clearance"`
	IsRemote           bool     `mapstructure:"is_remote"`
	Remote             bool     `mapstructure:"remote"`
	MinExperienceYears int      `mapstructure:"min_experience_years"`
	JobType            string   `mapstructure:"job_type"`
	PostedDate         string   `mapstructure:"posted_date"`
	RequiredSkills     []string `mapstructure:"required_skills"`
	PreferredSkills    []string `mapstructure:"preferred_skills"`
}

// jobEnvelope mirrors the job endpoints' wire layout.
type jobEnvelope struct {
	JobID     string         `json:"job_id"`
	Title     string         `json:"title"`
	Company   string         `json:"company"`
	Location  string         `json:"location"`
	JobData   map[string]any `json:"job_data"`
	CreatedAt string         `json:"created_at"`
	IsActive  bool           `json:"is_active"`
}

type jobListEnvelope struct {
	Count int           `json:"count"`
	Jobs  []jobEnvelope `json:"jobs"`
}

func (c *Client) GetJob(jobID string) (*Job, error) {
	if jobID == "" {
		return nil, fmt.Errorf("job id is required")
	}

	resp, err := c.http.R().
		SetContext(c.ctx).
		Get("/api/v1/jobs/" + jobID)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}

	var envelope jobEnvelope
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return nil, err
	}

	return envelope.toJob()
}

func (c *Client) ListJobs(limit int) (*JobList, error) {
	req := c.http.R().SetContext(c.ctx)
	if limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(limit))
	}

	resp, err := req.Get("/api/v1/jobs/")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}

	var envelope jobListEnvelope
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return nil, err
	}

	list := &JobList{Count: envelope.Count}
	for i := range envelope.Jobs {
		job, err := envelope.Jobs[i].toJob()
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, job)
	}

	c.logger.Debug("got jobs from NOVA", zap.Int("count", list.Count))

	return list, nil
}

func (l *JobList) Len() int {
	return len(l.Items)
}

func (e *jobEnvelope) toJob() (*Job, error) {
	job := &Job{
		ID:        e.JobID,
		Title:     e.Title,
		Company:   e.Company,
		Location:  e.Location,
		CreatedAt: e.CreatedAt,
		IsActive:  e.IsActive,
	}

	if len(e.JobData) > 0 {
		var data JobData
		if err := mapstructure.Decode(e.JobData, &data); err != nil {
			return nil, fmt.Errorf("decoding job_data for %s: %w", e.JobID, err)
		}
		job.Data = &data
	}

	return job, nil
}

// ClearanceString returns whichever clearance key the posting carried.
func (d *JobData) ClearanceString() string {
	if d == nil {
		return ""
	}
	if d.ClearanceLevel != "" {
		return d.ClearanceLevel
	}

	return d.ClearanceText
}

func (d *JobData) RemoteFlag() bool {
	if d == nil {
		return false
	}

	return d.IsRemote || d.Remote
}

// SalaryDisplay prefers the posting's own salary text and falls back to
// formatting the numeric bounds.
func (d *JobData) SalaryDisplay() string {
	if d == nil {
		return ""
	}
	if d.SalaryText != "" {
		return d.SalaryText
	}

	switch {
	case d.SalaryMin > 0 && d.SalaryMax > 0:
		return fmt.Sprintf("%s - %s", dollars(d.SalaryMin), dollars(d.SalaryMax))
	case d.SalaryMin > 0:
		return dollars(d.SalaryMin) + "+"
	case d.SalaryMax > 0:
		return "Up to " + dollars(d.SalaryMax)
	default:
		return ""
	}
}

func dollars(n int) string {
	digits := strconv.Itoa(n)

	var out []byte
	for i := 0; i < len(digits); i++ {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, digits[i])
	}

	return "$" + string(out)
}
