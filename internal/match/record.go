package match

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// JobType is the hiring sector of a posting. Records synthesized from
// postings that carry no sector label leave it empty.
type JobType string

const (
	JobTypeFederal    JobType = "federal"
	JobTypeMilitary   JobType = "military"
	JobTypeContractor JobType = "contractor"
	JobTypePrivate    JobType = "private"
)

// ParseJobType resolves a job-type token. Unknown values resolve to the
// empty type so loose wire data degrades instead of failing.
func ParseJobType(s string) JobType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "federal":
		return JobTypeFederal
	case "military":
		return JobTypeMilitary
	case "contractor":
		return JobTypeContractor
	case "private":
		return JobTypePrivate
	}
	return ""
}

// ParseJobTypeStrict rejects unknown tokens. Used for user configuration.
func ParseJobTypeStrict(s string) (JobType, error) {
	jt := ParseJobType(s)
	if jt == "" {
		return "", fmt.Errorf("unknown job type %q (known: federal, military, contractor, private)", s)
	}
	return jt, nil
}

// ExperienceBucket groups jobs by the minimum years of experience they ask
// for.
type ExperienceBucket string

const (
	ExperienceEntry  ExperienceBucket = "entry"  // 0-2 years
	ExperienceMid    ExperienceBucket = "mid"    // 3-5 years
	ExperienceSenior ExperienceBucket = "senior" // 6-9 years
	ExperienceExpert ExperienceBucket = "expert" // 10+ years
)

// Contains reports whether the bucket covers the given minimum-experience
// requirement.
func (b ExperienceBucket) Contains(years int) bool {
	if years < 0 {
		years = 0
	}
	switch b {
	case ExperienceEntry:
		return years <= 2
	case ExperienceMid:
		return years >= 3 && years <= 5
	case ExperienceSenior:
		return years >= 6 && years <= 9
	case ExperienceExpert:
		return years >= 10
	}
	return false
}

// ParseExperienceBucket rejects unknown tokens. Used for user configuration.
func ParseExperienceBucket(s string) (ExperienceBucket, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "entry":
		return ExperienceEntry, nil
	case "mid":
		return ExperienceMid, nil
	case "senior":
		return ExperienceSenior, nil
	case "expert":
		return ExperienceExpert, nil
	}
	return "", fmt.Errorf("unknown experience bucket %q (known: entry, mid, senior, expert)", s)
}

// TierFor labels a raw composite score fraction the way the matcher service
// does. Used as a fallback when the wire payload omits the tier.
func TierFor(score float64) string {
	switch {
	case score >= 0.85:
		return "Excellent"
	case score >= 0.70:
		return "Strong"
	case score >= 0.55:
		return "Good"
	case score >= 0.40:
		return "Fair"
	default:
		return "Weak"
	}
}

// Record is one job opportunity scored against one resume. All producers
// (the enricher, the browse synthesizer, test fixtures) build this exact
// shape; nothing downstream re-derives scores.
type Record struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location,omitempty"`

	// Salary is the display string. SalaryMin and SalaryMax carry the
	// structured annual-USD range when the posting has one; zero means
	// unknown, and filtering then falls back to parsing Salary.
	Salary    string `json:"salary,omitempty"`
	SalaryMin int    `json:"salary_min,omitempty"`
	SalaryMax int    `json:"salary_max,omitempty"`

	// Scores are integer percentages in [0,100]. MatchScore is the
	// service-computed composite and is never recomputed here.
	MatchScore      int    `json:"match_score"`
	SemanticScore   int    `json:"semantic_score"`
	SkillScore      int    `json:"skill_score"`
	ExperienceScore int    `json:"experience_score"`
	Tier            string `json:"tier,omitempty"`

	Clearance     Clearance `json:"clearance"`
	MatchedSkills []string  `json:"matched_skills,omitempty"`
	MissingSkills []string  `json:"missing_skills,omitempty"`
	Explanation   string    `json:"explanation,omitempty"`

	IsRemote           bool    `json:"is_remote"`
	JobType            JobType `json:"job_type,omitempty"`
	MinExperienceYears int     `json:"min_experience_years,omitempty"`

	// PostedAt is the relative recency string shown to the user
	// ("2 days ago"). Empty when the posting carries no timestamp.
	PostedAt string `json:"posted_at,omitempty"`
}

// Records is an ordered match collection. Order is the rank order assigned
// by the matcher service until a sort mode reorders a copy.
type Records struct {
	Items []*Record `json:"items"`
}

func (r *Records) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Items)
}

func (r *Records) FindByID(id string) *Record {
	if r == nil {
		return nil
	}
	for _, record := range r.Items {
		if record.ID == id {
			return record
		}
	}
	return nil
}

// Filter returns a fresh collection holding the records that pass every
// active criterion, in their original relative order. The receiver is never
// mutated.
func (r *Records) Filter(f *Filters) *Records {
	filtered := &Records{Items: make([]*Record, 0, r.Len())}
	if r == nil {
		return filtered
	}
	for _, record := range r.Items {
		if f.Matches(record) {
			filtered.Items = append(filtered.Items, record)
		}
	}
	return filtered
}

// MissingSkillSet returns every distinct missing skill across the whole
// collection in first-seen order. It feeds the upskilling panel, so it runs
// over the pre-filter collection by design of the caller.
func (r *Records) MissingSkillSet() []string {
	if r == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var skills []string
	for _, record := range r.Items {
		for _, skill := range record.MissingSkills {
			if _, ok := seen[skill]; ok {
				continue
			}
			seen[skill] = struct{}{}
			skills = append(skills, skill)
		}
	}
	return skills
}

// ReportByCompany groups the collection into a printable summary keyed by
// company name.
func (r *Records) ReportByCompany() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	if r == nil {
		return report
	}
	for _, record := range r.Items {
		entry := map[string]string{
			"title":       record.Title,
			"location":    record.Location,
			"match_score": strconv.Itoa(record.MatchScore),
			"clearance":   record.Clearance.String(),
		}
		if record.Tier != "" {
			entry["tier"] = record.Tier
		}
		if record.Salary != "" {
			entry["salary"] = record.Salary
		}
		if record.PostedAt != "" {
			entry["posted"] = record.PostedAt
		}
		report[record.Company] = append(report[record.Company], entry)
	}
	return report
}

// DumpToTmpFile writes the collection as indented JSON to a temp file and
// returns its name.
func (r *Records) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "matches_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	return file.Name(), nil
}
