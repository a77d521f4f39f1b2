package match

import (
	"fmt"
	"strings"
)

// Filters is the complete set of user-chosen narrowing criteria for one
// results session. A zero-restriction state (see Defaults) passes every
// record. Filters are replaced wholesale on change, never mutated in place
// by the pipeline.
type Filters struct {
	// MinScore and MaxScore bound the composite match score, inclusive on
	// both ends.
	MinScore int
	MaxScore int

	// Empty allow-lists mean "no restriction".
	Clearances []Clearance
	JobTypes   []JobType
	Locations  []string

	// SalaryMin and SalaryMax bound the posting's annual salary range.
	// Zero means unbounded on that side.
	SalaryMin int
	SalaryMax int

	// Remote is a tri-state: nil leaves remote status unconstrained.
	Remote *bool

	Experience []ExperienceBucket

	// Query is the free-text search used by the browse flow. The
	// per-resume results flow leaves it empty.
	Query string
}

// Defaults returns the all-permissive filter state every session starts
// with.
func Defaults() *Filters {
	return &Filters{MinScore: 0, MaxScore: 100}
}

// Validate rejects states that cannot describe a range.
func (f *Filters) Validate() error {
	if f == nil {
		return fmt.Errorf("filters are required")
	}
	if f.MinScore < 0 || f.MaxScore > 100 {
		return fmt.Errorf("score bounds must stay within [0,100], got [%d,%d]", f.MinScore, f.MaxScore)
	}
	if f.MinScore > f.MaxScore {
		return fmt.Errorf("minimum score %d exceeds maximum score %d", f.MinScore, f.MaxScore)
	}
	if f.SalaryMin < 0 || f.SalaryMax < 0 {
		return fmt.Errorf("salary bounds must not be negative")
	}
	if f.SalaryMin > 0 && f.SalaryMax > 0 && f.SalaryMin > f.SalaryMax {
		return fmt.Errorf("minimum salary %d exceeds maximum salary %d", f.SalaryMin, f.SalaryMax)
	}
	return nil
}

// Matches reports whether a single record satisfies every active criterion.
// Predicates are independent and evaluated as a short-circuiting
// conjunction.
func (f *Filters) Matches(r *Record) bool {
	if f == nil {
		return true
	}
	if r == nil {
		return false
	}
	return f.scoreMatch(r) &&
		f.clearanceMatch(r) &&
		f.jobTypeMatch(r) &&
		f.locationMatch(r) &&
		f.remoteMatch(r) &&
		f.queryMatch(r) &&
		f.experienceMatch(r) &&
		f.salaryMatch(r)
}

// ActiveCount reports how many criteria differ from their defaults.
func (f *Filters) ActiveCount() int {
	if f == nil {
		return 0
	}
	count := 0
	if f.MinScore != 0 || f.MaxScore != 100 {
		count++
	}
	if len(f.Clearances) > 0 {
		count++
	}
	if len(f.JobTypes) > 0 {
		count++
	}
	if len(f.Locations) > 0 {
		count++
	}
	if f.SalaryMin != 0 || f.SalaryMax != 0 {
		count++
	}
	if f.Remote != nil {
		count++
	}
	if len(f.Experience) > 0 {
		count++
	}
	if strings.TrimSpace(f.Query) != "" {
		count++
	}
	return count
}

func (f *Filters) scoreMatch(r *Record) bool {
	return r.MatchScore >= f.MinScore && r.MatchScore <= f.MaxScore
}

func (f *Filters) clearanceMatch(r *Record) bool {
	if len(f.Clearances) == 0 {
		return true
	}
	for _, c := range f.Clearances {
		if r.Clearance == c {
			return true
		}
	}
	return false
}

func (f *Filters) jobTypeMatch(r *Record) bool {
	if len(f.JobTypes) == 0 {
		return true
	}
	// A record without a sector label passes only the empty allow-list.
	if r.JobType == "" {
		return false
	}
	for _, jt := range f.JobTypes {
		if r.JobType == jt {
			return true
		}
	}
	return false
}

// locationMatch uses one rule for every call site: the record's location
// must start with the entry's first comma-delimited segment, compared
// case-insensitively. "Arlington, VA" therefore also admits
// "Arlington, VA 22201".
func (f *Filters) locationMatch(r *Record) bool {
	if len(f.Locations) == 0 {
		return true
	}
	loc := strings.ToLower(strings.TrimSpace(r.Location))
	for _, entry := range f.Locations {
		prefix := entry
		if i := strings.Index(prefix, ","); i >= 0 {
			prefix = prefix[:i]
		}
		prefix = strings.ToLower(strings.TrimSpace(prefix))
		if prefix == "" {
			continue
		}
		if strings.HasPrefix(loc, prefix) {
			return true
		}
	}
	return false
}

func (f *Filters) remoteMatch(r *Record) bool {
	return f.Remote == nil || r.IsRemote == *f.Remote
}

func (f *Filters) queryMatch(r *Record) bool {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(r.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(r.Company), q) {
		return true
	}
	for _, skill := range r.MatchedSkills {
		if strings.Contains(strings.ToLower(skill), q) {
			return true
		}
	}
	return false
}

func (f *Filters) experienceMatch(r *Record) bool {
	if len(f.Experience) == 0 {
		return true
	}
	for _, bucket := range f.Experience {
		if bucket.Contains(r.MinExperienceYears) {
			return true
		}
	}
	return false
}

// salaryMatch checks that the record's salary range overlaps the requested
// bounds. A record missing one side of its range is treated as open on that
// side: the display-string parse recovers only the upper figure, and a
// floor-only posting has no ceiling. Records with no salary information at
// all pass only when both bounds are unset.
func (f *Filters) salaryMatch(r *Record) bool {
	if f.SalaryMin == 0 && f.SalaryMax == 0 {
		return true
	}
	lo, hi := r.SalaryMin, r.SalaryMax
	if lo == 0 && hi == 0 {
		hi = parseSalaryUpper(r.Salary)
		if hi == 0 {
			return false
		}
	}
	if f.SalaryMin > 0 && hi > 0 && hi < f.SalaryMin {
		return false
	}
	if f.SalaryMax > 0 && lo > f.SalaryMax {
		return false
	}
	return true
}
