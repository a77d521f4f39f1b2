package match

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// SortMode selects the total order for a results view.
type SortMode string

const (
	SortBestMatch     SortMode = "best-match"
	SortHighestSalary SortMode = "highest-salary"
	SortMostRecent    SortMode = "most-recent"
)

// maxAgeHours is the sentinel for records without a parsable recency
// string: they sort as maximally old.
const maxAgeHours = int(^uint(0) >> 1)

// ParseSortMode resolves a sort-mode token. The empty string selects the
// default best-match order.
func ParseSortMode(s string) (SortMode, error) {
	trimmed := strings.ToLower(strings.TrimSpace(s))
	if trimmed == "" {
		return SortBestMatch, nil
	}

	switch SortMode(trimmed) {
	case SortBestMatch:
		return SortBestMatch, nil
	case SortHighestSalary:
		return SortHighestSalary, nil
	case SortMostRecent:
		return SortMostRecent, nil
	}
	return "", fmt.Errorf("unknown sort mode %q (known: best-match, highest-salary, most-recent)", s)
}

// Sorted returns a new collection ordered by the given mode. All modes are
// stable: records with equal keys keep their relative input order. The
// receiver is never mutated.
func (r *Records) Sorted(mode SortMode) *Records {
	sorted := &Records{Items: make([]*Record, r.Len())}
	if r == nil {
		return sorted
	}
	copy(sorted.Items, r.Items)

	switch mode {
	case SortHighestSalary:
		sort.SliceStable(sorted.Items, func(i, j int) bool {
			return sorted.Items[i].salaryUpper() > sorted.Items[j].salaryUpper()
		})
	case SortMostRecent:
		sort.SliceStable(sorted.Items, func(i, j int) bool {
			return sorted.Items[i].ageHours() < sorted.Items[j].ageHours()
		})
	default: // SortBestMatch
		sort.SliceStable(sorted.Items, func(i, j int) bool {
			return sorted.Items[i].MatchScore > sorted.Items[j].MatchScore
		})
	}
	return sorted
}

// salaryUpper is the sort key for highest-salary mode: the structured upper
// bound when the record has one, otherwise the parsed display string.
func (r *Record) salaryUpper() int {
	if r.SalaryMax > 0 {
		return r.SalaryMax
	}
	if r.SalaryMin > 0 {
		return r.SalaryMin
	}
	return parseSalaryUpper(r.Salary)
}

// parseSalaryUpper extracts the trailing numeric group from the upper bound
// token of a free-text range ("$140k - $180k" yields 180). This is a
// best-effort parse over display text; unparsable strings yield 0 rather
// than an error.
func parseSalaryUpper(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if i := strings.LastIndex(s, "-"); i >= 0 {
		s = s[i+1:]
	}
	// Digit grouping is display noise ("160,000").
	s = strings.ReplaceAll(s, ",", "")

	value, inNumber := 0, false
	last := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			value = value*10 + int(r-'0')
			inNumber = true
			continue
		}
		if inNumber {
			last = value
			value, inNumber = 0, false
		}
	}
	if inNumber {
		last = value
	}
	return last
}

// ageHours is the sort key for most-recent mode, derived from the relative
// recency string. Records without one sort last.
func (r *Record) ageHours() int {
	if hours, ok := parsePostedAge(r.PostedAt); ok {
		return hours
	}
	return maxAgeHours
}

// parsePostedAge converts a recency string to hours: "N hour(s)" is N,
// "N day(s)" is N*24, "N week(s)" is N*168.
func parsePostedAge(s string) (int, bool) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	if len(fields) < 2 {
		return 0, false
	}

	n := 0
	for _, r := range fields[0] {
		if !unicode.IsDigit(r) {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}

	switch {
	case strings.HasPrefix(fields[1], "hour"):
		return n, true
	case strings.HasPrefix(fields[1], "day"):
		return n * 24, true
	case strings.HasPrefix(fields[1], "week"):
		return n * 168, true
	}
	return 0, false
}
