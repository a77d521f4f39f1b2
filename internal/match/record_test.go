package match

import (
	"encoding/json"
	"os"
	"testing"
)

func TestTierFor(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{score: 0.92, want: "Excellent"},
		{score: 0.85, want: "Excellent"},
		{score: 0.84, want: "Strong"},
		{score: 0.70, want: "Strong"},
		{score: 0.69, want: "Good"},
		{score: 0.55, want: "Good"},
		{score: 0.54, want: "Fair"},
		{score: 0.40, want: "Fair"},
		{score: 0.39, want: "Weak"},
		{score: 0, want: "Weak"},
	}

	for _, tc := range cases {
		if got := TierFor(tc.score); got != tc.want {
			t.Fatalf("TierFor(%.2f) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestParseJobType(t *testing.T) {
	cases := []struct {
		in   string
		want JobType
	}{
		{in: "federal", want: JobTypeFederal},
		{in: "Federal", want: JobTypeFederal},
		{in: "military", want: JobTypeMilitary},
		{in: "contractor", want: JobTypeContractor},
		{in: "private", want: JobTypePrivate},
		{in: "", want: ""},
		// Employment types are not sector labels and must not leak in.
		{in: "full_time", want: ""},
		{in: "internship", want: ""},
	}

	for _, tc := range cases {
		if got := ParseJobType(tc.in); got != tc.want {
			t.Fatalf("ParseJobType(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestExperienceBucketContains(t *testing.T) {
	cases := []struct {
		bucket ExperienceBucket
		years  int
		want   bool
	}{
		{bucket: ExperienceEntry, years: 0, want: true},
		{bucket: ExperienceEntry, years: 2, want: true},
		{bucket: ExperienceEntry, years: 3, want: false},
		{bucket: ExperienceMid, years: 3, want: true},
		{bucket: ExperienceMid, years: 5, want: true},
		{bucket: ExperienceSenior, years: 6, want: true},
		{bucket: ExperienceSenior, years: 9, want: true},
		{bucket: ExperienceSenior, years: 10, want: false},
		{bucket: ExperienceExpert, years: 10, want: true},
		{bucket: ExperienceExpert, years: 25, want: true},
	}

	for _, tc := range cases {
		if got := tc.bucket.Contains(tc.years); got != tc.want {
			t.Fatalf("%s.Contains(%d) = %v, want %v", tc.bucket, tc.years, got, tc.want)
		}
	}
}

func TestFindByID(t *testing.T) {
	records := scenarioRecords()

	if got := records.FindByID("b"); got == nil || got.Company != "Northrop Grumman" {
		t.Fatalf("expected record b, got %+v", got)
	}
	if got := records.FindByID("missing"); got != nil {
		t.Fatalf("expected nil for an unknown id, got %+v", got)
	}
}

func TestMissingSkillSetIsDistinctAndOrdered(t *testing.T) {
	records := &Records{Items: []*Record{
		{ID: "a", MissingSkills: []string{"Kubernetes", "Terraform"}},
		{ID: "b", MissingSkills: []string{"Terraform", "AWS"}},
		{ID: "c"},
	}}

	got := records.MissingSkillSet()

	want := []string{"Kubernetes", "Terraform", "AWS"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestReportByCompany(t *testing.T) {
	records := &Records{Items: []*Record{
		{ID: "a", Title: "Senior AI Engineer", Company: "Defense AI Systems", Tier: "Excellent"},
		{ID: "b", Title: "ML Engineer", Company: "Defense AI Systems", Tier: "Strong"},
		{ID: "c", Title: "Cloud Architect", Company: "AWS Federal", Tier: "Good"},
	}}

	report := records.ReportByCompany()

	if len(report) != 2 {
		t.Fatalf("expected 2 companies, got %d", len(report))
	}
	if len(report["Defense AI Systems"]) != 2 {
		t.Fatalf("expected 2 entries for Defense AI Systems, got %d", len(report["Defense AI Systems"]))
	}
	entry := report["AWS Federal"][0]
	if entry["title"] != "Cloud Architect" || entry["tier"] != "Good" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestDumpToTmpFile(t *testing.T) {
	records := scenarioRecords()

	path, err := records.DumpToTmpFile()
	if err != nil {
		t.Fatalf("dumping records: %v", err)
	}
	defer os.Remove(path)

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading dump: %v", err)
	}

	var back Records
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("parsing dump: %v", err)
	}
	if back.Len() != records.Len() {
		t.Fatalf("expected %d records in dump, got %d", records.Len(), back.Len())
	}
}
