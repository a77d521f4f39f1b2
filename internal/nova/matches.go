package nova

import (
	"fmt"

	"go.uber.org/zap"
)

type MatchList struct {
	ResumeID     string      `json:"resume_id"`
	TotalMatches int         `json:"total_matches"`
	Items        []*RawMatch `json:"matches"`
}

// RawMatch is a single scored pairing as the matcher returns it. Scores
// are fractions in [0, 1]; presentation scaling happens downstream.
type RawMatch struct {
	MatchID         string         `json:"match_id"`
	ResumeID        string         `json:"resume_id"`
	JobID           string         `json:"job_id"`
	FinalScore      float64        `json:"final_score"`
	SemanticScore   float64        `json:"semantic_score"`
	SkillScore      float64        `json:"skill_score"`
	ExperienceScore float64        `json:"experience_score"`
	MatchTier       string         `json:"match_tier"`
	Explainability  Explainability `json:"explainability"`
}

type Explainability struct {
	MatchedSkills          []string `json:"matched_skills"`
	MissingRequiredSkills  []string `json:"missing_required_skills"`
	MissingPreferredSkills []string `json:"missing_preferred_skills"`
	SkillMatchPercentage   float64  `json:"skill_match_percentage"`
	SemanticSimilarity     float64  `json:"semantic_similarity"`
	ExperienceMatch        string   `json:"experience_match,omitempty"`
	EducationMatch         string   `json:"education_match,omitempty"`
	ExplanationText        string   `json:"explanation_text,omitempty"`
}

// ResumeMatches asks the matcher for the top scored jobs for a parsed
// resume. The limit is clamped to the API's accepted range.
func (c *Client) ResumeMatches(resumeID string, limit int) (*MatchList, error) {
	if resumeID == "" {
		return nil, fmt.Errorf("resume id is required")
	}

	if limit <= 0 {
		limit = defaultMatchLimit
	}
	if limit > maxMatchLimit {
		limit = maxMatchLimit
	}

	var list MatchList
	resp, err := c.http.R().
		SetContext(c.ctx).
		SetBody(map[string]any{"resume_id": resumeID, "limit": limit}).
		SetResult(&list).
		Post("/api/v1/match/resume-matches")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}

	c.logger.Debug("got matches from NOVA", zap.Int("total", list.TotalMatches))

	return &list, nil
}

func (m *MatchList) Len() int {
	return len(m.Items)
}

// MissingSkills joins the required and preferred gaps, required first.
func (r *RawMatch) MissingSkills() []string {
	missing := make([]string, 0, len(r.Explainability.MissingRequiredSkills)+len(r.Explainability.MissingPreferredSkills))
	missing = append(missing, r.Explainability.MissingRequiredSkills...)
	missing = append(missing, r.Explainability.MissingPreferredSkills...)

	return missing
}
