package nova

import (
	"fmt"

	"go.uber.org/zap"
)

// SkillGapAnalysis is the matcher's aggregated gap report for one resume:
// the skills the candidate is missing across their top matches, plus
// ready-made upskilling suggestions.
type SkillGapAnalysis struct {
	ResumeID        string      `json:"resume_id"`
	Gaps            []*SkillGap `json:"skill_gaps"`
	Recommendations []string    `json:"recommendations"`
}

// SkillGap is one missing skill with its upskilling hints.
type SkillGap struct {
	Skill         string `json:"skill"`
	Importance    string `json:"importance"`
	Category      string `json:"category"`
	LearningPath  string `json:"learning_path,omitempty"`
	EstimatedTime string `json:"estimated_time,omitempty"`
}

// SkillGaps asks the matcher to analyze a resume's skill gaps. The report is
// advisory; callers treat any failure as "no analysis available".
func (c *Client) SkillGaps(resumeID string) (*SkillGapAnalysis, error) {
	if resumeID == "" {
		return nil, fmt.Errorf("resume id is required")
	}

	var analysis SkillGapAnalysis
	resp, err := c.http.R().
		SetContext(c.ctx).
		SetBody(map[string]any{"resume_id": resumeID}).
		SetResult(&analysis).
		Post("/api/v1/match/skill-gaps")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}

	c.logger.Debug("got skill gap analysis from NOVA",
		zap.Int("gaps", len(analysis.Gaps)),
		zap.Int("recommendations", len(analysis.Recommendations)),
	)

	return &analysis, nil
}
