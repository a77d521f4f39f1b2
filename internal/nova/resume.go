package nova

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// ErrUnsupportedFileType mirrors the API's own rejection so callers can
// fail fast without a round trip.
var ErrUnsupportedFileType = errors.New("only PDF and DOCX files are supported")

const maxUploadBytes = 10 << 20

type UploadReceipt struct {
	ResumeID       string `json:"resume_id"`
	Message        string `json:"message"`
	CandidateName  string `json:"candidate_name"`
	CandidateEmail string `json:"candidate_email"`
	SkillsCount    int    `json:"skills_count"`
}

// UploadResume parses a resume file on the server and returns the stored
// resume's id for subsequent match requests.
func (c *Client) UploadResume(path string) (*UploadReceipt, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".docx":
	default:
		return nil, ErrUnsupportedFileType
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}
	if stat.Size() > maxUploadBytes {
		return nil, fmt.Errorf("file %s exceeds the %dMB upload limit", filepath.Base(path), maxUploadBytes>>20)
	}

	var receipt UploadReceipt
	resp, err := c.http.R().
		SetContext(c.ctx).
		SetFileReader("file", filepath.Base(path), file).
		SetResult(&receipt).
		Post("/api/v1/resumes/upload-file")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}

	c.logger.Debug("resume uploaded",
		zap.String("resume_id", receipt.ResumeID),
		zap.Int("skills_count", receipt.SkillsCount),
	)

	return &receipt, nil
}
