package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"

	"github.com/Lingikaushikreddy/nova-matches/internal/logger"
	"github.com/Lingikaushikreddy/nova-matches/internal/nova"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a resume (PDF or DOCX) and print its resume id",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		upload(args[0])
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func upload(path string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	client, err := newAPIClient(ctx, config, logger)
	if err != nil {
		logger.Fatal("preparing the NOVA client", zap.Error(err))
	}

	receipt, err := client.UploadResume(path)
	if errors.Is(err, nova.ErrUnsupportedFileType) {
		logger.Fatal("unsupported file type",
			zap.String("file", filepath.Base(path)),
			zap.String("hint", "only .pdf and .docx resumes can be parsed"),
		)
	}
	if err != nil {
		logger.Fatal("uploading the resume", zap.Error(err))
	}

	logger.Info("resume uploaded",
		zap.String("resume_id", receipt.ResumeID),
		zap.Int("skills_count", receipt.SkillsCount),
	)

	if receipt.CandidateName != "" {
		fmt.Printf("Candidate: %s\n", receipt.CandidateName)
	}
	if receipt.CandidateEmail != "" {
		fmt.Printf("Email: %s\n", receipt.CandidateEmail)
	}
	fmt.Printf("Parsed skills: %d\n", receipt.SkillsCount)
	fmt.Printf("Resume id: %s\n", receipt.ResumeID)
	fmt.Printf("Set resume.id in %s.yaml or pass --resume to `%s run`.\n", app, app)
}
