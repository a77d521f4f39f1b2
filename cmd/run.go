package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/Lingikaushikreddy/nova-matches/internal/cache"
	"github.com/Lingikaushikreddy/nova-matches/internal/enrich"
	"github.com/Lingikaushikreddy/nova-matches/internal/logger"
	"github.com/Lingikaushikreddy/nova-matches/internal/match"
	"github.com/Lingikaushikreddy/nova-matches/internal/nova"
	"github.com/Lingikaushikreddy/nova-matches/internal/session"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptYes             = "Yes"
	PromptNo              = "No"
	PromptShowMatches     = "Show matches"
	PromptReportByCompany = "Report by company"
	PromptSkillGaps       = "Show skill gaps"
	PromptUpskilling      = "Show upskilling recommendations"
	PromptMatchesToFile   = "Dump matches to file"
	PromptExit            = "Exit"
)

// maxRecommendations caps the upskilling suggestions shown per resume.
const maxRecommendations = 5

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Proceed?",
	Items: []string{PromptShowMatches, PromptReportByCompany, PromptSkillGaps, PromptUpskilling, PromptMatchesToFile, PromptExit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the nova-matches main command",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("resume", "r", "", "resume id to match, overrides resume.id from the config")
	runCmd.Flags().BoolP("auto", "y", false, "print the matches once and exit without a prompt")
	runCmd.Flags().IntP("limit", "l", 0, "how many matches to request")
	runCmd.Flags().StringP("sort", "s", "", "sort order: best-match, highest-salary or most-recent")

	viper.BindPFlag("resume.id", runCmd.Flags().Lookup("resume"))
	viper.BindPFlag("matches.limit", runCmd.Flags().Lookup("limit"))
	viper.BindPFlag("matches.sort", runCmd.Flags().Lookup("sort"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the nova-matches", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	resumeID := ""
	if config.Resume != nil {
		resumeID = strings.TrimSpace(config.Resume.ID)
	}
	if resumeID == "" {
		logger.Fatal("resume id is required",
			zap.String("hint", "set resume.id in the configuration file, pass --resume, or upload one with `nova-matches upload`"),
		)
	}

	client, err := newAPIClient(ctx, config, logger)
	if err != nil {
		logger.Fatal("preparing the NOVA client", zap.Error(err))
	}

	sess, err := newSession(config, client, resumeID, logger)
	if err != nil {
		logger.Fatal("preparing the session", zap.Error(err))
	}

	auto := cmd.Flag("auto").Value.String() == "true"

	err = sess.Load(ctx)
	for err != nil {
		if auto {
			logger.Fatal("loading matches failed", zap.Error(err))
		}

		retry := promptui.Select{
			Label: "Loading matches failed. Retry?",
			Items: []string{PromptYes, PromptNo},
		}
		_, answer, promptErr := retry.Run()
		if promptErr != nil {
			logger.Fatal("exiting", zap.Error(promptErr))
		}
		if answer == PromptNo {
			logger.Info("exiting", zap.String("reason", "got no from prompt"))
			return
		}

		err = sess.Retry(ctx)
	}

	view := sess.View()
	if view.Total == 0 {
		logger.Info("exiting", zap.String("reason", "no matches found"))
		return
	}

	if auto {
		printMatches(view)
		return
	}

	for {
		view = sess.View()
		logger.Info("current list of matches",
			zap.Int("shown", view.Matches.Len()),
			zap.Int("total", view.Total),
			zap.Int("active_filters", view.ActiveFilters),
		)

		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, sess, client, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

// newAPIClient builds the NOVA client with the configured endpoint and
// credential source.
func newAPIClient(ctx context.Context, config *Config, log *zap.Logger) (*nova.Client, error) {
	creds, err := tokenStore(config)
	if err != nil {
		return nil, fmt.Errorf("preparing the token store: %w", err)
	}

	client := nova.New(ctx, log, creds)
	if config.APIURL != "" {
		client.SetAPIURL(config.APIURL)
	}
	if config.UserAgent != "" {
		client.SetUserAgent(config.UserAgent)
	}

	return client, nil
}

// newEnricher applies the configured limits and, when a Redis address is
// set, the posting cache.
func newEnricher(config *Config, client *nova.Client, log *zap.Logger) *enrich.Enricher {
	enricher := enrich.New(client, log)
	if config.Matches != nil {
		if config.Matches.Limit > 0 {
			enricher.Limit = config.Matches.Limit
		}
		if config.Matches.Concurrency > 0 {
			enricher.Workers = config.Matches.Concurrency
		}
	}

	if config.Cache != nil && config.Cache.Addr != "" {
		enricher.SetCache(cache.NewRedis(log, cache.Options{
			Addr:     config.Cache.Addr,
			Password: config.Cache.Password,
			DB:       config.Cache.DB,
			TTL:      config.Cache.TTL,
		}))
	}

	return enricher
}

// newSession wires the enricher and the initial filter and sort selection
// into a fresh match session.
func newSession(config *Config, client *nova.Client, resumeID string, log *zap.Logger) (*session.Session, error) {
	filters, err := buildFilters(config.Filters)
	if err != nil {
		return nil, fmt.Errorf("reading filters from config: %w", err)
	}

	sess := session.New(resumeID, newEnricher(config, client, log), log)
	if err := sess.SetFilters(filters); err != nil {
		return nil, fmt.Errorf("applying filters: %w", err)
	}

	sort := ""
	if config.Matches != nil {
		sort = config.Matches.Sort
	}
	if err := sess.SetSort(sort); err != nil {
		return nil, err
	}

	return sess, nil
}

func handleAction(action string, sess *session.Session, api *nova.Client, logger *zap.Logger) error {
	view := sess.View()

	switch action {
	case PromptShowMatches:
		printMatches(view)
		return nil
	case PromptReportByCompany:
		pretty, _ := json.MarshalIndent(view.Matches.ReportByCompany(), "", "  ")
		logger.Info(string(pretty), zap.Int("matches count", view.Matches.Len()))
		return nil
	case PromptSkillGaps:
		if len(view.MissingSkills) == 0 {
			logger.Info("no skill gaps found across the loaded matches")
			return nil
		}
		pretty, _ := json.MarshalIndent(view.MissingSkills, "", "  ")
		logger.Info(string(pretty), zap.Int("skills count", len(view.MissingSkills)))
		return nil
	case PromptUpskilling:
		analysis, err := api.SkillGaps(sess.ResumeID())
		if err != nil {
			logger.Warn("no analysis available", zap.Error(err))
			return nil
		}
		printRecommendations(analysis)
		return nil
	case PromptMatchesToFile:
		filename, err := view.Matches.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "exit requested from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// buildFilters converts the config's filter section into a validated
// filter set. Unknown clearance, job type or experience names fail
// loudly instead of silently matching nothing.
func buildFilters(cfg *FiltersConfig) (*match.Filters, error) {
	filters := match.Defaults()
	if cfg == nil {
		return filters, nil
	}

	filters.MinScore = cfg.MinScore
	filters.MaxScore = cfg.MaxScore
	filters.Locations = cfg.Locations
	filters.Remote = cfg.Remote
	filters.SalaryMin = cfg.SalaryMin
	filters.SalaryMax = cfg.SalaryMax

	for _, raw := range cfg.Clearances {
		level, err := match.ParseClearanceStrict(raw)
		if err != nil {
			return nil, err
		}
		filters.Clearances = append(filters.Clearances, level)
	}

	for _, raw := range cfg.JobTypes {
		jobType, err := match.ParseJobTypeStrict(raw)
		if err != nil {
			return nil, err
		}
		filters.JobTypes = append(filters.JobTypes, jobType)
	}

	for _, raw := range cfg.Experience {
		bucket, err := match.ParseExperienceBucket(raw)
		if err != nil {
			return nil, err
		}
		filters.Experience = append(filters.Experience, bucket)
	}

	return filters, nil
}

func printMatches(view *session.View) {
	printRecords(view.Matches)
	fmt.Printf("Showing %d of %d matches (%d filters active)\n", view.Matches.Len(), view.Total, view.ActiveFilters)
}

func printRecommendations(analysis *nova.SkillGapAnalysis) {
	if len(analysis.Recommendations) == 0 {
		fmt.Println("No upskilling recommendations for this resume.")
		return
	}

	for i, rec := range analysis.Recommendations {
		if i == maxRecommendations {
			break
		}
		fmt.Printf("%d. %s\n", i+1, rec)
	}
}

func printRecords(records *match.Records) {
	if records.Len() == 0 {
		fmt.Println("No matches to show.")
		return
	}

	for i, record := range records.Items {
		if record.Tier != "" {
			fmt.Printf("%2d. [%d%% %s] %s / %s\n", i+1, record.MatchScore, record.Tier, record.Title, record.Company)
		} else {
			fmt.Printf("%2d. %s / %s\n", i+1, record.Title, record.Company)
		}

		details := make([]string, 0, 5)
		if record.Location != "" {
			details = append(details, record.Location)
		}
		if record.IsRemote {
			details = append(details, "Remote")
		}
		if record.Salary != "" {
			details = append(details, record.Salary)
		}
		if record.Clearance > match.ClearanceNone {
			details = append(details, record.Clearance.String()+" clearance")
		}
		if record.PostedAt != "" {
			details = append(details, record.PostedAt)
		}
		if len(details) > 0 {
			fmt.Printf("    %s\n", strings.Join(details, " / "))
		}

		if len(record.MatchedSkills) > 0 {
			fmt.Printf("    matched: %s\n", strings.Join(record.MatchedSkills, ", "))
		}
		if len(record.MissingSkills) > 0 {
			fmt.Printf("    missing: %s\n", strings.Join(record.MissingSkills, ", "))
		}
		if record.Explanation != "" {
			fmt.Printf("    %s\n", logger.TruncateForLog(record.Explanation, 160))
		}
	}
}
