package cmd

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/Lingikaushikreddy/nova-matches/internal/secrets"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "nova-matches"
)

type Config struct {
	APIURL    string         `mapstructure:"api-url"`
	UserAgent string         `mapstructure:"user-agent"`
	Token     string         `mapstructure:"token"`
	TokenFile string         `mapstructure:"token-file"`
	Resume    *ResumeConfig  `mapstructure:"resume"`
	Matches   *MatchesConfig `mapstructure:"matches"`
	Filters   *FiltersConfig `mapstructure:"filters"`
	Cache     *CacheConfig   `mapstructure:"cache"`
}

type ResumeConfig struct {
	ID string `mapstructure:"id"`
}

type MatchesConfig struct {
	Limit       int    `mapstructure:"limit"`
	Concurrency int    `mapstructure:"concurrency"`
	Sort        string `mapstructure:"sort"`
}

// FiltersConfig has no free-text query on purpose: the query belongs to
// the browse command's flag, and the per-resume flow never searches.
type FiltersConfig struct {
	MinScore   int      `mapstructure:"min-score"`
	MaxScore   int      `mapstructure:"max-score"`
	Clearances []string `mapstructure:"clearances"`
	JobTypes   []string `mapstructure:"job-types"`
	Locations  []string `mapstructure:"locations"`
	Remote     *bool    `mapstructure:"remote"`
	Experience []string `mapstructure:"experience"`
	SalaryMin  int      `mapstructure:"salary-min"`
	SalaryMax  int      `mapstructure:"salary-max"`
}

// CacheConfig configures the optional Redis posting cache. Leaving
// redis-addr empty disables caching entirely.
type CacheConfig struct {
	Addr     string        `mapstructure:"redis-addr"`
	Password string        `mapstructure:"redis-password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "nova-matches is a cli for matching a resume against the NOVA job catalog",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("token-file", "NOVA_TOKEN_FILE"); err != nil {
		log.Fatalf("binding NOVA_TOKEN_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("api-url", "NOVA_API_URL"); err != nil {
		log.Fatalf("binding NOVA_API_URL environment variable: %v", err)
	}

	viper.SetDefault("filters.max-score", 100)
	viper.SetDefault("matches.limit", 10)
	viper.SetDefault("matches.concurrency", 10)
	viper.SetDefault("matches.sort", "best-match")

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is nova-matches.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// Every command works with defaults alone, so a missing default config
	// file is fine. An explicitly passed file must exist.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}

	return config, nil
}

// tokenStore returns the credential source API calls read from: an inline
// config token when one is set, otherwise the persistent store.
func tokenStore(config *Config) (secrets.Store, error) {
	if config != nil {
		if token := strings.TrimSpace(config.Token); token != "" {
			return secrets.Static(token), nil
		}
	}

	return persistentTokenStore(config)
}

// persistentTokenStore returns the file-backed store that login and logout
// manage, honoring the configured token file when one is set.
func persistentTokenStore(config *Config) (secrets.Store, error) {
	path := ""
	if config != nil {
		path = strings.TrimSpace(config.TokenFile)
	}

	if path == "" {
		var err error
		path, err = secrets.DefaultTokenPath()
		if err != nil {
			return nil, err
		}
	}

	return secrets.NewFileStore(path), nil
}
