package cmd

import (
	"log"
	"strings"

	"github.com/Lingikaushikreddy/nova-matches/internal/logger"
	"github.com/Lingikaushikreddy/nova-matches/internal/secrets"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store the NOVA API token for authenticated requests",
	Run: func(cmd *cobra.Command, _ []string) {
		login(cmd)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored NOVA API token",
	Run: func(_ *cobra.Command, _ []string) {
		logout()
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)

	loginCmd.Flags().StringP("token", "t", "", "token value, prompted for when not given")
	loginCmd.Flags().String("from-file", "", "read the token from a file instead")
}

func login(cmd *cobra.Command) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	store, err := persistentTokenStore(config)
	if err != nil {
		logger.Fatal("preparing the token store", zap.Error(err))
	}

	token, err := resolveLoginToken(cmd)
	if err != nil {
		logger.Fatal("resolving the token", zap.Error(err))
	}

	if err := store.Set(token); err != nil {
		logger.Fatal("storing the token", zap.Error(err))
	}

	logger.Info("token stored")
}

func logout() {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	store, err := persistentTokenStore(config)
	if err != nil {
		logger.Fatal("preparing the token store", zap.Error(err))
	}

	if err := store.Clear(); err != nil {
		logger.Fatal("removing the token", zap.Error(err))
	}

	logger.Info("token removed, requests are anonymous from now on")
}

// resolveLoginToken takes the token from the flag, a file, or a masked
// prompt, in that order.
func resolveLoginToken(cmd *cobra.Command) (string, error) {
	token, err := cmd.Flags().GetString("token")
	if err != nil {
		return "", err
	}
	if token = strings.TrimSpace(token); token != "" {
		return token, nil
	}

	fromFile, err := cmd.Flags().GetString("from-file")
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(fromFile) != "" {
		return secrets.Load(secrets.Source{
			Name: "NOVA API token",
			File: fromFile,
		})
	}

	entry := promptui.Prompt{
		Label: "Token",
		Mask:  '*',
	}

	return entry.Run()
}
