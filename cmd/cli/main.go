package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/socialsimple/backend/internal/apiclient"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	verbose    bool
	configPath string
	outputFmt  string

	logger *log.Logger
	api    *apiclient.Client
)

var rootCmd = &cobra.Command{
	Use:   "socialsimple",
	Short: "socialsimple CLI - post images and videos from the terminal",
	Long: `socialsimple CLI is a command-line client for the socialsimple backend.
Register, log in, upload media, browse the global feed and delete your posts.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfig(configPath); err != nil {
			return fmt.Errorf("error initializing config: %w", err)
		}

		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "socialsimple"})
		if verbose {
			logger.SetLevel(log.DebugLevel)
		}

		api = apiclient.New(viper.GetString("api.base_url"), time.Duration(viper.GetInt("api.timeout"))*time.Second).
			WithLogger(logger)
		api.SetToken(viper.GetString("auth.token"))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: <user config dir>/socialsimple/cli/config.toml)")
	rootCmd.PersistentFlags().StringVar(&outputFmt, "output", "text", "Output format: text or json")
	rootCmd.PersistentFlags().String("api", "", "API server URL (overrides api.base_url)")
	_ = viper.BindPFlag("api.base_url", rootCmd.PersistentFlags().Lookup("api"))

	rootCmd.AddCommand(registerCmd, loginCmd, logoutCmd, meCmd)
	rootCmd.AddCommand(feedCmd, uploadCmd, deleteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v", err)
		os.Exit(1)
	}
}
