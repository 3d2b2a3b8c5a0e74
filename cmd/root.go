// Package cmd implements the command-line interface for matchcrawl.
// It provides the root command and subcommands for running crawls,
// inspecting the catalog, and reporting cache state.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cachecmd "github.com/jonesrussell/matchcrawl/cmd/cache"
	catalogcmd "github.com/jonesrussell/matchcrawl/cmd/catalog"
	crawlcmd "github.com/jonesrussell/matchcrawl/cmd/crawl"
	schedulecmd "github.com/jonesrussell/matchcrawl/cmd/schedule"
	"github.com/jonesrussell/matchcrawl/internal/config"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// debug enables debug mode for all commands.
	debug bool

	// rootCmd represents the root command for the matchcrawl CLI.
	rootCmd = &cobra.Command{
		Use:   "matchcrawl",
		Short: "An incremental crawler for match results",
		Long: `matchcrawl incrementally crawls a JavaScript-rendered score site:
it discovers the region/competition catalog, reveals full season result
lists, and extracts each match exactly once.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	// Load .env early so environment variables are available to Viper.
	_ = godotenv.Load()

	if err := initConfig(); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug mode")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("matchcrawl version %s\n", Version)
		},
	})

	rootCmd.AddCommand(crawlcmd.Command())
	rootCmd.AddCommand(catalogcmd.Command())
	rootCmd.AddCommand(cachecmd.Command())
	rootCmd.AddCommand(schedulecmd.Command())
}

// initConfig reads in the config file and environment variables.
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("MATCHCRAWL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	// The config file is optional; defaults and environment variables
	// are enough to run.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if debug {
		viper.Set("app.debug", true)
		viper.Set("log.level", "debug")
	}

	return nil
}

// setDefaults registers the default configuration values.
func setDefaults() {
	viper.SetDefault("app.name", "matchcrawl")
	viper.SetDefault("app.version", Version)
	viper.SetDefault("app.environment", "development")

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.encoding", "console")

	viper.SetDefault("crawler.base_url", config.DefaultBaseURL)
	viper.SetDefault("crawler.record_delay", config.DefaultRecordDelay.String())
	viper.SetDefault("crawler.record_jitter", config.DefaultRecordJitter.String())
	viper.SetDefault("crawler.competition_delay", config.DefaultCompetitionDelay.String())
	viper.SetDefault("crawler.region_delay", config.DefaultRegionDelay.String())
	viper.SetDefault("crawler.cache_ttl", config.DefaultCacheTTL.String())
	viper.SetDefault("crawler.no_progress_threshold", config.DefaultNoProgressThreshold)
	viper.SetDefault("crawler.max_iterations", config.DefaultMaxIterations)
	viper.SetDefault("crawler.load_signal_timeout", config.DefaultLoadSignalTimeout.String())
	viper.SetDefault("crawler.settle_min", config.DefaultSettleMin.String())
	viper.SetDefault("crawler.settle_max", config.DefaultSettleMax.String())

	viper.SetDefault("browser.headless", true)
	viper.SetDefault("browser.navigation_timeout", config.DefaultNavigationTimeout.String())
	viper.SetDefault("browser.selector_timeout", config.DefaultSelectorTimeout.String())

	viper.SetDefault("storage.data_dir", config.DefaultDataDir)
	viper.SetDefault("storage.cache_dir", config.DefaultCacheDir)
}

