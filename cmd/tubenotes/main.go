package main

import (
	"errors"
	"os"

	"github.com/brizzai/tubenotes/internal/auth"
	"github.com/brizzai/tubenotes/internal/config"
	"github.com/brizzai/tubenotes/internal/logger"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func main() {
	Execute()
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "tubenotes",
	Short: "A YouTube learning companion",
	Long: `tubenotes searches YouTube, reads comments and related videos, generates AI
summaries with key learning points and shows your own feed once you sign in
with Google. It runs as an HTTP API, as an MCP server or as a plain CLI.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		versionFlag, _ := cmd.Flags().GetBool("version")
		if versionFlag {
			pterm.Info.Println(config.GetVersionInfo())
			os.Exit(0)
		}
	}

	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		pterm.Error.Println(err)
		if errors.Is(err, auth.ErrAuthenticationRequired) {
			pterm.Info.Println("Run `tubenotes login` to sign in with Google")
		}
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to a config file (default ./config.yaml or ~/.tubenotes/config.yaml)")
	flags.String("log-level", "info", "Log level: debug, info, warn or error")
	flags.String("log-format", "console", "Log format: console or json")
	flags.String("token-backend", "sql", "Where tokens are kept: sql, redis, file or memory")
	flags.String("db-driver", "sqlite", "Database driver: sqlite or postgres")
	flags.String("db-dsn", "", "Database DSN")
	flags.StringP("output", "o", "table", "Output format: table, json or yaml")
	flags.BoolP("version", "v", false, "Show version information")

	rootCmd.AddCommand(
		newServeCmd(),
		newMCPCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newStatusCmd(),
	)
	rootCmd.AddCommand(newYouTubeCmds()...)
	rootCmd.AddCommand(newSummaryCmd(), newNotesCmd(), newHistoryCmd())
}

// loadConfig reads configuration and initializes logging for cmd
func loadConfig(cmd *cobra.Command, adjust func(*config.Config)) (*config.Config, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}
	if adjust != nil {
		adjust(cfg)
	}
	if err := logger.InitLogger(&cfg.Logging); err != nil {
		return nil, err
	}
	return cfg, nil
}
