package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/classquiz/internal/app"
	"github.com/abhisek/classquiz/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "classquiz",
	Short: "Terminal client for classroom quizzes",
	Long:  "ClassQuiz takes classroom multiple-choice tests and browses recorded results from the terminal.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, app.StartHome)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (overrides CLASSQUIZ_CONFIG env var)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides CLASSQUIZ_DB env var)")
	rootCmd.PersistentFlags().String("base-url", "", "Quiz server URL (overrides CLASSQUIZ_BASE_URL env var)")
	rootCmd.PersistentFlags().String("log-file", "", "Log file path (overrides CLASSQUIZ_LOG_FILE env var)")

	rootCmd.AddCommand(takeCmd)
	rootCmd.AddCommand(recordsCmd)
	rootCmd.AddCommand(callsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(demoServerCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured path, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, configured string) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if configured != "" {
		return configured, store.EnsureDir(configured)
	}
	return store.DefaultDBPath()
}
