package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/classquiz/internal/app"
	"github.com/abhisek/classquiz/internal/quiz"
)

// runApp builds dependencies and launches the TUI on the given screen.
func runApp(cmd *cobra.Command, start app.Start) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	events := e.store.EventRepo()
	skipSplash, _ := cmd.Flags().GetBool("no-splash")

	return app.Run(cmd.Context(), app.Options{
		Gateway: e.gateway,
		Quiz: quiz.Config{
			CorrectMedia: e.cfg.Feedback.Correct,
			WrongMedia:   e.cfg.Feedback.Wrong,
			Recorder:     events,
		},
		History:    events,
		Logger:     e.log,
		User:       e.user,
		Host:       e.host,
		Start:      start,
		SkipSplash: skipSplash,
	})
}

var takeCmd = &cobra.Command{
	Use:   "take",
	Short: "Open the test screen directly",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, app.StartQuiz)
	},
}

func init() {
	rootCmd.PersistentFlags().Bool("no-splash", false, "Skip the welcome screen")
}
