package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/classquiz/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show answers and scores recorded on this machine",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openLocalStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		repo := s.EventRepo()
		stats, err := repo.AnswerStatsByTest(cmd.Context())
		if err != nil {
			return fmt.Errorf("query answers: %w", err)
		}
		scores, err := repo.QueryScores(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query scores: %w", err)
		}

		if len(stats) == 0 && len(scores) == 0 {
			fmt.Println("No local history yet. Take a test first.")
			return nil
		}

		fmt.Println("Answers")
		fmt.Printf("%-8s  %7s  %7s  %6s  %s\n", "Test", "Answers", "Correct", "Acc", "Last answer")
		fmt.Println(strings.Repeat("─", 56))
		for _, st := range stats {
			acc := 0.0
			if st.Answers > 0 {
				acc = float64(st.Correct) / float64(st.Answers) * 100
			}
			fmt.Printf("%-8d  %7d  %7d  %5.0f%%  %s\n",
				st.TestID, st.Answers, st.Correct, acc,
				st.LastAnswer.Local().Format("2006-01-02 15:04"))
		}

		fmt.Println()
		fmt.Println("Scores")
		fmt.Println(strings.Repeat("─", 56))
		if len(scores) == 0 {
			fmt.Println("(none recorded)")
		}
		for _, sc := range scores {
			msg := strings.ReplaceAll(sc.Message, "\n", " ")
			fmt.Printf("%-16s  test %-5d  %s\n",
				sc.Timestamp.Local().Format("2006-01-02 15:04"), sc.TestID, msg)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum number of scores to show")
}
