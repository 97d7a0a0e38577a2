package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/classquiz/internal/app"
	"github.com/abhisek/classquiz/internal/flow"
	"github.com/abhisek/classquiz/internal/records"
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Browse classroom records",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, app.StartRecords)
	},
}

var recordsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print classroom records without the TUI",
	Long: `Walks the classroom, test, user and session hierarchy and prints the
level selected by the flags. With no flags the classrooms are listed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		classroomID, _ := cmd.Flags().GetInt("classroom")
		testID, _ := cmd.Flags().GetInt("test")
		userID, _ := cmd.Flags().GetInt("user")
		sessionID, _ := cmd.Flags().GetInt("session")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		b := records.New(e.gateway, e.log)

		if err := step(ctx, b, b.Load()); err != nil {
			return err
		}
		if classroomID == 0 {
			fmt.Fprintln(out, "Classrooms")
			fmt.Fprintln(out, strings.Repeat("─", 40))
			for _, c := range b.Classrooms() {
				fmt.Fprintf(out, "%-6d  %s\n", c.ID, c.Name)
			}
			return nil
		}

		if err := step(ctx, b, b.ToggleClassroom(classroomID)...); err != nil {
			return err
		}
		if testID == 0 || userID == 0 {
			fmt.Fprintln(out, "Tests")
			fmt.Fprintln(out, strings.Repeat("─", 40))
			for _, t := range b.Tests() {
				fmt.Fprintf(out, "%-6d  %s\n", t.ID, t.Name)
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Users")
			fmt.Fprintln(out, strings.Repeat("─", 40))
			for _, u := range b.Users() {
				fmt.Fprintf(out, "%-6d  %s\n", u.ID, u.Username)
			}
			return nil
		}

		b.ToggleTest(testID)
		if err := step(ctx, b, b.ToggleUser(userID)); err != nil {
			return err
		}
		if sessionID == 0 {
			sessions := b.Sessions()
			if len(sessions) == 0 {
				fmt.Fprintln(out, "No sessions recorded.")
				return nil
			}
			fmt.Fprintln(out, "Sessions")
			fmt.Fprintln(out, strings.Repeat("─", 40))
			for _, s := range sessions {
				fmt.Fprintf(out, "%-6d  %s\n", s.ID, records.SessionLabel(s))
			}
			return nil
		}

		if err := step(ctx, b, b.ToggleSession(sessionID)); err != nil {
			return err
		}
		detail := b.Detail(sessionID)
		if detail == nil || len(detail.TestRecords) == 0 {
			fmt.Fprintln(out, "Session has no records.")
			return nil
		}
		sep := strings.Repeat("─", 60)
		for _, r := range detail.TestRecords {
			fmt.Fprintln(out, sep)
			for _, line := range records.DescribeRecord(r).Lines() {
				fmt.Fprintln(out, line)
			}
		}
		fmt.Fprintln(out, sep)
		return nil
	},
}

// step runs tasks to completion and surfaces the browser's error message.
func step(ctx context.Context, b *records.Browser, tasks ...flow.Task) error {
	flow.Run(ctx, tasks...)
	if msg := b.Error(); msg != "" {
		return errors.New(msg)
	}
	return nil
}

func init() {
	recordsShowCmd.Flags().Int("classroom", 0, "Classroom id")
	recordsShowCmd.Flags().Int("test", 0, "Test id (requires --classroom)")
	recordsShowCmd.Flags().Int("user", 0, "User id (requires --classroom and --test)")
	recordsShowCmd.Flags().Int("session", 0, "Session id to print in full")

	recordsCmd.AddCommand(recordsShowCmd)
}
