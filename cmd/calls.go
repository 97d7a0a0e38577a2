package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/classquiz/internal/store"
)

var callsCmd = &cobra.Command{
	Use:   "calls",
	Short: "Inspect logged API calls",
}

// openLocalStore opens the event database without touching the network.
func openLocalStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return openStore(cmd, cfg)
}

var callsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent API calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		op, _ := cmd.Flags().GetString("op")
		failed, _ := cmd.Flags().GetBool("failed")

		s, err := openLocalStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		calls, err := s.EventRepo().QueryAPICalls(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query calls: %w", err)
		}

		if len(calls) == 0 {
			fmt.Println("No API calls found.")
			return nil
		}

		fmt.Printf("%-5s  %-19s  %-22s  %-6s  %-34s  %-6s  %-7s  %s\n",
			"ID", "Timestamp", "Operation", "Method", "Path", "Status", "Ms", "OK")
		fmt.Println(strings.Repeat("─", 110))

		for _, c := range calls {
			if op != "" && c.Operation != op {
				continue
			}
			if failed && c.Success {
				continue
			}
			ok := "✓"
			if !c.Success {
				ok = "✗"
			}
			path := c.Path
			if len(path) > 34 {
				path = path[:34]
			}
			fmt.Printf("%-5d  %-19s  %-22s  %-6s  %-34s  %-6d  %-7d  %s\n",
				c.ID,
				c.Timestamp.Local().Format("2006-01-02 15:04:05"),
				c.Operation,
				c.Method,
				path,
				c.Status,
				c.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

var callsViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "View a single API call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		s, err := openLocalStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		c, err := s.EventRepo().GetAPICall(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get call: %w", err)
		}
		if c == nil {
			return fmt.Errorf("call %d not found", id)
		}

		fmt.Printf("ID:         %d\n", c.ID)
		fmt.Printf("Time:       %s\n", c.Timestamp.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("Operation:  %s\n", c.Operation)
		fmt.Printf("Request:    %s %s\n", c.Method, c.Path)
		fmt.Printf("Status:     %d\n", c.Status)
		fmt.Printf("Latency:    %dms\n", c.LatencyMs)
		fmt.Printf("Success:    %v\n", c.Success)
		if c.RequestID != "" {
			fmt.Printf("Request ID: %s\n", c.RequestID)
		}
		if c.ErrorMessage != "" {
			fmt.Printf("Error:      %s\n", c.ErrorMessage)
		}
		return nil
	},
}

var callsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show API call counts and latency per operation",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openLocalStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		stats, err := s.EventRepo().APIUsageByOperation(cmd.Context())
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}

		if len(stats) == 0 {
			fmt.Println("No API calls found.")
			return nil
		}

		fmt.Printf("%-22s  %7s  %8s  %8s\n", "Operation", "Calls", "Failures", "Avg ms")
		fmt.Println(strings.Repeat("─", 52))

		var totalCalls, totalFailures int
		for _, st := range stats {
			fmt.Printf("%-22s  %7d  %8d  %8d\n", st.Operation, st.Calls, st.Failures, st.AvgLatencyMs)
			totalCalls += st.Calls
			totalFailures += st.Failures
		}

		fmt.Println(strings.Repeat("─", 52))
		fmt.Printf("%-22s  %7d  %8d\n", "Total", totalCalls, totalFailures)
		return nil
	},
}

func init() {
	callsListCmd.Flags().Int("limit", 20, "Maximum number of calls to show")
	callsListCmd.Flags().String("op", "", "Filter by operation (e.g. submit_answer)")
	callsListCmd.Flags().Bool("failed", false, "Only show failed calls")

	callsCmd.AddCommand(callsListCmd)
	callsCmd.AddCommand(callsViewCmd)
	callsCmd.AddCommand(callsStatsCmd)
}
