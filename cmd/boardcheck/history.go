package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/gotrs-io/boardcheck/internal/config"
	"github.com/gotrs-io/boardcheck/internal/report"
	"github.com/spf13/cobra"
	"github.com/xeonx/timeago"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent runs stored in Redis",
	RunE:  runHistory,
}

var limitFlag int

func init() {
	historyCmd.Flags().IntVarP(&limitFlag, "limit", "n", 10, "Number of runs to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Read(v, configFlag)
	if err != nil {
		return err
	}
	if cfg.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is not configured")
	}

	rs, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer rs.Close()

	runs, err := rs.Recent(cmd.Context(), limitFlag)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tWHEN\tPASSED\tFAILED\tSKIPPED\tDURATION")
	for _, s := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\n",
			shortID(s.RunID), timeago.English.Format(s.Finished),
			s.Passed(), s.Failed(), s.Skipped(), s.Duration().Round(time.Millisecond))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	last, err := rs.LastStatus(cmd.Context())
	if err != nil {
		return err
	}
	names := make([]string, 0, len(last))
	for name := range last {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nLast status per scenario:")
	for _, name := range names {
		mark := "✅"
		if last[name] != report.StatusPassed {
			mark = "❌"
		}
		fmt.Printf("  %s %s\n", mark, name)
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
