package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/livp123/vrcpresence/internal/daemon"
	"github.com/spf13/cobra"
)

var ReplayCmd = &cobra.Command{
	Use:   "replay [file]",
	Short: "Replay a log once and print who is present",
	// Short: 回放一次日志并打印在线玩家
	Long: `Replay a log once and print who is present at its end.
Without an argument the newest log in watcher.log_dir is used.
回放一次日志并打印结束时的在线玩家。未指定参数时使用 watcher.log_dir 中最新的日志。`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}

		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		report, err := daemon.ReplayFile(cmd.Context(), cfg, path)
		if err != nil {
			return err
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}
		printReport(cmd.OutOrStdout(), report)
		return nil
	},
}

func init() {
	ReplayCmd.Flags().Bool("json", false, "Print the result as JSON")
}

func printReport(w io.Writer, report daemon.ReplayReport) {
	fmt.Fprintf(w, "📄 %s (%d lines, %d events)\n", report.Source, report.Lines, report.Events)
	if len(report.Users) == 0 {
		fmt.Fprintln(w, " - Nobody is present.")
		return
	}

	fmt.Fprintf(w, "%-40s %-25s\n", "Identifier", "Present Since")
	fmt.Fprintln(w, strings.Repeat("-", 66))
	for _, u := range report.Users {
		fmt.Fprintf(w, "%-40s %-25s\n", u.Identifier, u.PresentSince.Format(time.RFC3339))
	}
	fmt.Fprintf(w, "\nTotal present: %d\n", len(report.Users))
}
