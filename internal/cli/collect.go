package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ngenohkevin/taskdeck-agent/internal/logging"
	"github.com/ngenohkevin/taskdeck-agent/internal/tasks"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

func newCollectCommand(a *app) *cobra.Command {
	var (
		format        string
		includeHidden bool
	)

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Collect scheduled tasks once and print them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cmd.Flags().Changed("include-hidden") {
				cfg.IncludeHiddenTasks = includeHidden
			}
			if format == "" {
				format = defaultFormat(a.stdout)
			}

			snap := a.collector(cfg, a.logger(cfg)).Snapshot()

			switch format {
			case formatJSON:
				return writeJSON(a.stdout, snap)
			case formatTable:
				return writeTable(a.stdout, snap, time.Now())
			default:
				return fmt.Errorf("unknown format %q (want %s or %s)", format, formatTable, formatJSON)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: table or json (default table on a terminal, json otherwise)")
	cmd.Flags().BoolVar(&includeHidden, "include-hidden", true, "include hidden tasks")
	return cmd
}

func defaultFormat(w io.Writer) string {
	if logging.IsTerminal(w) {
		return formatTable
	}
	return formatJSON
}

func writeJSON(w io.Writer, snap *tasks.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

func writeTable(w io.Writer, snap *tasks.Snapshot, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "PATH\tENABLED\tSTATE\tLAST RUN\tRESULT\tNEXT RUN\tACTION")
	for _, r := range snap.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Path,
			yesNo(r.Enabled),
			r.State,
			relTime(r.LastRunTime, now),
			fmt.Sprintf("0x%08X %s", uint32(r.LastRunCode), r.LastRunMessage),
			relTime(r.NextRunTime, now),
			r.Action)
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}

	if !snap.Connected {
		_, err := fmt.Fprintln(w, "task scheduler unavailable")
		return err
	}
	_, err := fmt.Fprintf(w, "%s tasks in %d folders\n", humanize.Comma(int64(snap.Total)), snap.Stats.FoldersVisited)
	return err
}

// relTime renders an epoch relative to now. Run times at or before the
// epoch mean the task never ran or has no next run.
func relTime(epoch int64, now time.Time) string {
	if epoch <= 0 {
		return "-"
	}
	return humanize.RelTime(time.Unix(epoch, 0), now, "ago", "from now")
}

func yesNo(v int) string {
	if v != 0 {
		return "yes"
	}
	return "no"
}
