package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/tensorix/pkg/cli"
	"mercator-hq/tensorix/pkg/config"
	"mercator-hq/tensorix/pkg/journal"
	"mercator-hq/tensorix/pkg/journal/retention"
	"mercator-hq/tensorix/pkg/journal/storage"
)

var journalFlags struct {
	runID  string
	suite  string
	status string
	since  time.Duration
	limit  int
	format string
}

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect recorded check results",
	Long: `Inspect and prune the journal of check results recorded by
"tensorix check --journal" and "tensorix watch --journal".`,
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded check results, newest first",
	Long: `List recorded check results, newest first.

Examples:
  tensorix journal list --status fail
  tensorix journal list --suite basics --since 24h --format csv`,
	Args: cobra.NoArgs,
	RunE: runJournalList,
}

var journalPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete entries past journal.retention_days or journal.max_records",
	Args:  cobra.NoArgs,
	RunE:  runJournalPrune,
}

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalListCmd, journalPruneCmd)

	f := journalListCmd.Flags()
	f.StringVar(&journalFlags.runID, "run", "", "only entries of this run ID")
	f.StringVar(&journalFlags.suite, "suite", "", "only entries of this suite")
	f.StringVar(&journalFlags.status, "status", "", "only entries with this status: pass, fail, error")
	f.DurationVar(&journalFlags.since, "since", 0, "only entries recorded within this duration")
	f.IntVar(&journalFlags.limit, "limit", 50, "maximum number of entries (0 for all)")
	f.StringVarP(&journalFlags.format, "format", "f", "text", "output format: text, json, csv")
}

// entryTable lays out journal entries as rows.
type entryTable []*journal.Entry

func (t entryTable) Header() []string {
	return []string{"RECORDED", "RUN", "SUITE", "CHECK", "STATUS", "DURATION", "MESSAGE"}
}

func (t entryTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, e := range t {
		run := e.RunID
		if len(run) > 8 {
			run = run[:8]
		}
		rows = append(rows, []string{
			e.RecordedAt.Local().Format(time.DateTime),
			run,
			e.Suite,
			e.Check,
			e.Status,
			e.Duration.String(),
			firstLine(e.Message),
		})
	}
	return rows
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func openJournal() (journal.Storage, *config.Config, error) {
	cfg := config.GetConfig()
	st, err := storage.Open(cfg.Journal, logger.Slog())
	if err != nil {
		return nil, nil, cli.NewCommandError("journal", err)
	}
	return st, cfg, nil
}

func runJournalList(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(journalFlags.format)
	if err != nil {
		return cli.NewConfigError("format", err.Error())
	}
	if journalFlags.limit < 0 {
		return cli.NewConfigError("limit", "must not be negative, got "+strconv.Itoa(journalFlags.limit))
	}

	st, _, err := openJournal()
	if err != nil {
		return err
	}
	defer st.Close()

	q := &journal.Query{
		RunID:     journalFlags.runID,
		Suite:     journalFlags.suite,
		Status:    journalFlags.status,
		Limit:     journalFlags.limit,
		SortOrder: journal.SortDesc,
	}
	if journalFlags.since > 0 {
		start := time.Now().Add(-journalFlags.since)
		q.StartTime = &start
	}

	entries, err := st.Query(cmd.Context(), q)
	if err != nil {
		return cli.NewCommandError("journal", err)
	}

	out := cmd.OutOrStdout()
	if format == cli.FormatJSON {
		return cli.NewFormatter(format).FormatTo(out, entries)
	}
	if len(entries) == 0 && format == cli.FormatText {
		fmt.Fprintln(out, "no entries")
		return nil
	}
	return cli.NewFormatter(format).FormatTo(out, entryTable(entries))
}

func runJournalPrune(cmd *cobra.Command, args []string) error {
	st, cfg, err := openJournal()
	if err != nil {
		return err
	}
	defer st.Close()

	pruner := retention.NewPruner(st, retention.FromJournalConfig(cfg.Journal), logger.Slog())
	n, err := pruner.Prune(cmd.Context())
	if err != nil {
		return cli.NewCommandError("journal", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %d entries\n", n)
	return nil
}
