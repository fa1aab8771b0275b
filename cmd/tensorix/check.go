package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/tensorix/pkg/cli"
	"mercator-hq/tensorix/pkg/config"
	"mercator-hq/tensorix/pkg/journal"
	"mercator-hq/tensorix/pkg/journal/recorder"
	"mercator-hq/tensorix/pkg/journal/storage"
	"mercator-hq/tensorix/pkg/scenario"
	"mercator-hq/tensorix/pkg/telemetry/metrics"
	"mercator-hq/tensorix/pkg/telemetry/tracing"
)

var checkFlags struct {
	format  string
	journal bool
}

var checkCmd = &cobra.Command{
	Use:   "check PATH...",
	Short: "Run scenario suites",
	Long: `Run every scenario suite found under the given files or directories.

A suite declares tensors and checks in YAML. Each check evaluates index
notation and compares the result with another operand or an expectation.
The command exits with status 1 when a check fails.

Examples:
  tensorix check suites/
  tensorix check suites/basics.yaml --format json
  tensorix check suites/ --journal`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkFlags.format, "format", "f", "text", "output format: text, json")
	checkCmd.Flags().BoolVar(&checkFlags.journal, "journal", false, "record results in the journal (default: journal.enabled)")
}

// session wires a runner to the journal and metrics of the configuration.
type session struct {
	runner    *scenario.Runner
	collector *metrics.Collector
	tracer    *tracing.Tracer
	storage   journal.Storage
	recorder  *recorder.Recorder
}

func newSession(ctx context.Context, cfg *config.Config, useJournal bool) (*session, error) {
	tr, err := tracing.New(ctx, &cfg.Telemetry.Tracing, Version)
	if err != nil {
		return nil, err
	}
	s := &session{
		collector: metrics.NewCollector(&cfg.Telemetry.Metrics, nil),
		tracer:    tr,
	}

	rc := scenario.RunnerConfig{
		Defaults: scenario.DefaultsFromConfig(cfg.Tensor),
		Parser:   notationParser(cfg),
		Observer: s.collector,
		Checks:   s.collector,
		Logger:   logger.Slog(),
		Tracer:   tr.Tracer(),
	}
	if useJournal {
		st, err := storage.Open(cfg.Journal, logger.Slog())
		if err != nil {
			tr.Shutdown(ctx)
			return nil, err
		}
		s.storage = st
		s.recorder = recorder.New(st, nil, logger.Slog())
		rc.Sink = s.recorder
	}
	s.runner = scenario.NewRunner(rc)
	return s, nil
}

func (s *session) Close() error {
	if s.recorder != nil {
		s.recorder.Close()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.tracer.Shutdown(ctx); err != nil {
		logger.Warn("failed to flush spans", "error", err)
	}
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}

// runPaths runs every suite under paths and returns the reports. Suites
// that cannot be loaded are logged and returned in broken.
func (s *session) runPaths(ctx context.Context, paths []string, exts []string) (reports []*scenario.Report, broken []string, err error) {
	for _, root := range paths {
		files, err := scenario.Discover(root, exts)
		if err != nil {
			return reports, broken, err
		}
		for _, f := range files {
			r, err := s.runner.RunFile(ctx, f)
			if ctx.Err() != nil {
				return reports, broken, ctx.Err()
			}
			if err != nil {
				logger.Error("cannot run suite", "path", f, "error", err)
				broken = append(broken, f)
				continue
			}
			reports = append(reports, r)
		}
	}
	return reports, broken, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(checkFlags.format)
	if err != nil || format == cli.FormatCSV {
		return cli.NewConfigError("format", fmt.Sprintf("want text or json, got %q", checkFlags.format))
	}
	cfg := config.GetConfig()

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	s, err := newSession(ctx, cfg, checkFlags.journal || cfg.Journal.Enabled)
	if err != nil {
		return cli.NewCommandError("check", err)
	}
	defer s.Close()

	reports, broken, err := s.runPaths(ctx, args, cfg.Watch.Extensions)
	if err != nil {
		return cli.NewCommandError("check", err)
	}

	out := cmd.OutOrStdout()
	if format == cli.FormatJSON {
		if err := cli.NewFormatter(format).FormatTo(out, reports); err != nil {
			return err
		}
	} else {
		writeReports(out, reports)
	}

	if len(broken) > 0 {
		return cli.NewCommandError("check", fmt.Errorf("%d suite(s) could not be loaded", len(broken)))
	}
	for _, r := range reports {
		if !r.OK() {
			return cli.NewCommandError("check", cli.ErrChecksFailed)
		}
	}
	return nil
}

func writeReports(w io.Writer, reports []*scenario.Report) {
	var passed, failed, errored int
	for _, r := range reports {
		fmt.Fprintf(w, "%s (%s)\n", r.Suite, r.Source)
		for _, res := range r.Results {
			switch res.Status {
			case scenario.StatusPass:
				fmt.Fprintf(w, "  ✓ %s (%.1fms)\n", res.Check, res.Duration.Seconds()*1000)
			default:
				fmt.Fprintf(w, "  ✗ %s [%s]\n", res.Check, res.Status)
				for _, line := range strings.Split(res.Message, "\n") {
					fmt.Fprintf(w, "      %s\n", line)
				}
			}
		}
		passed += r.Passed
		failed += r.Failed
		errored += r.Errored
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%d suite(s): %d passed, %d failed, %d errors\n", len(reports), passed, failed, errored)
}
