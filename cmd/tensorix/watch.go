package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/tensorix/pkg/cli"
	"mercator-hq/tensorix/pkg/config"
	"mercator-hq/tensorix/pkg/journal"
	"mercator-hq/tensorix/pkg/journal/retention"
	"mercator-hq/tensorix/pkg/telemetry/health"
	"mercator-hq/tensorix/pkg/watch"
)

var watchFlags struct {
	metrics bool
	journal bool
}

var watchCmd = &cobra.Command{
	Use:   "watch PATH",
	Short: "Re-run scenario suites when they change",
	Long: `Run the suites under PATH, then run each suite again whenever its file
changes. Bursts of changes are debounced (watch.debounce_interval).

With --metrics the Prometheus endpoint and the health probes are served on
telemetry.metrics.listen_address. Readiness fails while a suite cannot be
loaded. With the journal enabled, results are recorded and pruned on
journal.prune_schedule.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().BoolVar(&watchFlags.metrics, "metrics", false, "serve Prometheus metrics (default: telemetry.metrics.enabled)")
	watchCmd.Flags().BoolVar(&watchFlags.journal, "journal", false, "record results in the journal (default: journal.enabled)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()
	if watchFlags.metrics {
		cfg.Telemetry.Metrics.Enabled = true
	}
	useJournal := watchFlags.journal || cfg.Journal.Enabled

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	s, err := newSession(ctx, cfg, useJournal)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	defer s.Close()

	broken := newBrokenSuites()
	if cfg.Telemetry.Metrics.Enabled {
		checker := health.New(cfg.Telemetry.Health.CheckTimeout)
		checker.Register("suites", broken.Check)
		if s.storage != nil {
			checker.Register("journal", func(ctx context.Context) error {
				_, err := s.storage.Count(ctx, &journal.Query{})
				return err
			})
		}
		srv := serveMetrics(cfg, s, checker)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	if useJournal {
		pruner := retention.NewPruner(s.storage, retention.FromJournalConfig(cfg.Journal), logger.Slog())
		if err := pruner.Start(ctx); err != nil {
			return cli.NewCommandError("watch", err)
		}
		defer pruner.Stop()
	}

	w, err := watch.New(watch.FromConfig(args[0], cfg.Watch), logger.Slog())
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	defer w.Close()

	out := cmd.OutOrStdout()
	reports, failed, err := s.runPaths(ctx, args, cfg.Watch.Extensions)
	if err != nil && !errors.Is(err, context.Canceled) {
		return cli.NewCommandError("watch", err)
	}
	broken.Update(args, failed)
	writeReports(out, reports)

	err = w.Watch(ctx, func(paths []string) {
		reports, failed, err := s.runPaths(ctx, paths, cfg.Watch.Extensions)
		broken.Update(paths, failed)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				logger.Error("run failed", "error", err)
			}
			return
		}
		writeReports(out, reports)
	})
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	return nil
}

func serveMetrics(cfg *config.Config, s *session, checker *health.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(cfg.Telemetry.Metrics.Path, s.collector.Handler())
	checker.Mount(mux, cfg.Telemetry.Health)
	srv := &http.Server{
		Addr:              cfg.Telemetry.Metrics.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("serving metrics", "address", srv.Addr, "path", cfg.Telemetry.Metrics.Path)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()
	return srv
}

// brokenSuites tracks the suite files that failed to load on their latest
// run. Readiness fails while it is not empty.
type brokenSuites struct {
	mu    sync.Mutex
	files map[string]bool
}

func newBrokenSuites() *brokenSuites {
	return &brokenSuites{files: make(map[string]bool)}
}

// Update replaces what is known about the files under roots with failed.
// Files outside roots keep their state.
func (b *brokenSuites) Update(roots, failed []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for f := range b.files {
		for _, root := range roots {
			if within(f, root) {
				delete(b.files, f)
				break
			}
		}
	}
	for _, f := range failed {
		b.files[filepath.Clean(f)] = true
	}
}

// Files returns the broken files in order. Files removed from disk since
// their last run are forgotten.
func (b *brokenSuites) Files() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	files := make([]string, 0, len(b.files))
	for f := range b.files {
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			delete(b.files, f)
			continue
		}
		files = append(files, f)
	}
	slices.Sort(files)
	return files
}

// Check is a readiness check.
func (b *brokenSuites) Check(context.Context) error {
	if files := b.Files(); len(files) > 0 {
		return fmt.Errorf("%d suite(s) could not be loaded: %s", len(files), strings.Join(files, ", "))
	}
	return nil
}

// within reports whether path is root or lies below it.
func within(path, root string) bool {
	root = filepath.Clean(root)
	if path == root {
		return true
	}
	rel, err := filepath.Rel(root, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
