// Package health serves liveness and readiness probes.
//
// Liveness answers as long as the process runs. Readiness runs every
// registered check concurrently, each bounded by the checker timeout, and
// reports 503 when any of them fails:
//
//	checker := health.New(5 * time.Second)
//	checker.Register("journal", func(ctx context.Context) error {
//		_, err := storage.Count(ctx, &journal.Query{})
//		return err
//	})
//	checker.Mount(mux, cfg.Telemetry.Health)
package health
