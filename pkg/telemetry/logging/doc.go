// Package logging provides structured logging for tensorix.
//
// It wraps log/slog with level and format parsing taken from the
// configuration file, and with helpers that attach the current run, suite
// and check to every record:
//
//	logger, err := logging.New(logging.Config{Level: "debug", Format: "text"})
//	if err != nil {
//	    return err
//	}
//	ctx := logging.WithRunID(ctx, runID)
//	logger.InfoContext(ctx, "suite finished", "passed", 12, "failed", 0)
//
// Library packages accept a *slog.Logger; pass logger.Slog().
package logging
