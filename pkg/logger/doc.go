// Package logger builds slog loggers the rest of the module shares.
//
// Two formats are supported: json for log shipping and text for local
// debugging. Components receive a *slog.Logger through their options and
// never construct their own, so every line carries the same base
// attributes.
//
//	log := logger.New(
//	    logger.WithFormat(logger.FormatText),
//	    logger.WithLevel(slog.LevelDebug),
//	    logger.WithAttrs(slog.String("component", "session")),
//	)
package logger
