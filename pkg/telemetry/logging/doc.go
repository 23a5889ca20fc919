// Package logging configures structured logging for the coaching
// engine.
//
// It wraps Go's standard log/slog package to provide JSON and text
// output formats, configurable levels, and automatic redaction of
// sensitive log fields. Redaction matters here because the engine
// handles advisor drafts that may contain client identifiers: a draft
// must never reach a log line unredacted.
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:           "info",
//	    Format:          "json",
//	    RedactSensitive: true,
//	})
//	slog.SetDefault(logger)
package logging
