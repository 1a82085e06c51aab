package statekit

import "log/slog"

// ErrorReporter receives errors raised by subscribers and effect callbacks
// during a flush. The kernel never lets those errors abort the flush or
// roll anything back; they are surfaced only through this channel.
type ErrorReporter func(modelID string, err error)

// report sends a subscriber failure to the configured reporter.
func (r *Registry) report(modelID string, err error) {
	if r.reporter != nil {
		r.reporter(modelID, err)
		return
	}
	r.logger.Error("statekit: subscriber error", "model", modelID, "error", err)
}

// defaultLogger is used when no logger option is given.
func defaultLogger() *slog.Logger {
	return slog.Default()
}
