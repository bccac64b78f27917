// Package oplog plumbs a single injected zerolog.Logger through the
// analysis engine so that non-fatal conditions (§7: stale node, unconnected
// subgraph, apodization occurred, zero-output node) are reported without
// ever failing an analysis. Callers that don't care about warnings can
// leave the logger unset; Nop() is the zero-value-safe default.
package oplog

import (
	"io"

	"github.com/rs/zerolog"
)

// Nop returns a logger that discards everything, safe as a zero value.
func Nop() zerolog.Logger {
	return zerolog.New(io.Discard)
}

// Warnf logs a warning-level message with structured node/context fields.
// It never returns an error: warnings are, by contract, non-fatal.
func Warnf(logger zerolog.Logger, nodeName, nodeType, format string, args ...interface{}) {
	logger.Warn().
		Str("node", nodeName).
		Str("node_type", nodeType).
		Msgf(format, args...)
}
