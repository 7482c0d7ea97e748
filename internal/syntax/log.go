package syntax

import "log/slog"

// Logger receives parser diagnostics that are not syntax errors, such as
// recovered internal faults. When nil, slog.Default() is used.
var Logger *slog.Logger

func logger() *slog.Logger {
	if Logger != nil {
		return Logger
	}
	return slog.Default()
}
