package arena

import "log/slog"

// Option configures an Arena at construction time.
type Option func(*Arena)

// WithLogger attaches a structured logger for Debug-level exhaustion
// events.
func WithLogger(l *slog.Logger) Option {
	return func(a *Arena) {
		if l != nil {
			a.logger = l
		}
	}
}
