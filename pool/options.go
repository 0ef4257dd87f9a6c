package pool

import "log/slog"

// Option configures a Pool at construction time.
type Option func(*Pool)

// WithLogger attaches a structured logger for Debug-level post-destroy
// events.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}
