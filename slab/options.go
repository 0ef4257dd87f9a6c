package slab

import "log/slog"

// Option configures a Slab at construction time, following the same
// functional-options shape used throughout this module.
type Option func(*Slab)

// WithLogger attaches a structured logger for Debug-level exhaustion and
// invalid-free events. The default is slog.Default() with logging
// effectively silenced by never exceeding Debug level for expected
// conditions.
func WithLogger(l *slog.Logger) Option {
	return func(s *Slab) {
		if l != nil {
			s.logger = l
		}
	}
}
