package mapper

import "go.uber.org/zap"

type options struct {
	logger  *zap.Logger
	noCache bool
}

// Option configures a Builder and the Registry it produces.
type Option func(*options)

// WithLogger overrides the package logger for one builder.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithoutCache disables the resolution cache. Every lookup then walks the
// full priority order.
func WithoutCache() Option {
	return func(o *options) {
		o.noCache = true
	}
}

func applyOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = Logger()
	}
	return o
}
