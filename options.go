package flexobj

import (
	"github.com/hupe1980/flexobj/alloc"
)

type options struct {
	allocator        alloc.Allocator
	logger           *Logger
	metricsCollector MetricsCollector
}

// Option configures an Engine.
type Option func(*options)

// WithAllocator sets the source of allocation blocks.
//
// If nil is passed, alloc.Heap() is used.
func WithAllocator(a alloc.Allocator) Option {
	return func(o *options) {
		if a == nil {
			a = alloc.Heap()
		}
		o.allocator = a
	}
}

// WithLogger sets the logger for construct/destroy events.
//
// If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets the metrics collector.
//
// If nil is passed, NoopMetricsCollector is used.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

func defaultOptions() options {
	return options{
		allocator:        alloc.Heap(),
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
	}
}
