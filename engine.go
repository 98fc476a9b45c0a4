package flexobj

import (
	"sync"

	"github.com/hupe1980/flexobj/alloc"
)

// Engine constructs and destroys composite objects. It is safe for
// concurrent use; individual objects are not synchronized.
type Engine struct {
	alloc   alloc.Allocator
	logger  *Logger
	metrics MetricsCollector
}

// New creates an Engine. Without options it allocates from the Go heap and
// neither logs nor collects metrics.
func New(optFns ...Option) *Engine {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Engine{
		alloc:   opts.allocator,
		logger:  opts.logger,
		metrics: opts.metricsCollector,
	}
}

var defaultEngine = sync.OnceValue(func() *Engine { return New() })

// Default returns the shared heap-backed Engine used when a nil Engine is
// passed to Make or Destroy.
func Default() *Engine {
	return defaultEngine()
}

// Allocator returns the engine's block allocator.
func (e *Engine) Allocator() alloc.Allocator {
	return e.alloc
}

// Logger returns the engine's logger.
func (e *Engine) Logger() *Logger {
	return e.logger
}
