package lang

import (
	"github.com/ardnew/aocl/log"
)

// DefaultRecursionLimit is the default maximum call depth of an execution.
// Users may modify this before constructing an [Interpreter].
var DefaultRecursionLimit = 10000

// options holds configuration shared by the parser and the interpreter.
type options struct {
	logger         log.Logger
	source         Source
	recursionLimit int
	noCache        bool
}

// Option configures parsing or evaluation behavior.
type Option func(*options)

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSource sets where readByLine finds input data.
// The default reads "<name>.txt" from the "data" directory.
func WithSource(src Source) Option {
	return func(o *options) {
		o.source = src
	}
}

// WithRecursionLimit bounds the depth of nested calls. A limit less than 1
// disables the check.
func WithRecursionLimit(limit int) Option {
	return func(o *options) {
		o.recursionLimit = limit
	}
}

// WithCache enables or disables the parse cache used by [ParseReader].
func WithCache(enable bool) Option {
	return func(o *options) {
		o.noCache = !enable
	}
}

func makeOptions(opts ...Option) options {
	o := options{recursionLimit: DefaultRecursionLimit}

	for _, opt := range opts {
		opt(&o)
	}

	if o.source == nil {
		o.source = DefaultSource()
	}

	return o
}
