// File: pool/options.go
// Package pool defines functional options shared by every record pool.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import (
	"io"
	"log/slog"

	"github.com/momentics/hioload-mempool/api"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Option customizes pool initialization.
type Option func(*options)

type options struct {
	alloc api.Allocator
	log   *slog.Logger
}

func newOptions(opts []Option) options {
	o := options{alloc: HeapAllocator{}, log: discardLogger}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithAllocator sets the allocator backing every block of the pool.
func WithAllocator(a api.Allocator) Option {
	return func(o *options) {
		if a != nil {
			o.alloc = a
		}
	}
}

// WithLogger routes grow/shrink and allocation-failure events to l.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}
