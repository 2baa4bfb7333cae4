// Package lifecycle releases the resources a command acquires, such as the
// Moov client's token cache and the telemetry exporters.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
)

type hook struct {
	name string
	fn   func(context.Context) error
}

// ShutdownHooks runs cleanup in reverse registration order, so resources are
// released before the things they depend on. Every hook runs even when an
// earlier one fails.
type ShutdownHooks struct {
	hooks []hook
}

// Add registers fn under name. Nil functions are ignored with a warning.
func (s *ShutdownHooks) Add(name string, fn func(context.Context) error) {
	if fn == nil {
		log.Warn().Str("hook", name).Msg("attempted to add nil shutdown hook; ignoring")
		return
	}

	log.Debug().Str("hook", name).Msg("adding shutdown hook")
	s.hooks = append(s.hooks, hook{name: name, fn: fn})
}

// AddCloser registers closer.Close under name.
func (s *ShutdownHooks) AddCloser(name string, closer io.Closer) {
	if closer == nil {
		log.Warn().Str("hook", name).Msg("attempted to add nil closer; ignoring")
		return
	}

	s.Add(name, func(context.Context) error {
		return closer.Close()
	})
}

// Len reports the number of registered hooks.
func (s *ShutdownHooks) Len() int {
	return len(s.hooks)
}

// Run executes the hooks, last registered first, and clears them. The
// returned error joins every hook failure.
func (s *ShutdownHooks) Run(ctx context.Context) error {
	l := log.Ctx(ctx)

	var errs []error
	for i := len(s.hooks) - 1; i >= 0; i-- {
		h := s.hooks[i]
		hookLog := l.With().Str("hook", h.name).Logger()

		hookLog.Debug().Msg("shutdown started")
		if err := h.fn(ctx); err != nil {
			hookLog.Warn().Err(err).Msg("shutdown failed")
			errs = append(errs, fmt.Errorf("%s: %w", h.name, err))
			continue
		}
		hookLog.Debug().Msg("shutdown complete")
	}
	s.hooks = nil

	return errors.Join(errs...)
}
