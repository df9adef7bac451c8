// Package lifecycle exposes credential events as a lifecycle.Source.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/jot/pkg/core"
)

type credentialSource struct {
	in  <-chan core.Event
	out chan lifecycle.Event
}

// NewSource turns a credential event stream into a lifecycle.Source. Events
// stops once the stream is closed or the context given to Start is done.
func NewSource(events <-chan core.Event) lifecycle.Source {
	return &credentialSource{
		in:  events,
		out: make(chan lifecycle.Event),
	}
}

func (s *credentialSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *credentialSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, s.relay)
	return nil
}

func (s *credentialSource) relay(ctx context.Context) error {
	defer close(s.out)
	for {
		var e core.Event
		select {
		case <-ctx.Done():
			return nil
		case next, ok := <-s.in:
			if !ok {
				return nil
			}
			e = next
		}

		select {
		case s.out <- e:
		case <-ctx.Done():
			return nil
		}
	}
}
