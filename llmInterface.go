package careermentor

import (
	"context"
)

// Completer defines the contract the session controller relies on to get an
// agent's reply from a language-model provider.
type Completer interface {
	// Stream starts a completion for the agent over the given history. The
	// request is issued lazily by the first call to Next.
	Stream(ctx context.Context, ag *Agent, history []Message) FragmentStream
}

// FragmentStream is a finite, non-restartable sequence of reply fragments.
// Next blocks until a fragment is available and returns false once the reply
// ended or failed; Err then reports the failure, if any.
type FragmentStream interface {
	Next() bool
	Current() string
	Err() error
	Close() error
	// Usage reports the tokens consumed so far.
	Usage() Usage
}
