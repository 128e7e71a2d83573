package careermentor

import (
	"context"
	"log/slog"
)

// Pod wires the shared, read-only resources every session uses.
type Pod struct {
	llm      Completer
	model    string
	store    *SessionStore
	recorder UsageRecorder
	logger   *slog.Logger
}

// NewPod constructs a new Pod with the given resources. A nil recorder keeps
// usage records in memory.
func NewPod(llm Completer, model string, recorder UsageRecorder) *Pod {
	if recorder == nil {
		recorder = NewMemoryUsage()
	}
	return &Pod{
		llm:      llm,
		model:    model,
		store:    NewSessionStore(),
		recorder: recorder,
		logger:   slog.Default(),
	}
}

func (p *Pod) SetLogger(logger *slog.Logger) {
	p.logger = logger
}

func (p *Pod) Usage() UsageRecorder {
	return p.recorder
}

// NewSession creates and registers a new conversation session. The session is
// bound to ctx, which should outlive any single request.
func (p *Pod) NewSession(ctx context.Context) *Session {
	sess := NewSession(ctx, p.llm, p.model, p.recorder)
	sess.SetLogger(p.logger)
	p.store.Put(sess)
	return sess
}

func (p *Pod) Session(id string) (*Session, error) {
	return p.store.Get(id)
}

// EndSession disposes of a session.
func (p *Pod) EndSession(id string) error {
	return p.store.Delete(id)
}

// Close disposes of every session.
func (p *Pod) Close() {
	p.store.CloseAll()
}
