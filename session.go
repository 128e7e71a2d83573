// Package careermentor - session.go
// Defines the per-conversation session controller.
package careermentor

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	Greeting    = "👋 Welcome to Career Mentor AI!\nTell me about your interests and I'll help you explore a career path."
	ErrorPrefix = "❌ Error: "
)

// TurnResult is the outcome of one user turn. Err is nil when the reply was
// fully streamed and appended to the history.
type TurnResult struct {
	TurnID string
	Agent  *Agent
	Reply  string
	Usage  Usage
	Err    error
}

func (r TurnResult) OK() bool {
	return r.Err == nil
}

// Session holds the conversation state of a single chat and references to
// the shared, read-only completion resources.
type Session struct {
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	// turnMu serializes turns; mu guards the fields below it.
	turnMu      sync.Mutex
	mu          sync.Mutex
	history     *History
	activeAgent *Agent
	state       State
	usage       Usage

	llm      Completer
	model    string
	recorder UsageRecorder

	logger *slog.Logger
}

// NewSession constructs a session with references to the shared completer but
// isolated state. The session lives until Close is called or ctx is done.
func NewSession(ctx context.Context, llm Completer, model string, recorder UsageRecorder) *Session {
	sessionID, err := gonanoid.New()
	if err != nil {
		panic(err)
	}
	ctx, cancel := context.WithCancel(ctx)
	ctx = context.WithValue(ctx, ContextKey("sessionID"), sessionID)
	return &Session{
		ctx:    ctx,
		cancel: cancel,

		history:     NewHistory(),
		activeAgent: CareerAgent,
		state:       StateIdle,

		llm:      llm,
		model:    model,
		recorder: recorder,

		logger: slog.Default().With("sessionID", sessionID),
	}
}

func (s *Session) ID() string {
	return s.ctx.Value(ContextKey("sessionID")).(string)
}

func (s *Session) SetLogger(logger *slog.Logger) {
	s.logger = logger.With("sessionID", s.ID())
}

// History returns a copy of the conversation so far.
func (s *Session) History() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.All()
}

func (s *Session) ActiveAgent() *Agent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeAgent
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start greets the user. The greeting is not part of the history.
func (s *Session) Start(ctx context.Context, ui UI) error {
	if s.State() == StateClosed {
		return ErrSessionClosed
	}
	s.logger.Info("Session started")
	return ui.Send(ctx, Greeting)
}

// HandleMessage runs one turn: the user message is appended, an agent is
// selected and its reply streamed into ui. On failure the partial reply is
// discarded and ui receives an error update. A concurrent call waits for the
// running turn to finish.
func (s *Session) HandleMessage(ctx context.Context, text string, ui UI) TurnResult {
	s.turnMu.Lock()
	defer s.turnMu.Unlock()

	turnID := uuid.NewString()

	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return TurnResult{TurnID: turnID, Err: ErrSessionClosed}
	}
	s.history.Append(UserMessage(text))
	ag := SelectAgent(text)
	s.activeAgent = ag
	s.state = StateAwaitingReply
	history := s.history.All()
	s.mu.Unlock()

	// Closing the session cancels the in-flight completion.
	turnCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()
	turnCtx = context.WithValue(turnCtx, ContextKey("sessionID"), s.ID())
	turnCtx = context.WithValue(turnCtx, ContextKey("turnID"), turnID)

	result := s.runTurn(turnCtx, turnID, ag, history, ui)

	s.mu.Lock()
	if result.Err == nil {
		s.history.Append(AssistantMessage(result.Reply))
	}
	s.usage.Add(result.Usage)
	if s.state != StateClosed {
		s.state = StateIdle
	}
	s.mu.Unlock()

	s.record(ctx, result)
	return result
}

func (s *Session) runTurn(ctx context.Context, turnID string, ag *Agent, history []Message, ui UI) TurnResult {
	result := TurnResult{TurnID: turnID, Agent: ag}
	logger := s.logger.With("turnID", turnID, "agent", ag.Name())

	s.render(logger, ui.Send(ctx, ""))

	stream := s.llm.Stream(ctx, ag, history)
	defer stream.Close()

	var reply strings.Builder
	for stream.Next() {
		fragment := stream.Current()
		reply.WriteString(fragment)
		s.render(logger, ui.StreamToken(ctx, fragment))
	}
	result.Usage = stream.Usage()

	if err := stream.Err(); err != nil {
		result.Err = err
		logger.Error("Error streaming reply", "error", err)
		s.render(logger, ui.Update(context.WithoutCancel(ctx), ErrorPrefix+err.Error()))
		return result
	}

	result.Reply = reply.String()
	logger.Info("Turn completed", "replyLength", len(result.Reply))
	return result
}

func (s *Session) render(logger *slog.Logger, err error) {
	if err != nil {
		logger.Warn("Error rendering to UI", "error", err)
	}
}

func (s *Session) record(ctx context.Context, result TurnResult) {
	if s.recorder == nil || result.Agent == nil {
		return
	}
	cost, _ := Price(s.model, result.Usage)
	record := UsageRecord{
		ID:           uuid.New(),
		SessionID:    s.ID(),
		TurnID:       result.TurnID,
		Agent:        result.Agent.Name(),
		Model:        s.model,
		InputTokens:  result.Usage.InputTokens,
		OutputTokens: result.Usage.OutputTokens,
		Cost:         cost,
		Failed:       result.Err != nil,
		CreatedAt:    time.Now(),
	}
	if err := s.recorder.Record(context.WithoutCancel(ctx), record); err != nil {
		s.logger.Error("Error recording usage", "turnID", result.TurnID, "error", err)
	}
}

// Close ends the session lifecycle and cancels any in-flight turn.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		s.mu.Lock()
		s.state = StateClosed
		s.mu.Unlock()
		s.logger.Info("Session closed")
	})
}
