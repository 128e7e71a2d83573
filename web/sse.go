package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/boat-builder/careermentor"
)

const (
	EventMessage = "message"
	EventToken   = "token"
	EventUpdate  = "update"
	EventDone    = "done"
)

type contentEvent struct {
	Content string `json:"content"`
}

type doneEvent struct {
	TurnID string `json:"turn_id"`
	Agent  string `json:"agent,omitempty"`
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
}

// sseUI renders a session turn as server-sent events on an HTTP response.
type sseUI struct {
	w     http.ResponseWriter
	flush func()
	mu    sync.Mutex
}

var _ careermentor.UI = &sseUI{}

func newSSEUI(w http.ResponseWriter) *sseUI {
	headers := w.Header()
	headers.Set("Content-Type", "text/event-stream")
	headers.Set("Cache-Control", "no-cache")
	headers.Set("Connection", "keep-alive")

	var flushFn func()
	if f, ok := w.(http.Flusher); ok {
		flushFn = f.Flush
	}
	return &sseUI{w: w, flush: flushFn}
}

func (u *sseUI) Send(ctx context.Context, content string) error {
	return u.event(ctx, EventMessage, contentEvent{Content: content})
}

func (u *sseUI) StreamToken(ctx context.Context, token string) error {
	return u.event(ctx, EventToken, contentEvent{Content: token})
}

func (u *sseUI) Update(ctx context.Context, content string) error {
	return u.event(ctx, EventUpdate, contentEvent{Content: content})
}

func (u *sseUI) done(ctx context.Context, result careermentor.TurnResult) error {
	evt := doneEvent{TurnID: result.TurnID, OK: result.OK()}
	if result.Agent != nil {
		evt.Agent = result.Agent.Name()
	}
	if result.Err != nil {
		evt.Error = result.Err.Error()
	}
	return u.event(ctx, EventDone, evt)
}

func (u *sseUI) event(ctx context.Context, name string, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("web: marshal %s event: %w", name, err)
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	if _, err := fmt.Fprintf(u.w, "event: %s\ndata: %s\n\n", name, body); err != nil {
		return err
	}
	if u.flush != nil {
		u.flush()
	}
	return nil
}
