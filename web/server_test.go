package web

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/boat-builder/careermentor"
	"github.com/tidwall/gjson"
)

type sliceStream struct {
	fragments []string
	err       error
	i         int
}

func (s *sliceStream) Next() bool {
	if s.i >= len(s.fragments) {
		return false
	}
	s.i++
	return true
}

func (s *sliceStream) Current() string { return s.fragments[s.i-1] }
func (s *sliceStream) Err() error      { return s.err }
func (s *sliceStream) Close() error    { return nil }

func (s *sliceStream) Usage() careermentor.Usage {
	return careermentor.Usage{InputTokens: 5, OutputTokens: 2}
}

type scriptedCompleter struct {
	mu      sync.Mutex
	replies []*sliceStream
	agents  []string
}

func (c *scriptedCompleter) Stream(ctx context.Context, ag *careermentor.Agent, history []careermentor.Message) careermentor.FragmentStream {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.agents = append(c.agents, ag.Name())
	if len(c.replies) == 0 {
		return &sliceStream{fragments: []string{"ok"}}
	}
	s := c.replies[0]
	c.replies = c.replies[1:]
	return s
}

type sseEvent struct {
	name string
	data string
}

func parseEvents(t *testing.T, body string) []sseEvent {
	t.Helper()
	var events []sseEvent
	var current sseEvent
	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			current.name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			current.data = strings.TrimPrefix(line, "data: ")
		case line == "":
			if current.name != "" {
				events = append(events, current)
			}
			current = sseEvent{}
		}
	}
	return events
}

func newTestServer(t *testing.T, completer careermentor.Completer) (http.Handler, *careermentor.Pod) {
	t.Helper()
	pod := careermentor.NewPod(completer, careermentor.DefaultModel, nil)
	t.Cleanup(pod.Close)
	return NewServer(context.Background(), pod, nil), pod
}

func do(srv http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func createSession(t *testing.T, srv http.Handler) string {
	t.Helper()
	w := do(srv, http.MethodPost, "/sessions", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d, body=%s", w.Code, w.Body.String())
	}
	if got := gjson.Get(w.Body.String(), "greeting").String(); got != careermentor.Greeting {
		t.Fatalf("expected greeting, got %q", got)
	}
	id := gjson.Get(w.Body.String(), "session_id").String()
	if id == "" {
		t.Fatalf("expected a session id, body=%s", w.Body.String())
	}
	return id
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t, &scriptedCompleter{})
	w := do(srv, http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("expected CORS header")
	}
}

func TestSendMessageStreamsEvents(t *testing.T) {
	completer := &scriptedCompleter{replies: []*sliceStream{{fragments: []string{"Try ", "bootcamps."}}}}
	srv, _ := newTestServer(t, completer)
	id := createSession(t, srv)

	w := do(srv, http.MethodPost, "/sessions/"+id+"/messages", `{"text":"how do I learn data science?"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("expected event stream, got %q", ct)
	}

	events := parseEvents(t, w.Body.String())
	wantNames := []string{EventMessage, EventToken, EventToken, EventDone}
	if len(events) != len(wantNames) {
		t.Fatalf("expected %d events, got %+v", len(wantNames), events)
	}
	for i, name := range wantNames {
		if events[i].name != name {
			t.Fatalf("event %d = %s, want %s", i, events[i].name, name)
		}
	}
	if gjson.Get(events[1].data, "content").String() != "Try " {
		t.Fatalf("unexpected token %s", events[1].data)
	}
	done := events[3].data
	if !gjson.Get(done, "ok").Bool() || gjson.Get(done, "agent").String() != "SkillAgent" {
		t.Fatalf("unexpected done event %s", done)
	}

	w = do(srv, http.MethodGet, "/sessions/"+id, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if gjson.Get(body, "messages.#").Int() != 2 {
		t.Fatalf("expected 2 messages, body=%s", body)
	}
	if gjson.Get(body, "messages.1.content").String() != "Try bootcamps." || gjson.Get(body, "messages.1.role").String() != "assistant" {
		t.Fatalf("unexpected reply in history, body=%s", body)
	}
	if gjson.Get(body, "agent").String() != "SkillAgent" || gjson.Get(body, "state").String() != "idle" {
		t.Fatalf("unexpected session state, body=%s", body)
	}
}

func TestSendMessageProviderFailure(t *testing.T) {
	failure := &careermentor.ProviderError{Op: "stream", Err: errors.New("quota exceeded")}
	completer := &scriptedCompleter{replies: []*sliceStream{{fragments: []string{"half"}, err: failure}}}
	srv, _ := newTestServer(t, completer)
	id := createSession(t, srv)

	w := do(srv, http.MethodPost, "/sessions/"+id+"/messages", `{"text":"hello"}`)
	events := parseEvents(t, w.Body.String())
	if len(events) != 4 {
		t.Fatalf("expected 4 events, got %+v", events)
	}
	if events[2].name != EventUpdate || gjson.Get(events[2].data, "content").String() != careermentor.ErrorPrefix+"stream: quota exceeded" {
		t.Fatalf("expected error update, got %+v", events[2])
	}
	if gjson.Get(events[3].data, "ok").Bool() {
		t.Fatalf("expected failed done event, got %s", events[3].data)
	}

	w = do(srv, http.MethodGet, "/sessions/"+id, "")
	if n := gjson.Get(w.Body.String(), "messages.#").Int(); n != 1 {
		t.Fatalf("expected only the user message, got %d", n)
	}
}

func TestSendMessageValidation(t *testing.T) {
	srv, _ := newTestServer(t, &scriptedCompleter{})
	id := createSession(t, srv)

	tests := []struct {
		name string
		path string
		body string
		code int
	}{
		{"invalid json", "/sessions/" + id + "/messages", `{`, http.StatusBadRequest},
		{"empty text", "/sessions/" + id + "/messages", `{"text":"  "}`, http.StatusBadRequest},
		{"unknown session", "/sessions/missing/messages", `{"text":"hi"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(srv, http.MethodPost, tt.path, tt.body)
			if w.Code != tt.code {
				t.Fatalf("expected %d, got %d, body=%s", tt.code, w.Code, w.Body.String())
			}
		})
	}
}

func TestDeleteSession(t *testing.T) {
	srv, pod := newTestServer(t, &scriptedCompleter{})
	id := createSession(t, srv)

	sess, err := pod.Session(id)
	if err != nil {
		t.Fatalf("expected session to be registered: %v", err)
	}

	if w := do(srv, http.MethodDelete, "/sessions/"+id, ""); w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if sess.State() != careermentor.StateClosed {
		t.Fatalf("expected deleted session to be closed")
	}
	if w := do(srv, http.MethodGet, "/sessions/"+id, ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
	if w := do(srv, http.MethodDelete, "/sessions/"+id, ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 deleting twice, got %d", w.Code)
	}
}
