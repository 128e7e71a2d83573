package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/boat-builder/careermentor"
)

type echoStream struct {
	done bool
}

func (s *echoStream) Next() bool {
	if s.done {
		return false
	}
	s.done = true
	return true
}

func (s *echoStream) Current() string           { return "echo" }
func (s *echoStream) Err() error                { return nil }
func (s *echoStream) Close() error              { return nil }
func (s *echoStream) Usage() careermentor.Usage { return careermentor.Usage{} }

type echoCompleter struct{}

func (echoCompleter) Stream(ctx context.Context, ag *careermentor.Agent, history []careermentor.Message) careermentor.FragmentStream {
	return &echoStream{}
}

func newTestModel(t *testing.T) model {
	t.Helper()
	sess := careermentor.NewSession(context.Background(), echoCompleter{}, careermentor.DefaultModel, nil)
	t.Cleanup(sess.Close)
	m := newModel(context.Background(), sess)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(model)
}

func feed(t *testing.T, m model, responses ...careermentor.Response) model {
	t.Helper()
	for _, r := range responses {
		updated, _ := m.Update(responseMsg{response: r, ok: true})
		m = updated.(model)
	}
	return m
}

func TestTranscriptFromResponses(t *testing.T) {
	m := newTestModel(t)
	m = feed(t, m, careermentor.Response{Content: careermentor.Greeting, Type: careermentor.ResponseTypeMessage})
	m.sending = true
	m.transcript = append(m.transcript, entry{role: careermentor.RoleUser, text: "hi"})

	m = feed(t, m,
		careermentor.Response{Type: careermentor.ResponseTypeMessage},
		careermentor.Response{Content: "Hel", Type: careermentor.ResponseTypePartialText},
		careermentor.Response{Content: "lo", Type: careermentor.ResponseTypePartialText},
		careermentor.Response{Content: "CareerAgent", Type: careermentor.ResponseTypeEnd},
	)

	if m.sending {
		t.Fatalf("expected sending to stop after the end response")
	}
	if len(m.transcript) != 3 {
		t.Fatalf("expected 3 entries, got %+v", m.transcript)
	}
	reply := m.transcript[2]
	if reply.text != "Hello" || reply.agent != "CareerAgent" || reply.pending {
		t.Fatalf("unexpected reply entry %+v", reply)
	}
	if !strings.Contains(m.renderTranscript(), "Hello") {
		t.Fatalf("expected reply in rendered transcript")
	}
}

func TestTranscriptShowsErrors(t *testing.T) {
	m := newTestModel(t)
	m.sending = true
	m = feed(t, m,
		careermentor.Response{Type: careermentor.ResponseTypeMessage},
		careermentor.Response{Content: "part", Type: careermentor.ResponseTypePartialText},
		careermentor.Response{Content: careermentor.ErrorPrefix + "stream: boom", Type: careermentor.ResponseTypeUpdate},
		careermentor.Response{Content: "stream: boom", Type: careermentor.ResponseTypeError},
	)

	if len(m.transcript) != 1 {
		t.Fatalf("expected a single entry, got %+v", m.transcript)
	}
	if e := m.transcript[0]; !e.failed || e.text != careermentor.ErrorPrefix+"stream: boom" {
		t.Fatalf("unexpected error entry %+v", e)
	}
}

func TestSendIgnoresEmptyInput(t *testing.T) {
	m := newTestModel(t)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(model)
	if cmd != nil || m.sending {
		t.Fatalf("expected empty input to be ignored")
	}
}

func TestSendRunsTurn(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("what jobs fit me?")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(model)
	if cmd == nil || !m.sending {
		t.Fatalf("expected a turn to start")
	}
	if m.input.Value() != "" {
		t.Fatalf("expected input to be cleared")
	}
	if len(m.transcript) != 1 || m.transcript[0].text != "what jobs fit me?" {
		t.Fatalf("expected user entry, got %+v", m.transcript)
	}
}
