// Package tui is a terminal chat front end for a single career mentor session.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/boat-builder/careermentor"
)

const inputHeight = 3

var (
	headerStyle    = lipgloss.NewStyle().Bold(true)
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Bold(true)
)

type entry struct {
	role    careermentor.Role
	text    string
	failed  bool
	agent   string
	pending bool
}

// responseMsg carries one response from the running session call. ok is false
// once the channel has been closed.
type responseMsg struct {
	response careermentor.Response
	ok       bool
	ch       <-chan careermentor.Response
}

type model struct {
	ctx     context.Context
	session *careermentor.Session

	width  int
	height int

	transcript []entry
	sending    bool

	viewport viewport.Model
	input    textarea.Model
	spinner  spinner.Model
	keys     keyMap
	help     help.Model
	showHelp bool
}

func newModel(ctx context.Context, session *careermentor.Session) model {
	input := textarea.New()
	input.Placeholder = "Tell me about your interests..."
	input.Prompt = "┃ "
	input.ShowLineNumbers = false
	input.SetHeight(inputHeight)
	input.KeyMap.InsertNewline.SetEnabled(false)
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = dimStyle

	return model{
		ctx:      ctx,
		session:  session,
		viewport: viewport.New(0, 0),
		input:    input,
		spinner:  spin,
		keys:     defaultKeyMap,
		help:     help.New(),
	}
}

// Run opens the terminal chat and blocks until the user quits.
func Run(ctx context.Context, session *careermentor.Session) error {
	_, err := tea.NewProgram(newModel(ctx, session), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.start())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			m.layout()
			return m, nil
		case key.Matches(msg, m.keys.PageUp), key.Matches(msg, m.keys.PageDown):
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		case key.Matches(msg, m.keys.Send):
			return m, m.send()
		}
	case responseMsg:
		if !msg.ok {
			m.sending = false
			m.refresh()
			return m, nil
		}
		m.apply(msg.response)
		return m, listen(msg.ch)
	case spinner.TickMsg:
		if !m.sending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refresh()
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m model) View() string {
	header := headerStyle.Render("Career Mentor AI")
	if agent := m.session.ActiveAgent(); agent != nil {
		header += dimStyle.Render("  " + agent.Name())
	}
	footer := footerStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp()))
	if m.showHelp {
		footer = footerStyle.Render(m.help.FullHelpView(m.keys.FullHelp()))
	}
	return strings.Join([]string{
		header,
		m.viewport.View(),
		m.input.View(),
		footer,
	}, "\n")
}

// start greets the user through the session.
func (m *model) start() tea.Cmd {
	ui := careermentor.NewChannelUI(1)
	session, ctx := m.session, m.ctx
	go func() {
		defer ui.Close()
		_ = session.Start(ctx, ui)
	}()
	return listen(ui.Out())
}

func (m *model) send() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.sending {
		return nil
	}
	m.input.Reset()
	m.sending = true
	m.transcript = append(m.transcript, entry{role: careermentor.RoleUser, text: text})
	m.refresh()

	ui := careermentor.NewChannelUI(64)
	session, ctx := m.session, m.ctx
	go func() {
		result := session.HandleMessage(ctx, text, ui)
		_ = ui.Finish(ctx, result)
	}()
	return tea.Batch(m.spinner.Tick, listen(ui.Out()))
}

func listen(ch <-chan careermentor.Response) tea.Cmd {
	return func() tea.Msg {
		response, ok := <-ch
		return responseMsg{response: response, ok: ok, ch: ch}
	}
}

// apply renders a response into the transcript.
func (m *model) apply(response careermentor.Response) {
	switch response.Type {
	case careermentor.ResponseTypeMessage:
		m.transcript = append(m.transcript, entry{
			role:    careermentor.RoleAssistant,
			text:    response.Content,
			pending: m.sending,
		})
	case careermentor.ResponseTypePartialText:
		if last := m.last(); last != nil {
			last.text += response.Content
		}
	case careermentor.ResponseTypeUpdate:
		if last := m.last(); last != nil {
			last.text = response.Content
			last.failed = strings.HasPrefix(response.Content, careermentor.ErrorPrefix)
		}
	case careermentor.ResponseTypeEnd:
		m.sending = false
		if last := m.last(); last != nil {
			last.pending = false
			last.agent = response.Content
		}
	case careermentor.ResponseTypeError:
		m.sending = false
		last := m.last()
		if last == nil || !last.pending {
			m.transcript = append(m.transcript, entry{role: careermentor.RoleAssistant})
			last = m.last()
		}
		last.pending = false
		if !last.failed {
			last.text = careermentor.ErrorPrefix + response.Content
			last.failed = true
		}
	}
	m.refresh()
}

func (m *model) last() *entry {
	for i := len(m.transcript) - 1; i >= 0; i-- {
		if m.transcript[i].role == careermentor.RoleAssistant {
			return &m.transcript[i]
		}
	}
	return nil
}

func (m *model) layout() {
	footerHeight := 1
	if m.showHelp {
		footerHeight = 3
	}
	m.viewport.Width = m.width
	m.viewport.Height = max(m.height-inputHeight-footerHeight-2, 1)
	m.input.SetWidth(m.width)
	m.help.Width = m.width
	m.refresh()
}

func (m *model) refresh() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m model) renderTranscript() string {
	width := m.viewport.Width
	var b strings.Builder
	for i, e := range m.transcript {
		if i > 0 {
			b.WriteString("\n\n")
		}
		label := userStyle.Render("You")
		if e.role == careermentor.RoleAssistant {
			name := "Mentor"
			if e.agent != "" {
				name += " (" + e.agent + ")"
			}
			label = assistantStyle.Render(name)
		}
		text := e.text
		if e.pending && text == "" {
			text = m.spinner.View()
		}
		style := lipgloss.NewStyle()
		if width > 0 {
			style = style.Width(width)
		}
		if e.failed {
			style = style.Inherit(errStyle)
		}
		b.WriteString(label + "\n" + style.Render(text))
	}
	return b.String()
}
