// Package tui renders the interactive chat session in the terminal.
package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"logwhisper/internal/domain"
	"logwhisper/internal/session"
)

var (
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	promptBoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	youStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	agentStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	statusStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warnStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// Model is the Bubble Tea model for the chat session.
type Model struct {
	loop       *session.Loop
	input      textinput.Model
	viewport   viewport.Model
	transcript []string
	status     string
	ready      bool
}

// New creates the chat model. The summary, if non-empty, is shown in the
// welcome banner.
func New(loop *session.Loop, summary string) Model {
	ti := textinput.New()
	ti.Prompt = "You: "
	ti.Placeholder = "Ask about the log, or type quit to leave"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	m := Model{
		loop:     loop,
		input:    ti,
		viewport: vp,
		status:   "Ready.",
	}
	m.transcript = append(m.transcript, welcomeBanner(loop.Document(), summary))
	for _, e := range loop.History() {
		m.transcript = append(m.transcript, renderEntry(e))
	}
	return m
}

// Init starts the text input cursor blink.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events. Answering happens synchronously:
// turns are strictly sequential and the loop blocks on the model call.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptBoxStyle.GetFrameSize()
		_, ph := promptBoxStyle.GetFrameSize()
		vh := msg.Height - ph - th - 2
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = vh
		m.viewport.SetContent(strings.Join(m.transcript, "\n\n"))
		m.viewport.GotoBottom()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			// Same cleanup guarantee as the termination commands.
			m.surfaceWarnings(m.loop.Close())
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			return m.submit()
		case "up":
			m.viewport.LineUp(1)
			return m, nil
		case "down":
			m.viewport.LineDown(1)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	line := m.input.Value()
	if strings.TrimSpace(line) == "" {
		return m, nil
	}
	m.status = "Analyzing..."
	res, err := m.loop.Process(context.Background(), line)
	m.input.SetValue("")
	if res.Terminated {
		m.surfaceWarnings(res.Warnings)
		return m, tea.Quit
	}
	if err != nil {
		m.status = warnStyle.Render("Error: " + err.Error())
		m.surfaceWarnings(res.Warnings)
		return m, nil
	}
	m.transcript = append(m.transcript,
		youStyle.Render("You: ")+strings.TrimSpace(line),
		agentStyle.Render("Agent: ")+res.Answer,
	)
	m.status = fmt.Sprintf("Answered (%s mode).", res.Mode)
	m.surfaceWarnings(res.Warnings)
	m.viewport.SetContent(strings.Join(m.transcript, "\n\n"))
	m.viewport.GotoBottom()
	return m, nil
}

func (m *Model) surfaceWarnings(warnings []string) {
	if len(warnings) == 0 {
		return
	}
	m.status = warnStyle.Render(strings.Join(warnings, "; "))
}

// View renders the transcript, prompt, and status line.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	transcript := transcriptBoxStyle.Render(m.viewport.View())
	prompt := promptBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return transcript + "\n" + prompt + "\n" + status
}

func renderEntry(e domain.ConversationEntry) string {
	if e.Role == domain.RoleAI {
		return agentStyle.Render("Agent: ") + e.Content
	}
	return youStyle.Render("You: ") + e.Content
}

func welcomeBanner(doc domain.LogDocument, summary string) string {
	var sb strings.Builder
	sb.WriteString(agentStyle.Render("Welcome to Log Whisperer!"))
	sb.WriteString(fmt.Sprintf("\n\nI'm ready to help you analyze your log file: %s (%d bytes)", filepath.Base(doc.Path), doc.Size))
	if summary != "" {
		sb.WriteString("\n\nNotable lines:\n" + statusStyle.Render(summary))
	}
	sb.WriteString(`

You can ask me questions like:
- "What errors do you see in this log?"
- "Summarize the main events"
- "Are there any patterns or anomalies?"

Type 'quit' or 'exit', or press Ctrl+C to end the session.`)
	return sb.String()
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
