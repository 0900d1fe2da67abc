// Package ui is the terminal front-end for the FAQ chat client. All
// conversation and session state lives in the chat service; this package only
// renders it and translates key presses into service calls.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/JianiWang2024/faqchat/internal/app/chat"
	"github.com/JianiWang2024/faqchat/internal/domain"
)

// requestTimeout bounds each background call issued from the UI.
const requestTimeout = 60 * time.Second

// maxVisibleMessages limits how much of the timeline is drawn; the log
// itself keeps everything.
const maxVisibleMessages = 15

type answerMsg struct{}

type startResultMsg struct{ err error }

type endResultMsg struct{ err error }

type feedbackSentMsg struct{}

type logoutDoneMsg struct{}

// Model is the bubbletea model for the chat view.
type Model struct {
	svc  *chat.Service
	auth domain.AuthClient

	input   textinput.Model
	comment textinput.Model

	width  int
	height int

	busy     bool
	alert    string
	quitting bool
}

func New(svc *chat.Service, auth domain.AuthClient) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask a question..."
	ti.CharLimit = 512
	ti.Prompt = "> "
	ti.Width = 70
	ti.Focus()

	ci := textinput.New()
	ci.Placeholder = "Please share your thoughts about this conversation..."
	ci.Prompt = ""
	ci.Width = 50

	return Model{svc: svc, auth: auth, input: ti, comment: ci}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if w := msg.Width - 4; w > 20 {
			m.input.Width = w
		}
		return m, nil

	case answerMsg:
		m.busy = false
		return m, nil

	case startResultMsg:
		m.busy = false
		if msg.err != nil && !isGuardErr(msg.err) {
			m.alert = "Failed to start session, please try again"
		}
		return m, nil

	case endResultMsg:
		m.busy = false
		if msg.err != nil {
			if !isGuardErr(msg.err) {
				m.alert = "Failed to end session, please try again"
			}
			// modal stays open, draft preserved
			return m, nil
		}
		m.comment.Reset()
		m.comment.Blur()
		return m, m.input.Focus()

	case feedbackSentMsg:
		return m, nil

	case logoutDoneMsg:
		m.quitting = true
		return m, tea.Quit

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	if m.svc.Sessions().Feedback().IsOpen() {
		m.comment, cmd = m.comment.Update(msg)
	} else {
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	// A pending alert is blocking: the next key dismisses it.
	if m.alert != "" {
		m.alert = ""
		return m, nil
	}

	if m.svc.Sessions().Feedback().IsOpen() {
		return m.handleModalKey(msg)
	}

	switch msg.String() {
	case "ctrl+l":
		return m, m.logoutCmd()

	case "ctrl+s":
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, m.startSessionCmd()

	case "ctrl+e":
		if err := m.svc.Sessions().RequestEnd(); err == nil {
			m.input.Blur()
			return m, m.comment.Focus()
		}
		return m, nil

	case "ctrl+y":
		return m, m.quickFeedbackCmd(true)

	case "ctrl+n":
		return m, m.quickFeedbackCmd(false)

	case "enter":
		question := m.input.Value()
		m.input.Reset()
		if strings.TrimSpace(question) == "" || m.busy {
			return m, nil
		}
		m.busy = true
		return m, m.submitCmd(question)

	case "f1", "f2", "f3", "f4", "f5":
		i := int(msg.String()[1] - '1')
		if m.busy || i >= len(m.svc.Suggestions()) {
			return m, nil
		}
		m.busy = true
		return m, m.submitSuggestionCmd(i)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	fb := m.svc.Sessions().Feedback()

	switch msg.String() {
	case "esc":
		fb.Cancel()
		m.comment.Reset()
		m.comment.Blur()
		return m, m.input.Focus()

	case "enter":
		if m.busy {
			return m, nil
		}
		fb.SetComment(m.comment.Value())
		m.busy = true
		return m, m.endSessionCmd()

	case "tab":
		fb.SetSatisfied(!fb.Draft().Satisfied)
		return m, nil

	case "up", "right":
		fb.SetRating(fb.Draft().Rating + 1)
		return m, nil

	case "down", "left":
		fb.SetRating(fb.Draft().Rating - 1)
		return m, nil
	}

	var cmd tea.Cmd
	m.comment, cmd = m.comment.Update(msg)
	return m, cmd
}

// ─────────────────────────────────────────────
// Commands
// ─────────────────────────────────────────────

func (m Model) submitCmd(question string) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		svc.Submit(ctx, question)
		return answerMsg{}
	}
}

func (m Model) submitSuggestionCmd(i int) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		svc.SubmitSuggestion(ctx, i)
		return answerMsg{}
	}
}

func (m Model) startSessionCmd() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		return startResultMsg{err: svc.Sessions().Start(ctx)}
	}
}

func (m Model) endSessionCmd() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		return endResultMsg{err: svc.Sessions().EndWithFeedback(ctx)}
	}
}

func (m Model) quickFeedbackCmd(satisfied bool) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		svc.SendSingleFeedback(ctx, satisfied)
		return feedbackSentMsg{}
	}
}

func (m Model) logoutCmd() tea.Cmd {
	auth := m.auth
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		// Errors are logged upstream; locally we always leave the view.
		_ = auth.Logout(ctx)
		return logoutDoneMsg{}
	}
}

func isGuardErr(err error) bool {
	return errors.Is(err, chat.ErrSessionActive) ||
		errors.Is(err, chat.ErrNoActiveSession) ||
		errors.Is(err, chat.ErrFeedbackClosed) ||
		errors.Is(err, chat.ErrOperationInFlight)
}

// ─────────────────────────────────────────────
// View
// ─────────────────────────────────────────────

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.viewHeader())
	b.WriteString("\n\n")

	main := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.viewMessages(),
		"  ",
		m.viewSidebar(),
	)
	b.WriteString(main)
	b.WriteString("\n\n")

	if m.svc.Sessions().Feedback().IsOpen() {
		b.WriteString(m.viewModal())
		b.WriteString("\n")
	}

	b.WriteString(m.viewStatus())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewHeader() string {
	user := m.svc.User()
	title := headerStyle.Render("AI FAQ Assistant")
	welcome := fmt.Sprintf(" Welcome, %s!", user.Username)
	if user.Role == domain.UserRoleAdmin {
		welcome += " " + adminBadgeStyle.Render("[admin]")
	}
	return title + welcome
}

func (m Model) viewMessages() string {
	views := m.svc.Messages()
	if len(views) > maxVisibleMessages {
		views = views[len(views)-maxVisibleMessages:]
	}

	var lines []string
	for _, v := range views {
		switch v.Role {
		case domain.RoleUser:
			lines = append(lines, userMsgStyle.Render("You: ")+v.Text)
		default:
			line := assistantMsgStyle.Render("Bot: " + v.Text)
			if v.RequiresHuman {
				line += "\n     " + escalationStyle.Render("A human agent has been suggested for this question.")
			}
			if v.Source != "" && v.Source != domain.SourceError {
				line += "\n     " + msgMetaStyle.Render(
					fmt.Sprintf("source: %s, confidence: %.2f", v.Source, v.Confidence))
			}
			if v.ShowQuickFeedback {
				line += "\n     " + msgMetaStyle.Render("rate this answer: ctrl+y 👍 / ctrl+n 👎")
			}
			lines = append(lines, line)
		}
	}

	return strings.Join(lines, "\n")
}

func (m Model) viewSidebar() string {
	var b strings.Builder

	sess := m.svc.Sessions().Session()
	b.WriteString("Conversation Session\n")
	if sess.Active {
		b.WriteString(sessionActiveStyle.Render("● Session Active") + "\n")
		b.WriteString(msgMetaStyle.Render("id: "+string(sess.ID)) + "\n")
		b.WriteString("ctrl+e  End Chat & Rate\n")
	} else {
		b.WriteString("ctrl+s  Start Continuous Chat\n")
	}

	qs := m.svc.Suggestions()
	if len(qs) > 0 {
		b.WriteString("\nPopular questions:\n")
		for i, q := range qs {
			b.WriteString(fmt.Sprintf("F%d  %s (%d)\n", i+1, q.Question, q.Count))
		}
	}

	b.WriteString("\nctrl+l  Log out")

	return sidebarStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) viewModal() string {
	draft := m.svc.Sessions().Feedback().Draft()

	satisfied := "😊 Satisfied"
	if !draft.Satisfied {
		satisfied = "😞 Unsatisfied"
	}

	stars := starStyle.Render(strings.Repeat("★", draft.Rating) + strings.Repeat("☆", 5-draft.Rating))

	var b strings.Builder
	b.WriteString("Conversation Rating\n\n")
	b.WriteString("Overall Satisfaction (tab): " + satisfied + "\n")
	b.WriteString("Rating (↑/↓): " + stars + "\n")
	b.WriteString("Comments: " + m.comment.View() + "\n\n")
	b.WriteString(msgMetaStyle.Render("enter: Submit Rating   esc: Cancel"))

	return modalStyle.Render(b.String())
}

func (m Model) viewStatus() string {
	if m.alert != "" {
		return alertStyle.Render(m.alert + " (press any key)")
	}
	if m.busy {
		return statusStyle.Render("thinking...")
	}
	if m.svc.Sessions().Feedback().IsOpen() {
		return statusStyle.Render("question input is disabled while rating")
	}
	return statusStyle.Render("enter: send   ctrl+c: quit")
}
