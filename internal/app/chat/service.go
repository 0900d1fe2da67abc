package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/JianiWang2024/faqchat/internal/domain"
	"github.com/JianiWang2024/faqchat/internal/observability"
)

// maxSuggestions bounds the quick-question list exposed to the UI.
const maxSuggestions = 5

const (
	sessionStartedText = `Session started! You can now ask continuous questions, and I will remember our conversation. When you finish all your questions, please click "End Chat" for overall evaluation.`
	sessionEndedText   = "Thank you for your feedback! Session ended. You can start a new conversation."
	serviceDownText    = "Sorry, the AI service is temporarily unavailable. Please try again later or contact support."
)

// Service is the conversation orchestrator for one chat view. It owns the
// message log and the session controller, talks to the external
// collaborators, and converts every collaborator failure into an appended
// fallback message, an error the caller alerts on, or a silent drop. No
// failure escapes it unhandled.
type Service struct {
	user     domain.User
	log      *MessageLog
	sessions *SessionController

	search      domain.SearchClient
	feedback    domain.FeedbackClient
	suggestions []domain.QuickQuestion
}

// Deps are the external collaborators the orchestrator talks to.
type Deps struct {
	Search      domain.SearchClient
	Sessions    domain.SessionClient
	Feedback    domain.FeedbackClient
	Suggestions domain.SuggestionClient
}

// NewService builds the orchestrator for one view: seeds the log with the
// greeting for the signed-in user and loads the suggestion list once. A
// failing suggestion source degrades to an empty list.
func NewService(ctx context.Context, user domain.User, deps Deps) *Service {
	log := NewMessageLog()
	log.Append(domain.Message{
		Role: domain.RoleAssistant,
		Text: fmt.Sprintf("Hello %s! I am your AI assistant. How can I help you today?", user.Username),
	})

	svc := &Service{
		user:     user,
		log:      log,
		sessions: NewSessionController(deps.Sessions, log),
		search:   deps.Search,
		feedback: deps.Feedback,
	}

	if deps.Suggestions != nil {
		qs, err := deps.Suggestions.TopQuestions(ctx)
		if err != nil {
			observability.LoggerFromContext(ctx).Error("failed to fetch top questions", "error", err)
		} else {
			svc.suggestions = qs
		}
	}

	return svc
}

func (s *Service) User() domain.User {
	return s.user
}

func (s *Service) Log() *MessageLog {
	return s.log
}

func (s *Service) Sessions() *SessionController {
	return s.sessions
}

// FeedbackMode is derived from session state. The two rating mechanisms are
// mutually exclusive; there is no state in which both apply.
func (s *Service) FeedbackMode() domain.FeedbackMode {
	if s.sessions.Active() {
		return domain.FeedbackPerSession
	}
	return domain.FeedbackPerMessage
}

// Messages renders the timeline with the affordances for the current mode.
func (s *Service) Messages() []MessageView {
	return s.log.Render(s.FeedbackMode())
}

// Submit sends one question through the hybrid search collaborator. The
// user's message is appended immediately and stays visible even if the call
// later fails; a failed call appends the fixed apology fallback instead of
// an answer, and the user may simply resubmit. Returns the appended
// assistant message, or nil when the input was blank or the rating modal is
// open (question input is disabled mid-rating).
func (s *Service) Submit(ctx context.Context, question string) *domain.Message {
	question = strings.TrimSpace(question)
	if question == "" || s.sessions.Feedback().IsOpen() {
		return nil
	}

	s.log.Append(domain.Message{Role: domain.RoleUser, Text: question})

	var sessionID domain.SessionID
	if sess := s.sessions.Session(); sess.Active {
		sessionID = sess.ID
	}

	log := observability.LoggerFromContext(ctx).With("user", s.user.Username, "session_id", sessionID)

	res, err := s.search.Search(ctx, question, sessionID)
	if err != nil {
		log.Error("hybrid search failed", "error", err)
		msg := s.log.Append(domain.Message{
			Role:   domain.RoleAssistant,
			Text:   serviceDownText,
			Source: domain.SourceError,
		})
		return &msg
	}

	// The response's own session id is authoritative for display; fall back
	// to the one we attached when the server omits it.
	resSessionID := res.SessionID
	if resSessionID == "" {
		resSessionID = sessionID
	}

	msg := s.log.Append(domain.Message{
		Role:            domain.RoleAssistant,
		Text:            res.Answer,
		Confidence:      res.Confidence,
		Source:          res.Source,
		Similarity:      res.Similarity,
		RequiresHuman:   res.RequiresHuman,
		EmotionAnalysis: res.EmotionAnalysis,
		SessionID:       resSessionID,
		Strategy:        res.Strategy,
	})
	log.Info("question answered", "source", res.Source, "requires_human", res.RequiresHuman)
	return &msg
}

// SendSingleFeedback fires the one-shot thumbs signal for the latest answer.
// It only applies in per-message mode; during a session it does nothing at
// all, mirroring the render-time suppression of the thumbs buttons. Errors
// are logged and dropped, never surfaced.
func (s *Service) SendSingleFeedback(ctx context.Context, satisfied bool) {
	if s.FeedbackMode() != domain.FeedbackPerMessage {
		return
	}

	if err := s.feedback.SendFeedback(ctx, satisfied); err != nil {
		observability.LoggerFromContext(ctx).Warn("quick feedback dropped", "error", err)
	}
}

// Suggestions returns at most five popular questions for the sidebar.
func (s *Service) Suggestions() []domain.QuickQuestion {
	if len(s.suggestions) > maxSuggestions {
		return s.suggestions[:maxSuggestions]
	}
	return s.suggestions
}

// SubmitSuggestion submits the i-th suggestion exactly as if the user had
// typed its text.
func (s *Service) SubmitSuggestion(ctx context.Context, i int) *domain.Message {
	qs := s.Suggestions()
	if i < 0 || i >= len(qs) {
		return nil
	}
	return s.Submit(ctx, qs[i].Question)
}
