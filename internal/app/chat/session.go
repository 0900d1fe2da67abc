package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/JianiWang2024/faqchat/internal/domain"
	"github.com/JianiWang2024/faqchat/internal/observability"
)

// Guard errors for session transitions. Start/end failures from the backend
// are returned wrapped instead, so callers can tell a rejected call from a
// failed one.
var (
	ErrSessionActive     = errors.New("session already active")
	ErrNoActiveSession   = errors.New("no active session")
	ErrFeedbackClosed    = errors.New("rating modal is not open")
	ErrOperationInFlight = errors.New("session operation already in flight")
)

// SessionController mediates the Inactive <-> Active transitions of the
// continuous-chat session. Start and end carry an in-flight guard so a
// second call cannot race one that is still waiting on the backend; the UI
// disables its buttons too, but the contract does not rely on that.
type SessionController struct {
	mu       sync.Mutex
	session  domain.Session
	inFlight bool

	client    domain.SessionClient
	log       *MessageLog
	collector *FeedbackCollector
}

func NewSessionController(client domain.SessionClient, log *MessageLog) *SessionController {
	return &SessionController{
		client:    client,
		log:       log,
		collector: NewFeedbackCollector(),
	}
}

func (c *SessionController) Session() domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.session
}

func (c *SessionController) Active() bool {
	return c.Session().Active
}

func (c *SessionController) Feedback() *FeedbackCollector {
	return c.collector
}

// Start begins a continuous session. Valid only while inactive. On success
// the session becomes active and one system notice is appended to the log;
// on failure nothing is mutated and the error is returned for the caller to
// surface out of band.
func (c *SessionController) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.session.Active {
		c.mu.Unlock()
		return ErrSessionActive
	}
	if c.inFlight {
		c.mu.Unlock()
		return ErrOperationInFlight
	}
	c.inFlight = true
	c.mu.Unlock()

	defer c.clearInFlight()

	log := observability.LoggerFromContext(ctx)
	log.Info("starting session")

	id, err := c.client.StartSession(ctx)
	if err != nil {
		log.Error("failed to start session", "error", err)
		return fmt.Errorf("start session: %w", err)
	}

	c.mu.Lock()
	c.session = domain.Session{ID: id, Active: true}
	c.mu.Unlock()

	c.log.Append(domain.Message{Role: domain.RoleAssistant, Text: sessionStartedText})
	log.Info("session started", "session_id", id)
	return nil
}

// RequestEnd opens the rating modal. The session stays active until the
// rating is submitted successfully; cancelling the modal keeps it active.
func (c *SessionController) RequestEnd() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.session.Active {
		return ErrNoActiveSession
	}

	c.collector.open()
	return nil
}

// EndWithFeedback submits the collector's draft to the backend and, on
// success, ends the session: identifier cleared, modal closed, draft reset,
// thank-you notice appended. On failure the session, the draft and the open
// modal are all left untouched so the user can retry without re-entering
// anything.
func (c *SessionController) EndWithFeedback(ctx context.Context) error {
	c.mu.Lock()
	if !c.session.Active {
		c.mu.Unlock()
		return ErrNoActiveSession
	}
	if !c.collector.IsOpen() {
		c.mu.Unlock()
		return ErrFeedbackClosed
	}
	if c.inFlight {
		c.mu.Unlock()
		return ErrOperationInFlight
	}
	c.inFlight = true
	id := c.session.ID
	c.mu.Unlock()

	defer c.clearInFlight()

	draft := c.collector.Draft()

	log := observability.LoggerFromContext(ctx).With("session_id", id)
	log.Info("ending session", "satisfied", draft.Satisfied, "rating", draft.Rating)

	if err := c.client.EndSession(ctx, id, draft); err != nil {
		log.Error("failed to end session", "error", err)
		return fmt.Errorf("end session: %w", err)
	}

	c.mu.Lock()
	c.session = domain.Session{}
	c.mu.Unlock()

	c.collector.close()
	c.log.Append(domain.Message{Role: domain.RoleAssistant, Text: sessionEndedText})
	log.Info("session ended")
	return nil
}

func (c *SessionController) clearInFlight() {
	c.mu.Lock()
	c.inFlight = false
	c.mu.Unlock()
}
