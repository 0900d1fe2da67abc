package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JianiWang2024/faqchat/internal/domain"
)

// MessageLog is the append-only timeline for one chat view. Entries are
// never mutated or removed once appended; ordering is arrival order.
type MessageLog struct {
	mu   sync.RWMutex
	msgs []domain.Message
	now  func() time.Time
}

func NewMessageLog() *MessageLog {
	return &MessageLog{now: time.Now}
}

// Append stamps the message with an id and timestamp (unless already set)
// and adds it to the end. The stamped copy is returned.
func (l *MessageLog) Append(msg domain.Message) domain.Message {
	l.mu.Lock()
	defer l.mu.Unlock()

	if msg.ID == "" {
		msg.ID = domain.MessageID(uuid.NewString())
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = l.now()
	}

	l.msgs = append(l.msgs, msg)
	return msg
}

func (l *MessageLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.msgs)
}

// Messages returns a copy of the timeline in arrival order.
func (l *MessageLog) Messages() []domain.Message {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.Message, len(l.msgs))
	copy(out, l.msgs)
	return out
}

// MessageView pairs a message with its render-time affordances.
type MessageView struct {
	domain.Message

	// ShowQuickFeedback marks assistant messages that may carry the thumbs
	// up/down buttons. Only set in per-message feedback mode; during a
	// session the conversation is rated once at the end instead.
	ShowQuickFeedback bool
}

// Render produces view-models in arrival order for the given feedback mode.
func (l *MessageLog) Render(mode domain.FeedbackMode) []MessageView {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]MessageView, 0, len(l.msgs))
	for _, m := range l.msgs {
		out = append(out, MessageView{
			Message:           m,
			ShowQuickFeedback: m.Role == domain.RoleAssistant && mode == domain.FeedbackPerMessage,
		})
	}
	return out
}
