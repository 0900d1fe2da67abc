package chat

import (
	"sync"

	"github.com/JianiWang2024/faqchat/internal/domain"
)

// FeedbackCollector holds the in-progress end-of-session rating and the
// rating modal's open/closed state. It is opened only through
// SessionController.RequestEnd, so the modal can never be open while no
// session is active.
type FeedbackCollector struct {
	mu     sync.RWMutex
	opened bool
	draft  domain.FeedbackDraft
}

func NewFeedbackCollector() *FeedbackCollector {
	return &FeedbackCollector{draft: domain.NewFeedbackDraft()}
}

// open resets the draft to defaults and shows the modal.
func (c *FeedbackCollector) open() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.draft = domain.NewFeedbackDraft()
	c.opened = true
}

func (c *FeedbackCollector) IsOpen() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.opened
}

func (c *FeedbackCollector) Draft() domain.FeedbackDraft {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.draft
}

func (c *FeedbackCollector) SetSatisfied(satisfied bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.draft.Satisfied = satisfied
}

// SetRating clamps to the 1..5 star scale.
func (c *FeedbackCollector) SetRating(rating int) {
	if rating < 1 {
		rating = 1
	}
	if rating > 5 {
		rating = 5
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.draft.Rating = rating
}

// SetComment stores the free-text comment. No length limit is enforced here.
func (c *FeedbackCollector) SetComment(comment string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.draft.Comment = comment
}

// Cancel closes the modal and discards the draft. The session itself stays
// active; only a successful submission ends it.
func (c *FeedbackCollector) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.opened = false
	c.draft = domain.NewFeedbackDraft()
}

// close is called after a successful submission: modal closed, draft back
// to defaults for the next session.
func (c *FeedbackCollector) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.opened = false
	c.draft = domain.NewFeedbackDraft()
}
