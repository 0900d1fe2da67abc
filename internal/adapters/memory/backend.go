package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/JianiWang2024/faqchat/internal/domain"
)

// Backend is an in-memory stand-in for the FAQ service. One value implements
// all five collaborator ports. It is NOT a real answer source and is only
// suitable for tests and offline mode.
type Backend struct {
	mu sync.RWMutex

	user         domain.User
	topQuestions []domain.QuickQuestion

	active map[domain.SessionID]bool
	ended  map[domain.SessionID]domain.FeedbackDraft

	searchCalls  int
	feedbackSent []bool

	// Error injection: a non-nil value makes the corresponding operation
	// fail.
	UserErr     error
	SearchErr   error
	StartErr    error
	EndErr      error
	FeedbackErr error
	TopErr      error
}

var (
	_ domain.AuthClient       = (*Backend)(nil)
	_ domain.SearchClient     = (*Backend)(nil)
	_ domain.SessionClient    = (*Backend)(nil)
	_ domain.FeedbackClient   = (*Backend)(nil)
	_ domain.SuggestionClient = (*Backend)(nil)
)

func NewBackend() *Backend {
	return &Backend{
		user:   domain.User{Username: "demo", Role: domain.UserRoleUser},
		active: make(map[domain.SessionID]bool),
		ended:  make(map[domain.SessionID]domain.FeedbackDraft),
	}
}

func (b *Backend) SetUser(u domain.User) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.user = u
}

func (b *Backend) SetTopQuestions(qs []domain.QuickQuestion) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.topQuestions = qs
}

func (b *Backend) CurrentUser(ctx context.Context) (*domain.User, error) {
	if b.UserErr != nil {
		return nil, b.UserErr
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	u := b.user
	return &u, nil
}

func (b *Backend) Logout(ctx context.Context) error {
	return nil
}

// Search returns a canned echo answer with fixed scores.
func (b *Backend) Search(ctx context.Context, question string, sessionID domain.SessionID) (*domain.SearchResult, error) {
	b.mu.Lock()
	b.searchCalls++
	b.mu.Unlock()

	if b.SearchErr != nil {
		return nil, b.SearchErr
	}

	return &domain.SearchResult{
		Answer:     fmt.Sprintf("You asked %q. This is a canned offline answer.", question),
		Confidence: 0.92,
		Source:     domain.SourceDatabase,
		Similarity: 0.88,
		SessionID:  sessionID,
	}, nil
}

func (b *Backend) StartSession(ctx context.Context) (domain.SessionID, error) {
	if b.StartErr != nil {
		return "", b.StartErr
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	id := domain.SessionID(uuid.NewString())
	b.active[id] = true
	return id, nil
}

func (b *Backend) EndSession(ctx context.Context, sessionID domain.SessionID, draft domain.FeedbackDraft) error {
	if b.EndErr != nil {
		return b.EndErr
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.active[sessionID] {
		return errors.New("session not found")
	}

	delete(b.active, sessionID)
	b.ended[sessionID] = draft
	return nil
}

func (b *Backend) SendFeedback(ctx context.Context, satisfied bool) error {
	if b.FeedbackErr != nil {
		return b.FeedbackErr
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.feedbackSent = append(b.feedbackSent, satisfied)
	return nil
}

func (b *Backend) TopQuestions(ctx context.Context) ([]domain.QuickQuestion, error) {
	if b.TopErr != nil {
		return nil, b.TopErr
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]domain.QuickQuestion, len(b.topQuestions))
	copy(out, b.topQuestions)
	return out, nil
}

// Test accessors.

func (b *Backend) SearchCalls() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.searchCalls
}

func (b *Backend) FeedbackSent() []bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]bool, len(b.feedbackSent))
	copy(out, b.feedbackSent)
	return out
}

func (b *Backend) ActiveSessions() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.active)
}

// EndedWith reports the feedback a session was closed with.
func (b *Backend) EndedWith(id domain.SessionID) (domain.FeedbackDraft, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	draft, ok := b.ended[id]
	return draft, ok
}
