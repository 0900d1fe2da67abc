package domain

import (
	"context"
	"errors"
)

// ErrUnauthenticated is returned by AuthClient when there is no logged-in
// user. Callers route to login instead of treating it as a failure.
var ErrUnauthenticated = errors.New("unauthenticated")

// AuthClient defines how the client learns who is logged in.
type AuthClient interface {
	CurrentUser(ctx context.Context) (*User, error)
	Logout(ctx context.Context) error
}

// SearchClient is the hybrid Q&A collaborator (database first, AI fallback).
// sessionID is attached for context when a session is active and may be
// empty otherwise.
type SearchClient interface {
	Search(ctx context.Context, question string, sessionID SessionID) (*SearchResult, error)
}

// SessionClient manages server-side session lifecycle.
type SessionClient interface {
	StartSession(ctx context.Context) (SessionID, error)
	EndSession(ctx context.Context, sessionID SessionID, draft FeedbackDraft) error
}

// FeedbackClient carries the one-shot thumbs up/down signal.
type FeedbackClient interface {
	SendFeedback(ctx context.Context, satisfied bool) error
}

// SuggestionClient supplies the popular-questions list shown in the sidebar.
type SuggestionClient interface {
	TopQuestions(ctx context.Context) ([]QuickQuestion, error)
}
