package domain

import "time"

type SessionID string
type MessageID string

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Source tells where an assistant answer came from.
type Source string

const (
	SourceDatabase Source = "database" // matched in the FAQ knowledge base
	SourceAI       Source = "ai"       // AI-generated fallback
	SourceError    Source = "error"    // local fallback, service unreachable
)

// FeedbackMode selects which of the two rating mechanisms applies.
// Outside a session each answer can be rated with a quick thumbs up/down;
// inside a session the whole conversation is rated once, at the end.
type FeedbackMode string

const (
	FeedbackPerMessage FeedbackMode = "per_message"
	FeedbackPerSession FeedbackMode = "per_session"
)

type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleUser  UserRole = "user"
)

type Timestamp = time.Time
