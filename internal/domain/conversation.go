package domain

// Message represents any message in the chat timeline (user or assistant).
// Messages are immutable once appended to the log.
type Message struct {
	ID        MessageID
	Role      Role
	Text      string
	CreatedAt Timestamp

	// Answer metadata, zero-valued on user messages and system notices.
	Confidence      float64
	Source          Source
	Similarity      float64
	RequiresHuman   bool
	EmotionAnalysis any
	SessionID       SessionID
	Strategy        any
}

// Session is the user-declared grouping of consecutive questions.
// Invariant: Active implies ID is non-empty.
type Session struct {
	ID     SessionID
	Active bool
}

// FeedbackDraft is the in-progress end-of-session rating. It only exists
// while the rating modal is open or a submission is pending.
type FeedbackDraft struct {
	Satisfied bool
	Rating    int // 1..5
	Comment   string
}

// NewFeedbackDraft returns the default draft shown when the modal opens.
func NewFeedbackDraft() FeedbackDraft {
	return FeedbackDraft{Satisfied: true, Rating: 5}
}

// QuickQuestion is one entry of the popular-questions suggestion list.
type QuickQuestion struct {
	Question string
	Count    int
}

// User is the authenticated account the chat view runs under.
type User struct {
	Username string
	Role     UserRole
}

// SearchResult is the hybrid search collaborator's answer to one question.
// SessionID echoes whatever identifier the server attached; the client treats
// it as authoritative for display without assuming the server actually uses
// it for conversational memory.
type SearchResult struct {
	Answer          string
	Confidence      float64
	Source          Source
	Similarity      float64
	RequiresHuman   bool
	EmotionAnalysis any
	SessionID       SessionID
	Strategy        any
}
