// Package api implements the collaborator ports against the FAQ backend's
// REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/JianiWang2024/faqchat/internal/domain"
)

// ErrorKind categorizes client errors for handling.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindUnauthenticated
	KindUnavailable
	KindTimeout
	KindInvalidResponse
)

// ClientError is a transport-level failure talking to the backend.
type ClientError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Config holds the connection settings. It is passed in explicitly; there is
// no package-level base URL or shared default state.
type Config struct {
	// BaseURL of the FAQ backend, without the /api suffix.
	BaseURL string

	// Timeout for each request (default: 30s).
	Timeout time.Duration

	// WithCredentials enables the cookie jar carrying the session cookie
	// issued at login.
	WithCredentials bool
}

func DefaultConfig() *Config {
	return &Config{
		BaseURL:         "https://498-ai-client.up.railway.app",
		Timeout:         30 * time.Second,
		WithCredentials: true,
	}
}

// Client talks to the FAQ backend. One client implements all five
// collaborator ports.
type Client struct {
	config     *Config
	httpClient *http.Client
}

var (
	_ domain.AuthClient       = (*Client)(nil)
	_ domain.SearchClient     = (*Client)(nil)
	_ domain.SessionClient    = (*Client)(nil)
	_ domain.FeedbackClient   = (*Client)(nil)
	_ domain.SuggestionClient = (*Client)(nil)
)

func NewClient(config *Config) (*Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultConfig().BaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	httpClient := &http.Client{Timeout: config.Timeout}
	if config.WithCredentials {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		httpClient.Jar = jar
	}

	return &Client{config: config, httpClient: httpClient}, nil
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type currentUserResponse struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

type searchRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id,omitempty"`
}

type searchResponse struct {
	Answer          string  `json:"answer"`
	Confidence      float64 `json:"confidence"`
	Source          string  `json:"source"`
	Similarity      float64 `json:"similarity"`
	RequiresHuman   bool    `json:"requires_human"`
	EmotionAnalysis any     `json:"emotion_analysis"`
	SessionID       string  `json:"session_id"`
	Strategy        any     `json:"strategy"`
}

type startSessionResponse struct {
	Success   bool   `json:"success"`
	SessionID string `json:"session_id"`
}

type endSessionRequest struct {
	SessionID string `json:"session_id"`
	Satisfied bool   `json:"satisfied"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

type endSessionResponse struct {
	Success bool `json:"success"`
}

type feedbackRequest struct {
	Satisfied bool `json:"satisfied"`
}

type topQuestionEntry struct {
	Question string `json:"question"`
	Count    int    `json:"count"`
}

// ─────────────────────────────────────────────
// Port implementations
// ─────────────────────────────────────────────

func (c *Client) CurrentUser(ctx context.Context) (*domain.User, error) {
	var out currentUserResponse
	if err := c.get(ctx, "/api/current-user", &out); err != nil {
		var ce *ClientError
		if errors.As(err, &ce) && ce.Kind == KindUnauthenticated {
			return nil, domain.ErrUnauthenticated
		}
		return nil, err
	}

	role := domain.UserRoleUser
	if out.Role == string(domain.UserRoleAdmin) {
		role = domain.UserRoleAdmin
	}
	return &domain.User{Username: out.Username, Role: role}, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.post(ctx, "/api/logout", struct{}{}, nil)
}

func (c *Client) Search(ctx context.Context, question string, sessionID domain.SessionID) (*domain.SearchResult, error) {
	req := searchRequest{Question: question, SessionID: string(sessionID)}

	var out searchResponse
	if err := c.post(ctx, "/api/faq/search", req, &out); err != nil {
		return nil, err
	}

	return &domain.SearchResult{
		Answer:          out.Answer,
		Confidence:      out.Confidence,
		Source:          domain.Source(out.Source),
		Similarity:      out.Similarity,
		RequiresHuman:   out.RequiresHuman,
		EmotionAnalysis: out.EmotionAnalysis,
		SessionID:       domain.SessionID(out.SessionID),
		Strategy:        out.Strategy,
	}, nil
}

func (c *Client) StartSession(ctx context.Context) (domain.SessionID, error) {
	var out startSessionResponse
	if err := c.post(ctx, "/api/session/start", struct{}{}, &out); err != nil {
		return "", err
	}

	if !out.Success || out.SessionID == "" {
		return "", &ClientError{Kind: KindInvalidResponse, Message: "server rejected session start"}
	}
	return domain.SessionID(out.SessionID), nil
}

func (c *Client) EndSession(ctx context.Context, sessionID domain.SessionID, draft domain.FeedbackDraft) error {
	req := endSessionRequest{
		SessionID: string(sessionID),
		Satisfied: draft.Satisfied,
		Rating:    draft.Rating,
		Comment:   draft.Comment,
	}

	var out endSessionResponse
	if err := c.post(ctx, "/api/session/end", req, &out); err != nil {
		return err
	}

	if !out.Success {
		return &ClientError{Kind: KindInvalidResponse, Message: "server rejected session end"}
	}
	return nil
}

func (c *Client) SendFeedback(ctx context.Context, satisfied bool) error {
	return c.post(ctx, "/api/feedback", feedbackRequest{Satisfied: satisfied}, nil)
}

func (c *Client) TopQuestions(ctx context.Context) ([]domain.QuickQuestion, error) {
	var entries []topQuestionEntry
	if err := c.get(ctx, "/api/top-questions", &entries); err != nil {
		return nil, err
	}

	out := make([]domain.QuickQuestion, 0, len(entries))
	for _, e := range entries {
		out = append(out, domain.QuickQuestion{Question: e.Question, Count: e.Count})
	}
	return out, nil
}

// ─────────────────────────────────────────────
// HTTP plumbing
// ─────────────────────────────────────────────

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+path, nil)
	if err != nil {
		return &ClientError{Kind: KindUnknown, Message: "failed to create request", Cause: err}
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return &ClientError{Kind: KindUnknown, Message: "failed to encode request body", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return &ClientError{Kind: KindUnknown, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		var ne net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
			return &ClientError{Kind: KindTimeout, Message: "request timed out", Cause: err}
		}
		return &ClientError{Kind: KindUnavailable, Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &ClientError{Kind: KindUnauthenticated, Message: "not logged in"}
	case resp.StatusCode >= http.StatusInternalServerError:
		return &ClientError{Kind: KindUnavailable, Message: "server error: " + resp.Status}
	case resp.StatusCode >= http.StatusBadRequest:
		return &ClientError{Kind: KindUnknown, Message: "unexpected status: " + resp.Status}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ClientError{Kind: KindInvalidResponse, Message: "malformed response body", Cause: err}
	}
	return nil
}
