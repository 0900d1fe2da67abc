package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JianiWang2024/faqchat/internal/adapters/api"
	"github.com/JianiWang2024/faqchat/internal/domain"
)

func newTestClient(t *testing.T, handler http.Handler) *api.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := api.NewClient(&api.Config{BaseURL: srv.URL})
	require.NoError(t, err)
	return client
}

func TestSearchMapsResponse(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/faq/search", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "What is FAQ?", body["question"])
		require.Equal(t, "abc123", body["session_id"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"answer":         "An FAQ is a list of common questions.",
			"confidence":     0.87,
			"source":         "database",
			"similarity":     0.91,
			"requires_human": true,
			"session_id":     "abc123",
		})
	}))

	res, err := client.Search(context.Background(), "What is FAQ?", "abc123")
	require.NoError(t, err)
	require.Equal(t, "An FAQ is a list of common questions.", res.Answer)
	require.Equal(t, domain.SourceDatabase, res.Source)
	require.InDelta(t, 0.87, res.Confidence, 1e-9)
	require.True(t, res.RequiresHuman)
	require.Equal(t, domain.SessionID("abc123"), res.SessionID)
}

func TestSearchOmitsEmptySessionID(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, present := body["session_id"]
		require.False(t, present)

		_ = json.NewEncoder(w).Encode(map[string]any{"answer": "hi", "source": "ai"})
	}))

	res, err := client.Search(context.Background(), "hello", "")
	require.NoError(t, err)
	require.Equal(t, domain.SourceAI, res.Source)
}

func TestSearchServerErrorIsUnavailable(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := client.Search(context.Background(), "hello", "")
	require.Error(t, err)

	var ce *api.ClientError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, api.KindUnavailable, ce.Kind)
}

func TestCurrentUser(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/current-user", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]string{"username": "alice", "role": "admin"})
	}))

	user, err := client.CurrentUser(context.Background())
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)
	require.Equal(t, domain.UserRoleAdmin, user.Role)
}

func TestCurrentUserUnauthenticated(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := client.CurrentUser(context.Background())
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestStartSession(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/session/start", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "session_id": "abc123"})
	}))

	id, err := client.StartSession(context.Background())
	require.NoError(t, err)
	require.Equal(t, domain.SessionID("abc123"), id)
}

func TestStartSessionRejectedByServer(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false})
	}))

	_, err := client.StartSession(context.Background())
	require.Error(t, err)

	var ce *api.ClientError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, api.KindInvalidResponse, ce.Kind)
}

func TestEndSessionSendsDraft(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/session/end", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "abc123", body["session_id"])
		require.Equal(t, false, body["satisfied"])
		require.Equal(t, float64(3), body["rating"])
		require.Equal(t, "too slow", body["comment"])

		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))

	draft := domain.FeedbackDraft{Satisfied: false, Rating: 3, Comment: "too slow"}
	require.NoError(t, client.EndSession(context.Background(), "abc123", draft))
}

func TestSendFeedback(t *testing.T) {
	var got map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/feedback", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))

	require.NoError(t, client.SendFeedback(context.Background(), true))
	require.Equal(t, true, got["satisfied"])
}

func TestTopQuestions(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/top-questions", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"question": "What is FAQ?", "count": 10},
			{"question": "How do I log in?", "count": 4},
		})
	}))

	qs, err := client.TopQuestions(context.Background())
	require.NoError(t, err)
	require.Len(t, qs, 2)
	require.Equal(t, domain.QuickQuestion{Question: "What is FAQ?", Count: 10}, qs[0])
}
