package chat_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JianiWang2024/faqchat/internal/adapters/memory"
	"github.com/JianiWang2024/faqchat/internal/app/chat"
	"github.com/JianiWang2024/faqchat/internal/domain"
)

func TestSessionStartTransitionsToActive(t *testing.T) {
	ctx := context.Background()
	backend := memory.NewBackend()
	log := chat.NewMessageLog()
	ctrl := chat.NewSessionController(backend, log)

	require.NoError(t, ctrl.Start(ctx))

	sess := ctrl.Session()
	require.True(t, sess.Active)
	require.NotEmpty(t, sess.ID)
	require.Equal(t, 1, log.Len(), "one system notice on start")
}

func TestSessionStartRejectedWhileActive(t *testing.T) {
	ctx := context.Background()
	backend := memory.NewBackend()
	log := chat.NewMessageLog()
	ctrl := chat.NewSessionController(backend, log)

	require.NoError(t, ctrl.Start(ctx))
	id := ctrl.Session().ID

	err := ctrl.Start(ctx)
	require.ErrorIs(t, err, chat.ErrSessionActive)
	require.Equal(t, id, ctrl.Session().ID, "identifier unchanged")
	require.Equal(t, 1, log.Len(), "no duplicate system message")
}

func TestSessionStartFailureMutatesNothing(t *testing.T) {
	ctx := context.Background()
	backend := memory.NewBackend()
	backend.StartErr = errFake
	log := chat.NewMessageLog()
	ctrl := chat.NewSessionController(backend, log)

	require.Error(t, ctrl.Start(ctx))
	require.False(t, ctrl.Active())
	require.Zero(t, log.Len(), "failures are alerted out of band, not appended")
}

func TestRequestEndRequiresActiveSession(t *testing.T) {
	backend := memory.NewBackend()
	ctrl := chat.NewSessionController(backend, chat.NewMessageLog())

	require.ErrorIs(t, ctrl.RequestEnd(), chat.ErrNoActiveSession)
	require.False(t, ctrl.Feedback().IsOpen())
}

func TestEndWithFeedbackClosesSession(t *testing.T) {
	ctx := context.Background()
	backend := memory.NewBackend()
	log := chat.NewMessageLog()
	ctrl := chat.NewSessionController(backend, log)

	require.NoError(t, ctrl.Start(ctx))
	id := ctrl.Session().ID

	require.NoError(t, ctrl.RequestEnd())
	require.True(t, ctrl.Feedback().IsOpen())

	ctrl.Feedback().SetRating(3)
	require.NoError(t, ctrl.EndWithFeedback(ctx))

	require.Equal(t, domain.Session{}, ctrl.Session())
	require.False(t, ctrl.Feedback().IsOpen())
	require.Equal(t, domain.NewFeedbackDraft(), ctrl.Feedback().Draft())
	require.Equal(t, 2, log.Len(), "start notice plus thank-you")

	draft, ok := backend.EndedWith(id)
	require.True(t, ok)
	require.Equal(t, 3, draft.Rating)
}

func TestEndWithFeedbackFailurePreservesEverything(t *testing.T) {
	ctx := context.Background()
	backend := memory.NewBackend()
	log := chat.NewMessageLog()
	ctrl := chat.NewSessionController(backend, log)

	require.NoError(t, ctrl.Start(ctx))
	id := ctrl.Session().ID
	require.NoError(t, ctrl.RequestEnd())
	ctrl.Feedback().SetRating(3)

	backend.EndErr = errFake
	require.Error(t, ctrl.EndWithFeedback(ctx))

	require.True(t, ctrl.Active())
	require.Equal(t, id, ctrl.Session().ID)
	require.True(t, ctrl.Feedback().IsOpen(), "modal stays open for retry")
	require.Equal(t, 3, ctrl.Feedback().Draft().Rating, "draft preserved")

	// Retry succeeds once the backend recovers.
	backend.EndErr = nil
	require.NoError(t, ctrl.EndWithFeedback(ctx))
	require.False(t, ctrl.Active())
}

func TestCancelKeepsSessionActive(t *testing.T) {
	ctx := context.Background()
	backend := memory.NewBackend()
	ctrl := chat.NewSessionController(backend, chat.NewMessageLog())

	require.NoError(t, ctrl.Start(ctx))
	require.NoError(t, ctrl.RequestEnd())

	ctrl.Feedback().Cancel()

	require.False(t, ctrl.Feedback().IsOpen())
	require.True(t, ctrl.Active(), "cancelling the rating does not end the session")
}

// blockingSessionClient parks StartSession until released, to exercise the
// in-flight guard.
type blockingSessionClient struct {
	started chan struct{}
	release chan struct{}
}

func (c *blockingSessionClient) StartSession(ctx context.Context) (domain.SessionID, error) {
	c.started <- struct{}{}
	<-c.release
	return "abc123", nil
}

func (c *blockingSessionClient) EndSession(ctx context.Context, sessionID domain.SessionID, draft domain.FeedbackDraft) error {
	return nil
}

func TestStartRejectsConcurrentCalls(t *testing.T) {
	client := &blockingSessionClient{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	ctrl := chat.NewSessionController(client, chat.NewMessageLog())

	done := make(chan error, 1)
	go func() { done <- ctrl.Start(context.Background()) }()

	<-client.started
	require.ErrorIs(t, ctrl.Start(context.Background()), chat.ErrOperationInFlight)

	close(client.release)
	require.NoError(t, <-done)
	require.True(t, ctrl.Active())
	require.Equal(t, domain.SessionID("abc123"), ctrl.Session().ID)
}
