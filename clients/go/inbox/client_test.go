package inbox

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eldtechnologies/inboxdesk/internal/api"
	core "github.com/eldtechnologies/inboxdesk/internal/inbox"
	"github.com/eldtechnologies/inboxdesk/internal/seed"
	"github.com/eldtechnologies/inboxdesk/internal/session"
	"github.com/eldtechnologies/inboxdesk/internal/store"
)

func newClient(t *testing.T) *Client {
	t.Helper()
	var engines []*core.Engine
	for _, v := range core.Variants {
		s, err := core.NewStore(seed.For(v))
		require.NoError(t, err)
		engines = append(engines, core.NewEngine(v, s))
	}
	svc := session.NewService(engines, store.NewMemoryStore(), time.Hour, zerolog.Nop())
	srv := httptest.NewServer(api.NewRouter(zerolog.Nop(), api.Options{Sessions: svc}))
	t.Cleanup(srv.Close)

	t.Setenv("INBOX_CONFIG", t.TempDir())
	return NewClient(srv.URL)
}

func TestClientWithoutSession(t *testing.T) {
	c := newClient(t)
	_, err := c.View()
	require.ErrorIs(t, err, ErrNoSession)

	health, err := c.Health()
	require.NoError(t, err)
	assert.Equal(t, "healthy", health.Status)
}

func TestClientSessionIsSaved(t *testing.T) {
	c := newClient(t)
	_, err := c.Create("labeled")
	require.NoError(t, err)
	require.NotEmpty(t, c.SessionID)

	again := NewClient(c.BaseURL)
	assert.Equal(t, c.SessionID, again.SessionID)

	require.NoError(t, again.Close())
	assert.Empty(t, again.SessionID)

	var apiErr *Error
	_, err = c.View()
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)
}

func TestClientConversationFlow(t *testing.T) {
	c := newClient(t)
	view, err := c.Create("labeled")
	require.NoError(t, err)
	assert.Len(t, view.Conversations, 6)

	view, err = c.SelectLabel("Order Received")
	require.NoError(t, err)
	require.Len(t, view.Conversations, 2)

	_, err = c.Send("hello")
	require.Error(t, err)
	assert.True(t, IsNotice(err))

	view, err = c.Select("6")
	require.NoError(t, err)
	require.NotNil(t, view.Detail)
	assert.Equal(t, "Worker - Admin", view.Detail.Title)

	_, err = c.Attach("scan.tiff", "text/plain")
	require.Error(t, err)
	assert.True(t, IsNotice(err))

	view, err = c.Attach("scan.png", "image/png")
	require.NoError(t, err)
	require.NotNil(t, view.Detail.Staged)

	sent, err := c.Send("Label printed")
	require.NoError(t, err)
	assert.Equal(t, "Admin", sent.Message.Sender)
	require.NotNil(t, sent.Message.Attachment)
	assert.Nil(t, sent.View.Detail.Staged)

	view, err = c.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "Resolved", view.Detail.Resolution)

	view, err = c.SetSubView("profile")
	require.NoError(t, err)
	require.NotNil(t, view.Detail.Profile)
	assert.Equal(t, "Worker", view.Detail.Profile.Name)

	notice, err := c.Call()
	require.NoError(t, err)
	assert.Equal(t, "Initiating call...", notice)
}
