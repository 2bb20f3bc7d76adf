package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/eldtechnologies/inboxdesk/internal/inbox"
	"github.com/eldtechnologies/inboxdesk/internal/models"
	"github.com/eldtechnologies/inboxdesk/internal/seed"
)

func TestSQLiteDatasetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLiteStore(ctx, filepath.Join(t.TempDir(), "seed", "inbox.db"))
	require.NoError(t, err)
	defer s.Close()

	ds, err := s.LoadDataset(ctx, inbox.VariantLabeled)
	require.NoError(t, err)
	require.Nil(t, ds)

	want := seed.Labeled()
	require.NoError(t, s.SaveDataset(ctx, inbox.VariantLabeled, want))

	got, err := s.LoadDataset(ctx, inbox.VariantLabeled)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, want.Conversations, got.Conversations)
	require.Equal(t, want.Messages, got.Messages)
	require.Equal(t, want.Orders, got.Orders)

	other, err := s.LoadDataset(ctx, inbox.VariantClassic)
	require.NoError(t, err)
	require.Nil(t, other)

	// Saving again replaces rather than duplicates.
	require.NoError(t, s.SaveDataset(ctx, inbox.VariantLabeled, want))
	got, err = s.LoadDataset(ctx, inbox.VariantLabeled)
	require.NoError(t, err)
	require.Len(t, got.Messages, len(want.Messages))

	_, err = inbox.NewStore(*got)
	require.NoError(t, err)
}

func TestMemorySessionStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 4, 25, 9, 0, 0, 0, time.UTC)
	s := NewMemoryStore()
	s.now = func() time.Time { return now }

	missing, err := s.GetSession(ctx, "nope")
	require.NoError(t, err)
	require.Nil(t, missing)

	st := inbox.NewViewState(inbox.VariantLabeled)
	st.Staged = &models.Attachment{Name: "a.png", MediaType: "image/png", Ref: "blob:1"}
	require.NoError(t, s.PutSession(ctx, "s1", st, time.Minute))

	got, err := s.GetSession(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, st, *got)

	got.Staged.Name = "changed.png"
	again, err := s.GetSession(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, "a.png", again.Staged.Name)

	now = now.Add(time.Minute)
	expired, err := s.GetSession(ctx, "s1")
	require.NoError(t, err)
	require.Nil(t, expired)

	require.NoError(t, s.PutSession(ctx, "s2", st, 0))
	require.NoError(t, s.DeleteSession(ctx, "s2"))
	deleted, err := s.GetSession(ctx, "s2")
	require.NoError(t, err)
	require.Nil(t, deleted)
}

func TestRedisSessionStore(t *testing.T) {
	url := os.Getenv("INBOX_TEST_REDIS_URL")
	if url == "" {
		t.Skip("INBOX_TEST_REDIS_URL not set")
	}
	ctx := context.Background()
	s, err := NewRedisStore(ctx, url)
	require.NoError(t, err)
	defer s.Close()

	id := "test-" + time.Now().Format("150405.000000000")
	st := inbox.NewViewState(inbox.VariantClassic)
	st.Search = "order"
	require.NoError(t, s.PutSession(ctx, id, st, time.Minute))

	got, err := s.GetSession(ctx, id)
	require.NoError(t, err)
	require.Equal(t, st, *got)

	require.NoError(t, s.DeleteSession(ctx, id))
	got, err = s.GetSession(ctx, id)
	require.NoError(t, err)
	require.Nil(t, got)
}
