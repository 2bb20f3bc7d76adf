package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eldtechnologies/inboxdesk/internal/inbox"
	"github.com/eldtechnologies/inboxdesk/internal/models"
	"github.com/eldtechnologies/inboxdesk/internal/seed"
	"github.com/eldtechnologies/inboxdesk/internal/store"
)

func newService(t *testing.T) *Service {
	t.Helper()
	now := time.Date(2026, 4, 25, 9, 0, 0, 0, time.UTC)
	var engines []*inbox.Engine
	for _, v := range inbox.Variants {
		s, err := inbox.NewStore(seed.For(v), inbox.WithClock(func() time.Time { return now }))
		require.NoError(t, err)
		engines = append(engines, inbox.NewEngine(v, s))
	}
	return NewService(engines, store.NewMemoryStore(), time.Hour, zerolog.Nop())
}

func TestCreateAndView(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	id, view, err := svc.Create(ctx, inbox.VariantClassic)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.Equal(t, inbox.ProfileAdmin, view.Profile)
	assert.Len(t, view.Conversations, 6)
	assert.Equal(t, inbox.NoSelectionText, view.Placeholder)

	again, err := svc.View(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, view, again)

	_, _, err = svc.Create(ctx, inbox.Variant("nope"))
	require.ErrorIs(t, err, inbox.ErrUnknownVariant)

	_, err = svc.View(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	id, _, err := svc.Create(ctx, inbox.VariantLabeled)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, id))

	_, err = svc.View(ctx, id)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, svc.Delete(ctx, id), ErrNotFound)
}

func TestActionsPersist(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	id, _, err := svc.Create(ctx, inbox.VariantClassic)
	require.NoError(t, err)

	_, err = svc.SetProfile(ctx, id, inbox.ProfileWorker)
	require.NoError(t, err)
	_, err = svc.Search(ctx, id, "order")
	require.NoError(t, err)
	_, err = svc.ToggleSort(ctx, id)
	require.NoError(t, err)
	_, err = svc.ToggleFilter(ctx, id)
	require.NoError(t, err)

	view, err := svc.View(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, inbox.ProfileWorker, view.Profile)
	assert.Equal(t, "order", view.Search)
	assert.Equal(t, inbox.SortOldest, view.Sort)
	assert.Equal(t, inbox.FilterGeneral, view.Filter)
	for _, c := range view.Conversations {
		assert.True(t, c.HasParticipant("Worker"))
	}
}

func TestRefusedActionLeavesState(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	id, before, err := svc.Create(ctx, inbox.VariantClassic)
	require.NoError(t, err)

	_, err = svc.SelectLabel(ctx, id, models.LabelOrderBilled)
	require.ErrorIs(t, err, inbox.ErrUnsupported)

	_, err = svc.Select(ctx, id, "99")
	require.ErrorIs(t, err, inbox.ErrUnknownConversation)

	_, _, err = svc.Send(ctx, id, nil)
	require.ErrorIs(t, err, inbox.ErrNoSelection)

	after, err := svc.View(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestSendFlow(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	id, _, err := svc.Create(ctx, inbox.VariantLabeled)
	require.NoError(t, err)

	_, err = svc.Select(ctx, id, "3")
	require.NoError(t, err)

	blank := "   "
	_, _, err = svc.Send(ctx, id, &blank)
	require.ErrorIs(t, err, inbox.ErrNothingToSend)

	_, err = svc.Attach(ctx, id, inbox.File{Name: "notes.pdf", MediaType: "application/pdf"})
	require.ErrorIs(t, err, inbox.ErrNotImage)

	view, err := svc.Attach(ctx, id, inbox.File{Name: "rx.jpg", MediaType: "image/jpeg"})
	require.NoError(t, err)
	require.NotNil(t, view.Detail.Staged)
	assert.True(t, view.Detail.CanSend)

	text := "Here is the prescription"
	view, msg, err := svc.Send(ctx, id, &text)
	require.NoError(t, err)
	assert.Equal(t, "3", msg.ConversationID)
	assert.Equal(t, inbox.AdminActor, msg.Sender)
	require.NotNil(t, msg.Attachment)
	assert.Equal(t, "rx.jpg", msg.Attachment.Name)
	assert.Empty(t, view.Detail.Compose)
	assert.Nil(t, view.Detail.Staged)

	thread := view.Detail.Thread
	require.NotEmpty(t, thread)
	assert.Equal(t, msg.ID, thread[len(thread)-1].ID)
	assert.True(t, thread[len(thread)-1].Outgoing)
}

func TestResolveAndCall(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	id, _, err := svc.Create(ctx, inbox.VariantLabeled)
	require.NoError(t, err)

	_, _, err = svc.Call(ctx, id)
	require.ErrorIs(t, err, inbox.ErrNoSelection)

	_, err = svc.Select(ctx, id, "1")
	require.NoError(t, err)

	view, err := svc.Resolve(ctx, id, "")
	require.NoError(t, err)
	assert.Equal(t, models.Resolved, view.Detail.Resolution)

	view, err = svc.Resolve(ctx, id, models.Closed)
	require.NoError(t, err)
	assert.Equal(t, models.Closed, view.Detail.Resolution)

	_, notice, err := svc.Call(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, inbox.CallStartedText, notice)

	view, err = svc.SetSubView(ctx, id, inbox.SubViewOrder)
	require.NoError(t, err)
	assert.Equal(t, inbox.NoOrderText, view.Detail.Placeholder)
}

func TestSessionsShareStore(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	a, _, err := svc.Create(ctx, inbox.VariantClassic)
	require.NoError(t, err)
	b, _, err := svc.Create(ctx, inbox.VariantClassic)
	require.NoError(t, err)

	_, err = svc.Select(ctx, a, "2")
	require.NoError(t, err)
	text := "On its way"
	_, _, err = svc.Send(ctx, a, &text)
	require.NoError(t, err)

	view, err := svc.Select(ctx, b, "2")
	require.NoError(t, err)
	last := view.Detail.Thread[len(view.Detail.Thread)-1]
	assert.Equal(t, "On its way", last.Content)
	assert.Empty(t, view.Detail.Compose)
}

func TestConcurrentSends(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	id, _, err := svc.Create(ctx, inbox.VariantClassic)
	require.NoError(t, err)
	_, err = svc.Select(ctx, id, "1")
	require.NoError(t, err)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			text := "ping"
			_, _, err := svc.Send(ctx, id, &text)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	view, err := svc.View(ctx, id)
	require.NoError(t, err)
	assert.Len(t, view.Detail.Thread, n+1)

	seen := make(map[string]bool)
	for _, m := range view.Detail.Thread {
		assert.False(t, seen[m.ID], "duplicate id %s", m.ID)
		seen[m.ID] = true
	}
}

// flakyStore fails PutSession while failing is set.
type flakyStore struct {
	store.SessionStore
	mu      sync.Mutex
	failing bool
}

func (f *flakyStore) setFailing(v bool) {
	f.mu.Lock()
	f.failing = v
	f.mu.Unlock()
}

func (f *flakyStore) PutSession(ctx context.Context, id string, st inbox.ViewState, ttl time.Duration) error {
	f.mu.Lock()
	failing := f.failing
	f.mu.Unlock()
	if failing {
		return errors.New("connection refused")
	}
	return f.SessionStore.PutSession(ctx, id, st, ttl)
}

func TestFailedSessionWriteLeavesSharedStoreAlone(t *testing.T) {
	ctx := context.Background()
	data, err := inbox.NewStore(seed.For(inbox.VariantLabeled))
	require.NoError(t, err)
	e := inbox.NewEngine(inbox.VariantLabeled, data)
	sessions := &flakyStore{SessionStore: store.NewMemoryStore()}
	svc := NewService([]*inbox.Engine{e}, sessions, time.Hour, zerolog.Nop())

	id, _, err := svc.Create(ctx, inbox.VariantLabeled)
	require.NoError(t, err)
	_, err = svc.Select(ctx, id, "3")
	require.NoError(t, err)
	_, err = svc.Compose(ctx, id, "On its way")
	require.NoError(t, err)
	before := e.Store().Len()

	sessions.setFailing(true)
	_, _, err = svc.Send(ctx, id, nil)
	require.Error(t, err)
	_, err = svc.Resolve(ctx, id, "")
	require.Error(t, err)
	assert.Equal(t, before, e.Store().Len())
	assert.Equal(t, models.Unresolved, e.Store().Resolution("3"))

	sessions.setFailing(false)
	view, err := svc.View(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "On its way", view.Detail.Compose)

	view, msg, err := svc.Send(ctx, id, nil)
	require.NoError(t, err)
	assert.Equal(t, before+1, e.Store().Len())
	assert.Equal(t, "On its way", msg.Content)
	assert.Empty(t, view.Detail.Compose)
	last := view.Detail.Thread[len(view.Detail.Thread)-1]
	assert.Equal(t, msg.ID, last.ID)
}
