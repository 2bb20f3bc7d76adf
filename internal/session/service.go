// Package session gives every dashboard viewer its own view state over the
// shared inbox engines. Actions on one session run one at a time.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/eldtechnologies/inboxdesk/internal/ids"
	"github.com/eldtechnologies/inboxdesk/internal/inbox"
	"github.com/eldtechnologies/inboxdesk/internal/metrics"
	"github.com/eldtechnologies/inboxdesk/internal/models"
	"github.com/eldtechnologies/inboxdesk/internal/store"
)

// DefaultTTL is how long an idle session is kept.
const DefaultTTL = 24 * time.Hour

// ErrNotFound is returned for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

// Service applies viewer actions to sessions.
type Service struct {
	engines  map[inbox.Variant]*inbox.Engine
	sessions store.SessionStore
	ttl      time.Duration
	logger   zerolog.Logger
	locks    keyedMutex
}

// NewService creates a session service over one engine per variant.
func NewService(engines []*inbox.Engine, sessions store.SessionStore, ttl time.Duration, logger zerolog.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Service{
		engines:  make(map[inbox.Variant]*inbox.Engine, len(engines)),
		sessions: sessions,
		ttl:      ttl,
		logger:   logger,
	}
	for _, e := range engines {
		s.engines[e.Variant()] = e
	}
	return s
}

// Ping checks the session store.
func (s *Service) Ping(ctx context.Context) error {
	return s.sessions.Ping(ctx)
}

// Create starts a session on the given variant and returns its ID and first view.
func (s *Service) Create(ctx context.Context, variant inbox.Variant) (string, inbox.View, error) {
	e, ok := s.engines[variant]
	if !ok {
		return "", inbox.View{}, inbox.ErrUnknownVariant
	}

	id := ids.NewSessionID()
	st := e.NewState()
	if err := s.sessions.PutSession(ctx, id, st, s.ttl); err != nil {
		return "", inbox.View{}, fmt.Errorf("store session: %w", err)
	}

	metrics.SessionsCreated.WithLabelValues(string(variant)).Inc()
	s.logger.Info().
		Str("session", id).
		Str("variant", string(variant)).
		Msg("session created")

	return id, e.Derive(st), nil
}

// View returns the current view of a session without changing it.
func (s *Service) View(ctx context.Context, id string) (inbox.View, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	e, st, err := s.load(ctx, id)
	if err != nil {
		return inbox.View{}, err
	}
	return e.Derive(*st), nil
}

// Delete ends a session.
func (s *Service) Delete(ctx context.Context, id string) error {
	unlock := s.locks.lock(id)
	defer unlock()

	if _, _, err := s.load(ctx, id); err != nil {
		return err
	}
	return s.sessions.DeleteSession(ctx, id)
}

func (s *Service) load(ctx context.Context, id string) (*inbox.Engine, *inbox.ViewState, error) {
	st, err := s.sessions.GetSession(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("load session: %w", err)
	}
	if st == nil {
		return nil, nil, ErrNotFound
	}
	e, ok := s.engines[st.Variant]
	if !ok {
		return nil, nil, inbox.ErrUnknownVariant
	}
	return e, st, nil
}

// apply runs fn against a copy of the session's state and stores the result.
// When fn fails the stored state is left as it was.
func (s *Service) apply(ctx context.Context, id, action string, fn func(*inbox.Engine, *inbox.ViewState) error) (inbox.View, error) {
	return s.applyThen(ctx, id, action, fn, nil)
}

// applyThen is apply followed by commit, which changes data shared by all
// sessions. commit runs only once the session is stored.
func (s *Service) applyThen(ctx context.Context, id, action string, fn func(*inbox.Engine, *inbox.ViewState) error, commit func(*inbox.Engine, inbox.ViewState) error) (inbox.View, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	e, st, err := s.load(ctx, id)
	if err != nil {
		return inbox.View{}, err
	}

	if fn != nil {
		if err := fn(e, st); err != nil {
			return inbox.View{}, s.refused(id, action, err)
		}
	}

	if err := s.sessions.PutSession(ctx, id, *st, s.ttl); err != nil {
		metrics.Actions.WithLabelValues(action, "error").Inc()
		return inbox.View{}, fmt.Errorf("store session: %w", err)
	}

	if commit != nil {
		if err := commit(e, *st); err != nil {
			return inbox.View{}, s.refused(id, action, err)
		}
	}
	metrics.Actions.WithLabelValues(action, "ok").Inc()
	return e.Derive(*st), nil
}

func (s *Service) refused(id, action string, err error) error {
	outcome := "error"
	if inbox.IsNotice(err) {
		outcome = "notice"
	}
	metrics.Actions.WithLabelValues(action, outcome).Inc()
	s.logger.Debug().
		Str("session", id).
		Str("action", action).
		Err(err).
		Msg("action refused")
	return err
}

// SetProfile switches the classic dashboard's profile.
func (s *Service) SetProfile(ctx context.Context, id string, p inbox.Profile) (inbox.View, error) {
	return s.apply(ctx, id, "profile", func(_ *inbox.Engine, st *inbox.ViewState) error {
		return st.SetProfile(p)
	})
}

// SelectLabel toggles the labeled dashboard's label filter.
func (s *Service) SelectLabel(ctx context.Context, id string, l models.Label) (inbox.View, error) {
	return s.apply(ctx, id, "label", func(_ *inbox.Engine, st *inbox.ViewState) error {
		return st.SelectLabel(l)
	})
}

// Search replaces the message search text.
func (s *Service) Search(ctx context.Context, id, q string) (inbox.View, error) {
	return s.apply(ctx, id, "search", func(_ *inbox.Engine, st *inbox.ViewState) error {
		st.SetSearch(q)
		return nil
	})
}

// ToggleFilter cycles the message type filter.
func (s *Service) ToggleFilter(ctx context.Context, id string) (inbox.View, error) {
	return s.apply(ctx, id, "filter", func(_ *inbox.Engine, st *inbox.ViewState) error {
		st.ToggleFilter()
		return nil
	})
}

// ToggleSort flips the message sort order.
func (s *Service) ToggleSort(ctx context.Context, id string) (inbox.View, error) {
	return s.apply(ctx, id, "sort", func(_ *inbox.Engine, st *inbox.ViewState) error {
		st.ToggleSort()
		return nil
	})
}

// Select selects a conversation.
func (s *Service) Select(ctx context.Context, id, conversationID string) (inbox.View, error) {
	return s.apply(ctx, id, "select", func(e *inbox.Engine, st *inbox.ViewState) error {
		return e.Select(st, conversationID)
	})
}

// SetSubView switches the detail tab.
func (s *Service) SetSubView(ctx context.Context, id string, sv inbox.SubView) (inbox.View, error) {
	return s.apply(ctx, id, "subview", func(_ *inbox.Engine, st *inbox.ViewState) error {
		return st.SetSubView(sv)
	})
}

// Resolve toggles the selected conversation's resolution, or sets it when
// state is not empty.
func (s *Service) Resolve(ctx context.Context, id string, state models.Resolution) (inbox.View, error) {
	check := func(_ *inbox.Engine, st *inbox.ViewState) error {
		if !st.HasSelection() {
			return inbox.ErrNoSelection
		}
		return nil
	}
	return s.applyThen(ctx, id, "resolution", check, func(e *inbox.Engine, st inbox.ViewState) error {
		if state == "" {
			_, err := e.ToggleResolution(&st)
			return err
		}
		return e.SetResolution(&st, state)
	})
}

// Compose replaces the reply text.
func (s *Service) Compose(ctx context.Context, id, text string) (inbox.View, error) {
	return s.apply(ctx, id, "compose", func(_ *inbox.Engine, st *inbox.ViewState) error {
		st.SetCompose(text)
		return nil
	})
}

// Attach stages an image for the next reply.
func (s *Service) Attach(ctx context.Context, id string, f inbox.File) (inbox.View, error) {
	return s.apply(ctx, id, "attach", func(e *inbox.Engine, st *inbox.ViewState) error {
		err := e.StageAttachment(st, f)
		if errors.Is(err, inbox.ErrNotImage) {
			metrics.AttachmentsRejected.Inc()
			s.logger.Info().
				Str("session", id).
				Str("file", f.Name).
				Str("media_type", f.MediaType).
				Msg("attachment rejected")
		}
		return err
	})
}

// Detach drops the staged attachment.
func (s *Service) Detach(ctx context.Context, id string) (inbox.View, error) {
	return s.apply(ctx, id, "detach", func(_ *inbox.Engine, st *inbox.ViewState) error {
		st.ClearAttachment()
		return nil
	})
}

// Send sends the composed reply. A non-nil text replaces the compose field
// first.
func (s *Service) Send(ctx context.Context, id string, text *string) (inbox.View, models.Message, error) {
	var (
		draft inbox.Draft
		sent  models.Message
	)
	take := func(e *inbox.Engine, st *inbox.ViewState) error {
		if text != nil {
			st.SetCompose(*text)
		}
		d, err := e.TakeDraft(st)
		draft = d
		return err
	}
	view, err := s.applyThen(ctx, id, "send", take, func(e *inbox.Engine, _ inbox.ViewState) error {
		msg, err := e.Deliver(draft)
		if err != nil {
			s.logger.Error().
				Str("session", id).
				Str("conversation", draft.ConversationID).
				Err(err).
				Msg("reply dropped")
			return err
		}
		sent = msg
		metrics.MessagesSent.WithLabelValues(string(e.Variant())).Inc()
		s.logger.Info().
			Str("session", id).
			Str("conversation", msg.ConversationID).
			Str("message", msg.ID).
			Bool("attachment", msg.Attachment != nil).
			Msg("reply sent")
		return nil
	})
	return view, sent, err
}

// Call returns the notice for starting a call with the selected conversation.
func (s *Service) Call(ctx context.Context, id string) (inbox.View, string, error) {
	var notice string
	view, err := s.apply(ctx, id, "call", func(e *inbox.Engine, st *inbox.ViewState) error {
		n, err := e.Call(st)
		notice = n
		return err
	})
	return view, notice, err
}
