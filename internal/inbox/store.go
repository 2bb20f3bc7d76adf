package inbox

import (
	"fmt"
	"sync"
	"time"

	"github.com/eldtechnologies/inboxdesk/internal/ids"
	"github.com/eldtechnologies/inboxdesk/internal/models"
)

// Store owns the conversations, messages, order details and per-conversation
// resolution state of one dashboard. Seed records are never mutated; only
// the resolution map and the message list change.
type Store struct {
	mu sync.RWMutex

	conversations []models.Conversation
	index         map[string]int
	messages      []models.Message
	orders        map[string]models.OrderDetail
	resolution    map[string]models.Resolution

	ids *ids.MessageIDs
	now func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// WithMessageIDs replaces the message ID generator.
func WithMessageIDs(g *ids.MessageIDs) StoreOption {
	return func(s *Store) { s.ids = g }
}

// NewStore builds a store from seed data. Seed timestamps without a year are
// placed in the clock's current year.
func NewStore(ds models.Dataset, opts ...StoreOption) (*Store, error) {
	s := &Store{
		index:      make(map[string]int, len(ds.Conversations)),
		orders:     make(map[string]models.OrderDetail, len(ds.Orders)),
		resolution: make(map[string]models.Resolution, len(ds.Conversations)),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ids == nil {
		s.ids = ids.NewMessageIDs(nil)
	}

	for _, c := range ds.Conversations {
		if _, dup := s.index[c.ID]; dup {
			return nil, fmt.Errorf("duplicate conversation %q", c.ID)
		}
		s.index[c.ID] = len(s.conversations)
		s.conversations = append(s.conversations, c)
		if c.Resolved {
			s.resolution[c.ID] = models.Resolved
		} else {
			s.resolution[c.ID] = models.Unresolved
		}
	}

	ref := s.now()
	s.messages = make([]models.Message, 0, len(ds.Messages))
	for _, m := range ds.Messages {
		if _, ok := s.index[m.ConversationID]; !ok {
			return nil, fmt.Errorf("message %q: %w", m.ID, ErrDanglingMessage)
		}
		if m.SentAt.IsZero() {
			m.SentAt = ParseTimestamp(m.Timestamp, ref.Year(), ref.Location())
		}
		s.messages = append(s.messages, m)
	}

	for id, o := range ds.Orders {
		s.orders[id] = o
	}
	return s, nil
}

// Conversations returns all conversations in seed order.
func (s *Store) Conversations() []models.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Conversation(nil), s.conversations...)
}

// Conversation looks up a conversation by ID.
func (s *Store) Conversation(id string) (models.Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return models.Conversation{}, false
	}
	return s.conversations[i], true
}

// Messages returns every message in insertion order.
func (s *Store) Messages() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Message(nil), s.messages...)
}

// Thread returns the messages of one conversation in insertion order.
func (s *Store) Thread(conversationID string) []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Message, 0)
	for _, m := range s.messages {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	return out
}

// Order returns the order detail of a conversation, if any.
func (s *Store) Order(conversationID string) (models.OrderDetail, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[conversationID]
	return o, ok
}

// Resolution returns the current resolution of a conversation.
func (s *Store) Resolution(conversationID string) models.Resolution {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolution[conversationID]
}

// SetResolution records a new resolution for a conversation.
func (s *Store) SetResolution(conversationID string, r models.Resolution) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index[conversationID]; !ok {
		return ErrUnknownConversation
	}
	s.resolution[conversationID] = r
	return nil
}

// updateResolution applies fn to the current resolution atomically.
func (s *Store) updateResolution(conversationID string, fn func(models.Resolution) models.Resolution) (models.Resolution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index[conversationID]; !ok {
		return "", ErrUnknownConversation
	}
	next := fn(s.resolution[conversationID])
	s.resolution[conversationID] = next
	return next, nil
}

// Append adds a message from the admin to a conversation.
func (s *Store) Append(conversationID, content string, att *models.Attachment) (models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index[conversationID]; !ok {
		return models.Message{}, ErrUnknownConversation
	}

	now := s.now()
	msg := models.Message{
		ID:             s.ids.Next(now),
		ConversationID: conversationID,
		Sender:         AdminActor,
		Content:        content,
		Timestamp:      FormatTimestamp(now),
		SentAt:         now,
	}
	if att != nil {
		a := *att
		msg.Attachment = &a
	}
	s.messages = append(s.messages, msg)
	return msg, nil
}

// blobRef mints a transient reference for a staged file.
func (s *Store) blobRef() string {
	return "blob:" + s.ids.Next(s.now())
}

// Len returns the number of messages.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}
