// Package ids generates identifiers for sessions and messages.
package ids

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// NewSessionID generates a time-ordered UUID v7.
func NewSessionID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// ValidSessionID reports whether s parses as a UUID.
func ValidSessionID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// MessageIDs hands out ULIDs that sort strictly after every ID it issued before,
// including IDs minted within the same millisecond.
type MessageIDs struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	last    ulid.ULID
}

// NewMessageIDs creates a generator reading randomness from r.
// A nil reader uses crypto/rand.
func NewMessageIDs(r io.Reader) *MessageIDs {
	if r == nil {
		r = rand.Reader
	}
	return &MessageIDs{entropy: ulid.Monotonic(r, 0)}
}

// Next returns a new ID stamped with t.
func (g *MessageIDs) Next(t time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := ulid.Timestamp(t)
	if ms < g.last.Time() {
		// Clock went backwards; stay on the last issued millisecond.
		ms = g.last.Time()
	}

	for {
		id, err := ulid.New(ms, g.entropy)
		if err == nil && id.Compare(g.last) > 0 {
			g.last = id
			return id.String()
		}
		// Entropy overflow within this millisecond: move to the next one.
		ms++
	}
}
