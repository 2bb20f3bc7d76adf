package store

import (
	"context"
	"time"

	"github.com/eldtechnologies/inboxdesk/internal/inbox"
	"github.com/eldtechnologies/inboxdesk/internal/models"
)

// DatasetSource loads the seed dataset of a dashboard variant.
// Both PostgresStore and SQLiteStore implement this interface.
type DatasetSource interface {
	// Connection management
	Close()
	Ping(ctx context.Context) error

	// LoadDataset returns nil when the source holds no rows for the variant.
	LoadDataset(ctx context.Context, variant inbox.Variant) (*models.Dataset, error)
}

// SessionStore keeps each session's view state between requests.
// Both MemoryStore and RedisStore implement this interface.
type SessionStore interface {
	Close() error
	Ping(ctx context.Context) error

	// GetSession returns nil when the session does not exist or has expired.
	GetSession(ctx context.Context, id string) (*inbox.ViewState, error)
	PutSession(ctx context.Context, id string, st inbox.ViewState, ttl time.Duration) error
	DeleteSession(ctx context.Context, id string) error
}
