package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eldtechnologies/inboxdesk/internal/inbox"
	"github.com/eldtechnologies/inboxdesk/internal/metrics"
	"github.com/eldtechnologies/inboxdesk/internal/models"
)

// PostgresStore reads seed datasets from PostgreSQL.
//
// Expected tables:
//
//	conversations (variant, id, position, type, participants text[], status, resolved, inbox, label)
//	messages      (variant, id, position, conversation_id, sender, content, timestamp)
//	order_details (variant, conversation_id, items text[], total, shipping, net_payable)
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL store with a connection pool.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// Close closes the database connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping checks the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// LoadDataset reads a variant's conversations, messages and order details.
func (s *PostgresStore) LoadDataset(ctx context.Context, variant inbox.Variant) (*models.Dataset, error) {
	start := time.Now()
	defer func() {
		metrics.PostgresLatency.Observe(time.Since(start).Seconds())
	}()

	rows, err := s.pool.Query(ctx, `
		SELECT id, type, participants, status, resolved, inbox, label
		FROM conversations WHERE variant = $1 ORDER BY position
	`, string(variant))
	if err != nil {
		return nil, err
	}
	convs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Conversation, error) {
		var c models.Conversation
		var label string
		err := row.Scan(&c.ID, &c.Type, &c.Participants, &c.Status, &c.Resolved, &c.Inbox, &label)
		c.Label = models.Label(label)
		return c, err
	})
	if err != nil {
		return nil, err
	}
	if len(convs) == 0 {
		return nil, nil
	}

	rows, err = s.pool.Query(ctx, `
		SELECT id, conversation_id, sender, content, timestamp
		FROM messages WHERE variant = $1 ORDER BY position
	`, string(variant))
	if err != nil {
		return nil, err
	}
	msgs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Message, error) {
		var m models.Message
		err := row.Scan(&m.ID, &m.ConversationID, &m.Sender, &m.Content, &m.Timestamp)
		return m, err
	})
	if err != nil {
		return nil, err
	}

	rows, err = s.pool.Query(ctx, `
		SELECT conversation_id, items, total, shipping, net_payable
		FROM order_details WHERE variant = $1
	`, string(variant))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make(map[string]models.OrderDetail)
	for rows.Next() {
		var id string
		var o models.OrderDetail
		if err := rows.Scan(&id, &o.Items, &o.Total, &o.Shipping, &o.NetPayable); err != nil {
			return nil, err
		}
		orders[id] = o
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &models.Dataset{
		Conversations: convs,
		Messages:      msgs,
		Orders:        orders,
	}, nil
}
