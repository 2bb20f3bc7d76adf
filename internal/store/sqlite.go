package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/eldtechnologies/inboxdesk/internal/inbox"
	"github.com/eldtechnologies/inboxdesk/internal/models"
)

// SQLiteStore reads seed datasets from a SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and creates, if needed) a SQLite seed database.
// If dbPath is empty, defaults to "./data/inbox.db"
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		dbPath = "./data/inbox.db"
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	store := &SQLiteStore{db: db}

	if err := store.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// initSchema creates tables if they don't exist.
// Participants and items are JSON arrays.
func (s *SQLiteStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS conversations (
		variant TEXT NOT NULL,
		id TEXT NOT NULL,
		position INTEGER NOT NULL,
		type TEXT NOT NULL,
		participants TEXT NOT NULL DEFAULT '[]',
		status TEXT NOT NULL DEFAULT 'Open',
		resolved INTEGER NOT NULL DEFAULT 0,
		inbox TEXT NOT NULL DEFAULT '',
		label TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (variant, id)
	);

	CREATE TABLE IF NOT EXISTS messages (
		variant TEXT NOT NULL,
		id TEXT NOT NULL,
		position INTEGER NOT NULL,
		conversation_id TEXT NOT NULL,
		sender TEXT NOT NULL,
		content TEXT NOT NULL DEFAULT '',
		timestamp TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (variant, id)
	);

	CREATE TABLE IF NOT EXISTS order_details (
		variant TEXT NOT NULL,
		conversation_id TEXT NOT NULL,
		items TEXT NOT NULL DEFAULT '[]',
		total TEXT NOT NULL DEFAULT '',
		shipping TEXT NOT NULL DEFAULT '',
		net_payable TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (variant, conversation_id)
	);

	CREATE INDEX IF NOT EXISTS idx_messages_variant_position ON messages(variant, position);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() {
	s.db.Close()
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// LoadDataset reads a variant's conversations, messages and order details.
func (s *SQLiteStore) LoadDataset(ctx context.Context, variant inbox.Variant) (*models.Dataset, error) {
	ds := &models.Dataset{Orders: make(map[string]models.OrderDetail)}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, participants, status, resolved, inbox, label
		FROM conversations WHERE variant = ? ORDER BY position
	`, string(variant))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var c models.Conversation
		var participants, label string
		if err := rows.Scan(&c.ID, &c.Type, &participants, &c.Status, &c.Resolved, &c.Inbox, &label); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(participants), &c.Participants); err != nil {
			return nil, fmt.Errorf("conversation %s participants: %w", c.ID, err)
		}
		c.Label = models.Label(label)
		ds.Conversations = append(ds.Conversations, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ds.Conversations) == 0 {
		return nil, nil
	}

	msgRows, err := s.db.QueryContext(ctx, `
		SELECT id, conversation_id, sender, content, timestamp
		FROM messages WHERE variant = ? ORDER BY position
	`, string(variant))
	if err != nil {
		return nil, err
	}
	defer msgRows.Close()

	for msgRows.Next() {
		var m models.Message
		if err := msgRows.Scan(&m.ID, &m.ConversationID, &m.Sender, &m.Content, &m.Timestamp); err != nil {
			return nil, err
		}
		ds.Messages = append(ds.Messages, m)
	}
	if err := msgRows.Err(); err != nil {
		return nil, err
	}

	orderRows, err := s.db.QueryContext(ctx, `
		SELECT conversation_id, items, total, shipping, net_payable
		FROM order_details WHERE variant = ?
	`, string(variant))
	if err != nil {
		return nil, err
	}
	defer orderRows.Close()

	for orderRows.Next() {
		var id, items string
		var o models.OrderDetail
		if err := orderRows.Scan(&id, &items, &o.Total, &o.Shipping, &o.NetPayable); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(items), &o.Items); err != nil {
			return nil, fmt.Errorf("order %s items: %w", id, err)
		}
		ds.Orders[id] = o
	}
	return ds, orderRows.Err()
}

// SaveDataset writes a variant's seed rows, replacing any existing ones.
func (s *SQLiteStore) SaveDataset(ctx context.Context, variant inbox.Variant, ds models.Dataset) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"conversations", "messages", "order_details"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE variant = ?", string(variant)); err != nil {
			return err
		}
	}

	for i, c := range ds.Conversations {
		participants, err := json.Marshal(c.Participants)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO conversations (variant, id, position, type, participants, status, resolved, inbox, label)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, string(variant), c.ID, i, c.Type, string(participants), c.Status, c.Resolved, c.Inbox, string(c.Label)); err != nil {
			return err
		}
	}

	for i, m := range ds.Messages {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO messages (variant, id, position, conversation_id, sender, content, timestamp)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, string(variant), m.ID, i, m.ConversationID, m.Sender, m.Content, m.Timestamp); err != nil {
			return err
		}
	}

	for id, o := range ds.Orders {
		items, err := json.Marshal(o.Items)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_details (variant, conversation_id, items, total, shipping, net_payable)
			VALUES (?, ?, ?, ?, ?, ?)
		`, string(variant), id, string(items), o.Total, o.Shipping, o.NetPayable); err != nil {
			return err
		}
	}

	return tx.Commit()
}
