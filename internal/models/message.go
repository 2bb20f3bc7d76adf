package models

import "time"

// Attachment describes a file staged for, or sent with, a message.
type Attachment struct {
	Name      string `json:"name"`
	MediaType string `json:"media_type"`
	Ref       string `json:"ref"` // Transient blob reference
}

// Message represents a single entry in a conversation thread.
type Message struct {
	ID             string      `json:"id"` // ULID for appended messages
	ConversationID string      `json:"conversation_id"`
	Sender         string      `json:"sender"`
	Content        string      `json:"content"`
	Timestamp      string      `json:"timestamp"` // Display text
	SentAt         time.Time   `json:"sent_at"`   // Zero when Timestamp could not be parsed
	Attachment     *Attachment `json:"attachment,omitempty"`
}
