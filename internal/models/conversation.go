package models

// Label is a fixed-vocabulary classification tag on a conversation.
type Label string

const (
	LabelNone           Label = ""
	LabelOrderReceived  Label = "Order Received"
	LabelOrderBilled    Label = "Order Billed"
	LabelOrderDelivered Label = "Order Delivered"
)

// Labels lists the selectable labels in display order.
var Labels = []Label{LabelOrderReceived, LabelOrderBilled, LabelOrderDelivered}

// Resolution is the support state of a conversation.
type Resolution string

const (
	Unresolved Resolution = "Unresolved"
	Resolved   Resolution = "Resolved"
	Closed     Resolution = "Closed"
)

// Conversation represents a thread between the admin and other participants.
type Conversation struct {
	ID           string   `json:"id"`
	Type         string   `json:"type"` // "General", "Order #627852", ...
	Participants []string `json:"participants"`
	Status       string   `json:"status"`
	Resolved     bool     `json:"resolved"` // Seed default only
	Inbox        string   `json:"inbox,omitempty"`
	Label        Label    `json:"label,omitempty"`
}

// HasParticipant reports whether name takes part in the conversation.
func (c Conversation) HasParticipant(name string) bool {
	for _, p := range c.Participants {
		if p == name {
			return true
		}
	}
	return false
}

// OrderDetail holds pre-formatted order figures for a conversation.
type OrderDetail struct {
	Items      []string `json:"items"`
	Total      string   `json:"total"`
	Shipping   string   `json:"shipping"`
	NetPayable string   `json:"net_payable"`
}

// Dataset is the seed content of one dashboard variant.
type Dataset struct {
	Conversations []Conversation
	Messages      []Message
	Orders        map[string]OrderDetail // Keyed by conversation ID
}
