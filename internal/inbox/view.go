package inbox

import (
	"strings"

	"github.com/eldtechnologies/inboxdesk/internal/models"
)

// Placeholders rendered when there is nothing to show.
const (
	NoSelectionText = "Select a conversation to view messages"
	NoOrderText     = "No order details available."
	CallStartedText = "Initiating call..."
	titleSeparator  = " - "
)

// ConversationRow is a conversation list entry.
type ConversationRow struct {
	models.Conversation
	Resolution models.Resolution `json:"resolution"`
	Initials   string            `json:"initials"`
	Selected   bool              `json:"selected"`
}

// MessageRow is a message list entry.
type MessageRow struct {
	models.Message
	Initials string `json:"initials"`
	Preview  string `json:"preview"`
	Selected bool   `json:"selected"` // Belongs to the selected conversation
}

// ThreadEntry is a message inside the detail panel.
type ThreadEntry struct {
	models.Message
	Initials string `json:"initials"`
	Outgoing bool   `json:"outgoing"`
}

// ProfileCard describes the counterpart of a conversation.
type ProfileCard struct {
	Name         string       `json:"name"`
	Initials     string       `json:"initials"`
	Participants []string     `json:"participants"`
	Inbox        string       `json:"inbox,omitempty"`
	Label        models.Label `json:"label,omitempty"`
	Status       string       `json:"status"`
	MessageCount int          `json:"message_count"`
}

// Detail is the selected conversation's panel. Only the content of the
// active tab is filled in.
type Detail struct {
	ConversationID string              `json:"conversation_id"`
	Title          string              `json:"title"`
	Resolution     models.Resolution   `json:"resolution"`
	SubView        SubView             `json:"subview"`
	SubViews       []SubView           `json:"subviews"`
	Thread         []ThreadEntry       `json:"thread,omitempty"`
	Order          *models.OrderDetail `json:"order,omitempty"`
	Profile        *ProfileCard        `json:"profile,omitempty"`
	Placeholder    string              `json:"placeholder,omitempty"`
	Compose        string              `json:"compose"`
	Staged         *models.Attachment  `json:"staged,omitempty"`
	CanSend        bool                `json:"can_send"`
	CanCall        bool                `json:"can_call"`
}

// View is everything a rendering surface needs after a state change.
type View struct {
	Variant       Variant           `json:"variant"`
	Profile       Profile           `json:"profile,omitempty"`
	Profiles      []Profile         `json:"profiles,omitempty"`
	Label         models.Label      `json:"label,omitempty"`
	Labels        []models.Label    `json:"labels,omitempty"`
	Search        string            `json:"search"`
	Filter        TypeFilter        `json:"filter"`
	Sort          SortOrder         `json:"sort"`
	Conversations []ConversationRow `json:"conversations"`
	Messages      []MessageRow      `json:"messages"`
	Detail        *Detail           `json:"detail,omitempty"`
	Placeholder   string            `json:"placeholder,omitempty"`
}

func counterpart(c models.Conversation) string {
	for _, p := range c.Participants {
		if p != AdminActor {
			return p
		}
	}
	return AdminActor
}

func title(c models.Conversation) string {
	return strings.Join(c.Participants, titleSeparator)
}
