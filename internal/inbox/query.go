package inbox

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/eldtechnologies/inboxdesk/internal/models"
)

const previewLength = 50

// FilterByProfile returns the conversations visible to a classic-dashboard profile.
// Admin sees everything. Any other recognized profile sees conversations that
// include the admin and at least one member of its allow-list. Unknown profiles
// see nothing.
func FilterByProfile(convs []models.Conversation, p Profile) []models.Conversation {
	if p == ProfileAdmin {
		return append([]models.Conversation(nil), convs...)
	}
	members, ok := profileMembers[p]
	if !ok {
		return []models.Conversation{}
	}

	out := make([]models.Conversation, 0, len(convs))
	for _, c := range convs {
		if !c.HasParticipant(AdminActor) {
			continue
		}
		for _, m := range members {
			if c.HasParticipant(m) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// FilterByLabel returns conversations carrying label, or all of them when
// label is empty.
func FilterByLabel(convs []models.Conversation, label models.Label) []models.Conversation {
	if label == models.LabelNone {
		return append([]models.Conversation(nil), convs...)
	}
	out := make([]models.Conversation, 0, len(convs))
	for _, c := range convs {
		if c.Label == label {
			out = append(out, c)
		}
	}
	return out
}

// Query holds the message list inputs.
type Query struct {
	Search string
	Filter TypeFilter
	Sort   SortOrder
}

// QueryMessages runs the message list pipeline: visibility, search, type
// filter, then a stable sort by send time.
func QueryMessages(msgs []models.Message, visible []models.Conversation, q Query) []models.Message {
	types := make(map[string]string, len(visible))
	for _, c := range visible {
		types[c.ID] = strings.ToLower(c.Type)
	}
	search := strings.ToLower(q.Search)
	token := string(q.Filter)

	out := make([]models.Message, 0, len(msgs))
	for _, m := range msgs {
		typ, ok := types[m.ConversationID]
		if !ok {
			continue
		}
		if !strings.Contains(strings.ToLower(m.Content), search) {
			continue
		}
		if token != "" && q.Filter != FilterAll && !strings.Contains(typ, token) {
			continue
		}
		out = append(out, m)
	}

	if q.Sort == SortOldest {
		sort.SliceStable(out, func(i, j int) bool { return out[i].SentAt.Before(out[j].SentAt) })
	} else {
		sort.SliceStable(out, func(i, j int) bool { return out[i].SentAt.After(out[j].SentAt) })
	}
	return out
}

// Initials returns up to two upper-case initials of a name.
func Initials(name string) string {
	var b strings.Builder
	n := 0
	for _, word := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
		n++
		if n == 2 {
			break
		}
	}
	return b.String()
}

// Preview shortens message content for list rows.
func Preview(content string) string {
	if utf8.RuneCountInString(content) <= previewLength {
		return content
	}
	runes := []rune(content)
	return string(runes[:previewLength]) + "..."
}
