// Package inbox derives the support dashboard's visible conversations,
// message list and conversation detail from a viewer's state, and applies the
// viewer's actions to a shared store.
package inbox

import (
	"mime"
	"strings"

	"github.com/eldtechnologies/inboxdesk/internal/models"
)

// File is a file picked for attachment.
type File struct {
	Name      string
	MediaType string
}

// Engine serves one dashboard variant over one store.
type Engine struct {
	variant Variant
	store   *Store
}

// NewEngine creates an engine for variant over store.
func NewEngine(variant Variant, store *Store) *Engine {
	return &Engine{variant: variant, store: store}
}

// Variant returns the variant this engine serves.
func (e *Engine) Variant() Variant {
	return e.variant
}

// Store returns the underlying store.
func (e *Engine) Store() *Store {
	return e.store
}

// NewState returns the initial view state for this engine.
func (e *Engine) NewState() ViewState {
	return NewViewState(e.variant)
}

// Visible returns the conversations the state's selector lets through.
func (e *Engine) Visible(st ViewState) []models.Conversation {
	all := e.store.Conversations()
	if e.variant == VariantLabeled {
		return FilterByLabel(all, st.Label)
	}
	return FilterByProfile(all, st.Profile)
}

// Select makes id the selected conversation. Only conversations the current
// profile or label lets through can be selected.
func (e *Engine) Select(st *ViewState, id string) error {
	for _, c := range e.Visible(*st) {
		if c.ID == id {
			st.selectConversation(id)
			return nil
		}
	}
	return ErrUnknownConversation
}

// ToggleResolution advances the selected conversation's resolution.
func (e *Engine) ToggleResolution(st *ViewState) (models.Resolution, error) {
	if !st.HasSelection() {
		return "", ErrNoSelection
	}
	return e.store.updateResolution(st.Selected, e.variant.nextResolution)
}

// SetResolution sets the selected conversation's resolution explicitly.
// Closed exists only in the labeled variant.
func (e *Engine) SetResolution(st *ViewState, r models.Resolution) error {
	if !st.HasSelection() {
		return ErrNoSelection
	}
	switch r {
	case models.Unresolved, models.Resolved:
	case models.Closed:
		if e.variant != VariantLabeled {
			return ErrInvalidResolution
		}
	default:
		return ErrInvalidResolution
	}
	return e.store.SetResolution(st.Selected, r)
}

// StageAttachment stages f for the next message, replacing any staged file.
// Non-image files are rejected and leave the state untouched.
func (e *Engine) StageAttachment(st *ViewState, f File) error {
	if e.variant != VariantLabeled {
		return ErrUnsupported
	}
	if !isImage(f.MediaType) {
		return ErrNotImage
	}
	st.Staged = &models.Attachment{
		Name:      f.Name,
		MediaType: f.MediaType,
		Ref:       e.store.blobRef(),
	}
	return nil
}

func isImage(mediaType string) bool {
	mt, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mt, "image/")
}

// Draft is a reply taken out of a view state and not yet delivered.
type Draft struct {
	ConversationID string
	Content        string
	Attachment     *models.Attachment
}

// TakeDraft removes the composed reply and staged attachment from st and
// returns them. st is untouched when there is nothing to send.
func (e *Engine) TakeDraft(st *ViewState) (Draft, error) {
	if !st.HasSelection() {
		return Draft{}, ErrNoSelection
	}
	text := strings.TrimSpace(st.Compose)
	if text == "" && st.Staged == nil {
		return Draft{}, ErrNothingToSend
	}
	d := Draft{ConversationID: st.Selected, Content: text, Attachment: st.Staged}
	st.Compose = ""
	st.Staged = nil
	return d, nil
}

// Deliver appends d to its conversation.
func (e *Engine) Deliver(d Draft) (models.Message, error) {
	return e.store.Append(d.ConversationID, d.Content, d.Attachment)
}

// Send appends the composed reply to the selected conversation and clears
// the compose text and staged attachment.
func (e *Engine) Send(st *ViewState) (models.Message, error) {
	next := *st
	d, err := e.TakeDraft(&next)
	if err != nil {
		return models.Message{}, err
	}
	msg, err := e.Deliver(d)
	if err != nil {
		return models.Message{}, err
	}
	*st = next
	return msg, nil
}

// Call starts a call with the selected conversation. There is no signaling;
// the caller only gets the notice to show.
func (e *Engine) Call(st *ViewState) (string, error) {
	if e.variant != VariantLabeled {
		return "", ErrUnsupported
	}
	if !st.HasSelection() {
		return "", ErrNoSelection
	}
	return CallStartedText, nil
}

// Derive computes the view for st. It reads the store and never mutates it.
func (e *Engine) Derive(st ViewState) View {
	visible := e.Visible(st)

	v := View{
		Variant: e.variant,
		Search:  st.Search,
		Filter:  st.Filter,
		Sort:    st.Sort,
	}
	if e.variant == VariantLabeled {
		v.Label = st.Label
		v.Labels = models.Labels
	} else {
		v.Profile = st.Profile
		v.Profiles = Profiles
	}

	v.Conversations = make([]ConversationRow, 0, len(visible))
	for _, c := range visible {
		v.Conversations = append(v.Conversations, ConversationRow{
			Conversation: c,
			Resolution:   e.store.Resolution(c.ID),
			Initials:     Initials(strings.Join(c.Participants, " ")),
			Selected:     c.ID == st.Selected,
		})
	}

	msgs := QueryMessages(e.store.Messages(), visible, Query{
		Search: st.Search,
		Filter: st.Filter,
		Sort:   st.Sort,
	})
	v.Messages = make([]MessageRow, 0, len(msgs))
	for _, m := range msgs {
		v.Messages = append(v.Messages, MessageRow{
			Message:  m,
			Initials: Initials(m.Sender),
			Preview:  Preview(m.Content),
			Selected: m.ConversationID == st.Selected,
		})
	}

	v.Detail = e.detail(st)
	if v.Detail == nil {
		v.Placeholder = NoSelectionText
	}
	return v
}

func (e *Engine) detail(st ViewState) *Detail {
	if !st.HasSelection() {
		return nil
	}
	c, ok := e.store.Conversation(st.Selected)
	if !ok {
		return nil
	}

	d := &Detail{
		ConversationID: c.ID,
		Title:          title(c),
		Resolution:     e.store.Resolution(c.ID),
		SubView:        st.SubView,
		SubViews:       e.variant.SubViews(),
		Compose:        st.Compose,
		Staged:         st.Staged,
		CanCall:        e.variant == VariantLabeled,
	}

	switch st.SubView {
	case SubViewOrder:
		if o, ok := e.store.Order(c.ID); ok {
			d.Order = &o
		} else {
			d.Placeholder = NoOrderText
		}
	case SubViewProfile:
		name := counterpart(c)
		d.Profile = &ProfileCard{
			Name:         name,
			Initials:     Initials(name),
			Participants: c.Participants,
			Inbox:        c.Inbox,
			Label:        c.Label,
			Status:       c.Status,
			MessageCount: len(e.store.Thread(c.ID)),
		}
	default:
		thread := e.store.Thread(c.ID)
		d.Thread = make([]ThreadEntry, 0, len(thread))
		for _, m := range thread {
			d.Thread = append(d.Thread, ThreadEntry{
				Message:  m,
				Initials: Initials(m.Sender),
				Outgoing: m.Sender == AdminActor,
			})
		}
		d.CanSend = st.CanSend()
	}
	return d
}
