package inbox

import (
	"strings"

	"github.com/eldtechnologies/inboxdesk/internal/models"
)

// ViewState holds one viewer's inputs to the dashboard. It is plain data so
// sessions can persist it between requests.
type ViewState struct {
	Variant  Variant            `json:"variant"`
	Profile  Profile            `json:"profile,omitempty"`
	Label    models.Label       `json:"label,omitempty"`
	Search   string             `json:"search"`
	Filter   TypeFilter         `json:"filter"`
	Sort     SortOrder          `json:"sort"`
	Selected string             `json:"selected,omitempty"`
	SubView  SubView            `json:"subview"`
	Compose  string             `json:"compose"`
	Staged   *models.Attachment `json:"staged,omitempty"`
}

// NewViewState returns the initial state of a variant: nothing selected,
// no search, all types, newest first.
func NewViewState(v Variant) ViewState {
	st := ViewState{
		Variant: v,
		Filter:  FilterAll,
		Sort:    SortNewest,
		SubView: SubViewMessages,
	}
	if v == VariantClassic {
		st.Profile = ProfileAdmin
	}
	return st
}

// HasSelection reports whether a conversation is selected.
func (st *ViewState) HasSelection() bool {
	return st.Selected != ""
}

// SetProfile switches the classic dashboard's point of view.
func (st *ViewState) SetProfile(p Profile) error {
	if st.Variant != VariantClassic {
		return ErrUnsupported
	}
	st.Profile = p
	return nil
}

// SelectLabel filters by label. Selecting the active label again clears it.
func (st *ViewState) SelectLabel(l models.Label) error {
	if st.Variant != VariantLabeled {
		return ErrUnsupported
	}
	if st.Label == l {
		st.Label = models.LabelNone
		return nil
	}
	st.Label = l
	return nil
}

// SetSearch replaces the message search text.
func (st *ViewState) SetSearch(q string) {
	st.Search = q
}

// ToggleFilter cycles the message type filter.
func (st *ViewState) ToggleFilter() {
	st.Filter = st.Filter.Next()
}

// ToggleSort flips the message sort order.
func (st *ViewState) ToggleSort() {
	st.Sort = st.Sort.Next()
}

// SetSubView switches the detail tab of the selected conversation.
func (st *ViewState) SetSubView(sv SubView) error {
	if !st.HasSelection() {
		return ErrNoSelection
	}
	if !st.Variant.hasSubView(sv) {
		return ErrUnsupported
	}
	st.SubView = sv
	return nil
}

// SetCompose replaces the reply text.
func (st *ViewState) SetCompose(text string) {
	st.Compose = text
}

// ClearAttachment drops the staged attachment.
func (st *ViewState) ClearAttachment() {
	st.Staged = nil
}

// CanSend reports whether Send would append a message.
func (st *ViewState) CanSend() bool {
	return st.HasSelection() && (strings.TrimSpace(st.Compose) != "" || st.Staged != nil)
}

// selectConversation moves to id. A different conversation starts on the
// messages tab with an empty draft; re-selecting the current one keeps both.
func (st *ViewState) selectConversation(id string) {
	if st.Selected != id {
		st.SubView = SubViewMessages
		st.Compose = ""
		st.Staged = nil
	}
	st.Selected = id
}
