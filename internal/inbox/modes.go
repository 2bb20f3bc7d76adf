package inbox

import (
	"strings"

	"github.com/eldtechnologies/inboxdesk/internal/models"
)

// AdminActor is the participant name of the support agent using the dashboard.
const AdminActor = "Admin"

// Variant selects which dashboard flavour an engine serves.
type Variant string

const (
	// VariantClassic filters by actor profile and tracks resolution as a boolean.
	VariantClassic Variant = "classic"
	// VariantLabeled filters by label and tracks a three-way resolution.
	VariantLabeled Variant = "labeled"
)

// Variants lists the supported variants.
var Variants = []Variant{VariantClassic, VariantLabeled}

// ParseVariant validates a variant name. Empty means classic.
func ParseVariant(s string) (Variant, error) {
	switch Variant(strings.ToLower(strings.TrimSpace(s))) {
	case "", VariantClassic:
		return VariantClassic, nil
	case VariantLabeled:
		return VariantLabeled, nil
	}
	return "", ErrUnknownVariant
}

// Profile is the actor whose point of view the classic dashboard shows.
type Profile string

const (
	ProfileAdmin      Profile = "admin"
	ProfileUser       Profile = "user"
	ProfileContractor Profile = "contractor"
	ProfileWorker     Profile = "worker"
)

// Profiles lists the recognized profiles in selector order.
var Profiles = []Profile{ProfileAdmin, ProfileUser, ProfileContractor, ProfileWorker}

// profileMembers is the static allow-list of counterpart names per profile.
var profileMembers = map[Profile][]string{
	ProfileUser:       {"Tanya Lamba", "Gurav"},
	ProfileContractor: {"Contractor"},
	ProfileWorker:     {"Worker"},
}

// ParseProfile validates a profile name.
func ParseProfile(s string) (Profile, error) {
	p := Profile(strings.ToLower(strings.TrimSpace(s)))
	if p == ProfileAdmin {
		return p, nil
	}
	if _, ok := profileMembers[p]; ok {
		return p, nil
	}
	return "", ErrUnknownProfile
}

// ParseLabel validates a label. Empty clears the selection.
func ParseLabel(s string) (models.Label, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return models.LabelNone, nil
	}
	for _, l := range models.Labels {
		if strings.EqualFold(s, string(l)) {
			return l, nil
		}
	}
	return "", ErrUnknownLabel
}

// TypeFilter restricts messages by the category of their conversation.
type TypeFilter string

const (
	FilterAll     TypeFilter = "all"
	FilterGeneral TypeFilter = "general"
	FilterOrder   TypeFilter = "order"
)

// Next cycles all → general → order → all.
func (f TypeFilter) Next() TypeFilter {
	switch f {
	case FilterAll:
		return FilterGeneral
	case FilterGeneral:
		return FilterOrder
	default:
		return FilterAll
	}
}

// SortOrder orders the message list by timestamp.
type SortOrder string

const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
)

// Next flips between newest and oldest.
func (s SortOrder) Next() SortOrder {
	if s == SortNewest {
		return SortOldest
	}
	return SortNewest
}

// SubView is a tab of the selected conversation's detail panel.
type SubView string

const (
	SubViewMessages SubView = "messages"
	SubViewOrder    SubView = "order"
	SubViewProfile  SubView = "profile"
)

// ParseSubView validates a sub-view name.
func ParseSubView(s string) (SubView, error) {
	switch v := SubView(strings.ToLower(strings.TrimSpace(s))); v {
	case SubViewMessages, SubViewOrder, SubViewProfile:
		return v, nil
	}
	return "", ErrUnknownSubView
}

// SubViews returns the tabs offered by a variant.
func (v Variant) SubViews() []SubView {
	if v == VariantLabeled {
		return []SubView{SubViewMessages, SubViewOrder, SubViewProfile}
	}
	return []SubView{SubViewMessages, SubViewOrder}
}

func (v Variant) hasSubView(sv SubView) bool {
	for _, s := range v.SubViews() {
		if s == sv {
			return true
		}
	}
	return false
}

// ParseResolution validates a resolution state name.
func ParseResolution(s string) (models.Resolution, error) {
	for _, r := range []models.Resolution{models.Unresolved, models.Resolved, models.Closed} {
		if strings.EqualFold(strings.TrimSpace(s), string(r)) {
			return r, nil
		}
	}
	return "", ErrInvalidResolution
}

// nextResolution is the toggle transition for a variant.
func (v Variant) nextResolution(r models.Resolution) models.Resolution {
	if v == VariantLabeled {
		switch r {
		case models.Unresolved:
			return models.Resolved
		case models.Resolved:
			return models.Closed
		default:
			return models.Unresolved
		}
	}
	if r == models.Resolved {
		return models.Unresolved
	}
	return models.Resolved
}
