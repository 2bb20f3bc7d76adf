package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/eldtechnologies/inboxdesk/internal/inbox"
	"github.com/eldtechnologies/inboxdesk/internal/models"
)

const (
	defaultWidth  = 120
	defaultHeight = 32
)

func (m *Model) View() string {
	width, height := m.width, m.height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}

	header := m.renderHeader()
	footer := m.renderFooter()
	bodyHeight := height - lipgloss.Height(header) - lipgloss.Height(footer) - 2
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	left := width / 4
	middle := width / 3
	right := width - left - middle - 6
	if right < 20 {
		right = 20
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		paneStyle.Width(left).Height(bodyHeight).Render(m.renderConversations()),
		paneStyle.Width(middle).Height(bodyHeight).Render(m.renderMessages(middle)),
		m.detailPane().Width(right).Height(bodyHeight).Render(m.renderDetail(right)),
	)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m *Model) detailPane() lipgloss.Style {
	if m.mode == modeCompose || m.mode == modeAttach {
		return activePaneStyle
	}
	return paneStyle
}

func (m *Model) renderHeader() string {
	v := m.view
	var selector string
	if v.Variant == inbox.VariantLabeled {
		label := string(v.Label)
		if label == "" {
			label = "All"
		}
		selector = "Label: " + label
	} else {
		selector = "Profile: " + string(v.Profile)
	}

	search := v.Search
	if m.mode == modeSearch {
		search += "_"
	}
	parts := []string{
		headerStyle.Render("Inbox"),
		selector,
		"Type: " + string(v.Filter),
		"Sort: " + string(v.Sort),
	}
	if search != "" {
		parts = append(parts, "Search: "+search)
	}
	return strings.Join(parts, mutedStyle.Render("  |  "))
}

func (m *Model) renderFooter() string {
	if m.status != "" {
		return noticeStyle.Render(m.status)
	}
	switch m.mode {
	case modeSearch:
		return mutedStyle.Render("type to search  enter/esc done")
	case modeCompose:
		return mutedStyle.Render("type a reply  enter send  esc done")
	case modeAttach:
		return "Attach file: " + m.input + "_"
	}

	keys := "j/k move  enter open  / search  f type  s sort  r resolve  i reply  1-3 tabs  q quit"
	if m.view.Variant == inbox.VariantLabeled {
		keys = "j/k move  enter open  l label  / search  f type  s sort  r resolve  i reply  a attach  x detach  c call  1-3 tabs  q quit"
	} else {
		keys = "p profile  " + keys
	}
	return mutedStyle.Render(keys)
}

func (m *Model) renderConversations() string {
	if len(m.view.Conversations) == 0 {
		return mutedStyle.Render("No conversations")
	}
	lines := make([]string, 0, len(m.view.Conversations)*2)
	for i, c := range m.view.Conversations {
		name := strings.Join(c.Participants, ", ")
		line := avatarStyle.Render(c.Initials) + " " + name
		switch {
		case c.Selected:
			line = selectedStyle.Render("> ") + line
		case i == m.cursor:
			line = "> " + line
		default:
			line = "  " + line
		}
		lines = append(lines, line)

		meta := c.Type
		if c.Label != models.LabelNone {
			meta += " · " + string(c.Label)
		}
		lines = append(lines, "    "+mutedStyle.Render(meta)+" "+resolutionStyle(string(c.Resolution)).Render(string(c.Resolution)))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderMessages(width int) string {
	if len(m.view.Messages) == 0 {
		return mutedStyle.Render("No messages")
	}
	now := m.now()
	lines := make([]string, 0, len(m.view.Messages)*2)
	for _, msg := range m.view.Messages {
		sender := titleStyle.Render(msg.Sender)
		if msg.Selected {
			sender = selectedStyle.Render(msg.Sender)
		}
		when := mutedStyle.Render(relativeTime(msg.SentAt, msg.Timestamp, now))
		lines = append(lines, fmt.Sprintf("%s %s  %s", avatarStyle.Render(msg.Initials), sender, when))
		lines = append(lines, "   "+truncate(msg.Preview, width-4))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderDetail(width int) string {
	d := m.view.Detail
	if d == nil {
		return mutedStyle.Render(m.view.Placeholder)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(d.Title))
	b.WriteString("  ")
	b.WriteString(resolutionStyle(string(d.Resolution)).Render(string(d.Resolution)))
	b.WriteString("\n")

	tabs := make([]string, 0, len(d.SubViews))
	for i, sv := range d.SubViews {
		tab := fmt.Sprintf("%d %s", i+1, sv)
		if sv == d.SubView {
			tab = selectedStyle.Render("[" + tab + "]")
		} else {
			tab = mutedStyle.Render(" " + tab + " ")
		}
		tabs = append(tabs, tab)
	}
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("\n\n")

	switch {
	case d.Placeholder != "":
		b.WriteString(mutedStyle.Render(d.Placeholder))
	case d.Order != nil:
		for _, item := range d.Order.Items {
			b.WriteString(item + "\n")
		}
		b.WriteString(fmt.Sprintf("\nTotal       %s\nShipping    %s\nNet payable %s", d.Order.Total, d.Order.Shipping, d.Order.NetPayable))
	case d.Profile != nil:
		p := d.Profile
		b.WriteString(avatarStyle.Render(p.Initials) + " " + titleStyle.Render(p.Name) + "\n")
		if p.Inbox != "" {
			b.WriteString("Inbox: " + p.Inbox + "\n")
		}
		if p.Label != models.LabelNone {
			b.WriteString("Label: " + string(p.Label) + "\n")
		}
		b.WriteString(fmt.Sprintf("Status: %s\nMessages: %s", p.Status, humanize.Comma(int64(p.MessageCount))))
	default:
		now := m.now()
		for _, e := range d.Thread {
			text := e.Content
			if e.Attachment != nil {
				text = strings.TrimSpace(text + " [" + e.Attachment.Name + "]")
			}
			when := relativeTime(e.SentAt, e.Timestamp, now)
			if e.Outgoing {
				line := outgoingStyle.Render(text) + " " + mutedStyle.Render(when)
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Right, line) + "\n")
			} else {
				b.WriteString(avatarStyle.Render(e.Initials) + " " + text + " " + mutedStyle.Render(when) + "\n")
			}
		}
		b.WriteString("\n")
		b.WriteString(m.renderCompose(d))
	}
	return b.String()
}

func (m *Model) renderCompose(d *inbox.Detail) string {
	var b strings.Builder
	if d.Staged != nil {
		b.WriteString(noticeStyle.Render("Attached: "+d.Staged.Name) + "\n")
	}
	prompt := "Reply: "
	if m.mode == modeCompose {
		prompt = selectedStyle.Render(prompt)
	}
	b.WriteString(prompt + d.Compose)
	if m.mode == modeCompose {
		b.WriteString("_")
	}
	return b.String()
}

// relativeTime shows a parsed timestamp relative to now, and the original
// text when it could not be parsed.
func relativeTime(at time.Time, text string, now time.Time) string {
	if at.IsZero() {
		return text
	}
	return humanize.RelTime(at, now, "ago", "from now")
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(runes[:max-1]) + "…"
}
