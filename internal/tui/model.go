// Package tui is a terminal rendering of the support inbox. It drives an
// engine in process, so it needs no server.
package tui

import (
	"mime"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/eldtechnologies/inboxdesk/internal/inbox"
	"github.com/eldtechnologies/inboxdesk/internal/models"
)

type inputMode int

const (
	modeNormal inputMode = iota
	modeSearch
	modeCompose
	modeAttach
)

// Model is the bubbletea model of one viewer.
type Model struct {
	engine *inbox.Engine
	state  inbox.ViewState
	view   inbox.View
	logger zerolog.Logger
	now    func() time.Time

	width  int
	height int

	mode   inputMode
	input  string
	cursor int
	status string
}

// NewModel creates a model over engine, starting from the variant's
// initial state.
func NewModel(engine *inbox.Engine, logger zerolog.Logger) *Model {
	m := &Model{
		engine: engine,
		state:  engine.NewState(),
		logger: logger,
		now:    time.Now,
	}
	m.refresh()
	return m
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.height = typed.Height
		return m, nil
	case tea.KeyMsg:
		if typed.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeSearch:
			m.handleSearchKey(typed)
		case modeCompose:
			m.handleComposeKey(typed)
		case modeAttach:
			m.handleAttachKey(typed)
		default:
			return m, m.handleKey(typed)
		}
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	m.status = ""
	switch msg.String() {
	case "q":
		return tea.Quit
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "enter":
		if m.cursor < len(m.view.Conversations) {
			id := m.view.Conversations[m.cursor].ID
			m.apply("select", func(st *inbox.ViewState) error {
				return m.engine.Select(st, id)
			})
		}
	case "/":
		m.mode = modeSearch
	case "i":
		m.mode = modeCompose
	case "a":
		m.mode = modeAttach
		m.input = ""
	case "x":
		m.apply("detach", func(st *inbox.ViewState) error {
			st.ClearAttachment()
			return nil
		})
	case "f":
		m.apply("filter", func(st *inbox.ViewState) error {
			st.ToggleFilter()
			return nil
		})
	case "s":
		m.apply("sort", func(st *inbox.ViewState) error {
			st.ToggleSort()
			return nil
		})
	case "r":
		m.apply("resolution", func(st *inbox.ViewState) error {
			_, err := m.engine.ToggleResolution(st)
			return err
		})
	case "p":
		m.apply("profile", func(st *inbox.ViewState) error {
			return st.SetProfile(nextProfile(st.Profile))
		})
	case "l":
		m.apply("label", func(st *inbox.ViewState) error {
			next := nextLabel(st.Label)
			if next == models.LabelNone {
				// Selecting the active label again clears it
				return st.SelectLabel(st.Label)
			}
			return st.SelectLabel(next)
		})
	case "1", "2", "3":
		subviews := m.engine.Variant().SubViews()
		idx := int(msg.String()[0] - '1')
		if idx >= len(subviews) {
			return nil
		}
		m.apply("subview", func(st *inbox.ViewState) error {
			return st.SetSubView(subviews[idx])
		})
	case "c":
		var notice string
		m.apply("call", func(st *inbox.ViewState) error {
			n, err := m.engine.Call(st)
			notice = n
			return err
		})
		if notice != "" {
			m.status = notice
		}
	}
	return nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "enter", "esc":
		m.mode = modeNormal
		return
	case "backspace", "ctrl+h":
		m.setSearch(dropLastRune(m.state.Search))
		return
	}
	if r := typedText(msg); r != "" {
		m.setSearch(m.state.Search + r)
	}
}

func (m *Model) setSearch(q string) {
	m.apply("search", func(st *inbox.ViewState) error {
		st.SetSearch(q)
		return nil
	})
}

func (m *Model) handleComposeKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		return
	case "enter":
		m.send()
		return
	case "backspace", "ctrl+h":
		m.setCompose(dropLastRune(m.state.Compose))
		return
	}
	if r := typedText(msg); r != "" {
		m.setCompose(m.state.Compose + r)
	}
}

func (m *Model) setCompose(text string) {
	m.apply("compose", func(st *inbox.ViewState) error {
		st.SetCompose(text)
		return nil
	})
}

func (m *Model) send() {
	var sent models.Message
	ok := m.apply("send", func(st *inbox.ViewState) error {
		msg, err := m.engine.Send(st)
		sent = msg
		return err
	})
	if ok {
		m.mode = modeNormal
		m.logger.Info().
			Str("conversation", sent.ConversationID).
			Str("message", sent.ID).
			Msg("reply sent")
	}
}

func (m *Model) handleAttachKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		m.input = ""
		return
	case "enter":
		name := strings.TrimSpace(m.input)
		m.mode = modeNormal
		m.input = ""
		if name == "" {
			return
		}
		f := inbox.File{Name: filepath.Base(name), MediaType: mime.TypeByExtension(filepath.Ext(name))}
		m.apply("attach", func(st *inbox.ViewState) error {
			return m.engine.StageAttachment(st, f)
		})
		return
	case "backspace", "ctrl+h":
		m.input = dropLastRune(m.input)
		return
	}
	m.input += typedText(msg)
}

// apply runs fn against a copy of the state. On failure the state is kept
// and the error becomes the status line.
func (m *Model) apply(action string, fn func(st *inbox.ViewState) error) bool {
	next := m.state
	if err := fn(&next); err != nil {
		m.status = err.Error()
		m.logger.Debug().Str("action", action).Err(err).Msg("action refused")
		return false
	}
	m.state = next
	m.refresh()
	return true
}

func (m *Model) refresh() {
	m.view = m.engine.Derive(m.state)
	if m.cursor >= len(m.view.Conversations) {
		m.cursor = len(m.view.Conversations) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	if m.cursor >= len(m.view.Conversations) {
		m.cursor = len(m.view.Conversations) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func nextProfile(p inbox.Profile) inbox.Profile {
	for i, candidate := range inbox.Profiles {
		if candidate == p {
			return inbox.Profiles[(i+1)%len(inbox.Profiles)]
		}
	}
	return inbox.ProfileAdmin
}

func nextLabel(l models.Label) models.Label {
	if l == models.LabelNone {
		return models.Labels[0]
	}
	for i, candidate := range models.Labels {
		if candidate == l && i+1 < len(models.Labels) {
			return models.Labels[i+1]
		}
	}
	return models.LabelNone
}

// typedText returns the text a key adds to an input field.
func typedText(msg tea.KeyMsg) string {
	switch msg.Type {
	case tea.KeySpace:
		return " "
	case tea.KeyRunes:
		return string(msg.Runes)
	}
	return ""
}

func dropLastRune(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	return string(runes[:len(runes)-1])
}
