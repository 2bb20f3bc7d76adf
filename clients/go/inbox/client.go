// Package inbox provides a client for the inboxdesk session API.
package inbox

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Client is an inboxdesk API client. It remembers the session it works on.
type Client struct {
	BaseURL    string
	ConfigDir  string
	SessionID  string
	HTTPClient *http.Client
}

// NewClient creates a new client and loads the saved session, if any.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	configDir := os.Getenv("INBOX_CONFIG")
	if configDir == "" {
		home, _ := os.UserHomeDir()
		configDir = filepath.Join(home, ".inboxdesk")
	}

	c := &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		ConfigDir:  configDir,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}

	_ = c.LoadSession()
	return c
}

// LoadSession reads the saved session ID from disk.
func (c *Client) LoadSession() error {
	data, err := os.ReadFile(filepath.Join(c.ConfigDir, "session"))
	if err != nil {
		return err
	}
	c.SessionID = strings.TrimSpace(string(data))
	return nil
}

// SaveSession writes the current session ID to disk.
func (c *Client) SaveSession() error {
	if err := os.MkdirAll(c.ConfigDir, 0700); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.ConfigDir, "session"), []byte(c.SessionID), 0600)
}

// Error is a non-2xx response. Notice is set when the server refused an
// action with a message meant for the user.
type Error struct {
	Status  int
	Message string
	Notice  string
}

func (e *Error) Error() string {
	if e.Notice != "" {
		return e.Notice
	}
	return fmt.Sprintf("inbox error %d: %s", e.Status, e.Message)
}

// IsNotice reports whether err is a user notice from the server.
func IsNotice(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Notice != ""
}

// ErrNoSession is returned by session calls before Create.
var ErrNoSession = errors.New("no session, run create first")

// doRequest performs an HTTP request and decodes the response into out.
func (c *Client) doRequest(method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error  string `json:"error"`
			Notice string `json:"notice"`
		}
		json.Unmarshal(respBody, &errResp)
		return &Error{Status: resp.StatusCode, Message: errResp.Error, Notice: errResp.Notice}
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	return json.Unmarshal(respBody, out)
}

func (c *Client) sessionPath(suffix string) (string, error) {
	if c.SessionID == "" {
		return "", ErrNoSession
	}
	return "/sessions/" + c.SessionID + suffix, nil
}

// act sends a session action and returns the resulting view.
func (c *Client) act(method, suffix string, in interface{}) (*View, error) {
	path, err := c.sessionPath(suffix)
	if err != nil {
		return nil, err
	}
	var view View
	if err := c.doRequest(method, path, in, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// Attachment is a file attached to a message.
type Attachment struct {
	Name      string `json:"name"`
	MediaType string `json:"media_type"`
	Ref       string `json:"ref"`
}

// Message is a message as the server reports it.
type Message struct {
	ID             string      `json:"id"`
	ConversationID string      `json:"conversation_id"`
	Sender         string      `json:"sender"`
	Content        string      `json:"content"`
	Timestamp      string      `json:"timestamp"`
	Attachment     *Attachment `json:"attachment,omitempty"`
}

// Conversation is a conversation list entry.
type Conversation struct {
	ID           string   `json:"id"`
	Type         string   `json:"type"`
	Participants []string `json:"participants"`
	Status       string   `json:"status"`
	Inbox        string   `json:"inbox,omitempty"`
	Label        string   `json:"label,omitempty"`
	Resolution   string   `json:"resolution"`
	Initials     string   `json:"initials"`
	Selected     bool     `json:"selected"`
}

// MessageRow is a message list entry.
type MessageRow struct {
	Message
	Initials string `json:"initials"`
	Preview  string `json:"preview"`
	Selected bool   `json:"selected"`
}

// ThreadEntry is a message in the detail panel.
type ThreadEntry struct {
	Message
	Initials string `json:"initials"`
	Outgoing bool   `json:"outgoing"`
}

// OrderDetail is the order attached to a conversation.
type OrderDetail struct {
	Items      []string `json:"items"`
	Total      string   `json:"total"`
	Shipping   string   `json:"shipping"`
	NetPayable string   `json:"net_payable"`
}

// ProfileCard describes a conversation's counterpart.
type ProfileCard struct {
	Name         string   `json:"name"`
	Initials     string   `json:"initials"`
	Participants []string `json:"participants"`
	Inbox        string   `json:"inbox,omitempty"`
	Label        string   `json:"label,omitempty"`
	Status       string   `json:"status"`
	MessageCount int      `json:"message_count"`
}

// Detail is the selected conversation's panel.
type Detail struct {
	ConversationID string        `json:"conversation_id"`
	Title          string        `json:"title"`
	Resolution     string        `json:"resolution"`
	SubView        string        `json:"subview"`
	SubViews       []string      `json:"subviews"`
	Thread         []ThreadEntry `json:"thread,omitempty"`
	Order          *OrderDetail  `json:"order,omitempty"`
	Profile        *ProfileCard  `json:"profile,omitempty"`
	Placeholder    string        `json:"placeholder,omitempty"`
	Compose        string        `json:"compose"`
	Staged         *Attachment   `json:"staged,omitempty"`
	CanSend        bool          `json:"can_send"`
	CanCall        bool          `json:"can_call"`
}

// View is the dashboard as a session sees it.
type View struct {
	Variant       string         `json:"variant"`
	Profile       string         `json:"profile,omitempty"`
	Profiles      []string       `json:"profiles,omitempty"`
	Label         string         `json:"label,omitempty"`
	Labels        []string       `json:"labels,omitempty"`
	Search        string         `json:"search"`
	Filter        string         `json:"filter"`
	Sort          string         `json:"sort"`
	Conversations []Conversation `json:"conversations"`
	Messages      []MessageRow   `json:"messages"`
	Detail        *Detail        `json:"detail,omitempty"`
	Placeholder   string         `json:"placeholder,omitempty"`
}

// HealthResponse is the response from the health endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Checks  map[string]struct {
		Status  string `json:"status"`
		Latency string `json:"latency,omitempty"`
		Message string `json:"message,omitempty"`
	} `json:"checks"`
}

// Health checks server health.
func (c *Client) Health() (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.doRequest("GET", "/health", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Create starts a session on a variant ("classic" or "labeled") and saves it.
func (c *Client) Create(variant string) (*View, error) {
	var resp struct {
		SessionID string `json:"session_id"`
		View      View   `json:"view"`
	}
	if err := c.doRequest("POST", "/sessions", map[string]string{"variant": variant}, &resp); err != nil {
		return nil, err
	}
	c.SessionID = resp.SessionID
	if err := c.SaveSession(); err != nil {
		return nil, err
	}
	return &resp.View, nil
}

// View fetches the current view.
func (c *Client) View() (*View, error) {
	return c.act("GET", "", nil)
}

// Close deletes the session.
func (c *Client) Close() error {
	path, err := c.sessionPath("")
	if err != nil {
		return err
	}
	if err := c.doRequest("DELETE", path, nil, nil); err != nil {
		return err
	}
	c.SessionID = ""
	_ = os.Remove(filepath.Join(c.ConfigDir, "session"))
	return nil
}

// SetProfile switches the classic dashboard's profile.
func (c *Client) SetProfile(profile string) (*View, error) {
	return c.act("PUT", "/profile", map[string]string{"profile": profile})
}

// SelectLabel toggles the labeled dashboard's label filter.
func (c *Client) SelectLabel(label string) (*View, error) {
	return c.act("PUT", "/label", map[string]string{"label": label})
}

// Search sets the message search text.
func (c *Client) Search(query string) (*View, error) {
	return c.act("PUT", "/search", map[string]string{"query": query})
}

// ToggleFilter cycles the message type filter.
func (c *Client) ToggleFilter() (*View, error) {
	return c.act("POST", "/filter/toggle", nil)
}

// ToggleSort flips the message order.
func (c *Client) ToggleSort() (*View, error) {
	return c.act("POST", "/sort/toggle", nil)
}

// Select selects a conversation.
func (c *Client) Select(conversationID string) (*View, error) {
	return c.act("PUT", "/selection", map[string]string{"conversation_id": conversationID})
}

// SetSubView switches the detail tab.
func (c *Client) SetSubView(subview string) (*View, error) {
	return c.act("PUT", "/subview", map[string]string{"subview": subview})
}

// Resolve toggles the selected conversation's resolution, or sets it when
// state is not empty.
func (c *Client) Resolve(state string) (*View, error) {
	return c.act("POST", "/resolution", map[string]string{"state": state})
}

// Compose sets the reply text.
func (c *Client) Compose(text string) (*View, error) {
	return c.act("PUT", "/compose", map[string]string{"text": text})
}

// Attach stages a file for the next reply.
func (c *Client) Attach(name, mediaType string) (*View, error) {
	return c.act("POST", "/attachment", map[string]string{"name": name, "media_type": mediaType})
}

// Detach drops the staged file.
func (c *Client) Detach() (*View, error) {
	return c.act("DELETE", "/attachment", nil)
}

// SendResponse is the response from sending a reply.
type SendResponse struct {
	View    View    `json:"view"`
	Message Message `json:"message"`
}

// Send sends text, or the composed text when text is empty.
func (c *Client) Send(text string) (*SendResponse, error) {
	path, err := c.sessionPath("/send")
	if err != nil {
		return nil, err
	}
	var in interface{}
	if text != "" {
		in = map[string]string{"text": text}
	}
	var resp SendResponse
	if err := c.doRequest("POST", path, in, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Call starts a call with the selected conversation and returns the notice.
func (c *Client) Call() (string, error) {
	path, err := c.sessionPath("/call")
	if err != nil {
		return "", err
	}
	var resp struct {
		Notice string `json:"notice"`
	}
	if err := c.doRequest("POST", path, nil, &resp); err != nil {
		return "", err
	}
	return resp.Notice, nil
}
