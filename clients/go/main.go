// inbox CLI - Command line client for the inboxdesk session API
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/eldtechnologies/inboxdesk/clients/go/inbox"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	baseURL := os.Getenv("INBOX_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	client := inbox.NewClient(baseURL)
	cmd := os.Args[1]
	args := os.Args[2:]

	var view *inbox.View
	var err error

	switch cmd {
	case "health":
		resp, err := client.Health()
		exitOnError(err)
		printJSON(resp)
		return

	case "create":
		variant := "classic"
		if len(args) > 0 {
			variant = args[0]
		}
		view, err = client.Create(variant)
		exitOnError(err)
		fmt.Printf("Session: %s\n", client.SessionID)

	case "show":
		view, err = client.View()

	case "close":
		exitOnError(client.Close())
		fmt.Println("Session closed")
		return

	case "profile":
		need(args, 1, "profile <admin|user|contractor|worker>")
		view, err = client.SetProfile(args[0])

	case "label":
		need(args, 1, "label <label>")
		view, err = client.SelectLabel(strings.Join(args, " "))

	case "search":
		view, err = client.Search(strings.Join(args, " "))

	case "filter":
		view, err = client.ToggleFilter()

	case "sort":
		view, err = client.ToggleSort()

	case "open":
		need(args, 1, "open <conversation_id>")
		view, err = client.Select(args[0])

	case "tab":
		need(args, 1, "tab <messages|order|profile>")
		view, err = client.SetSubView(args[0])

	case "resolve":
		state := ""
		if len(args) > 0 {
			state = args[0]
		}
		view, err = client.Resolve(state)

	case "attach":
		need(args, 2, "attach <name> <media_type>")
		view, err = client.Attach(args[0], args[1])

	case "detach":
		view, err = client.Detach()

	case "send":
		resp, err := client.Send(strings.Join(args, " "))
		exitOnError(err)
		fmt.Printf("Sent: %s\n", resp.Message.ID)
		view = &resp.View

	case "call":
		notice, err := client.Call()
		exitOnError(err)
		fmt.Println(notice)
		return

	case "json":
		view, err = client.View()
		exitOnError(err)
		printJSON(view)
		return

	case "help", "--help", "-h":
		usage()
		return

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}

	exitOnError(err)
	printView(view)
}

func printView(v *inbox.View) {
	selector := "profile: " + v.Profile
	if v.Variant == "labeled" {
		selector = "label: " + v.Label
		if v.Label == "" {
			selector = "label: (all)"
		}
	}
	fmt.Printf("%s  |  %s  |  filter: %s  sort: %s", v.Variant, selector, v.Filter, v.Sort)
	if v.Search != "" {
		fmt.Printf("  search: %q", v.Search)
	}
	fmt.Println()

	fmt.Println("\nConversations:")
	for _, c := range v.Conversations {
		mark := " "
		if c.Selected {
			mark = ">"
		}
		fmt.Printf(" %s %-3s [%s] %-28s %s\n", mark, c.ID, c.Initials, strings.Join(c.Participants, ", "), c.Resolution)
	}

	fmt.Println("\nMessages:")
	for _, m := range v.Messages {
		fmt.Printf("   %-18s %-12s %s\n", m.Timestamp, m.Sender, m.Preview)
	}

	fmt.Println()
	if v.Detail == nil {
		fmt.Println(v.Placeholder)
		return
	}

	d := v.Detail
	fmt.Printf("== %s (%s) [%s]\n", d.Title, d.Resolution, d.SubView)
	switch {
	case d.Placeholder != "":
		fmt.Println(d.Placeholder)
	case d.Order != nil:
		for _, item := range d.Order.Items {
			fmt.Println("  " + item)
		}
		fmt.Printf("  Total: %s  Shipping: %s  Net payable: %s\n", d.Order.Total, d.Order.Shipping, d.Order.NetPayable)
	case d.Profile != nil:
		fmt.Printf("  %s (%s), %d messages\n", d.Profile.Name, d.Profile.Status, d.Profile.MessageCount)
	default:
		for _, m := range d.Thread {
			line := m.Content
			if m.Attachment != nil {
				line += " [" + m.Attachment.Name + "]"
			}
			if m.Outgoing {
				fmt.Printf("  %60s  <%s>\n", line, m.Timestamp)
			} else {
				fmt.Printf("  <%s> %s\n", m.Timestamp, line)
			}
		}
	}
	if d.Staged != nil {
		fmt.Printf("  staged: %s\n", d.Staged.Name)
	}
}

func usage() {
	fmt.Println(`inbox CLI - customer support inbox

Usage: inbox <command> [options]

Commands:
  create [classic|labeled]    Start a session
  show                        Show the current view
  json                        Print the current view as JSON
  close                       End the session
  profile <name>              Switch profile (classic)
  label <label>               Toggle a label filter (labeled)
  search <text>               Search messages
  filter                      Cycle the type filter
  sort                        Flip the sort order
  open <conversation_id>      Select a conversation
  tab <messages|order|profile>
  resolve [state]             Toggle or set resolution
  attach <name> <media_type>  Stage an image (labeled)
  detach                      Drop the staged image
  send [text]                 Send text or the composed reply
  call                        Start a call (labeled)
  health                      Check server health

Environment:
  INBOX_URL      Server URL (default: http://localhost:8080)
  INBOX_CONFIG   Config directory (default: ~/.inboxdesk)`)
}

func need(args []string, n int, syntax string) {
	if len(args) < n {
		fmt.Fprintln(os.Stderr, "Usage: inbox "+syntax)
		os.Exit(1)
	}
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func printJSON(v interface{}) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(data))
}
