package main

import (
	"fmt"
	"os"

	"github.com/eldtechnologies/inboxdesk/internal/tui"
)

var version = "dev"

func main() {
	if err := tui.Execute(version); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
