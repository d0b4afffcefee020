// ABOUTME: Terminal delivery for notifications.
// ABOUTME: Prints a coloured title line followed by the body.
package notify

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Console returns a Deliver that writes notifications to w.
func Console(w io.Writer) Deliver {
	title := color.New(color.FgCyan, color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()
	return func(n Notification) {
		fmt.Fprintf(w, "%s %s\n", title("🔔 "+n.Title), faint(n.TriggerAt.Format("15:04")))
		if n.Body != "" {
			fmt.Fprintf(w, "   %s\n", n.Body)
		}
	}
}
