package cli

import (
	"context"
	"fmt"

	"taskpilot/internal/models"
)

// cmdChat sends one message to the assistant. With no inline argument it
// prompts for the message instead.
func (a *App) cmdChat(ctx context.Context, message string) {
	if message == "" {
		var err error
		message, err = GetSimpleText(a.reader, "Message", a.out)
		if err != nil {
			fmt.Fprintf(a.out, "Error: %v\n", err)
			return
		}
	}

	reply, err := a.chat.Send(ctx, message)
	if reply != "" {
		fmt.Fprintf(a.out, "assistant: %s\n", reply)
	}
	if err != nil {
		a.handleAPIError(ctx, err)
	}
}

func (a *App) cmdHistory() {
	transcript := a.chat.Transcript()
	if len(transcript) == 0 {
		fmt.Fprintln(a.out, "No conversation yet.")
		return
	}
	for _, m := range transcript {
		label := "you"
		if m.Role == models.RoleAssistant {
			label = "assistant"
		}
		fmt.Fprintf(a.out, "%s: %s\n", label, m.Content)
	}
}
