package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// runREPL is the interactive loop: prompt, read, dispatch, until exit or EOF.
// The status callback decorates the prompt with the current identity.
func runREPL(ctx context.Context, a *App, status func() string, scanner *bufio.Scanner) {
	for {
		fmt.Fprintf(a.out, "\ntaskpilot%s> ", promptSuffix(status()))
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !a.Execute(ctx, line) {
			return
		}
	}
}

func promptSuffix(status string) string {
	if status == "" {
		return ""
	}
	return " " + status
}

// Execute dispatches one command line. It reports false when the loop should
// terminate. Protected commands pass through GateCommand before their handler
// runs; everything else is public surface.
func (a *App) Execute(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	cmd := fields[0]
	arg := strings.TrimSpace(strings.TrimPrefix(line, cmd))

	if commandProtected(cmd) && !a.GateCommand(ctx, cmd) {
		return true
	}

	switch cmd {
	case "exit", "quit":
		fmt.Fprintln(a.out, "Bye!")
		return false
	case "help":
		a.printHelp()
	case "login":
		a.cmdLogin(ctx)
	case "signup":
		a.cmdSignup(ctx)
	case "logout":
		a.cmdLogout(ctx)
	case "l", "list":
		a.renderCurrent()
	case "add":
		a.cmdAdd(ctx)
	case "edit":
		a.cmdEdit(ctx, arg)
	case "del":
		a.cmdDelete(ctx, arg)
	case "toggle":
		a.cmdToggle(ctx, arg)
	case "search":
		a.cmdSearch(arg)
	case "filter":
		a.cmdFilter(arg)
	case "view":
		a.cmdView(arg)
	case "refresh":
		a.cmdRefresh(ctx)
	case "whoami":
		a.cmdWhoAmI()
	case "chat":
		a.cmdChat(ctx, arg)
	case "history":
		a.cmdHistory()
	default:
		fmt.Fprintf(a.out, "Unknown command %q. Type 'help' for the command list.\n", cmd)
	}
	return true
}

func (a *App) printHelp() {
	fmt.Fprintln(a.out, "Commands:")
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "  login              authenticate with an existing account")
		fmt.Fprintln(a.out, "  signup             register a new account")
		fmt.Fprintln(a.out, "  help               this list")
		fmt.Fprintln(a.out, "  exit               quit")
		return
	}
	fmt.Fprintln(a.out, "  l, list            show tasks (current search/filter/view applied)")
	fmt.Fprintln(a.out, "  add                create a task")
	fmt.Fprintln(a.out, "  edit <id>          edit a task's title/description")
	fmt.Fprintln(a.out, "  del <id>           delete a task")
	fmt.Fprintln(a.out, "  toggle <id>        flip a task's completion")
	fmt.Fprintln(a.out, "  search [term]      set or clear the search term")
	fmt.Fprintln(a.out, "  filter <f>         all | active | completed")
	fmt.Fprintln(a.out, "  view <m>           list | grid")
	fmt.Fprintln(a.out, "  refresh            refetch tasks from the server")
	fmt.Fprintln(a.out, "  chat [message]     talk to the assistant")
	fmt.Fprintln(a.out, "  history            show the conversation transcript")
	fmt.Fprintln(a.out, "  whoami             show the current account")
	fmt.Fprintln(a.out, "  logout             end the session")
	fmt.Fprintln(a.out, "  exit               quit")
}
