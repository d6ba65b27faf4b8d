// Package cli implements the interactive terminal client: the consuming
// views of the session, task and chat services, plus the two gates
// protecting them.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"taskpilot/internal/api"
	"taskpilot/internal/config"
	"taskpilot/internal/logging"
	"taskpilot/internal/models"
	"taskpilot/internal/repositories/credentials"
	"taskpilot/internal/services"
	"taskpilot/internal/storage"
)

type App struct {
	config  *config.Config
	log     logging.Logger
	session *services.SessionService
	tasks   *services.TaskService
	chat    *services.ChatService
	guard   *RouteGuard
	gate    *EdgeGate

	reader *bufio.Reader
	out    io.Writer

	// Current view projection state.
	view   models.ViewMode
	status models.StatusFilter
	search string
}

func NewApp(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	db, err := storage.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	creds := credentials.NewSQLiteRepository(db)
	client := api.NewHTTPClient(cfg.APIBaseURL, cfg.RequestTimeout)

	session := services.NewSessionService(client, creds, log, cfg.TokenMirrorMaxAge)
	tasks := services.NewTaskService(client, log)
	chat := services.NewChatService(client, creds, tasks, log)

	// A new identity must never see a previous session's tasks.
	session.OnReset(tasks.Reset)

	return &App{
		config:  cfg,
		log:     log,
		session: session,
		tasks:   tasks,
		chat:    chat,
		guard:   NewRouteGuard(session),
		gate:    NewEdgeGate(creds),
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
		view:    models.ViewList,
		status:  models.FilterAll,
	}, nil
}

// Run restores any persisted session and drops into the REPL.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Loading session...")
	if err := a.session.Restore(ctx); err != nil {
		a.log.Warn(ctx, "session restore failed", "error", err)
	}

	if a.isLoggedIn() {
		fmt.Fprintf(a.out, "Welcome back, %s\n", a.session.User().Email)
		if _, err := a.tasks.List(ctx); err != nil {
			a.handleAPIError(ctx, err)
		}
		if err := a.chat.LoadHistory(ctx); err != nil {
			a.handleAPIError(ctx, err)
		}
	} else {
		fmt.Fprintln(a.out, "Welcome to taskpilot (type 'help' for commands)")
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

func (a *App) isLoggedIn() bool {
	return a.session.State() == services.StateAuthenticated
}

func (a *App) getStatus() string {
	if u := a.session.User(); u != nil {
		return fmt.Sprintf("(%s)", u.Email)
	}
	return ""
}

// GateCommand runs both gates for a protected command: first the coarse edge
// gate on the stored token mirror, then the route guard on session state.
// It reports whether the command may proceed, printing the redirect notice
// when it may not.
func (a *App) GateCommand(ctx context.Context, cmd string) bool {
	ok, err := a.gate.Allows(ctx, commandArea[cmd])
	if err != nil {
		a.log.Warn(ctx, "edge gate check failed", "error", err)
	}
	if !ok {
		fmt.Fprintln(a.out, "No active session. Use 'login' or 'signup'.")
		return false
	}

	switch a.guard.Decide() {
	case DecisionWait:
		fmt.Fprintln(a.out, "Loading session...")
		return false
	case DecisionRedirect:
		fmt.Fprintln(a.out, "Please log in first (use 'login').")
		return false
	}
	return true
}

// handleAPIError reports a failed operation to the user. An Unauthorized
// result additionally tears the session down, so a stale credential never
// leaves the client looking authenticated.
func (a *App) handleAPIError(ctx context.Context, err error) {
	if errors.Is(err, api.ErrUnauthorized) {
		if terr := a.session.HandleUnauthorized(ctx); terr != nil {
			a.log.Warn(ctx, "session teardown failed", "error", terr)
		}
		fmt.Fprintln(a.out, "Session expired. Please log in again.")
		return
	}
	fmt.Fprintf(a.out, "Error: %v\n", err)
}
