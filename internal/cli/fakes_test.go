package cli

import (
	"bufio"
	"bytes"
	"context"
	"database/sql"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"taskpilot/internal/api"
	"taskpilot/internal/logging"
	"taskpilot/internal/models"
	"taskpilot/internal/repositories/credentials"
	"taskpilot/internal/services"

	_ "modernc.org/sqlite"
)

// ---- helpers ----

func setupCreds(t *testing.T) credentials.Repository {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE credentials (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);
`)
	require.NoError(t, err)
	return credentials.NewSQLiteRepository(db)
}

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// newTestApp wires a full App around the stub client, an in-memory credential
// store, a scripted stdin and a captured stdout.
func newTestApp(t *testing.T, client api.Client, input string) (*App, *bytes.Buffer, credentials.Repository) {
	t.Helper()

	creds := setupCreds(t)
	log := discardLogger()

	session := services.NewSessionService(client, creds, log, 720*time.Hour)
	tasks := services.NewTaskService(client, log)
	chat := services.NewChatService(client, creds, tasks, log)
	session.OnReset(tasks.Reset)

	out := &bytes.Buffer{}
	return &App{
		log:     log,
		session: session,
		tasks:   tasks,
		chat:    chat,
		guard:   NewRouteGuard(session),
		gate:    NewEdgeGate(creds),
		reader:  bufio.NewReader(strings.NewReader(input)),
		out:     out,
		view:    models.ViewList,
		status:  models.FilterAll,
	}, out, creds
}

func restoreAnonymous(t *testing.T, a *App) {
	t.Helper()
	require.NoError(t, a.session.Restore(context.Background()))
	require.Equal(t, services.StateAnonymous, a.session.State())
}

func loginTestApp(t *testing.T, a *App, client *stubClient) {
	t.Helper()
	client.LoginResp = &api.AuthResponse{
		AccessToken: "tok-1",
		TokenType:   "bearer",
		User:        models.User{ID: "u1", Email: "alice@example.com"},
	}
	require.NoError(t, a.session.Login(context.Background(), "alice@example.com", "pw"))
}

// ---- stub api client ----

type stubClient struct {
	Token string

	LoginResp    *api.AuthResponse
	LoginErr     error
	RegisterResp *api.AuthResponse
	RegisterErr  error
	MeResp       *models.User
	MeErr        error

	ListResp  []models.Task
	ListErr   error
	ListCalls int

	CreateResp *models.Task
	CreateErr  error
	LastDraft  models.TaskDraft

	UpdateResp *models.Task
	UpdateErr  error
	LastPatch  models.TaskPatch

	DeleteErr    error
	LastDeleteID string

	ToggleResp *models.Task
	ToggleErr  error

	ChatResp    *api.ChatResponse
	ChatErr     error
	LastChatMsg string

	HistoryResp []models.ChatMessage
	HistoryErr  error
}

func (f *stubClient) SetToken(token string) { f.Token = token }
func (f *stubClient) ClearToken()           { f.Token = "" }

func (f *stubClient) Login(ctx context.Context, email, password string) (*api.AuthResponse, error) {
	return f.LoginResp, f.LoginErr
}

func (f *stubClient) Register(ctx context.Context, email, password string) (*api.AuthResponse, error) {
	return f.RegisterResp, f.RegisterErr
}

func (f *stubClient) Me(ctx context.Context) (*models.User, error) {
	return f.MeResp, f.MeErr
}

func (f *stubClient) ListTasks(ctx context.Context) ([]models.Task, error) {
	f.ListCalls++
	return append([]models.Task(nil), f.ListResp...), f.ListErr
}

func (f *stubClient) CreateTask(ctx context.Context, draft models.TaskDraft) (*models.Task, error) {
	f.LastDraft = draft
	return f.CreateResp, f.CreateErr
}

func (f *stubClient) UpdateTask(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error) {
	f.LastPatch = patch
	return f.UpdateResp, f.UpdateErr
}

func (f *stubClient) DeleteTask(ctx context.Context, id string) error {
	f.LastDeleteID = id
	return f.DeleteErr
}

func (f *stubClient) ToggleTask(ctx context.Context, id string) (*models.Task, error) {
	return f.ToggleResp, f.ToggleErr
}

func (f *stubClient) SendChat(ctx context.Context, message, conversationID string) (*api.ChatResponse, error) {
	f.LastChatMsg = message
	return f.ChatResp, f.ChatErr
}

func (f *stubClient) ChatHistory(ctx context.Context, conversationID string) ([]models.ChatMessage, error) {
	return f.HistoryResp, f.HistoryErr
}
