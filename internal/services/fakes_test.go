package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"taskpilot/internal/api"
	"taskpilot/internal/logging"
	"taskpilot/internal/models"
	"taskpilot/internal/repositories/credentials"

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

func getCred(t *testing.T, creds credentials.Repository, key string) []byte {
	t.Helper()
	v, err := creds.Get(context.Background(), key)
	require.NoError(t, err)
	return v
}

// ---- fake api client ----

// fakeClient implements api.Client with preset results and captured
// arguments.
type fakeClient struct {
	Token        string
	ClearedCalls int

	LoginResp *api.AuthResponse
	LoginErr  error
	LastLogin [2]string

	RegisterResp *api.AuthResponse
	RegisterErr  error
	LastRegister [2]string

	MeResp  *models.User
	MeErr   error
	MeCalls int

	ListResp  []models.Task
	ListErr   error
	ListCalls int

	CreateResp *models.Task
	CreateErr  error
	LastDraft  models.TaskDraft

	UpdateResp   *models.Task
	UpdateErr    error
	LastUpdateID string
	LastPatch    models.TaskPatch

	DeleteErr    error
	LastDeleteID string

	ToggleFunc   func(id string) (*models.Task, error)
	LastToggleID string

	ChatResp     *api.ChatResponse
	ChatErr      error
	ChatCalls    int
	LastChatMsg  string
	LastChatConv string

	HistoryResp   []models.ChatMessage
	HistoryErr    error
	LastHistoryID string
}

func (f *fakeClient) SetToken(token string) { f.Token = token }
func (f *fakeClient) ClearToken()           { f.Token = ""; f.ClearedCalls++ }

func (f *fakeClient) Login(ctx context.Context, email, password string) (*api.AuthResponse, error) {
	f.LastLogin = [2]string{email, password}
	return f.LoginResp, f.LoginErr
}

func (f *fakeClient) Register(ctx context.Context, email, password string) (*api.AuthResponse, error) {
	f.LastRegister = [2]string{email, password}
	return f.RegisterResp, f.RegisterErr
}

func (f *fakeClient) Me(ctx context.Context) (*models.User, error) {
	f.MeCalls++
	return f.MeResp, f.MeErr
}

func (f *fakeClient) ListTasks(ctx context.Context) ([]models.Task, error) {
	f.ListCalls++
	return append([]models.Task(nil), f.ListResp...), f.ListErr
}

func (f *fakeClient) CreateTask(ctx context.Context, draft models.TaskDraft) (*models.Task, error) {
	f.LastDraft = draft
	return f.CreateResp, f.CreateErr
}

func (f *fakeClient) UpdateTask(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error) {
	f.LastUpdateID = id
	f.LastPatch = patch
	return f.UpdateResp, f.UpdateErr
}

func (f *fakeClient) DeleteTask(ctx context.Context, id string) error {
	f.LastDeleteID = id
	return f.DeleteErr
}

func (f *fakeClient) ToggleTask(ctx context.Context, id string) (*models.Task, error) {
	f.LastToggleID = id
	return f.ToggleFunc(id)
}

func (f *fakeClient) SendChat(ctx context.Context, message, conversationID string) (*api.ChatResponse, error) {
	f.ChatCalls++
	f.LastChatMsg = message
	f.LastChatConv = conversationID
	return f.ChatResp, f.ChatErr
}

func (f *fakeClient) ChatHistory(ctx context.Context, conversationID string) ([]models.ChatMessage, error) {
	f.LastHistoryID = conversationID
	return f.HistoryResp, f.HistoryErr
}
