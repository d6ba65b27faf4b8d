// Package api wraps every call to the remote task service. It is the single
// choke point that attaches the bearer credential and classifies failures;
// it holds no application state beyond the in-memory token and is safe to
// test against a fake transport.
package api

import (
	"context"

	"taskpilot/internal/models"
)

// AuthResponse is the payload of a successful login or register call.
type AuthResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        models.User `json:"user"`
}

// ChatResponse is the payload of a successful assistant call.
type ChatResponse struct {
	Response       string `json:"response"`
	ConversationID string `json:"conversation_id"`
}

// Client is the remote API surface the services depend on. Setting or
// clearing the token changes only the in-memory credential attached to
// outbound calls; persistence belongs to the session service.
type Client interface {
	SetToken(token string)
	ClearToken()

	Login(ctx context.Context, email, password string) (*AuthResponse, error)
	Register(ctx context.Context, email, password string) (*AuthResponse, error)
	Me(ctx context.Context) (*models.User, error)

	ListTasks(ctx context.Context) ([]models.Task, error)
	CreateTask(ctx context.Context, draft models.TaskDraft) (*models.Task, error)
	UpdateTask(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error)
	DeleteTask(ctx context.Context, id string) error
	ToggleTask(ctx context.Context, id string) (*models.Task, error)

	SendChat(ctx context.Context, message, conversationID string) (*ChatResponse, error)
	ChatHistory(ctx context.Context, conversationID string) ([]models.ChatMessage, error)
}
