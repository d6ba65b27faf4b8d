package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"taskpilot/internal/models"
)

// HTTPClient is the concrete Client speaking JSON over HTTP to the task
// service. The zero value is not usable; construct it with NewHTTPClient.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	token   string
}

// NewHTTPClient returns a client for the API at baseURL (e.g.
// "http://127.0.0.1:8000/api/v1"). A trailing slash on baseURL is trimmed.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// SetToken sets the bearer credential attached to subsequent calls.
func (c *HTTPClient) SetToken(token string) { c.token = token }

// ClearToken removes the in-memory credential.
func (c *HTTPClient) ClearToken() { c.token = "" }

// request performs one call and classifies the outcome:
//   - transport failure        -> *NetworkError
//   - HTTP 401                 -> ErrUnauthorized
//   - HTTP 204 or empty body   -> success, out untouched
//   - other non-2xx            -> *RequestError with server {detail} if present
//   - 2xx with body            -> body decoded into out
func (c *HTTPClient) request(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNoContent:
		return nil
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &RequestError{Status: resp.StatusCode, Detail: readDetail(resp.Body)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if len(data) == 0 || out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// readDetail pulls the server's {detail} message out of an error body.
// Anything unparseable yields an empty detail.
func readDetail(r io.Reader) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return ""
	}
	return payload.Detail
}

type credentialsPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	err := c.request(ctx, http.MethodPost, "/auth/login", credentialsPayload{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Register(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	err := c.request(ctx, http.MethodPost, "/auth/register", credentialsPayload{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.request(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) ListTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := c.request(ctx, http.MethodGet, "/tasks/", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *HTTPClient) CreateTask(ctx context.Context, draft models.TaskDraft) (*models.Task, error) {
	var task models.Task
	if err := c.request(ctx, http.MethodPost, "/tasks/", draft, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *HTTPClient) UpdateTask(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error) {
	var task models.Task
	if err := c.request(ctx, http.MethodPut, "/tasks/"+id+"/", patch, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *HTTPClient) DeleteTask(ctx context.Context, id string) error {
	return c.request(ctx, http.MethodDelete, "/tasks/"+id+"/", nil, nil)
}

func (c *HTTPClient) ToggleTask(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := c.request(ctx, http.MethodPatch, "/tasks/"+id+"/complete/", nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

type chatPayload struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
}

func (c *HTTPClient) SendChat(ctx context.Context, message, conversationID string) (*ChatResponse, error) {
	var resp ChatResponse
	err := c.request(ctx, http.MethodPost, "/chat/", chatPayload{Message: message, ConversationID: conversationID}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) ChatHistory(ctx context.Context, conversationID string) ([]models.ChatMessage, error) {
	var history []models.ChatMessage
	if err := c.request(ctx, http.MethodGet, "/chat/history/"+conversationID+"/", nil, &history); err != nil {
		return nil, err
	}
	return history, nil
}
