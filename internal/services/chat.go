package services

import (
	"context"
	"errors"
	"strings"

	"taskpilot/internal/api"
	"taskpilot/internal/logging"
	"taskpilot/internal/models"
	"taskpilot/internal/repositories/credentials"
)

// chatFailureReply is appended to the transcript when a send fails, so the
// conversation view degrades the same way the assistant panel always has.
const chatFailureReply = "Sorry, I encountered an error. Please try again."

// TaskInvalidator is the synchronizer surface the bridge invalidates through.
type TaskInvalidator interface {
	Invalidate(ctx context.Context) error
}

// ChatService relays messages to the assistant endpoint. The assistant may
// mutate tasks server-side on its own, so after every successful exchange the
// bridge invalidates the task collection directly. This is deliberately
// coarse: the bridge cannot know whether tasks actually changed, so it always
// invalidates and never under-invalidates.
type ChatService struct {
	client api.Client
	creds  credentials.Repository
	tasks  TaskInvalidator
	log    logging.Logger

	conversationID string
	transcript     []models.ChatMessage
}

func NewChatService(client api.Client, creds credentials.Repository, tasks TaskInvalidator, log logging.Logger) *ChatService {
	return &ChatService{client: client, creds: creds, tasks: tasks, log: log}
}

// ConversationID returns the current conversation scope, empty when none.
func (s *ChatService) ConversationID() string { return s.conversationID }

// Transcript returns a snapshot of the local message transcript.
func (s *ChatService) Transcript() []models.ChatMessage {
	return append([]models.ChatMessage(nil), s.transcript...)
}

// LoadHistory restores the transcript of a persisted conversation, if one is
// stored. Absence of a conversation id is not an error.
func (s *ChatService) LoadHistory(ctx context.Context) error {
	id, err := s.creds.Get(ctx, credentials.KeyConversationID)
	if err != nil {
		return err
	}
	if id == nil {
		return nil
	}

	s.conversationID = string(id)
	history, err := s.client.ChatHistory(ctx, s.conversationID)
	if err != nil {
		return err
	}
	s.transcript = history
	return nil
}

// Send relays one user message. On success the reply is returned and
// recorded; if the reply carries the server's history-cleared signal, the
// conversation id and transcript are wiped instead. The first successful send
// of a fresh conversation persists the server-assigned id.
//
// Send may return a non-empty reply together with an Unauthorized error when
// the exchange succeeded but the follow-up task refresh exposed a stale
// credential; callers should surface the reply and then tear the session
// down.
func (s *ChatService) Send(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", NewValidationError("message", "must not be empty")
	}

	s.transcript = append(s.transcript, models.ChatMessage{Role: models.RoleUser, Content: message})

	resp, err := s.client.SendChat(ctx, message, s.conversationID)
	if err != nil {
		s.transcript = append(s.transcript, models.ChatMessage{Role: models.RoleAssistant, Content: chatFailureReply})
		return "", err
	}

	if replyClearsHistory(resp.Response) {
		s.transcript = nil
		s.conversationID = ""
		if err := s.creds.Delete(ctx, credentials.KeyConversationID); err != nil {
			s.log.Warn(ctx, "failed to clear stored conversation id", "error", err)
		}
	} else {
		s.transcript = append(s.transcript, models.ChatMessage{Role: models.RoleAssistant, Content: resp.Response})
		if resp.ConversationID != "" && resp.ConversationID != s.conversationID {
			s.conversationID = resp.ConversationID
			if err := s.creds.Set(ctx, credentials.KeyConversationID, []byte(resp.ConversationID)); err != nil {
				s.log.Warn(ctx, "failed to persist conversation id", "error", err)
			}
		}
	}

	if ierr := s.tasks.Invalidate(ctx); ierr != nil {
		if errors.Is(ierr, api.ErrUnauthorized) {
			return resp.Response, ierr
		}
		s.log.Warn(ctx, "task refresh after assistant exchange failed", "error", ierr)
	}

	return resp.Response, nil
}

// replyClearsHistory matches the server's "history cleared" signal: exact
// "Cleared" substring or a case-insensitive "history cleared".
func replyClearsHistory(reply string) bool {
	return strings.Contains(reply, "Cleared") ||
		strings.Contains(strings.ToLower(reply), "history cleared")
}
