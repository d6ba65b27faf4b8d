// Package credentials persists the client's durable key-value state: the
// session token, its edge-gate expiry mirror, and the assistant conversation
// id.
package credentials

import "context"

// Well-known keys. The session service is the only writer of the token keys;
// the chat service owns the conversation id.
const (
	KeyAuthToken        = "auth_token"
	KeyAuthTokenExpires = "auth_token_expires"
	KeyConversationID   = "conversation_id"
)

// Repository is durable key-value persistence. Get returns nil for an absent
// key; Delete of an absent key is a no-op. No validation of the stored values
// happens here.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
