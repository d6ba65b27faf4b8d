package models

import "time"

// User is the authenticated identity as returned by the server. It is owned
// by the session service and always replaced wholesale, never patched.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
