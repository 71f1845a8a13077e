package entity

import "time"

// Notification is an append-only per-user message generated as a side effect
// of a claim transition. The only mutation ever applied is flipping IsRead.
type Notification struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
