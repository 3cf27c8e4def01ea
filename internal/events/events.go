package events

import "time"

const (
	UserCreated   = "user.created"
	UserLoggedIn  = "user.logged_in"
	UserOnboarded = "user.onboarded"
)

// UserEvent is the lifecycle payload published to the broker.
type UserEvent struct {
	Type         string    `json:"type"`
	UserID       string    `json:"user_id"`
	TikTokUserID string    `json:"tiktok_user_id"`
	TraceID      string    `json:"trace_id,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

func NewUserEvent(eventType, userID, tiktokUserID, traceID string) UserEvent {
	return UserEvent{
		Type:         eventType,
		UserID:       userID,
		TikTokUserID: tiktokUserID,
		TraceID:      traceID,
		OccurredAt:   time.Now().UTC(),
	}
}
