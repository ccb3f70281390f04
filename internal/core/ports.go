package core

import "context"

// SenderAction is a typing indicator or read receipt sent to a user
type SenderAction string

const (
	ActionTypingOn  SenderAction = "typing_on"
	ActionTypingOff SenderAction = "typing_off"
	ActionMarkSeen  SenderAction = "mark_seen"
)

// Valid reports whether a is one of the actions the Send API accepts
func (a SenderAction) Valid() bool {
	switch a {
	case ActionTypingOn, ActionTypingOff, ActionMarkSeen:
		return true
	}
	return false
}

// ThreadSettings configures the conversation thread of the page. Each
// non-empty field is applied with its own request.
type ThreadSettings struct {
	AccountLinkURL     string
	WhitelistedDomains []string
	GetStartedPayload  string
	GreetingText       string
	MenuButtons        []Button
}

// UserProfile holds the profile fields returned by the Graph API, verbatim
type UserProfile map[string]interface{}

// MessengerGateway defines the interface for the Send/Graph API
type MessengerGateway interface {
	Send(ctx context.Context, userID int64, msg *Message) (string, error)
	SendAction(ctx context.Context, userID int64, action SenderAction) error
	SetThreadSettings(ctx context.Context, settings ThreadSettings) error
	UserProfile(ctx context.Context, userID int64) (UserProfile, error)
}

// AttachmentStore maps hosted attachment ids to local file references
type AttachmentStore interface {
	// Register stores path under id. It reports false, without overwriting,
	// when id is already registered.
	Register(ctx context.Context, id string, path string) (bool, error)
	Lookup(ctx context.Context, id string) (string, error)
}
