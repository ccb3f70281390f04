package core

// EventType is the registry key for a kind of webhook event
type EventType string

const (
	EventMessageReceived  EventType = "message_received"
	EventMessageDelivered EventType = "message_delivered"
	EventMessageRead      EventType = "message_read"
	EventPostback         EventType = "postback"
	EventReferral         EventType = "referral"
	EventOptIn            EventType = "optin"
	EventAccountLink      EventType = "account_link"
)

// AccountLinkStatus values sent with account_linking events
const (
	AccountLinked   = "linked"
	AccountUnlinked = "unlinked"
)

// Event is one decoded webhook envelope
type Event interface {
	Type() EventType
	Sender() int64
	Time() int64
}

// EventBase holds the fields every event carries. They come from the
// envelope, not from the per-type payload.
type EventBase struct {
	UserID    int64
	Timestamp int64
}

// Sender returns the Messenger ID of the user who triggered the event
func (b EventBase) Sender() int64 { return b.UserID }

// Time returns the event timestamp in milliseconds since epoch
func (b EventBase) Time() int64 { return b.Timestamp }

// MessageReceived is sent when a user messages the page
type MessageReceived struct {
	EventBase
	Text             string
	Attachments      []ReceivedAttachment
	QuickReply       *QuickReplyPayload
	MessageID        string
	SequencePosition int64
}

// MessageDelivered confirms delivery of every message sent before Watermark
type MessageDelivered struct {
	EventBase
	MessageIDs       []string
	Watermark        int64
	SequencePosition int64
}

// MessageRead confirms the user read every message sent before Watermark
type MessageRead struct {
	EventBase
	Watermark        int64
	SequencePosition int64
}

// Postback is sent when a postback button, Get Started button or persistent
// menu item is tapped
type Postback struct {
	EventBase
	Payload  string
	Referral *Referral
}

// Referral is sent when a user follows an m.me link with a ref parameter
type Referral struct {
	EventBase
	Data string
}

// OptIn is sent by the Send to Messenger plugin
type OptIn struct {
	EventBase
	Data string
}

// AccountLink is sent when a user links or unlinks their account.
// AuthorizationCode is empty when Status is unlinked.
type AccountLink struct {
	EventBase
	Status            string
	AuthorizationCode string
}

func (*MessageReceived) Type() EventType  { return EventMessageReceived }
func (*MessageDelivered) Type() EventType { return EventMessageDelivered }
func (*MessageRead) Type() EventType      { return EventMessageRead }
func (*Postback) Type() EventType         { return EventPostback }
func (*Referral) Type() EventType         { return EventReferral }
func (*OptIn) Type() EventType            { return EventOptIn }
func (*AccountLink) Type() EventType      { return EventAccountLink }
