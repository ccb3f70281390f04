package core

import (
	"encoding/json"
	"reflect"
)

// Message is the unit sent to the Send API. At least one of Text and
// Attachment is set.
type Message struct {
	Text         string
	Attachment   Attachment
	QuickReplies []*QuickReply
	Metadata     string
}

// NewMessage creates a message. Empty text and a nil attachment count as unset.
func NewMessage(text string, attachment Attachment, quickReplies []*QuickReply, metadata string) (*Message, error) {
	if isNil(attachment) {
		attachment = nil
	}
	if text == "" && attachment == nil {
		return nil, invalid("message", "requires either text or an attachment")
	}
	for _, q := range quickReplies {
		if q == nil {
			return nil, invalid("quick_replies", "nil quick reply")
		}
	}
	return &Message{
		Text:         text,
		Attachment:   attachment,
		QuickReplies: quickReplies,
		Metadata:     metadata,
	}, nil
}

// isNil reports whether v is nil or an interface holding a nil pointer
func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// NewTextMessage creates a plain text message
func NewTextMessage(text string) (*Message, error) {
	return NewMessage(text, nil, nil, "")
}

// NewAttachmentMessage creates a message carrying only an attachment
func NewAttachmentMessage(attachment Attachment) (*Message, error) {
	return NewMessage("", attachment, nil, "")
}

func (m *Message) MarshalJSON() ([]byte, error) {
	attachment := m.Attachment
	if isNil(attachment) {
		attachment = nil
	}
	return json.Marshal(struct {
		Text         string        `json:"text,omitempty"`
		Attachment   Attachment    `json:"attachment,omitempty"`
		QuickReplies []*QuickReply `json:"quick_replies,omitempty"`
		Metadata     string        `json:"metadata,omitempty"`
	}{m.Text, attachment, m.QuickReplies, m.Metadata})
}
