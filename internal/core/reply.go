package core

import "fmt"

// Reply is a value a handler can return to answer the user who triggered an
// event. The set of implementations is closed: Text, *Message,
// *MediaAttachment, *ButtonTemplate, *ListTemplate, *GenericTemplate and
// Replies.
type Reply interface {
	messages() ([]*Message, error)
}

// Text is a reply sent as a plain text message
type Text string

// Replies sends each of its values independently, in order
type Replies []Reply

func (t Text) messages() ([]*Message, error) {
	m, err := NewTextMessage(string(t))
	if err != nil {
		return nil, err
	}
	return []*Message{m}, nil
}

func (m *Message) messages() ([]*Message, error) {
	if m == nil {
		return nil, nil
	}
	if m.Text == "" && isNil(m.Attachment) {
		return nil, invalid("message", "requires either text or an attachment")
	}
	for i, q := range m.QuickReplies {
		if q == nil {
			return nil, invalid("quick_replies", "nil quick reply at %d", i)
		}
	}
	return []*Message{m}, nil
}

func attachmentMessages(a Attachment) ([]*Message, error) {
	m, err := NewAttachmentMessage(a)
	if err != nil {
		return nil, err
	}
	return []*Message{m}, nil
}

func (a *MediaAttachment) messages() ([]*Message, error) {
	if a == nil {
		return nil, nil
	}
	return attachmentMessages(a)
}

func (t *ButtonTemplate) messages() ([]*Message, error) {
	if t == nil {
		return nil, nil
	}
	return attachmentMessages(t)
}

func (t *ListTemplate) messages() ([]*Message, error) {
	if t == nil {
		return nil, nil
	}
	return attachmentMessages(t)
}

func (t *GenericTemplate) messages() ([]*Message, error) {
	if t == nil {
		return nil, nil
	}
	return attachmentMessages(t)
}

func (r Replies) messages() ([]*Message, error) {
	var out []*Message
	for i, reply := range r {
		msgs, err := NormalizeReply(reply)
		if err != nil {
			return nil, fmt.Errorf("reply %d: %w", i, err)
		}
		out = append(out, msgs...)
	}
	return out, nil
}

// NormalizeReply turns a handler's reply into the messages to send, in
// order. A nil reply yields no messages.
func NormalizeReply(r Reply) ([]*Message, error) {
	if r == nil {
		return nil, nil
	}
	return r.messages()
}
