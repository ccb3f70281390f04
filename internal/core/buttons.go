package core

import (
	"encoding/json"
	"unicode/utf8"
)

// MaxButtonTitle is the longest title the platform renders on a button
const MaxButtonTitle = 20

// ButtonType is the wire tag of a button
type ButtonType string

const (
	ButtonTypeURL      ButtonType = "web_url"
	ButtonTypePostback ButtonType = "postback"
	ButtonTypeCall     ButtonType = "phone_number"
	ButtonTypeShare    ButtonType = "element_share"
)

// Button is one of URLButton, PostbackButton, CallButton or ShareButton.
type Button interface {
	json.Marshaler
	Type() ButtonType
}

// URLButton opens a URL when pressed
type URLButton struct {
	Title string
	URL   string
}

// PostbackButton sends a postback event carrying Payload
type PostbackButton struct {
	Title   string
	Payload string
}

// CallButton dials PhoneNumber
type CallButton struct {
	Title       string
	PhoneNumber string
}

// ShareButton opens the share dialog for the enclosing element
type ShareButton struct{}

func validateTitle(title string) error {
	if title == "" {
		return invalid("title", "must not be empty")
	}
	if n := utf8.RuneCountInString(title); n > MaxButtonTitle {
		return invalid("title", "%d characters exceeds limit of %d", n, MaxButtonTitle)
	}
	return nil
}

// NewURLButton creates a web_url button
func NewURLButton(title, url string) (*URLButton, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if url == "" {
		return nil, invalid("url", "must not be empty")
	}
	return &URLButton{Title: title, URL: url}, nil
}

// NewPostbackButton creates a postback button
func NewPostbackButton(title, payload string) (*PostbackButton, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if payload == "" {
		return nil, invalid("payload", "must not be empty")
	}
	return &PostbackButton{Title: title, Payload: payload}, nil
}

// NewCallButton creates a phone_number button
func NewCallButton(title, phoneNumber string) (*CallButton, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if phoneNumber == "" {
		return nil, invalid("phone_number", "must not be empty")
	}
	return &CallButton{Title: title, PhoneNumber: phoneNumber}, nil
}

// NewShareButton creates an element_share button
func NewShareButton() *ShareButton {
	return &ShareButton{}
}

func (b *URLButton) Type() ButtonType      { return ButtonTypeURL }
func (b *PostbackButton) Type() ButtonType { return ButtonTypePostback }
func (b *CallButton) Type() ButtonType     { return ButtonTypeCall }
func (b *ShareButton) Type() ButtonType    { return ButtonTypeShare }

type titledButtonJSON struct {
	Type    ButtonType `json:"type"`
	Title   string     `json:"title"`
	URL     string     `json:"url,omitempty"`
	Payload string     `json:"payload,omitempty"`
}

func (b *URLButton) MarshalJSON() ([]byte, error) {
	return json.Marshal(titledButtonJSON{Type: ButtonTypeURL, Title: b.Title, URL: b.URL})
}

func (b *PostbackButton) MarshalJSON() ([]byte, error) {
	return json.Marshal(titledButtonJSON{Type: ButtonTypePostback, Title: b.Title, Payload: b.Payload})
}

func (b *CallButton) MarshalJSON() ([]byte, error) {
	return json.Marshal(titledButtonJSON{Type: ButtonTypeCall, Title: b.Title, Payload: b.PhoneNumber})
}

func (b *ShareButton) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]ButtonType{"type": ButtonTypeShare})
}

// QuickReplyType is the content_type of a quick reply
type QuickReplyType string

const (
	QuickReplyText     QuickReplyType = "text"
	QuickReplyLocation QuickReplyType = "location"
)

// QuickReply is a button shown above the composer. Text quick replies carry
// a title and payload; location quick replies carry nothing.
type QuickReply struct {
	ContentType QuickReplyType
	Title       string
	Payload     string
	ImageURL    string
}

// NewQuickReply validates the shape of a quick reply for its content type.
// Empty strings are treated as unset.
func NewQuickReply(contentType QuickReplyType, title, payload, imageURL string) (*QuickReply, error) {
	switch contentType {
	case QuickReplyText:
		if err := validateTitle(title); err != nil {
			return nil, err
		}
		if payload == "" {
			return nil, invalid("payload", "text quick reply requires a payload")
		}
	case QuickReplyLocation:
		if title != "" || payload != "" || imageURL != "" {
			return nil, invalid("content_type", "location quick reply takes no title, payload or image")
		}
	default:
		return nil, invalid("content_type", "unknown quick reply type %q", contentType)
	}

	return &QuickReply{
		ContentType: contentType,
		Title:       title,
		Payload:     payload,
		ImageURL:    imageURL,
	}, nil
}

// NewTextQuickReply creates a text quick reply; imageURL may be empty
func NewTextQuickReply(title, payload, imageURL string) (*QuickReply, error) {
	return NewQuickReply(QuickReplyText, title, payload, imageURL)
}

// NewLocationQuickReply creates a quick reply asking for the user's location
func NewLocationQuickReply() *QuickReply {
	return &QuickReply{ContentType: QuickReplyLocation}
}

func (q *QuickReply) MarshalJSON() ([]byte, error) {
	out := struct {
		ContentType QuickReplyType `json:"content_type"`
		Title       string         `json:"title,omitempty"`
		Payload     string         `json:"payload,omitempty"`
		ImageURL    string         `json:"image_url,omitempty"`
	}{ContentType: q.ContentType}

	if q.ContentType == QuickReplyText {
		out.Title = q.Title
		out.Payload = q.Payload
		out.ImageURL = q.ImageURL
	}
	return json.Marshal(out)
}
