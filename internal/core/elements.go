package core

import "encoding/json"

// DefaultAction is the URL opened when an element itself is tapped
type DefaultAction struct {
	URL string
}

// NewDefaultAction creates a web_url default action
func NewDefaultAction(url string) (*DefaultAction, error) {
	if url == "" {
		return nil, invalid("default_action.url", "must not be empty")
	}
	return &DefaultAction{URL: url}, nil
}

func (d *DefaultAction) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type ButtonType `json:"type"`
		URL  string     `json:"url"`
	}{Type: ButtonTypeURL, URL: d.URL})
}

// Element is one item of a list or generic template
type Element struct {
	Title         string
	Subtitle      string
	ImageURL      string
	DefaultAction *DefaultAction
	Buttons       []Button
}

// NewElement creates an element with the given title. Optional fields are
// set directly on the returned value.
func NewElement(title string) (*Element, error) {
	if title == "" {
		return nil, invalid("element.title", "must not be empty")
	}
	return &Element{Title: title}, nil
}

func (e *Element) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Title         string         `json:"title"`
		Subtitle      string         `json:"subtitle,omitempty"`
		ImageURL      string         `json:"image_url,omitempty"`
		DefaultAction *DefaultAction `json:"default_action,omitempty"`
		Buttons       []Button       `json:"buttons,omitempty"`
	}{
		Title:         e.Title,
		Subtitle:      e.Subtitle,
		ImageURL:      e.ImageURL,
		DefaultAction: e.DefaultAction,
		Buttons:       e.Buttons,
	})
}
