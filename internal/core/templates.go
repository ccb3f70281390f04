package core

import "encoding/json"

// Template element and button limits enforced at construction
const (
	MaxTemplateButtons = 3
	MinListElements    = 2
	MaxListElements    = 4
	MinGenericElements = 1
	MaxGenericElements = 10
)

// TemplateType is the template_type of a template payload
type TemplateType string

const (
	TemplateButton  TemplateType = "button"
	TemplateList    TemplateType = "list"
	TemplateGeneric TemplateType = "generic"
)

// Template is one of ButtonTemplate, ListTemplate or GenericTemplate
type Template interface {
	Attachment
	TemplateType() TemplateType
}

func marshalTemplate(payload interface{}) ([]byte, error) {
	return json.Marshal(struct {
		Type    string      `json:"type"`
		Payload interface{} `json:"payload"`
	}{Type: "template", Payload: payload})
}

// ButtonTemplate is a text with up to three buttons under it
type ButtonTemplate struct {
	Text    string
	Buttons []Button
}

// NewButtonTemplate creates a button template
func NewButtonTemplate(text string, buttons ...Button) (*ButtonTemplate, error) {
	if text == "" {
		return nil, invalid("text", "must not be empty")
	}
	if len(buttons) == 0 || len(buttons) > MaxTemplateButtons {
		return nil, invalid("buttons", "button template needs 1 to %d buttons, got %d", MaxTemplateButtons, len(buttons))
	}
	return &ButtonTemplate{Text: text, Buttons: buttons}, nil
}

func (t *ButtonTemplate) AttachmentType() string     { return "template" }
func (t *ButtonTemplate) TemplateType() TemplateType { return TemplateButton }

func (t *ButtonTemplate) MarshalJSON() ([]byte, error) {
	return marshalTemplate(struct {
		TemplateType TemplateType `json:"template_type"`
		Text         string       `json:"text"`
		Buttons      []Button     `json:"buttons"`
	}{TemplateButton, t.Text, t.Buttons})
}

// ListTemplate renders 2 to 4 elements vertically. Unless Compact is set the
// first element is drawn large and must carry an image.
type ListTemplate struct {
	Elements []*Element
	Button   Button
	Compact  bool
}

// NewListTemplate creates a list template; button may be nil
func NewListTemplate(elements []*Element, button Button, compact bool) (*ListTemplate, error) {
	if n := len(elements); n < MinListElements || n > MaxListElements {
		return nil, invalid("elements", "list template needs %d to %d elements, got %d", MinListElements, MaxListElements, n)
	}
	if err := checkElements(elements); err != nil {
		return nil, err
	}
	if isNil(button) {
		button = nil
	}
	if !compact && elements[0].ImageURL == "" {
		return nil, invalid("elements", "large list template requires an image on the first element")
	}
	return &ListTemplate{Elements: elements, Button: button, Compact: compact}, nil
}

func (t *ListTemplate) AttachmentType() string     { return "template" }
func (t *ListTemplate) TemplateType() TemplateType { return TemplateList }

func (t *ListTemplate) MarshalJSON() ([]byte, error) {
	style := "large"
	if t.Compact {
		style = "compact"
	}
	var buttons []Button
	if !isNil(t.Button) {
		buttons = []Button{t.Button}
	}
	return marshalTemplate(struct {
		TemplateType    TemplateType `json:"template_type"`
		Elements        []*Element   `json:"elements"`
		Buttons         []Button     `json:"buttons,omitempty"`
		TopElementStyle string       `json:"top_element_style"`
	}{TemplateList, t.Elements, buttons, style})
}

// GenericTemplate renders 1 to 10 elements as a horizontal carousel
type GenericTemplate struct {
	Elements []*Element
}

// NewGenericTemplate creates a generic template
func NewGenericTemplate(elements ...*Element) (*GenericTemplate, error) {
	if n := len(elements); n < MinGenericElements || n > MaxGenericElements {
		return nil, invalid("elements", "generic template needs %d to %d elements, got %d", MinGenericElements, MaxGenericElements, n)
	}
	if err := checkElements(elements); err != nil {
		return nil, err
	}
	return &GenericTemplate{Elements: elements}, nil
}

func (t *GenericTemplate) AttachmentType() string     { return "template" }
func (t *GenericTemplate) TemplateType() TemplateType { return TemplateGeneric }

func (t *GenericTemplate) MarshalJSON() ([]byte, error) {
	return marshalTemplate(struct {
		TemplateType TemplateType `json:"template_type"`
		Elements     []*Element   `json:"elements"`
	}{TemplateGeneric, t.Elements})
}

func checkElements(elements []*Element) error {
	for _, e := range elements {
		if e == nil {
			return invalid("elements", "nil element")
		}
	}
	return nil
}
