package core

import "encoding/json"

// MediaType is the kind of a media attachment
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaAudio MediaType = "audio"
	MediaVideo MediaType = "video"
	MediaFile  MediaType = "file"
)

// Valid reports whether m is one of the media types the Send API accepts
func (m MediaType) Valid() bool {
	switch m {
	case MediaImage, MediaAudio, MediaVideo, MediaFile:
		return true
	}
	return false
}

// Attachment is anything that can be sent as the attachment of a Message:
// a MediaAttachment or one of the templates.
type Attachment interface {
	json.Marshaler
	AttachmentType() string
}

// ReceivedAttachment is an attachment decoded from a MessageReceived event:
// a *MediaAttachment or a *LocationAttachment.
type ReceivedAttachment interface {
	AttachmentType() string
}

// MediaAttachment points at an image, audio clip, video or file by URL
type MediaAttachment struct {
	MediaType MediaType
	URL       string
}

// NewMediaAttachment creates an outbound media attachment
func NewMediaAttachment(mediaType MediaType, url string) (*MediaAttachment, error) {
	if !mediaType.Valid() {
		return nil, invalid("media_type", "unknown media type %q", mediaType)
	}
	if url == "" {
		return nil, invalid("url", "must not be empty")
	}
	return &MediaAttachment{MediaType: mediaType, URL: url}, nil
}

func (a *MediaAttachment) AttachmentType() string { return string(a.MediaType) }

func (a *MediaAttachment) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    MediaType         `json:"type"`
		Payload map[string]string `json:"payload"`
	}{
		Type:    a.MediaType,
		Payload: map[string]string{"url": a.URL},
	})
}

// LocationAttachment is a shared location. It is only ever received.
type LocationAttachment struct {
	Latitude  float64
	Longitude float64
}

func (a *LocationAttachment) AttachmentType() string { return "location" }

// QuickReplyPayload is the payload of a quick reply the user tapped
type QuickReplyPayload struct {
	Payload string
}
