package core

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// EnvelopeKey maps a key of a webhook messaging envelope to the event it carries
type EnvelopeKey struct {
	Key  string
	Type EventType
}

// EnvelopeKeys lists the recognised envelope keys in probe order. An envelope
// carries at most one of them; the first present key wins.
var EnvelopeKeys = []EnvelopeKey{
	{"message", EventMessageReceived},
	{"delivery", EventMessageDelivered},
	{"read", EventMessageRead},
	{"postback", EventPostback},
	{"referral", EventReferral},
	{"optin", EventOptIn},
	{"account_linking", EventAccountLink},
}

func parseObject(raw []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(raw) {
		return gjson.Result{}, &DecodeError{Field: "payload", Err: ErrMalformedPayload}
	}
	obj := gjson.ParseBytes(raw)
	if !obj.IsObject() {
		return gjson.Result{}, &DecodeError{Field: "payload", Err: ErrMalformedPayload}
	}
	return obj, nil
}

func required(obj gjson.Result, path string) (gjson.Result, error) {
	v := obj.Get(path)
	if !v.Exists() || v.Type == gjson.Null {
		return v, missing(path)
	}
	return v, nil
}

// DecodeEvent decodes the per-type payload of an envelope. userID and
// timestamp are taken from the envelope by the caller.
func DecodeEvent(eventType EventType, userID, timestamp int64, raw []byte) (Event, error) {
	obj, err := parseObject(raw)
	if err != nil {
		return nil, err
	}
	return decodeEvent(eventType, EventBase{UserID: userID, Timestamp: timestamp}, obj)
}

// DecodeEventResult is DecodeEvent for a payload already parsed by gjson
func DecodeEventResult(eventType EventType, userID, timestamp int64, obj gjson.Result) (Event, error) {
	if !obj.IsObject() {
		return nil, &DecodeError{Field: "payload", Err: ErrMalformedPayload}
	}
	return decodeEvent(eventType, EventBase{UserID: userID, Timestamp: timestamp}, obj)
}

func decodeEvent(eventType EventType, base EventBase, obj gjson.Result) (Event, error) {
	switch eventType {
	case EventMessageReceived:
		return decodeMessageReceived(base, obj)
	case EventMessageDelivered:
		return decodeMessageDelivered(base, obj)
	case EventMessageRead:
		return decodeMessageRead(base, obj)
	case EventPostback:
		return decodePostback(base, obj)
	case EventReferral:
		return decodeReferral(base, obj)
	case EventOptIn:
		return decodeOptIn(base, obj)
	case EventAccountLink:
		return decodeAccountLink(base, obj)
	}
	return nil, fmt.Errorf("decode: unknown event type %q", eventType)
}

// DecodeMessageReceived decodes the payload under an envelope's "message" key
func DecodeMessageReceived(userID, timestamp int64, raw []byte) (*MessageReceived, error) {
	obj, err := parseObject(raw)
	if err != nil {
		return nil, err
	}
	return decodeMessageReceived(EventBase{userID, timestamp}, obj)
}

func decodeMessageReceived(base EventBase, obj gjson.Result) (*MessageReceived, error) {
	mid, err := required(obj, "mid")
	if err != nil {
		return nil, err
	}
	seq, err := required(obj, "seq")
	if err != nil {
		return nil, err
	}

	attachments := []ReceivedAttachment{}
	for _, a := range obj.Get("attachments").Array() {
		var (
			att ReceivedAttachment
			err error
		)
		if a.Get("type").String() == "location" {
			att, err = decodeLocationAttachment(a)
		} else {
			att, err = decodeMediaAttachment(a)
		}
		if err != nil {
			return nil, fmt.Errorf("attachments: %w", err)
		}
		attachments = append(attachments, att)
	}

	var quickReply *QuickReplyPayload
	if qr := obj.Get("quick_reply"); qr.Exists() {
		quickReply, err = decodeQuickReplyPayload(qr)
		if err != nil {
			return nil, fmt.Errorf("quick_reply: %w", err)
		}
	}

	return &MessageReceived{
		EventBase:        base,
		Text:             obj.Get("text").String(),
		Attachments:      attachments,
		QuickReply:       quickReply,
		MessageID:        mid.String(),
		SequencePosition: seq.Int(),
	}, nil
}

// DecodeMediaAttachment decodes one entry of a message's attachments list
func DecodeMediaAttachment(raw []byte) (*MediaAttachment, error) {
	obj, err := parseObject(raw)
	if err != nil {
		return nil, err
	}
	return decodeMediaAttachment(obj)
}

func decodeMediaAttachment(obj gjson.Result) (*MediaAttachment, error) {
	typ, err := required(obj, "type")
	if err != nil {
		return nil, err
	}
	url, err := required(obj, "payload.url")
	if err != nil {
		return nil, err
	}
	return &MediaAttachment{MediaType: MediaType(typ.String()), URL: url.String()}, nil
}

// DecodeLocationAttachment decodes a location entry of a message's attachments list
func DecodeLocationAttachment(raw []byte) (*LocationAttachment, error) {
	obj, err := parseObject(raw)
	if err != nil {
		return nil, err
	}
	return decodeLocationAttachment(obj)
}

func decodeLocationAttachment(obj gjson.Result) (*LocationAttachment, error) {
	lat, err := required(obj, "payload.coordinates.lat")
	if err != nil {
		return nil, err
	}
	long, err := required(obj, "payload.coordinates.long")
	if err != nil {
		return nil, err
	}
	return &LocationAttachment{Latitude: lat.Float(), Longitude: long.Float()}, nil
}

// DecodeQuickReplyPayload decodes the quick_reply object of a received message
func DecodeQuickReplyPayload(raw []byte) (*QuickReplyPayload, error) {
	obj, err := parseObject(raw)
	if err != nil {
		return nil, err
	}
	return decodeQuickReplyPayload(obj)
}

func decodeQuickReplyPayload(obj gjson.Result) (*QuickReplyPayload, error) {
	payload, err := required(obj, "payload")
	if err != nil {
		return nil, err
	}
	return &QuickReplyPayload{Payload: payload.String()}, nil
}

func decodeMessageDelivered(base EventBase, obj gjson.Result) (*MessageDelivered, error) {
	watermark, err := required(obj, "watermark")
	if err != nil {
		return nil, err
	}
	seq, err := required(obj, "seq")
	if err != nil {
		return nil, err
	}

	mids := []string{}
	for _, mid := range obj.Get("mids").Array() {
		mids = append(mids, mid.String())
	}

	return &MessageDelivered{
		EventBase:        base,
		MessageIDs:       mids,
		Watermark:        watermark.Int(),
		SequencePosition: seq.Int(),
	}, nil
}

func decodeMessageRead(base EventBase, obj gjson.Result) (*MessageRead, error) {
	watermark, err := required(obj, "watermark")
	if err != nil {
		return nil, err
	}
	seq, err := required(obj, "seq")
	if err != nil {
		return nil, err
	}
	return &MessageRead{EventBase: base, Watermark: watermark.Int(), SequencePosition: seq.Int()}, nil
}

func decodePostback(base EventBase, obj gjson.Result) (*Postback, error) {
	payload, err := required(obj, "payload")
	if err != nil {
		return nil, err
	}

	var referral *Referral
	if ref := obj.Get("referral"); ref.Exists() {
		referral, err = decodeReferral(base, ref)
		if err != nil {
			return nil, fmt.Errorf("referral: %w", err)
		}
	}

	return &Postback{EventBase: base, Payload: payload.String(), Referral: referral}, nil
}

func decodeReferral(base EventBase, obj gjson.Result) (*Referral, error) {
	ref, err := required(obj, "ref")
	if err != nil {
		return nil, err
	}
	return &Referral{EventBase: base, Data: ref.String()}, nil
}

func decodeOptIn(base EventBase, obj gjson.Result) (*OptIn, error) {
	ref, err := required(obj, "ref")
	if err != nil {
		return nil, err
	}
	return &OptIn{EventBase: base, Data: ref.String()}, nil
}

func decodeAccountLink(base EventBase, obj gjson.Result) (*AccountLink, error) {
	status, err := required(obj, "status")
	if err != nil {
		return nil, err
	}

	link := &AccountLink{EventBase: base, Status: status.String()}
	if link.Status != AccountUnlinked {
		code, err := required(obj, "authorization_code")
		if err != nil {
			return nil, err
		}
		link.AuthorizationCode = code.String()
	}
	return link, nil
}
