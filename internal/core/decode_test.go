package core

import (
	"errors"
	"testing"
)

const (
	testUserID    int64 = 12345
	testTimestamp int64 = 1234567890
)

func decode(t *testing.T, eventType EventType, payload string) Event {
	t.Helper()

	event, err := DecodeEvent(eventType, testUserID, testTimestamp, []byte(payload))
	if err != nil {
		t.Fatalf("decode %s: %v", eventType, err)
	}
	if event.Type() != eventType {
		t.Fatalf("event type = %s, want %s", event.Type(), eventType)
	}
	if event.Sender() != testUserID || event.Time() != testTimestamp {
		t.Fatalf("event origin = (%d, %d), want (%d, %d)", event.Sender(), event.Time(), testUserID, testTimestamp)
	}
	return event
}

func TestDecodeMessageReceived(t *testing.T) {
	msg, err := DecodeMessageReceived(testUserID, testTimestamp, []byte(`{"mid": "m1", "seq": 5, "text": "hi"}`))
	if err != nil {
		t.Fatal(err)
	}

	if msg.Text != "hi" {
		t.Errorf("text = %q, want hi", msg.Text)
	}
	if msg.MessageID != "m1" {
		t.Errorf("message id = %q, want m1", msg.MessageID)
	}
	if msg.SequencePosition != 5 {
		t.Errorf("sequence position = %d, want 5", msg.SequencePosition)
	}
	if msg.Attachments == nil || len(msg.Attachments) != 0 {
		t.Errorf("attachments = %#v, want empty list", msg.Attachments)
	}
	if msg.QuickReply != nil {
		t.Errorf("quick reply = %#v, want nil", msg.QuickReply)
	}
	if msg.UserID != testUserID || msg.Timestamp != testTimestamp {
		t.Errorf("origin = (%d, %d)", msg.UserID, msg.Timestamp)
	}
}

func TestDecodeMessageReceivedWithAttachments(t *testing.T) {
	payload := `{
		"attachments": [
			{"payload": {"url": "http://www.google.com"}, "type": "image"},
			{"title": "Someones's Location", "type": "location", "url": "dummy_url",
			 "payload": {"coordinates": {"long": 38.8976763, "lat": -77.0387185}}}
		],
		"mid": "mid.1482375360960:63e41d7f60",
		"seq": 426187
	}`

	msg := decode(t, EventMessageReceived, payload).(*MessageReceived)
	if msg.Text != "" {
		t.Errorf("text = %q, want empty", msg.Text)
	}
	if len(msg.Attachments) != 2 {
		t.Fatalf("expected 2 attachments, got %d", len(msg.Attachments))
	}

	media, ok := msg.Attachments[0].(*MediaAttachment)
	if !ok {
		t.Fatalf("first attachment is %T, want *MediaAttachment", msg.Attachments[0])
	}
	if media.MediaType != MediaImage || media.URL != "http://www.google.com" {
		t.Errorf("media attachment = %#v", media)
	}

	location, ok := msg.Attachments[1].(*LocationAttachment)
	if !ok {
		t.Fatalf("second attachment is %T, want *LocationAttachment", msg.Attachments[1])
	}
	if location.Latitude != -77.0387185 || location.Longitude != 38.8976763 {
		t.Errorf("location = (%v, %v)", location.Latitude, location.Longitude)
	}
}

func TestDecodeMessageReceivedWithQuickReply(t *testing.T) {
	payload := `{"mid": "mid.1457764197618:41d102a3e1ae206a38", "seq": 12345, "text": "dummy_text",
		"quick_reply": {"payload": "dummy_payload"}}`

	msg := decode(t, EventMessageReceived, payload).(*MessageReceived)
	if msg.QuickReply == nil || msg.QuickReply.Payload != "dummy_payload" {
		t.Fatalf("quick reply = %#v", msg.QuickReply)
	}
}

func TestDecodeMessageReceivedMissingFields(t *testing.T) {
	tests := []struct {
		payload string
		field   string
	}{
		{`{"seq": 1, "text": "hi"}`, "mid"},
		{`{"mid": "m1", "text": "hi"}`, "seq"},
		{`{"mid": "m1", "seq": 1, "attachments": [{"type": "image", "payload": {}}]}`, "payload.url"},
		{`{"mid": "m1", "seq": 1, "attachments": [{"type": "location", "payload": {"coordinates": {"lat": 1}}}]}`, "payload.coordinates.long"},
		{`{"mid": "m1", "seq": 1, "quick_reply": {}}`, "payload"},
	}

	for _, tt := range tests {
		_, err := DecodeEvent(EventMessageReceived, testUserID, testTimestamp, []byte(tt.payload))
		if !errors.Is(err, ErrMissingField) {
			t.Errorf("%s: expected ErrMissingField, got %v", tt.payload, err)
			continue
		}
		var derr *DecodeError
		if !errors.As(err, &derr) || derr.Field != tt.field {
			t.Errorf("%s: expected missing %s, got %v", tt.payload, tt.field, err)
		}
	}
}

func TestDecodeMessageDelivered(t *testing.T) {
	delivered := decode(t, EventMessageDelivered, `{
		"mids": ["mid.1458668856218:ed81099e15d3f4f233", "mid.1458668856218:ed81099e15d3f4f234"],
		"watermark": 1111111111,
		"seq": 30
	}`).(*MessageDelivered)

	if delivered.Watermark != 1111111111 || delivered.SequencePosition != 30 {
		t.Errorf("delivered = %#v", delivered)
	}
	if len(delivered.MessageIDs) != 2 || delivered.MessageIDs[0] != "mid.1458668856218:ed81099e15d3f4f233" {
		t.Errorf("message ids = %v", delivered.MessageIDs)
	}

	empty := decode(t, EventMessageDelivered, `{"watermark": 1111111111, "seq": 30}`).(*MessageDelivered)
	if empty.MessageIDs == nil || len(empty.MessageIDs) != 0 {
		t.Errorf("message ids = %#v, want empty list", empty.MessageIDs)
	}

	if _, err := DecodeEvent(EventMessageDelivered, 1, 1, []byte(`{"seq": 30}`)); !errors.Is(err, ErrMissingField) {
		t.Errorf("expected missing watermark, got %v", err)
	}
}

func TestDecodeMessageRead(t *testing.T) {
	read := decode(t, EventMessageRead, `{"watermark": 1111111111, "seq": 30}`).(*MessageRead)
	if read.Watermark != 1111111111 || read.SequencePosition != 30 {
		t.Errorf("read = %#v", read)
	}

	if _, err := DecodeEvent(EventMessageRead, 1, 1, []byte(`{"watermark": 1}`)); !errors.Is(err, ErrMissingField) {
		t.Errorf("expected missing seq, got %v", err)
	}
}

func TestDecodePostback(t *testing.T) {
	postback := decode(t, EventPostback, `{"payload": "dummy_payload"}`).(*Postback)
	if postback.Payload != "dummy_payload" || postback.Referral != nil {
		t.Errorf("postback = %#v", postback)
	}

	withReferral := decode(t, EventPostback, `{"payload": "dummy_payload",
		"referral": {"ref": "dummy_referral_data", "source": "SHORTLINK", "type": "OPEN_THREAD"}}`).(*Postback)
	if withReferral.Referral == nil || withReferral.Referral.Data != "dummy_referral_data" {
		t.Fatalf("referral = %#v", withReferral.Referral)
	}
	if withReferral.Referral.UserID != testUserID {
		t.Errorf("referral user id = %d", withReferral.Referral.UserID)
	}
}

func TestDecodeReferralAndOptIn(t *testing.T) {
	referral := decode(t, EventReferral, `{"ref": "dummy_referral_data", "source": "SHORTLINK", "type": "OPEN_THREAD"}`).(*Referral)
	if referral.Data != "dummy_referral_data" {
		t.Errorf("referral data = %q", referral.Data)
	}

	optIn := decode(t, EventOptIn, `{"ref": "dummy_data"}`).(*OptIn)
	if optIn.Data != "dummy_data" {
		t.Errorf("opt in data = %q", optIn.Data)
	}

	if _, err := DecodeEvent(EventOptIn, 1, 1, []byte(`{}`)); !errors.Is(err, ErrMissingField) {
		t.Errorf("expected missing ref, got %v", err)
	}
}

func TestDecodeAccountLink(t *testing.T) {
	unlinked := decode(t, EventAccountLink, `{"status": "unlinked"}`).(*AccountLink)
	if unlinked.Status != AccountUnlinked || unlinked.AuthorizationCode != "" {
		t.Errorf("unlinked = %#v", unlinked)
	}

	linked := decode(t, EventAccountLink, `{"status": "linked", "authorization_code": "X"}`).(*AccountLink)
	if linked.Status != AccountLinked || linked.AuthorizationCode != "X" {
		t.Errorf("linked = %#v", linked)
	}

	if _, err := DecodeEvent(EventAccountLink, 1, 1, []byte(`{"status": "linked"}`)); !errors.Is(err, ErrMissingField) {
		t.Errorf("expected missing authorization_code, got %v", err)
	}
}

func TestDecodeAttachments(t *testing.T) {
	media, err := DecodeMediaAttachment([]byte(`{"payload": {"url": "http://www.google.com"}, "type": "image"}`))
	if err != nil {
		t.Fatal(err)
	}
	if media.MediaType != MediaImage || media.URL != "http://www.google.com" {
		t.Errorf("media = %#v", media)
	}

	location, err := DecodeLocationAttachment([]byte(`{"type": "location",
		"payload": {"coordinates": {"long": 38.8976763, "lat": -77.0387185}}}`))
	if err != nil {
		t.Fatal(err)
	}
	if location.Latitude != -77.0387185 || location.Longitude != 38.8976763 {
		t.Errorf("location = %#v", location)
	}

	quickReply, err := DecodeQuickReplyPayload([]byte(`{"payload": "dummy_payload"}`))
	if err != nil {
		t.Fatal(err)
	}
	if quickReply.Payload != "dummy_payload" {
		t.Errorf("quick reply = %#v", quickReply)
	}
}

func TestDecodeMalformedPayload(t *testing.T) {
	for _, raw := range []string{``, `not json`, `[1, 2]`, `"text"`} {
		_, err := DecodeEvent(EventMessageReceived, 1, 1, []byte(raw))
		if !errors.Is(err, ErrMalformedPayload) {
			t.Errorf("%q: expected ErrMalformedPayload, got %v", raw, err)
		}
	}

	if _, err := DecodeEvent(EventType("unknown"), 1, 1, []byte(`{}`)); err == nil {
		t.Error("expected unknown event type to fail")
	}
}
