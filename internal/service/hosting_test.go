package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dumu-tech/boomerang/internal/core"
)

func TestAttachmentHost(t *testing.T) {
	host := NewAttachmentHost("https://bot.example.com/", nil, discardLogger)
	ctx := context.Background()

	a, err := host.Host(ctx, core.MediaImage, "/srv/media/cat.png")
	if err != nil {
		t.Fatal(err)
	}
	want := "https://bot.example.com/attachments/" + AttachmentID("/srv/media/cat.png")
	if a.URL != want || a.MediaType != core.MediaImage {
		t.Fatalf("attachment = %#v, want url %s", a, want)
	}

	again, err := host.Host(ctx, core.MediaFile, "/srv/media/cat.png")
	if err != nil {
		t.Fatal(err)
	}
	if again.URL != a.URL {
		t.Fatalf("hosting the same path twice gave %s and %s", a.URL, again.URL)
	}

	path, err := host.Resolve(ctx, AttachmentID("/srv/media/cat.png"))
	if err != nil || path != "/srv/media/cat.png" {
		t.Fatalf("resolve = %q, %v", path, err)
	}
	if _, err := host.Resolve(ctx, "unknown"); !errors.Is(err, core.ErrAttachmentNotFound) {
		t.Fatalf("expected ErrAttachmentNotFound, got %v", err)
	}
}

func TestAttachmentHostValidation(t *testing.T) {
	ctx := context.Background()

	if _, err := NewAttachmentHost("", nil, discardLogger).Host(ctx, core.MediaImage, "/a.png"); !errors.Is(err, core.ErrBaseURLNotConfigured) {
		t.Fatalf("expected ErrBaseURLNotConfigured, got %v", err)
	}

	host := NewAttachmentHost("https://bot.example.com", nil, discardLogger)
	var verr *core.ValidationError
	if _, err := host.Host(ctx, core.MediaType("gif"), "/a.gif"); !errors.As(err, &verr) || verr.Field != "media_type" {
		t.Fatalf("expected media_type validation error, got %v", err)
	}
	if _, err := host.Host(ctx, core.MediaImage, ""); !errors.As(err, &verr) || verr.Field != "path" {
		t.Fatalf("expected path validation error, got %v", err)
	}
}

func TestAttachmentID(t *testing.T) {
	id := AttachmentID("/srv/media/cat.png")
	if len(id) != 64 || strings.Trim(id, "0123456789abcdef") != "" {
		t.Fatalf("id %q is not a hex sha256 digest", id)
	}
	if id == AttachmentID("/srv/media/dog.png") {
		t.Fatal("different paths share an id")
	}
}
