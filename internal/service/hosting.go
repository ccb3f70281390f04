package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/dumu-tech/boomerang/internal/core"
)

// AttachmentRoute is the path under which hosted attachments are served
const AttachmentRoute = "/attachments"

// AttachmentID derives the public id of a file reference
func AttachmentID(path string) string {
	sum := sha256.Sum256([]byte(path))
	return hex.EncodeToString(sum[:])
}

// AttachmentHost publishes local files so the Send API can fetch them
type AttachmentHost struct {
	baseURL string
	store   core.AttachmentStore
	logger  *slog.Logger
}

// NewAttachmentHost creates a host serving files under baseURL. An empty
// baseURL leaves hosting disabled.
func NewAttachmentHost(baseURL string, store core.AttachmentStore, logger *slog.Logger) *AttachmentHost {
	if store == nil {
		store = NewMemoryStore()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AttachmentHost{
		baseURL: strings.TrimRight(baseURL, "/"),
		store:   store,
		logger:  logger,
	}
}

// Host registers path for static serving and returns an attachment that
// points at it. Hosting the same path again returns the same URL.
func (h *AttachmentHost) Host(ctx context.Context, mediaType core.MediaType, path string) (*core.MediaAttachment, error) {
	if h.baseURL == "" {
		return nil, core.ErrBaseURLNotConfigured
	}
	if !mediaType.Valid() {
		return nil, &core.ValidationError{Field: "media_type", Reason: fmt.Sprintf("unknown media type %q", mediaType)}
	}
	if path == "" {
		return nil, &core.ValidationError{Field: "path", Reason: "must not be empty"}
	}

	id := AttachmentID(path)
	created, err := h.store.Register(ctx, id, path)
	if err != nil {
		return nil, err
	}
	if created {
		h.logger.Info("Hosting attachment", "id", id, "path", path)
	}

	return core.NewMediaAttachment(mediaType, h.baseURL+AttachmentRoute+"/"+id)
}

// Resolve returns the local file reference hosted under id
func (h *AttachmentHost) Resolve(ctx context.Context, id string) (string, error) {
	return h.store.Lookup(ctx, id)
}

// MemoryStore is a process-local core.AttachmentStore
type MemoryStore struct {
	paths map[string]string
	mu    sync.RWMutex
}

// NewMemoryStore creates an empty in-memory attachment store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{paths: make(map[string]string)}
}

func (s *MemoryStore) Register(_ context.Context, id string, path string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.paths[id]; exists {
		return false, nil
	}
	s.paths[id] = path
	return true, nil
}

func (s *MemoryStore) Lookup(_ context.Context, id string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path, ok := s.paths[id]
	if !ok {
		return "", fmt.Errorf("attachment %s: %w", id, core.ErrAttachmentNotFound)
	}
	return path, nil
}
