package services

import (
	"sync"

	"github.com/google/uuid"
)

// BlobRegistry hands out transient reference URIs for in-memory image bytes,
// the server-side counterpart of object URLs. A reference is only valid for
// the lifetime of the process and of the UI scope that created it.
//
// Every reference belongs to a scope (list view, edit view, ...). Releasing
// the scope revokes all references created under it, no matter how many call
// sites created them; unreleased blobs pile up in process memory, which is
// the correctness concern here, not lookup speed.
type BlobRegistry struct {
	mu     sync.Mutex
	blobs  map[string]blobEntry
	scopes map[string][]string
}

type blobEntry struct {
	data     []byte
	mimeType string
}

func NewBlobRegistry() *BlobRegistry {
	return &BlobRegistry{
		blobs:  make(map[string]blobEntry),
		scopes: make(map[string][]string),
	}
}

// Add stores the bytes under a fresh id bound to the given scope and returns
// the transient reference URI for it.
func (r *BlobRegistry) Add(scope string, data []byte, mimeType string) string {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	id := uuid.New().String()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.blobs[id] = blobEntry{data: data, mimeType: mimeType}
	r.scopes[scope] = append(r.scopes[scope], id)

	return "/blobs/" + id
}

// Get resolves a blob id to its bytes and mime type
func (r *BlobRegistry) Get(id string) ([]byte, string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.blobs[id]
	if !ok {
		return nil, "", false
	}
	return entry.data, entry.mimeType, true
}

// Release revokes a single reference
func (r *BlobRegistry) Release(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.blobs, id)
}

// ReleaseScope revokes every reference created under the scope. Called on
// scope teardown: closing an edit view, refiltering the visible set, or
// navigating away.
func (r *BlobRegistry) ReleaseScope(scope string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.scopes[scope] {
		delete(r.blobs, id)
	}
	delete(r.scopes, scope)
}

// Len reports how many blobs are currently held
func (r *BlobRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.blobs)
}
