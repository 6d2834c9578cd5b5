// Package cache provides the memo storage behind document rendering.
//
// The document renderer memoizes at two levels: whole documents keyed by a
// hash of their source, and individual diagram blocks keyed by their tag,
// content and occurrence. Both levels go through the [Cache] interface so
// that memoization can be switched off with [NewNullCache] without touching
// the renderer.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque rendered bytes under string keys.
type Cache interface {
	// Get returns the stored value and whether it was found.
	// A stored empty value is a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Memo lifetimes. Rendered output depends only on its key, so entries
// never go stale; the TTLs only bound memory in long-running processes.
const (
	TTLDocument = 0
	TTLBlock    = 0
)

// Keyer builds cache keys for the render pipeline.
type Keyer interface {
	// DocumentKey keys a fully rendered document.
	DocumentKey(sourceHash string, opts DocumentKeyOpts) string

	// BlockKey keys one rendered fenced block. occurrence is the index of
	// this block among identical (tag, content) blocks in the same document.
	BlockKey(tag, content string, occurrence int) string
}

// DocumentKeyOpts holds the render options that change document output.
type DocumentKeyOpts struct {
	Standalone bool   `json:"standalone,omitempty"`
	Title      string `json:"title,omitempty"`
	Stylesheet string `json:"stylesheet,omitempty"`
	MathJax    bool   `json:"mathjax,omitempty"`
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// DocumentKey returns "doc:<sha256>" over the source hash and options.
func (DefaultKeyer) DocumentKey(sourceHash string, opts DocumentKeyOpts) string {
	return hashKey("doc", sourceHash, opts)
}

// BlockKey returns "block:<sha256>" over tag, content and occurrence.
func (DefaultKeyer) BlockKey(tag, content string, occurrence int) string {
	return hashKey("block", tag, content, occurrence)
}
