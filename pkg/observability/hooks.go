// Package observability provides hooks for metrics, tracing, and diagnostics.
//
// Rendering never fails loudly: a malformed payload or a rejected plot
// expression is reported out of band and the diagram is silently omitted.
// The hooks in this package are that out-of-band channel. Consumers register
// implementations at startup; libraries emit events through the registry.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetRenderHooks(&myRenderHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Render().OnBlockRender(ctx, "plot-force", duration, err)
//	observability.Render().OnDiagnostic(ctx, "plot-function", err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events from document and diagram rendering.
type RenderHooks interface {
	// Document events
	OnDocumentStart(ctx context.Context, size int)
	OnDocumentComplete(ctx context.Context, blocks int, duration time.Duration, err error)

	// OnBlockRender records one dispatched fenced block. kind is the block
	// kind name ("plain", "plot-function", "plot-force").
	OnBlockRender(ctx context.Context, kind string, duration time.Duration, err error)

	// OnPlotDraw records one invocation of the external plotting engine.
	OnPlotDraw(ctx context.Context, duration time.Duration, err error)

	// OnDiagnostic records a recovered failure that suppressed a diagram.
	OnDiagnostic(ctx context.Context, kind string, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from memo cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit. keyType is "document" or "block".
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnDocumentStart(context.Context, int)                          {}
func (NoopRenderHooks) OnDocumentComplete(context.Context, int, time.Duration, error) {}
func (NoopRenderHooks) OnBlockRender(context.Context, string, time.Duration, error)   {}
func (NoopRenderHooks) OnPlotDraw(context.Context, time.Duration, error)              {}
func (NoopRenderHooks) OnDiagnostic(context.Context, string, error)                   {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	renderHooks RenderHooks = NoopRenderHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	hooksMu     sync.RWMutex
)

// SetRenderHooks registers custom render hooks.
// This should be called once at application startup before any rendering.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	renderHooks = NoopRenderHooks{}
	cacheHooks = NoopCacheHooks{}
}
