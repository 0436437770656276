// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about import runs and artifact I/O.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so the engine packages
// never import a metrics backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetIOHooks(&myIOHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnRuleStart(ctx, runID, rule.Name())
//	err := rule.Apply(g, rep)
//	observability.Pipeline().OnRuleComplete(ctx, runID, rule.Name(), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from rewrite runs.
type PipelineHooks interface {
	// Run events
	OnRunStart(ctx context.Context, runID, project string, rules int)
	OnRunComplete(ctx context.Context, runID string, duration time.Duration, err error)

	// Rule events
	OnRuleStart(ctx context.Context, runID, rule string)
	OnRuleComplete(ctx context.Context, runID, rule string, duration time.Duration, err error)

	// OnUnusedRule records a tolerated rule that matched nothing.
	OnUnusedRule(ctx context.Context, runID, rule, message string)
}

// =============================================================================
// I/O Hooks
// =============================================================================

// IOHooks receives events from artifact reads and writes.
type IOHooks interface {
	// OnRead records an artifact read, such as a graph or a keep ledger.
	OnRead(ctx context.Context, kind, path string, size int)

	// OnWrite records an artifact write.
	OnWrite(ctx context.Context, kind, path string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnRunStart(context.Context, string, string, int)                     {}
func (NoopPipelineHooks) OnRunComplete(context.Context, string, time.Duration, error)         {}
func (NoopPipelineHooks) OnRuleStart(context.Context, string, string)                         {}
func (NoopPipelineHooks) OnRuleComplete(context.Context, string, string, time.Duration, error) {}
func (NoopPipelineHooks) OnUnusedRule(context.Context, string, string, string)                {}

// NoopIOHooks is a no-op implementation of IOHooks.
type NoopIOHooks struct{}

func (NoopIOHooks) OnRead(context.Context, string, string, int)  {}
func (NoopIOHooks) OnWrite(context.Context, string, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	ioHooks       IOHooks       = NoopIOHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any run.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetIOHooks registers custom I/O hooks.
func SetIOHooks(h IOHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		ioHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// IO returns the registered I/O hooks.
func IO() IOHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return ioHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	ioHooks = NoopIOHooks{}
}
