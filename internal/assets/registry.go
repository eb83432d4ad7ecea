// Package assets accumulates image and resource references emitted during
// chapter rendering. The registry is a pure accumulator: no deduplication,
// no existence validation, consumed once when packaging starts.
package assets

import "sync"

// Entry pairs an asset's logical target inside the container with the
// physical path its bytes are read from.
type Entry struct {
	LogicalTarget string
	PhysicalPath  string
}

// Registry collects entries in registration order. Appends are mutually
// exclusive because renderers run concurrently; reproducible ordering comes
// from merging per-chapter buffers in spine order (see Merge).
type Registry struct {
	mu      sync.Mutex
	entries []Entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends one entry. Duplicate logical targets are allowed; the
// consumer decides how to reconcile them.
func (r *Registry) Register(logicalTarget, physicalPath string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{
		LogicalTarget: logicalTarget,
		PhysicalPath:  physicalPath,
	})
}

// Merge appends a chapter buffer's entries preserving their relative order.
// Callers merge buffers in spine order so the final sequence is reproducible
// across runs regardless of render completion order.
func (r *Registry) Merge(buf *Buffer) {
	if buf == nil || len(buf.entries) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, buf.entries...)
}

// Entries returns a copy of the registered entries in registration order.
func (r *Registry) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len reports the number of registered entries.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Buffer is a single-chapter accumulator used by one render worker. It needs
// no locking; exactly one goroutine writes to it.
type Buffer struct {
	entries []Entry
}

// Register appends one entry to the buffer.
func (b *Buffer) Register(logicalTarget, physicalPath string) {
	b.entries = append(b.entries, Entry{
		LogicalTarget: logicalTarget,
		PhysicalPath:  physicalPath,
	})
}

// Entries returns the buffered entries in registration order.
func (b *Buffer) Entries() []Entry {
	if b == nil {
		return nil
	}
	return b.entries
}
