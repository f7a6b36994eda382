package lspshell

import (
	"sync"

	"github.com/cadenzalang/cadenzac/pkg/compiler"
	"github.com/cadenzalang/cadenzac/pkg/diagnostics"
	"github.com/cespare/xxhash/v2"
)

// compileCache memoizes the last compilation of each open document, keyed
// by its content hash, so a didChange notification that repeats the same
// text (editors sometimes fire redundant events) skips recompiling. This
// generalizes the double-checked-locking shape of the teacher's
// pkg/lsp/sourcemap_cache.go — in-memory per-URI results instead of
// disk-backed per-file source maps, since this shell never writes .cs
// files to disk for an open buffer.
type compileCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	hash uint64
	out  compiler.Output
	sink *diagnostics.Sink
}

func newCompileCache() *compileCache {
	return &compileCache{entries: make(map[string]cacheEntry)}
}

// get returns the cached compilation for uri if its content hash still
// matches text, compiling and storing a fresh entry otherwise.
func (c *compileCache) get(uri, text string) (compiler.Output, *diagnostics.Sink) {
	hash := xxhash.Sum64String(text)

	c.mu.RLock()
	if e, ok := c.entries[uri]; ok && e.hash == hash {
		c.mu.RUnlock()
		return e.out, e.sink
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[uri]; ok && e.hash == hash {
		return e.out, e.sink
	}

	out, sink := compiler.Compile(uri, text)
	entry := cacheEntry{hash: hash, out: out, sink: sink}
	c.entries[uri] = entry
	return entry.out, entry.sink
}

// invalidate drops a document's cached compilation, e.g. on didClose.
func (c *compileCache) invalidate(uri string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, uri)
}
