// Package intern provides a process-wide-capable, concurrency-safe string
// interner. It is always passed explicitly so tests can run with isolated
// instances.
package intern

import "sync"

// Interner deduplicates strings so that identical names across thousands of
// descriptors share one backing allocation.
type Interner struct {
	mu      sync.RWMutex
	strings map[string]string
}

// New returns an empty interner.
func New() *Interner {
	return &Interner{strings: make(map[string]string)}
}

// Intern returns the canonical instance of s, storing it on first sight.
// Safe for concurrent use.
func (i *Interner) Intern(s string) string {
	i.mu.RLock()
	canonical, ok := i.strings[s]
	i.mu.RUnlock()
	if ok {
		return canonical
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if canonical, ok := i.strings[s]; ok {
		return canonical
	}
	i.strings[s] = s
	return s
}

// Len returns the number of interned strings.
func (i *Interner) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.strings)
}
