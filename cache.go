package rex

import "sync"

// cacheEntry is the single slot used by the package-level compile cache.
type cacheEntry struct {
	pattern string
	config  Config
	regex   *Regex
}

// compileCache holds the most recently compiled pattern so that a hot loop
// calling Compile repeatedly with the same literal pattern string (a
// common idiom when regexes are built from a format string) doesn't
// recompile it every time. It is intentionally single-entry: this is a
// cheap guard against accidental repeat-compiles, not a general-purpose
// LRU.
var compileCache struct {
	mu    sync.Mutex
	entry *cacheEntry
}

func cacheLookup(pattern string, config Config) (*Regex, bool) {
	compileCache.mu.Lock()
	defer compileCache.mu.Unlock()
	e := compileCache.entry
	if e == nil || e.pattern != pattern || e.config != config {
		return nil, false
	}
	return e.regex, true
}

func cacheStore(pattern string, config Config, re *Regex) {
	compileCache.mu.Lock()
	defer compileCache.mu.Unlock()
	compileCache.entry = &cacheEntry{pattern: pattern, config: config, regex: re}
}
