package lang

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/zeebo/xxh3"
)

// programCache stores parsed programs keyed by the xxh3 hash of their
// source. Programs are immutable, so cached entries are shared freely.
var programCache sync.Map

// cacheEntry guards a single parse so that concurrent readers of the same
// source parse it once.
type cacheEntry struct {
	once sync.Once
	prog *Program
	err  error
}

func parseCached(ctx context.Context, src string, opts ...Option) (*Program, error) {
	o := makeOptions(opts...)

	if o.noCache {
		return ParseString(ctx, src, opts...)
	}

	key := xxh3.HashString128(src)

	v, loaded := programCache.LoadOrStore(key, &cacheEntry{})
	entry, _ := v.(*cacheEntry)

	entry.once.Do(func() {
		entry.prog, entry.err = ParseString(ctx, src, opts...)
	})

	if entry.err != nil {
		// Failed parses are not cached.
		programCache.CompareAndDelete(key, entry)

		return nil, entry.err
	}

	if loaded {
		o.logger.TraceContext(
			ctx,
			"cache hit",
			slog.String("key", strconv.FormatUint(key.Lo, 16)),
			slog.Int("source_bytes", len(src)),
		)
	}

	return entry.prog, nil
}

// ClearCache discards every cached program.
func ClearCache() {
	programCache.Clear()
}
