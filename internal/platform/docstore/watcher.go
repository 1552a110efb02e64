package docstore

import (
	"bytes"
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Watcher observes a set of keys and invokes a callback when their stored
// bytes change. It polls at a fixed interval and, when a Notifier is
// attached, also wakes immediately on published change events. The loop
// stops when the context is cancelled, so a torn-down consumer never
// receives a late callback.
type Watcher struct {
	docs     *Documents
	notifier Notifier
	interval time.Duration
	logger   zerolog.Logger
}

func NewWatcher(docs *Documents, notifier Notifier, interval time.Duration, logger zerolog.Logger) *Watcher {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &Watcher{docs: docs, notifier: notifier, interval: interval, logger: logger}
}

// Watch blocks until ctx is cancelled, calling onChange(key, raw) whenever
// one of the given keys changes. A key that appears or disappears counts as
// a change; for removed keys onChange receives nil.
func (w *Watcher) Watch(ctx context.Context, keys []string, onChange func(key string, raw []byte)) {
	last := make(map[string][]byte, len(keys))
	for _, k := range keys {
		raw, err := w.docs.store.Get(ctx, k)
		if err == nil {
			last[k] = raw
		}
	}

	var events <-chan string
	if w.notifier != nil {
		ch, err := w.notifier.Subscribe(ctx)
		if err != nil {
			w.logger.Warn().Err(err).Msg("change subscription unavailable, polling only")
		} else {
			events = ch
		}
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	check := func(key string) {
		raw, err := w.docs.store.Get(ctx, key)
		if err != nil && err != ErrNotFound {
			w.logger.Warn().Err(err).Str("key", key).Msg("watch read failed")
			return
		}
		if bytes.Equal(last[key], raw) {
			return
		}
		last[key] = raw
		onChange(key, raw)
	}

	watched := make(map[string]bool, len(keys))
	for _, k := range keys {
		watched[k] = true
	}

	for {
		select {
		case <-ctx.Done():
			return
		case key, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if watched[key] {
				check(key)
			}
		case <-ticker.C:
			for _, k := range keys {
				check(k)
			}
		}
	}
}
