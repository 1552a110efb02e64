package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// envelope wraps every persisted document with a schema version so that
// stored shapes can evolve without silently corrupting or discarding data.
type envelope struct {
	Version   int             `json:"v"`
	UpdatedAt time.Time       `json:"updated_at"`
	Data      json.RawMessage `json:"data"`
}

// Migration upgrades a document payload by exactly one schema version.
type Migration func(data json.RawMessage) (json.RawMessage, error)

// Documents provides versioned, typed document access over a raw Store.
// Documents written before the envelope was introduced load as version 0
// and are migrated forward on read.
type Documents struct {
	store    Store
	notifier Notifier
	logger   zerolog.Logger

	mu         sync.RWMutex
	versions   map[string]int               // key prefix -> current schema version
	migrations map[string]map[int]Migration // key prefix -> from-version -> migration
}

func New(store Store, logger zerolog.Logger) *Documents {
	return &Documents{
		store:      store,
		logger:     logger,
		versions:   make(map[string]int),
		migrations: make(map[string]map[int]Migration),
	}
}

// SetNotifier attaches an optional change notifier. Writes publish the key
// after a successful Set so that watchers in other processes reload promptly.
func (d *Documents) SetNotifier(n Notifier) { d.notifier = n }

// Store exposes the underlying raw store.
func (d *Documents) Store() Store { return d.store }

// DeclareVersion declares the current schema version for all keys sharing
// the given prefix. Keys without a declaration are version 0.
func (d *Documents) DeclareVersion(prefix string, version int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.versions[prefix] = version
}

// RegisterMigration registers the migration that lifts documents under the
// given key prefix from fromVersion to fromVersion+1.
func (d *Documents) RegisterMigration(prefix string, fromVersion int, m Migration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.migrations[prefix] == nil {
		d.migrations[prefix] = make(map[int]Migration)
	}
	d.migrations[prefix][fromVersion] = m
}

func (d *Documents) prefixFor(key string) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for prefix := range d.versions {
		if strings.HasPrefix(key, prefix) {
			return prefix
		}
	}
	for prefix := range d.migrations {
		if strings.HasPrefix(key, prefix) {
			return prefix
		}
	}
	return key
}

func (d *Documents) currentVersion(prefix string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.versions[prefix]
}

func (d *Documents) migration(prefix string, from int) Migration {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.migrations[prefix][from]
}

// Load reads the document at key into out, migrating stale payloads forward
// to the declared current version first. A migrated document is written back
// so the upgrade happens once.
func (d *Documents) Load(ctx context.Context, key string, out interface{}) error {
	raw, err := d.store.Get(ctx, key)
	if err != nil {
		return err
	}

	env, legacy := decodeEnvelope(raw)
	prefix := d.prefixFor(key)
	target := d.currentVersion(prefix)

	migrated := false
	for env.Version < target {
		m := d.migration(prefix, env.Version)
		if m == nil {
			return fmt.Errorf("docstore: no migration for %q from v%d", key, env.Version)
		}
		data, err := m(env.Data)
		if err != nil {
			return fmt.Errorf("docstore: migrate %q v%d: %w", key, env.Version, err)
		}
		env.Data = data
		env.Version++
		migrated = true
	}

	if migrated || legacy {
		if err := d.writeEnvelope(ctx, key, env); err != nil {
			d.logger.Warn().Err(err).Str("key", key).Msg("write back migrated document")
		}
	}

	return json.Unmarshal(env.Data, out)
}

// LoadOr reads the document at key into out, leaving out untouched and
// returning false when the key is absent or unreadable. Read failures are
// logged, never surfaced; this mirrors get-with-default semantics.
func (d *Documents) LoadOr(ctx context.Context, key string, out interface{}) bool {
	err := d.Load(ctx, key, out)
	if err == nil {
		return true
	}
	if err != ErrNotFound {
		d.logger.Warn().Err(err).Str("key", key).Msg("document read failed, using default")
	}
	return false
}

// Save marshals v and writes it at key under the current schema version.
func (d *Documents) Save(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("docstore: marshal %q: %w", key, err)
	}
	env := envelope{
		Version:   d.currentVersion(d.prefixFor(key)),
		UpdatedAt: time.Now().UTC(),
		Data:      data,
	}
	return d.writeEnvelope(ctx, key, env)
}

func (d *Documents) writeEnvelope(ctx context.Context, key string, env envelope) error {
	raw, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("docstore: marshal envelope %q: %w", key, err)
	}
	if err := d.store.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("docstore: set %q: %w", key, err)
	}
	if d.notifier != nil {
		if err := d.notifier.Publish(ctx, key); err != nil {
			d.logger.Warn().Err(err).Str("key", key).Msg("publish change notification")
		}
	}
	return nil
}

// Exists reports whether a document is stored at key.
func (d *Documents) Exists(ctx context.Context, key string) (bool, error) {
	_, err := d.store.Get(ctx, key)
	if err == ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Remove deletes the document at key. Missing keys are not an error.
func (d *Documents) Remove(ctx context.Context, key string) error {
	if err := d.store.Remove(ctx, key); err != nil && err != ErrNotFound {
		return err
	}
	if d.notifier != nil {
		if err := d.notifier.Publish(ctx, key); err != nil {
			d.logger.Warn().Err(err).Str("key", key).Msg("publish change notification")
		}
	}
	return nil
}

// Clear drops every stored document.
func (d *Documents) Clear(ctx context.Context) error {
	return d.store.Clear(ctx)
}

// decodeEnvelope parses raw as a versioned envelope. Blobs written before
// versioning (bare JSON without the envelope fields) are treated as a
// version 0 payload.
func decodeEnvelope(raw []byte) (envelope, bool) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Data != nil {
		return env, false
	}
	return envelope{Version: 0, Data: json.RawMessage(bytes.TrimSpace(raw))}, true
}
