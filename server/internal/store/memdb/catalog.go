package memdb

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/hedisam/entrymeta/lib/metadata"
	"github.com/hedisam/entrymeta/lib/wal"
	"github.com/hedisam/entrymeta/server/internal/store"
)

var (
	ErrNotFound = errors.New("not found")
)

const (
	journalKindPut    = "put"
	journalKindDelete = "delete"
)

type Emitter interface {
	Emit(ctx context.Context, obj *store.ObjectRecord) error
}

// Journal persists catalog mutations. *wal.WAL satisfies it.
type Journal interface {
	Append(kind string, msg any) error
}

// Replayer feeds previously journaled entries back on startup. *wal.WAL satisfies it.
type Replayer interface {
	Replay(ctx context.Context, fn func(*wal.Entry) error) error
}

type deleteEntry struct {
	Key string `json:"key"`
}

// Catalog stores a record per uploaded object. Records of uploads still in flight are kept apart
// from the visible ones so an existing object stays visible until its replacement completes.
type Catalog struct {
	mu                   sync.RWMutex
	keyToObject          map[string]*store.ObjectRecord
	keyToInflightUploads map[string][]*store.ObjectRecord
	emitter              Emitter
	journal              Journal
}

type Option func(*Catalog)

// WithJournal makes the catalog journal every completed put and delete before applying it.
func WithJournal(j Journal) Option {
	return func(c *Catalog) {
		c.journal = j
	}
}

func NewCatalog(e Emitter, opts ...Option) *Catalog {
	c := &Catalog{
		keyToObject:          make(map[string]*store.ObjectRecord),
		keyToInflightUploads: make(map[string][]*store.ObjectRecord),
		emitter:              e,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Restore rebuilds the visible records from a journal. It must be called before the catalog
// serves requests.
func (c *Catalog) Restore(ctx context.Context, r Replayer) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return r.Replay(ctx, func(e *wal.Entry) error {
		switch e.Kind {
		case journalKindPut:
			var rec store.ObjectRecord
			err := e.Decode(&rec)
			if err != nil {
				return err
			}
			c.keyToObject[rec.Key] = &rec
		case journalKindDelete:
			var del deleteEntry
			err := e.Decode(&del)
			if err != nil {
				return err
			}
			delete(c.keyToObject, del.Key)
		default:
			return fmt.Errorf("unknown journal entry kind %q", e.Kind)
		}
		return nil
	})
}

func (c *Catalog) Snapshot(context.Context) (map[string]store.ObjectRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snapshot := make(map[string]store.ObjectRecord, len(c.keyToObject))
	for k, v := range c.keyToObject {
		snapshot[k] = *v
	}
	return snapshot, nil
}

// Get returns a copy of the visible record stored under key.
func (c *Catalog) Get(_ context.Context, key string) (store.ObjectRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	obj, ok := c.keyToObject[key]
	if !ok {
		return store.ObjectRecord{}, ErrNotFound
	}
	return *obj, nil
}

// List returns copies of the visible records whose key starts with prefix, sorted by key.
func (c *Catalog) List(_ context.Context, prefix string) ([]store.ObjectRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []store.ObjectRecord
	for key := range maps.Keys(c.keyToObject) {
		if strings.HasPrefix(key, prefix) {
			out = append(out, *c.keyToObject[key])
		}
	}
	slices.SortFunc(out, func(a, b store.ObjectRecord) int {
		return cmp.Compare(a.Key, b.Key)
	})
	return out, nil
}

// Create adds an in-flight record. It becomes visible once PutObjectCompleted is called for it.
func (c *Catalog) Create(_ context.Context, rec *store.ObjectRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if rec.Key == "" {
		return errors.New("key is required for storing metadata")
	}
	if rec.ObjectID == "" {
		return errors.New("object ID is required for storing metadata")
	}
	if other, ok := c.conflictingKey(rec.Key); ok {
		return fmt.Errorf("%w: %s and %s", store.ErrKeyConflict, rec.Key, other)
	}

	inflight := *rec
	inflight.CompletedAt = nil
	c.keyToInflightUploads[rec.Key] = append(c.keyToInflightUploads[rec.Key], &inflight)

	return nil
}

// Delete removes the visible record under key and queues its object for cleanup. The removal is
// journaled and applied before the object is queued; a failure to queue is reported as
// store.ErrCleanupNotQueued with the removal still in effect.
func (c *Catalog) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	object, ok := c.keyToObject[key]
	if !ok {
		return ErrNotFound
	}

	if c.journal != nil {
		err := c.journal.Append(journalKindDelete, deleteEntry{Key: key})
		if err != nil {
			return fmt.Errorf("could not journal object deletion: %w", err)
		}
	}

	delete(c.keyToObject, key)

	err := c.emitter.Emit(ctx, object)
	if err != nil {
		return fmt.Errorf("%w: object %s: %w", store.ErrCleanupNotQueued, object.ObjectID, err)
	}

	return nil
}

// PutObjectCompleted is called once the object's blob has been stored. The metadata the backend
// reported is merged over the record's own, and any object previously visible under the same
// key is queued for deletion. As with Delete, the record is journaled and made visible first.
func (c *Catalog) PutObjectCompleted(ctx context.Context, key, objectID string, reported metadata.Metadata) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	inflightObjects, ok := c.keyToInflightUploads[key]
	if !ok {
		return ErrNotFound
	}

	idx := slices.IndexFunc(inflightObjects, func(obj *store.ObjectRecord) bool {
		return obj.ObjectID == objectID
	})
	if idx < 0 {
		return fmt.Errorf("object not found in inflight uploads: %w", ErrNotFound)
	}
	object := *inflightObjects[idx]

	now := time.Now().UTC()
	object.CompletedAt = &now
	object.Metadata.Merge(reported)

	if c.journal != nil {
		err := c.journal.Append(journalKindPut, &object)
		if err != nil {
			return fmt.Errorf("could not journal completed object: %w", err)
		}
	}

	existingObject, replaced := c.keyToObject[key]
	c.keyToObject[key] = &object
	c.removeInflight(key, objectID)

	if replaced {
		err := c.emitter.Emit(ctx, existingObject)
		if err != nil {
			return fmt.Errorf("%w: replaced object %s: %w", store.ErrCleanupNotQueued, existingObject.ObjectID, err)
		}
	}

	return nil
}

// Abort drops the in-flight record of an upload that will not complete. Aborting an unknown
// upload is a no-op.
func (c *Catalog) Abort(_ context.Context, key, objectID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.removeInflight(key, objectID)
	return nil
}

// InflightCount returns the number of uploads created but neither completed nor aborted.
func (c *Catalog) InflightCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var n int
	for _, objects := range c.keyToInflightUploads {
		n += len(objects)
	}
	return n
}

// conflictingKey returns a visible or in-flight key that is a directory of key, or has key as one.
func (c *Catalog) conflictingKey(key string) (string, bool) {
	conflicts := func(other string) bool {
		return strings.HasPrefix(other, key+"/") || strings.HasPrefix(key, other+"/")
	}
	for other := range c.keyToObject {
		if conflicts(other) {
			return other, true
		}
	}
	for other := range c.keyToInflightUploads {
		if conflicts(other) {
			return other, true
		}
	}
	return "", false
}

func (c *Catalog) removeInflight(key, objectID string) {
	inflightObjects := slices.DeleteFunc(c.keyToInflightUploads[key], func(obj *store.ObjectRecord) bool {
		return obj.ObjectID == objectID
	})
	if len(inflightObjects) == 0 {
		delete(c.keyToInflightUploads, key)
		return
	}
	c.keyToInflightUploads[key] = inflightObjects
}
