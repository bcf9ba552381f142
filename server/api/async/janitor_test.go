package async_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/hedisam/entrymeta/server/api/async"
	"github.com/hedisam/entrymeta/server/internal/store"
)

type fakeStorage struct {
	mu       sync.Mutex
	failures int
	deleted  []string
	attempts int
}

func (f *fakeStorage) DeleteObject(_ context.Context, objectID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts++
	if f.failures > 0 {
		f.failures--
		return errors.New("temporary")
	}
	f.deleted = append(f.deleted, objectID)
	return nil
}

func (f *fakeStorage) snapshot() ([]string, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...), f.attempts
}

func TestJanitorRun(t *testing.T) {
	tests := map[string]struct {
		failures         int
		records          []*store.ObjectRecord
		expectedDeleted  []string
		expectedAttempts int
	}{
		"deletes by object id": {
			records: []*store.ObjectRecord{
				{Key: "docs/a.txt", ObjectID: "id-1"},
				{Key: "docs/a.txt", ObjectID: "id-2"},
			},
			expectedDeleted:  []string{"id-1", "id-2"},
			expectedAttempts: 2,
		},
		"retries transient failures": {
			failures:         2,
			records:          []*store.ObjectRecord{{Key: "k", ObjectID: "id"}},
			expectedDeleted:  []string{"id"},
			expectedAttempts: 3,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			storage := &fakeStorage{failures: tc.failures}
			j := async.NewJanitor(logrus.New(), storage)

			in := make(chan *store.ObjectRecord, len(tc.records))
			for _, rec := range tc.records {
				in <- rec
			}
			close(in)

			done := make(chan struct{})
			go func() {
				defer close(done)
				j.Run(context.Background(), in)
			}()

			select {
			case <-done:
			case <-time.After(5 * time.Second):
				t.Fatal("janitor did not stop after input was closed")
			}

			deleted, attempts := storage.snapshot()
			assert.Equal(t, tc.expectedDeleted, deleted)
			assert.Equal(t, tc.expectedAttempts, attempts)
		})
	}
}

func TestJanitorStopsOnContextCancel(t *testing.T) {
	j := async.NewJanitor(logrus.New(), &fakeStorage{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		j.Run(ctx, make(chan *store.ObjectRecord))
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop after context cancellation")
	}
}

func TestJanitorDrainsQueueOnCancel(t *testing.T) {
	storage := &fakeStorage{}
	j := async.NewJanitor(logrus.New(), storage)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := make(chan *store.ObjectRecord, 2)
	in <- &store.ObjectRecord{Key: "a", ObjectID: "id-a"}
	in <- &store.ObjectRecord{Key: "b", ObjectID: "id-b"}

	done := make(chan struct{})
	go func() {
		defer close(done)
		j.Run(ctx, in)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("janitor did not stop after draining")
	}

	deleted, _ := storage.snapshot()
	assert.ElementsMatch(t, []string{"id-a", "id-b"}, deleted)
}
