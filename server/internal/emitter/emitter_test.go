package emitter_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hedisam/entrymeta/server/internal/emitter"
	"github.com/hedisam/entrymeta/server/internal/store"
)

func TestEmitter(t *testing.T) {
	t.Run("emit and receive", func(t *testing.T) {
		e := emitter.New()
		obj := &store.ObjectRecord{ObjectID: uuid.NewString()}
		err := e.Emit(context.Background(), obj)
		require.NoError(t, err)
		assert.Equal(t, 1, e.Pending())

		select {
		case got := <-e.Chan():
			assert.Equal(t, obj, got)
		case <-time.After(100 * time.Millisecond):
			t.Fatal("timed out waiting for object on channel")
		}
	})

	t.Run("emit after close", func(t *testing.T) {
		e := emitter.New()
		e.Close()
		err := e.Emit(context.Background(), &store.ObjectRecord{})
		require.ErrorIs(t, err, emitter.ErrClosed)
	})

	t.Run("emit context canceled", func(t *testing.T) {
		e := emitter.New(emitter.WithBufferSize(0))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := e.Emit(ctx, &store.ObjectRecord{})
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("close unblocks a blocked emit", func(t *testing.T) {
		e := emitter.New(emitter.WithBufferSize(0))
		errCh := make(chan error, 1)
		go func() {
			errCh <- e.Emit(context.Background(), &store.ObjectRecord{})
		}()

		// give the goroutine a chance to block on the send
		time.Sleep(20 * time.Millisecond)
		e.Close()

		select {
		case err := <-errCh:
			require.ErrorIs(t, err, emitter.ErrClosed)
		case <-time.After(time.Second):
			t.Fatal("emit was not unblocked by close")
		}
	})

	t.Run("queued records survive close", func(t *testing.T) {
		e := emitter.New(emitter.WithBufferSize(2))
		require.NoError(t, e.Emit(context.Background(), &store.ObjectRecord{Key: "a"}))
		require.NoError(t, e.Emit(context.Background(), &store.ObjectRecord{Key: "b"}))
		e.Close()

		var keys []string
		for obj := range e.Chan() {
			keys = append(keys, obj.Key)
		}
		assert.Equal(t, []string{"a", "b"}, keys)
	})

	t.Run("close idempotent", func(t *testing.T) {
		e := emitter.New()
		e.Close()
		e.Close()
		_, ok := <-e.Chan()
		assert.False(t, ok)
	})
}
