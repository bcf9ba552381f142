// Package chans has small helpers for consuming channels under a context.
package chans

import (
	"context"
	"iter"
)

// ReceiveOrDone blocks until a value arrives on ch, ch is closed or ctx is done.
// ok is false in the last two cases.
func ReceiveOrDone[T any](ctx context.Context, ch <-chan T) (v T, ok bool) {
	select {
	case <-ctx.Done():
		return v, false
	case v, ok = <-ch:
		return v, ok
	}
}

// ReceiveOrDoneSeq ranges over ch until it is closed or ctx is done.
func ReceiveOrDoneSeq[T any](ctx context.Context, ch <-chan T) iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, ok := ReceiveOrDone(ctx, ch)
			if !ok || !yield(v) {
				return
			}
		}
	}
}

// Drain ranges over the values already buffered in ch without blocking. It stops at the first
// empty receive or when ch is closed.
func Drain[T any](ch <-chan T) iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			select {
			case v, ok := <-ch:
				if !ok || !yield(v) {
					return
				}
			default:
				return
			}
		}
	}
}
