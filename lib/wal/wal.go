package wal

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	ErrClosed = errors.New("wal closed")
)

// Entry represents a record in the WAL.
type Entry struct {
	Timestamp time.Time       `json:"timestamp"`
	Kind      string          `json:"kind"`
	Message   json.RawMessage `json:"message"`
}

// Decode unmarshals the entry's message into v.
func (e *Entry) Decode(v any) error {
	err := json.Unmarshal(e.Message, v)
	if err != nil {
		return fmt.Errorf("decode %q entry: %w", e.Kind, err)
	}
	return nil
}

// WAL is an append-only, newline delimited JSON journal. Writers append entries while running and
// the owner replays the whole file once on startup to rebuild its state.
type WAL struct {
	logger *logrus.Logger
	path   string

	mu        sync.Mutex
	closed    atomic.Bool
	writeFile *os.File
	encoder   *json.Encoder
}

// New opens (or creates) a WAL file at the given path.
func New(logger *logrus.Logger, path string) (*WAL, error) {
	wf, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open wal file: %w", err)
	}

	return &WAL{
		logger:    logger,
		path:      path,
		writeFile: wf,
		encoder:   json.NewEncoder(wf),
	}, nil
}

// Append encodes msg as the message of a new entry of the given kind. It returns an error if either
// the WAL is closed or msg cannot be encoded.
func (w *WAL) Append(kind string, msg any) error {
	if w.closed.Load() {
		return ErrClosed
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal %q message: %w", kind, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	err = w.encoder.Encode(&Entry{
		Timestamp: time.Now().UTC(),
		Kind:      kind,
		Message:   data,
	})
	if err != nil {
		return fmt.Errorf("encode entry: %w", err)
	}

	return nil
}

// Replay calls fn for every complete entry in the file, in order. A trailing line without its
// delimiter is a torn write from a crash; it is logged and skipped. Replay stops at the first
// error returned by fn.
func (w *WAL) Replay(ctx context.Context, fn func(*Entry) error) error {
	rf, err := os.Open(w.path)
	if err != nil {
		return fmt.Errorf("open wal file for replay: %w", err)
	}
	defer rf.Close()

	reader := bufio.NewReader(rf)
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		line, err := reader.ReadBytes('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				if len(line) > 0 {
					w.logger.WithField("bytes", len(line)).Warn("Skipping partially written WAL entry")
				}
				return nil
			}
			return fmt.Errorf("read wal: %w", err)
		}

		var entry Entry
		err = json.Unmarshal(line, &entry)
		if err != nil {
			w.logger.WithError(err).Error("Failed to unmarshal WAL entry, skipping")
			continue
		}

		err = fn(&entry)
		if err != nil {
			return fmt.Errorf("replay %q entry: %w", entry.Kind, err)
		}
	}
}

// Close cleans up file descriptors used by the WAL.
func (w *WAL) Close() {
	if w.closed.CompareAndSwap(false, true) {
		w.mu.Lock()
		_ = w.writeFile.Close()
		w.mu.Unlock()
	}
}
