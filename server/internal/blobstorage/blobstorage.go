// Package blobstorage defines what the server needs from a place that keeps object bytes. Each
// backend reports a different subset of metadata at a different cost, and says so through the
// presence set of the records it returns.
package blobstorage

import (
	"context"
	"crypto/md5"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"hash"
	"io"

	"github.com/hedisam/entrymeta/lib/metadata"
)

var (
	ErrObjectNotFound = errors.New("object not found")
	ErrInvalidRange   = errors.New("invalid range")
)

// ReadRange selects Length bytes starting at Offset.
type ReadRange struct {
	Offset uint64
	Length uint64
}

// Backend stores object bytes under opaque object IDs.
type Backend interface {
	// PutObject stores r under objectID. hints carries content headers the caller wants kept with
	// the object; backends that cannot store them ignore them. The returned record holds what the
	// backend reported about the stored object.
	PutObject(ctx context.Context, r io.Reader, objectID string, hints metadata.Metadata) (metadata.Metadata, error)
	// StatObject returns at least the keys in want that the backend can produce. It may return
	// more when they come for free.
	StatObject(ctx context.Context, objectID string, want metadata.KeySet) (metadata.Metadata, error)
	// ReadObject opens the object, or the given range of it when rng is not nil. The returned
	// record carries ContentRange for ranged reads.
	ReadObject(ctx context.Context, objectID string, rng *ReadRange) (io.ReadCloser, metadata.Metadata, error)
	DeleteObject(ctx context.Context, objectID string) error
}

// Wanted expands a requested key set into the attribute keys a backend should try to produce.
// A request for KeyComplete asks for every attribute.
func Wanted(keys metadata.KeySet) metadata.KeySet {
	if !keys.IsComplete() {
		return keys
	}

	var all metadata.KeySet
	for k := range metadata.AllKeys() {
		if k != metadata.KeyComplete {
			all = all.With(k)
		}
	}
	return all
}

// DigestReader computes the SHA-256 and MD5 digests of everything read through it.
type DigestReader struct {
	r      io.Reader
	sha256 hash.Hash
	md5    hash.Hash
	n      int64
}

func NewDigestReader(r io.Reader) *DigestReader {
	return &DigestReader{
		r:      r,
		sha256: sha256.New(),
		md5:    md5.New(),
	}
}

func (d *DigestReader) Read(p []byte) (int, error) {
	n, err := d.r.Read(p)
	if n > 0 {
		d.sha256.Write(p[:n])
		d.md5.Write(p[:n])
		d.n += int64(n)
	}
	return n, err
}

// SHA256 returns the hex encoded SHA-256 of the bytes read so far.
func (d *DigestReader) SHA256() string {
	return hex.EncodeToString(d.sha256.Sum(nil))
}

// ContentMD5 returns the base64 encoded MD5 of the bytes read so far, as used by Content-MD5.
func (d *DigestReader) ContentMD5() string {
	return base64.StdEncoding.EncodeToString(d.md5.Sum(nil))
}

// Count returns the number of bytes read so far.
func (d *DigestReader) Count() int64 {
	return d.n
}
