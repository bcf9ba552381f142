// Package metadata holds the record a storage backend returns for an entry. Backends differ in
// which attributes they can return and at what cost, so a record only promises the attributes its
// producer marked present. Reading anything else fails with ErrNotFetched.
//
// A record is built by one adapter and then handed over by value. Callers treat it as read-only:
//
//	md := metadata.New(metadata.ModeFile).
//		WithContentLength(42).
//		WithETag(`"33a64df551425fcc55e4d42a148795d9f25f89d4"`)
//
//	n, err := md.ContentLength() // 42, nil
//	_, err = md.ContentType()    // ErrNotFetched
package metadata

import (
	"time"
)

// Metadata carries the attributes a backend reported for one entry along with the set of keys
// it actually populated.
//
// Mode is required and always present. A directory record is complete by construction: every
// accessor succeeds on it and returns zero values for attributes nobody set.
type Metadata struct {
	presence KeySet
	mode     EntryMode

	cacheControl       string
	contentDisposition string
	contentLength      uint64
	contentMD5         string
	contentRange       ContentRange
	contentType        string
	etag               string
	lastModified       time.Time
	version            string
}

// New returns a record for an entry of the given mode with no optional attribute set.
func New(mode EntryMode) Metadata {
	presence := KeyMode.Set()
	if mode == ModeDir {
		presence |= KeyComplete.Set()
	}

	return Metadata{
		presence: presence,
		mode:     mode,
	}
}

// Presence returns the set of populated keys.
func (m Metadata) Presence() KeySet {
	return m.presence
}

// WithPresence replaces the presence set wholesale. Adapters use it to narrow a record down to
// what an operation promises, or to mark a record complete. Attribute values are left untouched.
func (m Metadata) WithPresence(keys KeySet) Metadata {
	m.presence = keys
	return m
}

// Has reports whether k may be read, applying the KeyComplete rule.
func (m Metadata) Has(k Key) bool {
	return m.presence.Contains(k)
}

// HasAll reports whether every key of keys may be read. Composition layers use it to decide if a
// record they already hold satisfies a query.
func (m Metadata) HasAll(keys KeySet) bool {
	return m.presence.ContainsAll(keys)
}

func (m Metadata) check(k Key) error {
	if m.presence.Contains(k) {
		return nil
	}
	return &NotFetchedError{Key: k}
}

func (m *Metadata) mark(k Key) {
	m.presence |= k.Set()
}

// Mode returns the entry mode. It never fails since the mode is given at construction.
func (m Metadata) Mode() EntryMode {
	return m.mode
}

func (m Metadata) IsFile() bool {
	return m.mode == ModeFile
}

func (m Metadata) IsDir() bool {
	return m.mode == ModeDir
}

func (m *Metadata) SetMode(v EntryMode) *Metadata {
	m.mode = v
	m.mark(KeyMode)
	return m
}

func (m Metadata) WithMode(v EntryMode) Metadata {
	m.SetMode(v)
	return m
}

// CacheControl returns the Cache-Control value as defined by RFC 9111, verbatim.
func (m Metadata) CacheControl() (string, error) {
	return m.cacheControl, m.check(KeyCacheControl)
}

func (m *Metadata) SetCacheControl(v string) *Metadata {
	m.cacheControl = v
	m.mark(KeyCacheControl)
	return m
}

func (m Metadata) WithCacheControl(v string) Metadata {
	m.SetCacheControl(v)
	return m
}

// ContentDisposition returns the Content-Disposition value (RFC 6266) verbatim, e.g.
// `inline` or `attachment; filename="f.jpg"`.
func (m Metadata) ContentDisposition() (string, error) {
	return m.contentDisposition, m.check(KeyContentDisposition)
}

func (m *Metadata) SetContentDisposition(v string) *Metadata {
	m.contentDisposition = v
	m.mark(KeyContentDisposition)
	return m
}

func (m Metadata) WithContentDisposition(v string) Metadata {
	m.SetContentDisposition(v)
	return m
}

// ContentLength returns the entry size in bytes. When the key was not fetched it returns 0 along
// with the error, so callers that only need a number can ignore the error on purpose.
func (m Metadata) ContentLength() (uint64, error) {
	return m.contentLength, m.check(KeyContentLength)
}

// ContentLengthRaw returns the length only if a producer set it. Unlike ContentLength it does not
// treat a complete record as carrying a length.
func (m Metadata) ContentLengthRaw() (uint64, bool) {
	if m.presence&KeyContentLength.Set() == 0 {
		return 0, false
	}
	return m.contentLength, true
}

func (m *Metadata) SetContentLength(v uint64) *Metadata {
	m.contentLength = v
	m.mark(KeyContentLength)
	return m
}

func (m Metadata) WithContentLength(v uint64) Metadata {
	m.SetContentLength(v)
	return m
}

// ContentMD5 returns the MD5 checksum reported by the backend. Backends fill it in on a best
// effort basis; it is not guaranteed to be the digest of the content.
func (m Metadata) ContentMD5() (string, error) {
	return m.contentMD5, m.check(KeyContentMD5)
}

func (m *Metadata) SetContentMD5(v string) *Metadata {
	m.contentMD5 = v
	m.mark(KeyContentMD5)
	return m
}

func (m Metadata) WithContentMD5(v string) Metadata {
	m.SetContentMD5(v)
	return m
}

// ContentRange returns the byte range a ranged read covered.
func (m Metadata) ContentRange() (ContentRange, error) {
	return m.contentRange, m.check(KeyContentRange)
}

func (m *Metadata) SetContentRange(v ContentRange) *Metadata {
	m.contentRange = v
	m.mark(KeyContentRange)
	return m
}

func (m Metadata) WithContentRange(v ContentRange) Metadata {
	m.SetContentRange(v)
	return m
}

// ContentType returns the media type (RFC 9110) verbatim.
func (m Metadata) ContentType() (string, error) {
	return m.contentType, m.check(KeyContentType)
}

func (m *Metadata) SetContentType(v string) *Metadata {
	m.contentType = v
	m.mark(KeyContentType)
	return m
}

func (m Metadata) WithContentType(v string) Metadata {
	m.SetContentType(v)
	return m
}

// ETag returns the entity tag exactly as the backend sent it. The quotes and a weak `W/` prefix
// are part of the value:
//
//	"33a64df551425fcc55e4d42a148795d9f25f89d4"
//	W/"0815"
func (m Metadata) ETag() (string, error) {
	return m.etag, m.check(KeyETag)
}

// SetETag stores v as is. Do not trim the quotes before calling it.
func (m *Metadata) SetETag(v string) *Metadata {
	m.etag = v
	m.mark(KeyETag)
	return m
}

func (m Metadata) WithETag(v string) Metadata {
	m.SetETag(v)
	return m
}

// LastModified returns the modification time in UTC. Parsing backend specific formats is up to
// the adapter.
func (m Metadata) LastModified() (time.Time, error) {
	return m.lastModified, m.check(KeyLastModified)
}

func (m *Metadata) SetLastModified(v time.Time) *Metadata {
	m.lastModified = v.UTC()
	m.mark(KeyLastModified)
	return m
}

func (m Metadata) WithLastModified(v time.Time) Metadata {
	m.SetLastModified(v)
	return m
}

// Version returns the backend's object version identifier, such as an S3 version ID.
func (m Metadata) Version() (string, error) {
	return m.version, m.check(KeyVersion)
}

func (m *Metadata) SetVersion(v string) *Metadata {
	m.version = v
	m.mark(KeyVersion)
	return m
}

func (m Metadata) WithVersion(v string) Metadata {
	m.SetVersion(v)
	return m
}

// Merge copies every attribute that other populated individually into m and adds other's
// presence to m's. Attributes other only covers through KeyComplete are not copied, so merging a
// directory record never blanks out values m already holds.
func (m *Metadata) Merge(other Metadata) *Metadata {
	set := other.presence
	if set&KeyMode.Set() != 0 {
		m.mode = other.mode
	}
	if set&KeyCacheControl.Set() != 0 {
		m.cacheControl = other.cacheControl
	}
	if set&KeyContentDisposition.Set() != 0 {
		m.contentDisposition = other.contentDisposition
	}
	if set&KeyContentLength.Set() != 0 {
		m.contentLength = other.contentLength
	}
	if set&KeyContentMD5.Set() != 0 {
		m.contentMD5 = other.contentMD5
	}
	if set&KeyContentRange.Set() != 0 {
		m.contentRange = other.contentRange
	}
	if set&KeyContentType.Set() != 0 {
		m.contentType = other.contentType
	}
	if set&KeyETag.Set() != 0 {
		m.etag = other.etag
	}
	if set&KeyLastModified.Set() != 0 {
		m.lastModified = other.lastModified
	}
	if set&KeyVersion.Set() != 0 {
		m.version = other.version
	}
	m.presence |= set
	return m
}

// Entry pairs a path with the record a list operation produced for it.
type Entry struct {
	Path     string   `json:"path"`
	Metadata Metadata `json:"metadata"`
}
