// Package httpmeta maps metadata records to and from HTTP headers. Only attributes a record has
// populated are written, and only headers that are present are read back, so presence survives
// a round trip through a HEAD response.
package httpmeta

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/hedisam/entrymeta/lib/metadata"
)

const (
	HeaderEntryMode    = "X-Entry-Mode"
	HeaderEntryVersion = "X-Entry-Version"
)

var (
	ErrUnsatisfiableRange = errors.New("range not satisfiable")
)

// StrongETag quotes a digest into a strong entity tag.
func StrongETag(digest string) string {
	return strconv.Quote(digest)
}

// WeakETag quotes a validator into a weak entity tag.
func WeakETag(validator string) string {
	return "W/" + strconv.Quote(validator)
}

// WriteHeader sets the headers for every attribute md populated individually. Attributes a
// complete record only implies are skipped, there is no value to send for them.
func WriteHeader(h http.Header, md metadata.Metadata) {
	set := md.Presence()
	has := func(k metadata.Key) bool {
		return set&k.Set() != 0
	}

	h.Set(HeaderEntryMode, md.Mode().String())
	if has(metadata.KeyCacheControl) {
		v, _ := md.CacheControl()
		h.Set("Cache-Control", v)
	}
	if has(metadata.KeyContentDisposition) {
		v, _ := md.ContentDisposition()
		h.Set("Content-Disposition", v)
	}
	if has(metadata.KeyContentLength) {
		v, _ := md.ContentLength()
		h.Set("Content-Length", strconv.FormatUint(v, 10))
	}
	if has(metadata.KeyContentMD5) {
		v, _ := md.ContentMD5()
		h.Set("Content-MD5", v)
	}
	if has(metadata.KeyContentRange) {
		v, _ := md.ContentRange()
		h.Set("Content-Range", v.String())
	}
	if has(metadata.KeyContentType) {
		v, _ := md.ContentType()
		h.Set("Content-Type", v)
	}
	if has(metadata.KeyETag) {
		// set directly, Header.Set would canonicalise the key to "Etag"
		v, _ := md.ETag()
		h["ETag"] = []string{v}
	}
	if has(metadata.KeyLastModified) {
		v, _ := md.LastModified()
		h.Set("Last-Modified", v.Format(http.TimeFormat))
	}
	if has(metadata.KeyVersion) {
		v, _ := md.Version()
		h.Set(HeaderEntryVersion, v)
	}
}

// ParseHeader builds a record from response headers. The entry mode comes from X-Entry-Mode and
// defaults to a file. Every header found marks its key present; values are stored verbatim except
// Content-Length, Content-Range and Last-Modified which are parsed.
func ParseHeader(h http.Header) (metadata.Metadata, error) {
	mode := metadata.ModeFile
	if v := h.Get(HeaderEntryMode); v != "" {
		var err error
		mode, err = metadata.ParseEntryMode(v)
		if err != nil {
			return metadata.Metadata{}, err
		}
	}

	md := metadata.New(mode)
	if v, ok := lookup(h, "Cache-Control"); ok {
		md.SetCacheControl(v)
	}
	if v, ok := lookup(h, "Content-Disposition"); ok {
		md.SetContentDisposition(v)
	}
	if v, ok := lookup(h, "Content-Length"); ok {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return metadata.Metadata{}, fmt.Errorf("parse content length %q: %w", v, err)
		}
		md.SetContentLength(n)
	}
	if v, ok := lookup(h, "Content-MD5"); ok {
		md.SetContentMD5(v)
	}
	if v, ok := lookup(h, "Content-Range"); ok {
		cr, err := metadata.ParseContentRange(v)
		if err != nil {
			return metadata.Metadata{}, fmt.Errorf("parse content range: %w", err)
		}
		md.SetContentRange(cr)
	}
	if v, ok := lookup(h, "Content-Type"); ok {
		md.SetContentType(v)
	}
	if v, ok := lookup(h, "ETag"); ok {
		md.SetETag(v)
	}
	if v, ok := lookup(h, "Last-Modified"); ok {
		t, err := http.ParseTime(v)
		if err != nil {
			return metadata.Metadata{}, fmt.Errorf("parse last modified %q: %w", v, err)
		}
		md.SetLastModified(t)
	}
	if v, ok := lookup(h, HeaderEntryVersion); ok {
		md.SetVersion(v)
	}

	return md, nil
}

// lookup tolerates both the canonical key and the literal one WriteHeader uses for ETag.
func lookup(h http.Header, key string) (string, bool) {
	if vals, ok := h[key]; ok && len(vals) > 0 {
		return vals[0], true
	}
	if vals, ok := h[http.CanonicalHeaderKey(key)]; ok && len(vals) > 0 {
		return vals[0], true
	}
	return "", false
}

// ParseRange resolves a single `Range: bytes=` request against an entry of the given size and
// returns the offset and length to read. Multiple ranges are not supported.
func ParseRange(header string, size uint64) (offset, length uint64, err error) {
	spec, ok := strings.CutPrefix(strings.TrimSpace(header), "bytes=")
	if !ok {
		return 0, 0, fmt.Errorf("invalid range %q: unsupported unit", header)
	}
	if strings.Contains(spec, ",") {
		return 0, 0, fmt.Errorf("invalid range %q: multiple ranges are not supported", header)
	}

	first, last, ok := strings.Cut(strings.TrimSpace(spec), "-")
	if !ok {
		return 0, 0, fmt.Errorf("invalid range %q", header)
	}

	if first == "" {
		// suffix form: the last n bytes
		n, err := strconv.ParseUint(last, 10, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid range %q: %w", header, err)
		}
		if n == 0 || size == 0 {
			return 0, 0, ErrUnsatisfiableRange
		}
		n = min(n, size)
		return size - n, n, nil
	}

	start, err := strconv.ParseUint(first, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid range %q: %w", header, err)
	}
	if start >= size {
		return 0, 0, ErrUnsatisfiableRange
	}

	end := size - 1
	if last != "" {
		end, err = strconv.ParseUint(last, 10, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid range %q: %w", header, err)
		}
		if end < start {
			return 0, 0, fmt.Errorf("invalid range %q: end before start", header)
		}
		end = min(end, size-1)
	}

	return start, end - start + 1, nil
}
