package metadata

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidContentRange = errors.New("invalid content range")
)

// ContentRange describes which bytes of an entry a response carries, following the
// `Content-Range: bytes <start>-<end>/<size>` form. Either the range or the size may be unknown,
// but not both. The zero value is an empty, invalid range.
type ContentRange struct {
	start, end uint64
	size       uint64
	hasRange   bool
	hasSize    bool
}

// NewContentRange returns the inclusive range [start, end] of an entry whose size is unknown.
func NewContentRange(start, end uint64) ContentRange {
	return ContentRange{start: start, end: end, hasRange: true}
}

// UnsatisfiedContentRange returns the `bytes */size` form sent along with 416 responses.
func UnsatisfiedContentRange(size uint64) ContentRange {
	return ContentRange{size: size, hasSize: true}
}

// WithSize returns a copy of r carrying the complete entry size.
func (r ContentRange) WithSize(size uint64) ContentRange {
	r.size = size
	r.hasSize = true
	return r
}

// Range returns the inclusive byte positions; ok is false for the unsatisfied form.
func (r ContentRange) Range() (start, end uint64, ok bool) {
	return r.start, r.end, r.hasRange
}

// Size returns the complete entry size; ok is false for the `/*` form.
func (r ContentRange) Size() (uint64, bool) {
	return r.size, r.hasSize
}

// Len returns the number of bytes covered by the range, 0 for the unsatisfied form.
func (r ContentRange) Len() uint64 {
	if !r.hasRange {
		return 0
	}
	return r.end - r.start + 1
}

func (r ContentRange) IsZero() bool {
	return r == ContentRange{}
}

func (r ContentRange) String() string {
	rng, size := "*", "*"
	if r.hasRange {
		rng = fmt.Sprintf("%d-%d", r.start, r.end)
	}
	if r.hasSize {
		size = strconv.FormatUint(r.size, 10)
	}
	return fmt.Sprintf("bytes %s/%s", rng, size)
}

// ParseContentRange parses a Content-Range header value.
func ParseContentRange(s string) (ContentRange, error) {
	unit, spec, ok := strings.Cut(strings.TrimSpace(s), " ")
	if !ok || unit != "bytes" {
		return ContentRange{}, fmt.Errorf("%w: %q", ErrInvalidContentRange, s)
	}
	rng, size, ok := strings.Cut(strings.TrimSpace(spec), "/")
	if !ok {
		return ContentRange{}, fmt.Errorf("%w: missing size in %q", ErrInvalidContentRange, s)
	}

	var out ContentRange
	if size != "*" {
		n, err := strconv.ParseUint(size, 10, 64)
		if err != nil {
			return ContentRange{}, fmt.Errorf("%w: size %q: %w", ErrInvalidContentRange, size, err)
		}
		out = out.WithSize(n)
	}

	if rng != "*" {
		first, last, ok := strings.Cut(rng, "-")
		if !ok {
			return ContentRange{}, fmt.Errorf("%w: %q", ErrInvalidContentRange, s)
		}
		start, err := strconv.ParseUint(first, 10, 64)
		if err != nil {
			return ContentRange{}, fmt.Errorf("%w: start %q: %w", ErrInvalidContentRange, first, err)
		}
		end, err := strconv.ParseUint(last, 10, 64)
		if err != nil {
			return ContentRange{}, fmt.Errorf("%w: end %q: %w", ErrInvalidContentRange, last, err)
		}
		if end < start || (out.hasSize && end >= out.size) {
			return ContentRange{}, fmt.Errorf("%w: %q out of bounds", ErrInvalidContentRange, s)
		}
		out.start, out.end, out.hasRange = start, end, true
	}

	if !out.hasRange && !out.hasSize {
		return ContentRange{}, fmt.Errorf("%w: %q", ErrInvalidContentRange, s)
	}
	return out, nil
}

func (r ContentRange) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *ContentRange) UnmarshalText(text []byte) error {
	parsed, err := ParseContentRange(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
