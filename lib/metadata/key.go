package metadata

import (
	"encoding/json"
	"fmt"
	"iter"
	"math/bits"
	"strings"
)

// Key names a single metadata attribute that a producer may or may not have populated.
// The numeric value of a Key is its bit position inside a KeySet and must stay stable.
type Key uint8

const (
	// KeyComplete marks a record that carries every attribute. It is not an ordinary member:
	// a set holding it answers true for any membership query.
	KeyComplete Key = iota
	KeyMode
	KeyCacheControl
	KeyContentDisposition
	KeyContentLength
	KeyContentMD5
	KeyContentRange
	KeyContentType
	KeyETag
	KeyLastModified
	KeyVersion

	numKeys
)

var keyNames = [numKeys]string{
	KeyComplete:           "complete",
	KeyMode:               "mode",
	KeyCacheControl:       "cache_control",
	KeyContentDisposition: "content_disposition",
	KeyContentLength:      "content_length",
	KeyContentMD5:         "content_md5",
	KeyContentRange:       "content_range",
	KeyContentType:        "content_type",
	KeyETag:               "etag",
	KeyLastModified:       "last_modified",
	KeyVersion:            "version",
}

// AllKeys returns every known key, KeyComplete included, in bit order.
func AllKeys() iter.Seq[Key] {
	return func(yield func(Key) bool) {
		for k := range numKeys {
			if !yield(k) {
				return
			}
		}
	}
}

func (k Key) String() string {
	if k >= numKeys {
		return fmt.Sprintf("key(%d)", uint8(k))
	}
	return keyNames[k]
}

// Set returns a KeySet holding only k.
func (k Key) Set() KeySet {
	if k >= numKeys {
		return 0
	}
	return KeySet(1) << k
}

// ParseKey maps a key name as produced by Key.String back to the Key.
func ParseKey(name string) (Key, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range keyNames {
		if n == name {
			return Key(k), nil
		}
	}
	return 0, fmt.Errorf("unknown metadata key %q", name)
}

// KeySet is a small bit set of Keys. The zero value is the empty set.
type KeySet uint64

// NewKeySet returns a set holding the given keys.
func NewKeySet(keys ...Key) KeySet {
	var s KeySet
	for _, k := range keys {
		s |= k.Set()
	}
	return s
}

// ParseKeys parses a comma separated list of key names, e.g. "etag,content_length".
// Empty elements are ignored so an empty string yields the empty set.
func ParseKeys(list string) (KeySet, error) {
	var s KeySet
	for name := range strings.SplitSeq(list, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		k, err := ParseKey(name)
		if err != nil {
			return 0, err
		}
		s |= k.Set()
	}
	return s, nil
}

// With returns a copy of s with keys added.
func (s KeySet) With(keys ...Key) KeySet {
	return s | NewKeySet(keys...)
}

// Union returns the keys of both sets.
func (s KeySet) Union(other KeySet) KeySet {
	return s | other
}

// Intersect returns the keys that are members of both sets. Like Difference it is a plain bit
// operation.
func (s KeySet) Intersect(other KeySet) KeySet {
	return s & other
}

// Difference returns the members of s that are not members of other. The Complete rule is not
// applied here: this is a plain bit operation used to compute which keys are still missing.
func (s KeySet) Difference(other KeySet) KeySet {
	return s &^ other
}

// IsComplete reports whether KeyComplete is a member.
func (s KeySet) IsComplete() bool {
	return s&KeyComplete.Set() != 0
}

// Contains reports whether k is a member of s, or s is complete.
func (s KeySet) Contains(k Key) bool {
	if s.IsComplete() {
		return true
	}
	return s&k.Set() != 0
}

// ContainsAll reports whether every key of other is a member of s, or s is complete.
func (s KeySet) ContainsAll(other KeySet) bool {
	if s.IsComplete() {
		return true
	}
	return s&other == other
}

func (s KeySet) IsEmpty() bool {
	return s == 0
}

// Len returns the number of member keys.
func (s KeySet) Len() int {
	return bits.OnesCount64(uint64(s))
}

// Keys yields the member keys in bit order.
func (s KeySet) Keys() iter.Seq[Key] {
	return func(yield func(Key) bool) {
		for k := range AllKeys() {
			if s&k.Set() == 0 {
				continue
			}
			if !yield(k) {
				return
			}
		}
	}
}

func (s KeySet) String() string {
	names := make([]string, 0, s.Len())
	for k := range s.Keys() {
		names = append(names, k.String())
	}
	return strings.Join(names, ",")
}

func (s KeySet) MarshalJSON() ([]byte, error) {
	names := make([]string, 0, s.Len())
	for k := range s.Keys() {
		names = append(names, k.String())
	}
	return json.Marshal(names)
}

func (s *KeySet) UnmarshalJSON(data []byte) error {
	var names []string
	err := json.Unmarshal(data, &names)
	if err != nil {
		return fmt.Errorf("unmarshal key set: %w", err)
	}

	var out KeySet
	for _, name := range names {
		k, err := ParseKey(name)
		if err != nil {
			return err
		}
		out |= k.Set()
	}
	*s = out
	return nil
}
