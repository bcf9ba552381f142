package metadata

import (
	"encoding/json"
	"fmt"
	"time"
)

// jsonMetadata is the wire form of a record. Only attributes set individually are emitted; keys
// carries the presence set, KeyComplete included. When decoding, the mode and every decoded value
// are present whatever keys says.
type jsonMetadata struct {
	Mode               EntryMode     `json:"mode"`
	Keys               KeySet        `json:"keys"`
	CacheControl       *string       `json:"cache_control,omitempty"`
	ContentDisposition *string       `json:"content_disposition,omitempty"`
	ContentLength      *uint64       `json:"content_length,omitempty"`
	ContentMD5         *string       `json:"content_md5,omitempty"`
	ContentRange       *ContentRange `json:"content_range,omitempty"`
	ContentType        *string       `json:"content_type,omitempty"`
	ETag               *string       `json:"etag,omitempty"`
	LastModified       *time.Time    `json:"last_modified,omitempty"`
	Version            *string       `json:"version,omitempty"`
}

func setIn[T any](m Metadata, k Key, v T) *T {
	if m.presence&k.Set() == 0 {
		return nil
	}
	return &v
}

func (m Metadata) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonMetadata{
		Mode:               m.mode,
		Keys:               m.presence,
		CacheControl:       setIn(m, KeyCacheControl, m.cacheControl),
		ContentDisposition: setIn(m, KeyContentDisposition, m.contentDisposition),
		ContentLength:      setIn(m, KeyContentLength, m.contentLength),
		ContentMD5:         setIn(m, KeyContentMD5, m.contentMD5),
		ContentRange:       setIn(m, KeyContentRange, m.contentRange),
		ContentType:        setIn(m, KeyContentType, m.contentType),
		ETag:               setIn(m, KeyETag, m.etag),
		LastModified:       setIn(m, KeyLastModified, m.lastModified),
		Version:            setIn(m, KeyVersion, m.version),
	})
}

func (m *Metadata) UnmarshalJSON(data []byte) error {
	var in jsonMetadata
	err := json.Unmarshal(data, &in)
	if err != nil {
		return fmt.Errorf("unmarshal metadata: %w", err)
	}

	out := New(in.Mode)
	if in.CacheControl != nil {
		out.SetCacheControl(*in.CacheControl)
	}
	if in.ContentDisposition != nil {
		out.SetContentDisposition(*in.ContentDisposition)
	}
	if in.ContentLength != nil {
		out.SetContentLength(*in.ContentLength)
	}
	if in.ContentMD5 != nil {
		out.SetContentMD5(*in.ContentMD5)
	}
	if in.ContentRange != nil {
		out.SetContentRange(*in.ContentRange)
	}
	if in.ContentType != nil {
		out.SetContentType(*in.ContentType)
	}
	if in.ETag != nil {
		out.SetETag(*in.ETag)
	}
	if in.LastModified != nil {
		out.SetLastModified(*in.LastModified)
	}
	if in.Version != nil {
		out.SetVersion(*in.Version)
	}

	// keys may add presence (complete, or values fetched as empty) but never drop the mode or a
	// decoded value
	*m = out.WithPresence(out.Presence().Union(in.Keys))
	return nil
}
