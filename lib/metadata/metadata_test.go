package metadata_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hedisam/entrymeta/lib/metadata"
)

func TestNewKeepsMode(t *testing.T) {
	tests := map[string]struct {
		mode metadata.EntryMode
	}{
		"file":    {mode: metadata.ModeFile},
		"dir":     {mode: metadata.ModeDir},
		"unknown": {mode: metadata.ModeUnknown},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			md := metadata.New(tc.mode)
			assert.Equal(t, tc.mode, md.Mode())
			assert.True(t, md.Has(metadata.KeyMode))
			assert.Equal(t, tc.mode == metadata.ModeFile, md.IsFile())
			assert.Equal(t, tc.mode == metadata.ModeDir, md.IsDir())
		})
	}
}

func TestDirIsComplete(t *testing.T) {
	md := metadata.New(metadata.ModeDir)

	for k := range metadata.AllKeys() {
		assert.True(t, md.Has(k), "key %s", k)
	}
	assert.True(t, md.HasAll(metadata.NewKeySet(metadata.KeyETag, metadata.KeyVersion)))

	n, err := md.ContentLength()
	require.NoError(t, err)
	assert.Zero(t, n)

	ct, err := md.ContentType()
	require.NoError(t, err)
	assert.Empty(t, ct)

	lm, err := md.LastModified()
	require.NoError(t, err)
	assert.True(t, lm.IsZero())

	cr, err := md.ContentRange()
	require.NoError(t, err)
	assert.True(t, cr.IsZero())

	for _, get := range []func() (string, error){md.CacheControl, md.ContentDisposition, md.ContentMD5, md.ETag, md.Version} {
		v, err := get()
		require.NoError(t, err)
		assert.Empty(t, v)
	}

	_, ok := md.ContentLengthRaw()
	assert.False(t, ok)
}

func TestFileContentLength(t *testing.T) {
	md := metadata.New(metadata.ModeFile)
	assert.False(t, md.Has(metadata.KeyContentLength))

	n, err := md.ContentLength()
	require.Error(t, err)
	assert.ErrorIs(t, err, metadata.ErrNotFetched)
	assert.Zero(t, n)

	var nfErr *metadata.NotFetchedError
	require.True(t, errors.As(err, &nfErr))
	assert.Equal(t, metadata.KeyContentLength, nfErr.Key)
	assert.EqualError(t, err, `metadata key "content_length" was not fetched`)

	md.SetContentLength(42)
	assert.True(t, md.Has(metadata.KeyContentLength))
	n, err = md.ContentLength()
	require.NoError(t, err)
	assert.EqualValues(t, 42, n)

	raw, ok := md.ContentLengthRaw()
	assert.True(t, ok)
	assert.EqualValues(t, 42, raw)
}

func TestNotFetchedAccessors(t *testing.T) {
	md := metadata.New(metadata.ModeFile)

	tests := map[string]struct {
		key metadata.Key
		get func() error
	}{
		"cache control": {key: metadata.KeyCacheControl, get: func() error { _, err := md.CacheControl(); return err }},
		"content disposition": {key: metadata.KeyContentDisposition, get: func() error {
			_, err := md.ContentDisposition()
			return err
		}},
		"content md5":   {key: metadata.KeyContentMD5, get: func() error { _, err := md.ContentMD5(); return err }},
		"content range": {key: metadata.KeyContentRange, get: func() error { _, err := md.ContentRange(); return err }},
		"content type":  {key: metadata.KeyContentType, get: func() error { _, err := md.ContentType(); return err }},
		"etag":          {key: metadata.KeyETag, get: func() error { _, err := md.ETag(); return err }},
		"last modified": {key: metadata.KeyLastModified, get: func() error { _, err := md.LastModified(); return err }},
		"version":       {key: metadata.KeyVersion, get: func() error { _, err := md.Version(); return err }},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			err := tc.get()
			require.ErrorIs(t, err, metadata.ErrNotFetched)
			var nfErr *metadata.NotFetchedError
			require.ErrorAs(t, err, &nfErr)
			assert.Equal(t, tc.key, nfErr.Key)
		})
	}
}

func TestBuilderMatchesSetter(t *testing.T) {
	built := metadata.New(metadata.ModeFile).WithContentLength(42)

	set := metadata.New(metadata.ModeFile)
	set.SetContentLength(42)

	assert.Equal(t, set, built)
	assert.True(t, set == built)
}

func TestFullChainEquivalence(t *testing.T) {
	modTime := time.Date(2024, 3, 1, 10, 30, 0, 0, time.FixedZone("CET", 3600))
	rng := metadata.NewContentRange(0, 9).WithSize(100)

	built := metadata.New(metadata.ModeFile).
		WithCacheControl("no-cache").
		WithContentDisposition(`attachment; filename="f.jpg"`).
		WithContentLength(100).
		WithContentMD5("1B2M2Y8AsgTpgAmY7PhCfg==").
		WithContentRange(rng).
		WithContentType("image/jpeg").
		WithETag(`"abc"`).
		WithLastModified(modTime).
		WithVersion("v1")

	set := metadata.New(metadata.ModeFile)
	set.SetCacheControl("no-cache").
		SetContentDisposition(`attachment; filename="f.jpg"`).
		SetContentLength(100).
		SetContentMD5("1B2M2Y8AsgTpgAmY7PhCfg==").
		SetContentRange(rng).
		SetContentType("image/jpeg").
		SetETag(`"abc"`).
		SetLastModified(modTime).
		SetVersion("v1")

	assert.Equal(t, set, built)

	lm, err := built.LastModified()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, lm.Location())
	assert.True(t, lm.Equal(modTime))

	for k := range metadata.AllKeys() {
		if k == metadata.KeyComplete {
			assert.False(t, built.Presence().IsComplete())
			continue
		}
		assert.True(t, built.Has(k), "key %s", k)
	}
}

func TestWithDoesNotMutateReceiver(t *testing.T) {
	base := metadata.New(metadata.ModeFile)
	_ = base.WithETag(`"x"`)

	assert.False(t, base.Has(metadata.KeyETag))
}

func TestETagVerbatim(t *testing.T) {
	tests := map[string]string{
		"strong":        `"33a64df551425fcc55e4d42a148795d9f25f89d4"`,
		"weak":          `W/"0815"`,
		"unquoted":      `33a64df5`,
		"padded spaces": ` "abc" `,
		"empty":         ``,
	}

	for name, etag := range tests {
		t.Run(name, func(t *testing.T) {
			md := metadata.New(metadata.ModeFile)
			md.SetETag(etag)
			got, err := md.ETag()
			require.NoError(t, err)
			assert.Equal(t, etag, got)

			data, err := json.Marshal(md)
			require.NoError(t, err)
			var decoded metadata.Metadata
			require.NoError(t, json.Unmarshal(data, &decoded))
			got, err = decoded.ETag()
			require.NoError(t, err)
			assert.Equal(t, etag, got)
		})
	}
}

func TestStringsVerbatim(t *testing.T) {
	md := metadata.New(metadata.ModeFile).
		WithContentDisposition(`attachment; filename="f.jpg"`).
		WithCacheControl(" max-age=60, public ").
		WithContentType("text/plain; charset=UTF-8")

	cd, err := md.ContentDisposition()
	require.NoError(t, err)
	assert.Equal(t, `attachment; filename="f.jpg"`, cd)

	cc, err := md.CacheControl()
	require.NoError(t, err)
	assert.Equal(t, " max-age=60, public ", cc)

	ct, err := md.ContentType()
	require.NoError(t, err)
	assert.Equal(t, "text/plain; charset=UTF-8", ct)
}

func TestCompleteMakesEveryKeyPresent(t *testing.T) {
	md := metadata.New(metadata.ModeFile).WithPresence(metadata.NewKeySet(metadata.KeyComplete))

	for k := range metadata.AllKeys() {
		assert.True(t, md.Has(k), "key %s", k)
	}
	_, err := md.Version()
	assert.NoError(t, err)
}

func TestSetModeIdempotent(t *testing.T) {
	md := metadata.New(metadata.ModeFile)
	before := md.Presence()

	md.SetMode(metadata.ModeUnknown).SetMode(metadata.ModeFile)
	assert.Equal(t, before, md.Presence())
	assert.Equal(t, 1, md.Presence().Len())
	assert.Equal(t, metadata.ModeFile, md.Mode())

	md = md.WithMode(metadata.ModeUnknown)
	assert.Equal(t, metadata.ModeUnknown, md.Mode())
	assert.Equal(t, before, md.Presence())
}

func TestSetterIsNotToggle(t *testing.T) {
	md := metadata.New(metadata.ModeFile)
	md.SetContentType("a").SetContentType("a")
	assert.True(t, md.Has(metadata.KeyContentType))

	md.SetContentType("b")
	ct, err := md.ContentType()
	require.NoError(t, err)
	assert.Equal(t, "b", ct)
	assert.Equal(t, 2, md.Presence().Len())
}

func TestWithPresence(t *testing.T) {
	md := metadata.New(metadata.ModeFile).WithContentLength(7).WithETag(`"e"`)
	narrowed := md.WithPresence(metadata.NewKeySet(metadata.KeyMode, metadata.KeyContentLength))

	assert.True(t, narrowed.Has(metadata.KeyContentLength))
	assert.False(t, narrowed.Has(metadata.KeyETag))
	_, err := narrowed.ETag()
	assert.ErrorIs(t, err, metadata.ErrNotFetched)

	widened := narrowed.WithPresence(narrowed.Presence().With(metadata.KeyETag))
	etag, err := widened.ETag()
	require.NoError(t, err)
	assert.Equal(t, `"e"`, etag)
}

func TestMerge(t *testing.T) {
	modTime := time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := map[string]struct {
		base     metadata.Metadata
		other    metadata.Metadata
		expected metadata.Metadata
	}{
		"fills missing keys": {
			base:  metadata.New(metadata.ModeFile).WithContentLength(10),
			other: metadata.New(metadata.ModeFile).WithETag(`"x"`).WithLastModified(modTime),
			expected: metadata.New(metadata.ModeFile).
				WithContentLength(10).
				WithETag(`"x"`).
				WithLastModified(modTime),
		},
		"other wins on overlap": {
			base:     metadata.New(metadata.ModeFile).WithContentType("text/plain"),
			other:    metadata.New(metadata.ModeFile).WithContentType("application/json"),
			expected: metadata.New(metadata.ModeFile).WithContentType("application/json"),
		},
		"complete other keeps values": {
			base:  metadata.New(metadata.ModeFile).WithVersion("v2"),
			other: metadata.New(metadata.ModeDir),
			expected: metadata.New(metadata.ModeDir).
				WithVersion("v2"),
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := tc.base
			got.Merge(tc.other)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestJSONOnlyEmitsPresentKeys(t *testing.T) {
	md := metadata.New(metadata.ModeFile).
		WithContentLength(0).
		WithContentRange(metadata.NewContentRange(0, 0).WithSize(1)).
		WithLastModified(time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC))

	data, err := json.Marshal(md)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"mode": "file",
		"keys": ["mode", "content_length", "content_range", "last_modified"],
		"content_length": 0,
		"content_range": "bytes 0-0/1",
		"last_modified": "2024-05-06T07:08:09Z"
	}`, string(data))

	var decoded metadata.Metadata
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, md, decoded)
}

func TestJSONRoundTripDir(t *testing.T) {
	entry := metadata.Entry{Path: "photos/", Metadata: metadata.New(metadata.ModeDir)}

	data, err := json.Marshal(entry)
	require.NoError(t, err)
	assert.JSONEq(t, `{"path":"photos/","metadata":{"mode":"dir","keys":["complete","mode"]}}`, string(data))

	var decoded metadata.Entry
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, entry, decoded)
	assert.True(t, decoded.Metadata.Has(metadata.KeyContentMD5))
}

func TestJSONDecodeKeepsModeAndValues(t *testing.T) {
	tests := map[string]struct {
		payload          string
		expectedPresence metadata.KeySet
		expectedLength   uint64
	}{
		"keys missing": {
			payload:          `{"mode":"file","content_length":5}`,
			expectedPresence: metadata.NewKeySet(metadata.KeyMode, metadata.KeyContentLength),
			expectedLength:   5,
		},
		"keys empty": {
			payload:          `{"mode":"file","keys":[],"content_length":5}`,
			expectedPresence: metadata.NewKeySet(metadata.KeyMode, metadata.KeyContentLength),
			expectedLength:   5,
		},
		"keys add a value fetched as empty": {
			payload:          `{"mode":"file","keys":["etag"],"content_length":5}`,
			expectedPresence: metadata.NewKeySet(metadata.KeyMode, metadata.KeyContentLength, metadata.KeyETag),
			expectedLength:   5,
		},
		"mode only": {
			payload:          `{"mode":"file"}`,
			expectedPresence: metadata.NewKeySet(metadata.KeyMode),
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			var md metadata.Metadata
			require.NoError(t, json.Unmarshal([]byte(tc.payload), &md))

			assert.Equal(t, tc.expectedPresence, md.Presence())
			assert.True(t, md.Has(metadata.KeyMode))
			assert.True(t, md.IsFile())
			if tc.expectedLength > 0 {
				n, err := md.ContentLength()
				require.NoError(t, err)
				assert.Equal(t, tc.expectedLength, n)
			}
		})
	}
}

func TestJSONRejectsUnknownKey(t *testing.T) {
	var md metadata.Metadata
	err := json.Unmarshal([]byte(`{"mode":"file","keys":["mode","colour"]}`), &md)
	require.Error(t, err)
	assert.ErrorContains(t, err, `unknown metadata key "colour"`)
}
