package blobstorage_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hedisam/entrymeta/lib/metadata"
	"github.com/hedisam/entrymeta/server/internal/blobstorage"
)

func TestDigestReader(t *testing.T) {
	tests := map[string]struct {
		data           string
		expectedSHA256 string
		expectedMD5    string
	}{
		"empty": {
			data:           "",
			expectedSHA256: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
			expectedMD5:    "1B2M2Y8AsgTpgAmY7PhCfg==",
		},
		"hello world": {
			data:           "hello world",
			expectedSHA256: "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9",
			expectedMD5:    "XrY7u+Ae7tCTyyK7j1rNww==",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			dr := blobstorage.NewDigestReader(bytes.NewBufferString(tc.data))
			out, err := io.ReadAll(dr)
			require.NoError(t, err)

			assert.Equal(t, tc.data, string(out))
			assert.EqualValues(t, len(tc.data), dr.Count())
			assert.Equal(t, tc.expectedSHA256, dr.SHA256())
			assert.Equal(t, tc.expectedMD5, dr.ContentMD5())
		})
	}
}

func TestWanted(t *testing.T) {
	tests := map[string]struct {
		keys     metadata.KeySet
		expected metadata.KeySet
	}{
		"plain keys pass through": {
			keys:     metadata.NewKeySet(metadata.KeyETag, metadata.KeyContentLength),
			expected: metadata.NewKeySet(metadata.KeyETag, metadata.KeyContentLength),
		},
		"empty": {},
		"complete expands to every attribute": {
			keys: metadata.KeyComplete.Set(),
			expected: metadata.NewKeySet(
				metadata.KeyMode,
				metadata.KeyCacheControl,
				metadata.KeyContentDisposition,
				metadata.KeyContentLength,
				metadata.KeyContentMD5,
				metadata.KeyContentRange,
				metadata.KeyContentType,
				metadata.KeyETag,
				metadata.KeyLastModified,
				metadata.KeyVersion,
			),
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := blobstorage.Wanted(tc.keys)
			assert.Equal(t, tc.expected, got)
			assert.False(t, got.IsComplete())
		})
	}
}
