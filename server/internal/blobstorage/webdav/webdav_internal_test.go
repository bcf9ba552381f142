package webdav

import (
	"errors"
	"io/fs"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hedisam/entrymeta/lib/metadata"
	"github.com/hedisam/entrymeta/server/internal/blobstorage"
)

type fakeFileInfo struct {
	size        int64
	mode        fs.FileMode
	mtime       time.Time
	etag        string
	contentType string
}

func (f fakeFileInfo) Name() string        { return "object" }
func (f fakeFileInfo) Size() int64         { return f.size }
func (f fakeFileInfo) Mode() fs.FileMode   { return f.mode }
func (f fakeFileInfo) ModTime() time.Time  { return f.mtime }
func (f fakeFileInfo) IsDir() bool         { return f.mode.IsDir() }
func (f fakeFileInfo) Sys() any            { return nil }
func (f fakeFileInfo) ETag() string        { return f.etag }
func (f fakeFileInfo) ContentType() string { return f.contentType }

func TestFileInfoToMetadata(t *testing.T) {
	mtime := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	tests := map[string]struct {
		fi           fakeFileInfo
		expectedETag string
		expectedType string
		expectDir    bool
	}{
		"quoted etag and content type": {
			fi:           fakeFileInfo{size: 3, mode: 0o664, mtime: mtime, etag: `"abc"`, contentType: "text/plain"},
			expectedETag: `"abc"`,
			expectedType: "text/plain",
		},
		"bare etag gets quoted": {
			fi:           fakeFileInfo{size: 3, mode: 0o664, mtime: mtime, etag: "abc"},
			expectedETag: `"abc"`,
		},
		"weak etag kept": {
			fi:           fakeFileInfo{size: 3, mode: 0o664, mtime: mtime, etag: `W/"abc"`},
			expectedETag: `W/"abc"`,
		},
		"no etag": {
			fi: fakeFileInfo{size: 3, mode: 0o664, mtime: mtime},
		},
		"directory": {
			fi:        fakeFileInfo{mode: fs.ModeDir | 0o775, mtime: mtime, etag: `"dir"`},
			expectDir: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			md := fileInfoToMetadata(tc.fi)
			if tc.expectDir {
				assert.True(t, md.IsDir())
				assert.True(t, md.Presence().IsComplete())
				etag, err := md.ETag()
				require.NoError(t, err)
				assert.Empty(t, etag)
				return
			}

			assert.True(t, md.IsFile())
			size, err := md.ContentLength()
			require.NoError(t, err)
			assert.EqualValues(t, tc.fi.size, size)

			lm, err := md.LastModified()
			require.NoError(t, err)
			assert.True(t, mtime.Equal(lm))

			etag, err := md.ETag()
			if tc.expectedETag == "" {
				require.ErrorIs(t, err, metadata.ErrNotFetched)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.expectedETag, etag)
			}

			ct, err := md.ContentType()
			if tc.expectedType == "" {
				require.ErrorIs(t, err, metadata.ErrNotFetched)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.expectedType, ct)
			}
		})
	}
}

func TestTranslateError(t *testing.T) {
	tests := map[string]struct {
		err      error
		expected error
	}{
		"not found": {
			err:      &os.PathError{Op: "Stat", Path: "/x", Err: errors.New("404 Not Found")},
			expected: blobstorage.ErrObjectNotFound,
		},
		"range": {
			err:      &os.PathError{Op: "ReadStreamRange", Path: "/x", Err: errors.New("416")},
			expected: blobstorage.ErrInvalidRange,
		},
		"server error": {
			err: &os.PathError{Op: "Stat", Path: "/x", Err: errors.New("500 Internal Server Error")},
		},
		"not a path error": {
			err: errors.New("dial tcp: connection refused"),
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := translateError(tc.err)
			if tc.expected == nil {
				assert.Equal(t, tc.err, got)
				return
			}
			require.ErrorIs(t, got, tc.expected)
		})
	}
}
