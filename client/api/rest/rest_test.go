package rest_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hedisam/entrymeta/client/api/rest"
	"github.com/hedisam/entrymeta/lib/httpmeta"
	"github.com/hedisam/entrymeta/lib/metadata"
)

func newTestClient(t *testing.T, handler http.Handler) *rest.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := rest.NewClient(logrus.New(), srv.URL)
	require.NoError(t, err)
	return c
}

func TestStat(t *testing.T) {
	md := metadata.New(metadata.ModeFile).WithContentLength(12).WithETag(`"abc"`)

	tests := map[string]struct {
		key     string
		keys    metadata.KeySet
		status  int
		wantErr error

		expectedPath  string
		expectedQuery string
	}{
		"found": {
			key:           "docs/a.txt",
			keys:          metadata.NewKeySet(metadata.KeyContentLength, metadata.KeyETag),
			status:        http.StatusOK,
			expectedPath:  "/v1/stat/docs/a.txt",
			expectedQuery: "keys=content_length%2Cetag",
		},
		"no keys": {
			key:          "docs/a.txt",
			status:       http.StatusOK,
			expectedPath: "/v1/stat/docs/a.txt",
		},
		"not found": {
			key:          "missing",
			status:       http.StatusNotFound,
			wantErr:      rest.ErrNotFound,
			expectedPath: "/v1/stat/missing",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, tc.expectedPath, r.URL.Path)
				assert.Equal(t, tc.expectedQuery, r.URL.RawQuery)
				if tc.status != http.StatusOK {
					http.Error(w, "nope", tc.status)
					return
				}
				_ = json.NewEncoder(w).Encode(metadata.Entry{Path: tc.key, Metadata: md})
			}))

			entry, err := c.Stat(t.Context(), tc.key, tc.keys)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.key, entry.Path)
			assert.Equal(t, md, entry.Metadata)
		})
	}
}

func TestHead(t *testing.T) {
	want := metadata.New(metadata.ModeFile).WithContentLength(12).WithETag(`W/"c-1"`).WithContentType("text/plain")

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		assert.Equal(t, "/v1/files/docs/a.txt", r.URL.Path)
		httpmeta.WriteHeader(w.Header(), want)
		w.WriteHeader(http.StatusOK)
	}))

	got, err := c.Head(t.Context(), "docs/a.txt", metadata.KeyETag.Set())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestList(t *testing.T) {
	entries := []metadata.Entry{
		{Path: "a.txt", Metadata: metadata.New(metadata.ModeFile).WithContentLength(1)},
		{Path: "docs", Metadata: metadata.New(metadata.ModeDir)},
	}

	tests := map[string]struct {
		prefix       string
		expectedPath string
	}{
		"root": {
			prefix:       "",
			expectedPath: "/v1/list/",
		},
		"nested": {
			prefix:       "docs/reports",
			expectedPath: "/v1/list/docs/reports",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tc.expectedPath, r.URL.Path)
				_ = json.NewEncoder(w).Encode(map[string]any{"entries": entries})
			}))

			got, err := c.List(t.Context(), tc.prefix, 0)
			require.NoError(t, err)
			assert.Equal(t, entries, got)
		})
	}
}

func TestDelete(t *testing.T) {
	tests := map[string]struct {
		status  int
		wantErr error
	}{
		"deleted": {
			status: http.StatusOK,
		},
		"not found": {
			status:  http.StatusNotFound,
			wantErr: rest.ErrNotFound,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodDelete, r.Method)
				assert.Equal(t, "/v1/files/docs/a.txt", r.URL.Path)
				w.WriteHeader(tc.status)
			}))

			err := c.Delete(t.Context(), "docs/a.txt")
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestDownload(t *testing.T) {
	const content = "hello, world"

	tests := map[string]struct {
		rangeHeader string
		wantErr     error

		expectedBody  string
		expectedRange string
	}{
		"whole file": {
			expectedBody: content,
		},
		"range": {
			rangeHeader:   "bytes=7-11",
			expectedBody:  "world",
			expectedRange: "bytes 7-11/12",
		},
		"unsatisfiable": {
			rangeHeader: "bytes=50-",
			wantErr:     rest.ErrUnsatisfiableRange,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tc.rangeHeader, r.Header.Get("Range"))
				switch r.Header.Get("Range") {
				case "":
					httpmeta.WriteHeader(w.Header(), metadata.New(metadata.ModeFile).WithContentLength(12))
					w.WriteHeader(http.StatusOK)
					_, _ = io.WriteString(w, content)
				case "bytes=7-11":
					md := metadata.New(metadata.ModeFile).
						WithContentLength(5).
						WithContentRange(metadata.NewContentRange(7, 11).WithSize(12))
					httpmeta.WriteHeader(w.Header(), md)
					w.WriteHeader(http.StatusPartialContent)
					_, _ = io.WriteString(w, "world")
				default:
					w.Header().Set("Content-Range", "bytes */12")
					w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
				}
			}))

			rc, md, err := c.Download(t.Context(), "docs/a.txt", tc.rangeHeader)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			defer rc.Close()

			body, err := io.ReadAll(rc)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedBody, string(body))

			if tc.expectedRange == "" {
				assert.False(t, md.Has(metadata.KeyContentRange))
				return
			}
			cr, err := md.ContentRange()
			require.NoError(t, err)
			assert.Equal(t, tc.expectedRange, cr.String())
		})
	}
}

func TestUpload(t *testing.T) {
	const content = "hello, world"

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, int64(len(content)), r.ContentLength)
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.Equal(t, content, string(body))

		httpmeta.WriteHeader(w.Header(), metadata.New(metadata.ModeFile).WithETag(`"abc"`))
		w.WriteHeader(http.StatusCreated)
	}))

	md, err := c.Upload(t.Context(), strings.NewReader(content), c.UploadURL()+"?sig=x", int64(len(content)))
	require.NoError(t, err)
	etag, err := md.ETag()
	require.NoError(t, err)
	assert.Equal(t, `"abc"`, etag)
}
