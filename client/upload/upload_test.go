package upload_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hedisam/entrymeta/client/filesystem"
	"github.com/hedisam/entrymeta/client/upload"
	"github.com/hedisam/entrymeta/client/upload/mocks"
	"github.com/hedisam/entrymeta/lib/metadata"
	"github.com/hedisam/entrymeta/lib/psurls"
)

//go:generate moq -out mocks/rest_client.go -pkg mocks -skip-ensure . RestClient

const (
	testUploadURL = "http://localhost:8080/v1/files/upload"
	testSecret    = "0123456789abcdef0123"
)

var testCreds = upload.Credentials{AccessKeyID: "AKTEST", SecretKey: testSecret}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func TestUpload(t *testing.T) {
	tests := map[string]struct {
		fileName            string
		headers             upload.ContentHeaders
		expectedContentType string
		expectedCache       string
	}{
		"content type from extension": {
			fileName:            "report.json",
			expectedContentType: "application/json",
		},
		"explicit headers": {
			fileName: "report.json",
			headers: upload.ContentHeaders{
				ContentType:  "text/plain",
				CacheControl: "max-age=60",
			},
			expectedContentType: "text/plain",
			expectedCache:       "max-age=60",
		},
		"unknown extension": {
			fileName: "blob.zzzunknown",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			const content = `{"a":1}`
			sum := sha256.Sum256([]byte(content))
			p := writeFile(t, t.TempDir(), tc.fileName, content)

			client := &mocks.RestClientMock{
				UploadFunc: func(ctx context.Context, r io.ReadSeeker, presignedURL string, size int64) (metadata.Metadata, error) {
					body, err := io.ReadAll(r)
					require.NoError(t, err)
					assert.Equal(t, content, string(body))
					assert.Equal(t, int64(len(content)), size)
					return metadata.New(metadata.ModeFile).WithETag(`"etag"`), nil
				},
			}

			u := upload.New(logrus.New(), client, testUploadURL, testCreds, upload.WithContentHeaders(tc.headers))
			res, err := u.Upload(context.Background(), &filesystem.File{Path: p, Key: "docs/" + tc.fileName})
			require.NoError(t, err)
			assert.Equal(t, "docs/"+tc.fileName, res.Key)
			assert.Equal(t, int64(len(content)), res.Size)

			require.Len(t, client.UploadCalls(), 1)
			u2, err := url.Parse(client.UploadCalls()[0].PresignedURL)
			require.NoError(t, err)
			assert.Equal(t, "/v1/files/upload", u2.Path)

			data, err := psurls.Validate(u2.Query(), testSecret)
			require.NoError(t, err)
			assert.Equal(t, "docs/"+tc.fileName, data.ObjectKey)
			assert.Equal(t, hex.EncodeToString(sum[:]), data.SHA256Checksum)
			assert.Equal(t, int64(len(content)), data.Size)
			assert.Equal(t, testCreds.AccessKeyID, data.AccessKeyID)
			assert.Equal(t, tc.expectedContentType, data.ContentType)
			assert.Equal(t, tc.expectedCache, data.CacheControl)
		})
	}
}

func TestUploadMissingFile(t *testing.T) {
	client := &mocks.RestClientMock{}
	u := upload.New(logrus.New(), client, testUploadURL, testCreds)

	_, err := u.Upload(context.Background(), &filesystem.File{Path: filepath.Join(t.TempDir(), "nope"), Key: "nope"})
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.Empty(t, client.UploadCalls())
}

func TestUploadAll(t *testing.T) {
	tests := map[string]struct {
		files     []string
		failKey   string
		workers   uint
		wantErr   bool
		wantCount int
	}{
		"uploads every file": {
			files:     []string{"a.txt", "b.txt", "c.txt", "d.txt"},
			workers:   2,
			wantCount: 4,
		},
		"more workers than files": {
			files:     []string{"a.txt"},
			workers:   8,
			wantCount: 1,
		},
		"no files": {
			workers: 2,
		},
		"stops on failure": {
			files:   []string{"a.txt", "b.txt"},
			failKey: "b.txt",
			workers: 1,
			wantErr: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			var files []*filesystem.File
			for _, f := range tc.files {
				files = append(files, &filesystem.File{Path: writeFile(t, dir, f, "data-"+f), Key: f})
			}

			client := &mocks.RestClientMock{
				UploadFunc: func(ctx context.Context, r io.ReadSeeker, presignedURL string, size int64) (metadata.Metadata, error) {
					u, err := url.Parse(presignedURL)
					require.NoError(t, err)
					if u.Query().Get(psurls.ObjectKey) == tc.failKey {
						return metadata.Metadata{}, errors.New("server unavailable")
					}
					return metadata.New(metadata.ModeFile), nil
				},
			}

			var (
				mu   sync.Mutex
				done []string
			)
			u := upload.New(logrus.New(), client, testUploadURL, testCreds, upload.WithWorkers(tc.workers))
			err := u.UploadAll(context.Background(), files, func(res *upload.Result) {
				mu.Lock()
				done = append(done, res.Key)
				mu.Unlock()
			})
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			slices.Sort(done)
			assert.Len(t, done, tc.wantCount)
			if tc.wantCount > 0 {
				assert.Equal(t, tc.files, done)
			}
		})
	}
}

func TestBatch(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "a")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0755))
	writeFile(t, root, "sub/b.txt", "b")

	batch := &upload.Batch{}
	err := filesystem.Walk(context.Background(), logrus.New(), root, "backup", batch)
	require.NoError(t, err)

	var keys []string
	for _, f := range batch.Files() {
		keys = append(keys, f.Key)
	}
	slices.Sort(keys)
	assert.Equal(t, []string{"backup/a.txt", "backup/sub/b.txt"}, keys)
}
