// Package webdav stores objects as files on a WebDAV server. PROPFIND answers size, mtime and,
// when the server reports them, the ETag and content type. Content headers given at upload cannot
// be stored.
package webdav

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/studio-b12/gowebdav"

	"github.com/hedisam/entrymeta/lib/httpmeta"
	"github.com/hedisam/entrymeta/lib/metadata"
	"github.com/hedisam/entrymeta/server/internal/blobstorage"
)

const defaultFilePerm = 0o600

type Options struct {
	URL      string
	Username string
	Password string
	// Dir is the collection objects are stored in, relative to URL.
	Dir string
}

type WebDAV struct {
	logger *logrus.Logger
	cli    *gowebdav.Client
	dir    string
}

// New connects to the server and creates the object collection if needed.
func New(logger *logrus.Logger, opts Options) (*WebDAV, error) {
	if opts.URL == "" {
		return nil, errors.New("webdav url is required")
	}

	cli := gowebdav.NewClient(opts.URL, opts.Username, opts.Password)
	err := cli.Connect()
	if err != nil {
		return nil, fmt.Errorf("connect to webdav server: %w", translateError(err))
	}

	dir := gowebdav.FixSlash(path.Join("/", opts.Dir))
	err = cli.MkdirAll(dir, 0o700)
	if err != nil {
		return nil, fmt.Errorf("create webdav dir %q: %w", dir, translateError(err))
	}

	logger.WithFields(logrus.Fields{
		"url": opts.URL,
		"dir": dir,
	}).Info("Connected to webdav server")

	return &WebDAV{
		logger: logger,
		cli:    cli,
		dir:    dir,
	}, nil
}

func (w *WebDAV) objectPath(objectID string) string {
	return path.Join(w.dir, objectID)
}

// PutObject uploads r and stats the result. hints are ignored.
func (w *WebDAV) PutObject(ctx context.Context, r io.Reader, objectID string, _ metadata.Metadata) (metadata.Metadata, error) {
	logger := w.logger.WithContext(ctx).WithField("object_id", objectID)

	err := w.cli.WriteStream(w.objectPath(objectID), r, defaultFilePerm)
	if err != nil {
		logger.WithError(err).Error("Could not write object to webdav server")
		return metadata.Metadata{}, fmt.Errorf("write object: %w", translateError(err))
	}

	return w.StatObject(ctx, objectID, 0)
}

// StatObject issues a single PROPFIND, want is not consulted.
func (w *WebDAV) StatObject(_ context.Context, objectID string, _ metadata.KeySet) (metadata.Metadata, error) {
	fi, err := w.cli.Stat(w.objectPath(objectID))
	if err != nil {
		return metadata.Metadata{}, fmt.Errorf("stat object: %w", translateError(err))
	}

	return fileInfoToMetadata(fi), nil
}

func (w *WebDAV) ReadObject(ctx context.Context, objectID string, rng *blobstorage.ReadRange) (io.ReadCloser, metadata.Metadata, error) {
	md, err := w.StatObject(ctx, objectID, 0)
	if err != nil {
		return nil, metadata.Metadata{}, err
	}

	if rng == nil {
		rc, err := w.cli.ReadStream(w.objectPath(objectID))
		if err != nil {
			return nil, metadata.Metadata{}, fmt.Errorf("read object: %w", translateError(err))
		}
		return rc, md, nil
	}

	size, _ := md.ContentLengthRaw()
	if rng.Offset >= size || rng.Length == 0 {
		md.SetContentRange(metadata.UnsatisfiedContentRange(size))
		return nil, md, fmt.Errorf("read %d bytes at %d of %d: %w", rng.Length, rng.Offset, size, blobstorage.ErrInvalidRange)
	}

	length := min(rng.Length, size-rng.Offset)
	rc, err := w.cli.ReadStreamRange(w.objectPath(objectID), int64(rng.Offset), int64(length))
	if err != nil {
		return nil, metadata.Metadata{}, fmt.Errorf("read object range: %w", translateError(err))
	}

	md.SetContentLength(length)
	md.SetContentRange(metadata.NewContentRange(rng.Offset, rng.Offset+length-1).WithSize(size))
	return rc, md, nil
}

func (w *WebDAV) DeleteObject(ctx context.Context, objectID string) error {
	err := w.cli.Remove(w.objectPath(objectID))
	if err != nil {
		err = translateError(err)
		if errors.Is(err, blobstorage.ErrObjectNotFound) {
			return nil
		}
		w.logger.WithContext(ctx).WithError(err).WithField("object_id", objectID).Error("Could not remove object from webdav server")
		return fmt.Errorf("remove object: %w", err)
	}
	return nil
}

// fileInfoToMetadata maps a PROPFIND result. gowebdav exposes ETag and content type through its
// File type only, so they are picked up when fi provides them.
func fileInfoToMetadata(fi os.FileInfo) metadata.Metadata {
	md := metadata.New(metadata.ModeFromFileMode(fi.Mode()))
	if md.IsDir() {
		return md
	}

	md.SetContentLength(uint64(max(fi.Size(), 0)))
	if !fi.ModTime().IsZero() {
		md.SetLastModified(fi.ModTime())
	}

	if f, ok := fi.(interface{ ETag() string }); ok && f.ETag() != "" {
		etag := f.ETag()
		if !strings.HasPrefix(etag, `"`) && !strings.HasPrefix(etag, "W/") {
			etag = httpmeta.StrongETag(etag)
		}
		md.SetETag(etag)
	}
	if f, ok := fi.(interface{ ContentType() string }); ok && f.ContentType() != "" {
		md.SetContentType(f.ContentType())
	}
	return md
}

// httpErrorCode extracts the status gowebdav puts first in the message of its PathErrors.
func httpErrorCode(err error) int {
	var pe *os.PathError

	if errors.As(err, &pe) {
		code, err := strconv.Atoi(strings.Split(pe.Err.Error(), " ")[0])
		if err == nil {
			return code
		}
	}

	return 0
}

func translateError(err error) error {
	switch httpErrorCode(err) {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", blobstorage.ErrObjectNotFound, err.Error())
	case http.StatusRequestedRangeNotSatisfiable:
		return fmt.Errorf("%w: %s", blobstorage.ErrInvalidRange, err.Error())
	default:
		return err
	}
}
