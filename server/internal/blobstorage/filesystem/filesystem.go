package filesystem

import (
	"context"
	"crypto/md5"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/hedisam/entrymeta/lib/httpmeta"
	"github.com/hedisam/entrymeta/lib/metadata"
	"github.com/hedisam/entrymeta/server/internal/blobstorage"
)

// sniffLen is how many leading bytes http.DetectContentType looks at.
const sniffLen = 512

// FileSystem keeps objects as plain files in a single directory. It cannot persist content headers,
// so stat derives what it can from the file itself: size, mtime, a weak ETag and, on request, a
// sniffed content type and an MD5 of the content.
type FileSystem struct {
	logger *logrus.Logger
	dir    *os.Root
}

func New(logger *logrus.Logger, rootDir string) (*FileSystem, error) {
	logger.WithField("root_dir", rootDir).Info("Getting directory-limited filesystem access")

	dir, err := os.OpenRoot(rootDir)
	if err != nil {
		return nil, fmt.Errorf("open root dir: %w", err)
	}

	return &FileSystem{
		logger: logger,
		dir:    dir,
	}, nil
}

// PutObject writes r to a file named objectID. hints are ignored.
func (fs *FileSystem) PutObject(ctx context.Context, r io.Reader, objectID string, _ metadata.Metadata) (metadata.Metadata, error) {
	logger := fs.logger.WithContext(ctx).WithField("object_id", objectID)

	f, err := fs.dir.Create(objectID)
	if err != nil {
		logger.WithError(err).Error("Could not create when putting object in filesystem")
		return metadata.Metadata{}, fmt.Errorf("create object file: %w", err)
	}
	defer f.Close()

	_, err = io.Copy(f, r)
	if err != nil {
		logger.WithError(err).Error("Could not write to file when putting object in filesystem")
		return metadata.Metadata{}, fmt.Errorf("write to object file: %w", err)
	}

	fi, err := f.Stat()
	if err != nil {
		return metadata.Metadata{}, fmt.Errorf("stat object file: %w", err)
	}

	return fileInfoToMetadata(fi), nil
}

func (fs *FileSystem) StatObject(ctx context.Context, objectID string, want metadata.KeySet) (metadata.Metadata, error) {
	fi, err := fs.dir.Stat(objectID)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return metadata.Metadata{}, blobstorage.ErrObjectNotFound
		}
		return metadata.Metadata{}, fmt.Errorf("stat object file: %w", err)
	}

	md := fileInfoToMetadata(fi)
	if md.IsDir() {
		return md, nil
	}

	want = blobstorage.Wanted(want)
	if !want.Contains(metadata.KeyContentType) && !want.Contains(metadata.KeyContentMD5) {
		return md, nil
	}

	fs.logger.WithContext(ctx).WithFields(logrus.Fields{
		"object_id": objectID,
		"keys":      want.String(),
	}).Debug("Reading object content for stat")

	f, err := fs.dir.Open(objectID)
	if err != nil {
		return metadata.Metadata{}, fmt.Errorf("open object file: %w", err)
	}
	defer f.Close()

	if want.Contains(metadata.KeyContentType) {
		buf := make([]byte, sniffLen)
		n, err := io.ReadFull(f, buf)
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
			return metadata.Metadata{}, fmt.Errorf("read object file: %w", err)
		}
		md.SetContentType(http.DetectContentType(buf[:n]))
	}

	if want.Contains(metadata.KeyContentMD5) {
		_, err = f.Seek(0, io.SeekStart)
		if err != nil {
			return metadata.Metadata{}, fmt.Errorf("seek object file: %w", err)
		}
		h := md5.New()
		_, err = io.Copy(h, f)
		if err != nil {
			return metadata.Metadata{}, fmt.Errorf("hash object file: %w", err)
		}
		md.SetContentMD5(base64.StdEncoding.EncodeToString(h.Sum(nil)))
	}

	return md, nil
}

func (fs *FileSystem) ReadObject(ctx context.Context, objectID string, rng *blobstorage.ReadRange) (io.ReadCloser, metadata.Metadata, error) {
	f, err := fs.dir.Open(objectID)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, metadata.Metadata{}, blobstorage.ErrObjectNotFound
		}
		return nil, metadata.Metadata{}, fmt.Errorf("open object file: %w", err)
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, metadata.Metadata{}, fmt.Errorf("stat object file: %w", err)
	}

	md := fileInfoToMetadata(fi)
	if rng == nil {
		return f, md, nil
	}

	size := uint64(fi.Size())
	if rng.Offset >= size || rng.Length == 0 {
		_ = f.Close()
		md.SetContentRange(metadata.UnsatisfiedContentRange(size))
		return nil, md, fmt.Errorf("read %d bytes at %d of %d: %w", rng.Length, rng.Offset, size, blobstorage.ErrInvalidRange)
	}

	length := min(rng.Length, size-rng.Offset)
	md.SetContentLength(length)
	md.SetContentRange(metadata.NewContentRange(rng.Offset, rng.Offset+length-1).WithSize(size))

	fs.logger.WithContext(ctx).WithFields(logrus.Fields{
		"object_id": objectID,
		"offset":    rng.Offset,
		"length":    length,
	}).Debug("Reading object range")

	return &sectionReadCloser{
		Reader: io.NewSectionReader(f, int64(rng.Offset), int64(length)),
		Closer: f,
	}, md, nil
}

func (fs *FileSystem) DeleteObject(ctx context.Context, objectID string) error {
	logger := fs.logger.WithContext(ctx).WithField("object_id", objectID)

	err := fs.dir.Remove(objectID)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		logger.WithError(err).Error("Could not remove file from filesystem")
		return fmt.Errorf("remove object file: %w", err)
	}

	return nil
}

type sectionReadCloser struct {
	io.Reader
	io.Closer
}

// fileInfoToMetadata returns what a stat call yields for free. Directories are complete.
func fileInfoToMetadata(fi fs.FileInfo) metadata.Metadata {
	md := metadata.New(metadata.ModeFromFileMode(fi.Mode()))
	if md.IsDir() {
		return md
	}

	mtime := fi.ModTime()
	validator := strconv.FormatInt(fi.Size(), 16) + "-" + strconv.FormatInt(mtime.UnixNano(), 16)

	md.SetContentLength(uint64(fi.Size())).
		SetLastModified(mtime).
		SetETag(httpmeta.WeakETag(validator))
	return md
}
