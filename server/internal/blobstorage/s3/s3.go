// Package s3 stores objects in an S3 compatible bucket. Content headers given at upload are stored
// with the object, so a single HEAD request answers nearly every metadata key.
package s3

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"

	"github.com/hedisam/entrymeta/lib/httpmeta"
	"github.com/hedisam/entrymeta/lib/metadata"
	"github.com/hedisam/entrymeta/server/internal/blobstorage"
)

type Options struct {
	Endpoint        string
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Secure          bool
}

type S3 struct {
	logger *logrus.Logger
	cli    *minio.Client
	bucket string
}

// New connects to the endpoint and creates the bucket if it does not exist yet.
func New(ctx context.Context, logger *logrus.Logger, opts Options) (*S3, error) {
	if opts.Endpoint == "" {
		return nil, errors.New("s3 endpoint is required")
	}
	if opts.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}

	cli, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKeyID, opts.SecretAccessKey, ""),
		Secure: opts.Secure,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}

	s := &S3{
		logger: logger,
		cli:    cli,
		bucket: opts.Bucket,
	}

	err = s.initBucket(ctx, opts.Region)
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (s *S3) initBucket(ctx context.Context, region string) error {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	exists, err := s.cli.BucketExists(ctx, s.bucket)
	if err == nil && exists {
		return nil
	}

	s.logger.WithContext(ctx).WithField("bucket", s.bucket).Info("Creating bucket")
	err = s.cli.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: region})
	if err != nil {
		return fmt.Errorf("make bucket %q: %w", s.bucket, err)
	}
	return nil
}

func (s *S3) PutObject(ctx context.Context, r io.Reader, objectID string, hints metadata.Metadata) (metadata.Metadata, error) {
	logger := s.logger.WithContext(ctx).WithField("object_id", objectID)

	size := int64(-1)
	if n, ok := hints.ContentLengthRaw(); ok {
		size = int64(n)
	}

	info, err := s.cli.PutObject(ctx, s.bucket, objectID, r, size, minio.PutObjectOptions{
		ContentType:        hint(hints.ContentType()),
		CacheControl:       hint(hints.CacheControl()),
		ContentDisposition: hint(hints.ContentDisposition()),
	})
	if err != nil {
		logger.WithError(err).Error("Could not put object in bucket")
		return metadata.Metadata{}, fmt.Errorf("put object: %w", translateError(err))
	}

	md := metadata.New(metadata.ModeFile).
		WithContentLength(uint64(info.Size)).
		WithETag(quoteETag(info.ETag))
	if !info.LastModified.IsZero() {
		md.SetLastModified(info.LastModified)
	}
	if info.VersionID != "" {
		md.SetVersion(info.VersionID)
	}
	return md, nil
}

// StatObject issues a single HEAD request, which yields every key the bucket can produce, so want
// is not consulted.
func (s *S3) StatObject(ctx context.Context, objectID string, _ metadata.KeySet) (metadata.Metadata, error) {
	oi, err := s.cli.StatObject(ctx, s.bucket, objectID, minio.StatObjectOptions{})
	if err != nil {
		return metadata.Metadata{}, fmt.Errorf("stat object: %w", translateError(err))
	}

	return objectInfoToMetadata(oi), nil
}

func (s *S3) ReadObject(ctx context.Context, objectID string, rng *blobstorage.ReadRange) (io.ReadCloser, metadata.Metadata, error) {
	var opts minio.GetObjectOptions
	if rng != nil {
		if rng.Length == 0 {
			return nil, metadata.Metadata{}, fmt.Errorf("empty range: %w", blobstorage.ErrInvalidRange)
		}
		err := opts.SetRange(int64(rng.Offset), int64(rng.Offset+rng.Length-1))
		if err != nil {
			return nil, metadata.Metadata{}, fmt.Errorf("set range: %w", blobstorage.ErrInvalidRange)
		}
	}

	obj, err := s.cli.GetObject(ctx, s.bucket, objectID, opts)
	if err != nil {
		return nil, metadata.Metadata{}, fmt.Errorf("get object: %w", translateError(err))
	}

	// GetObject is lazy, Stat sends the request and surfaces errors such as a missing key
	oi, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		return nil, metadata.Metadata{}, fmt.Errorf("get object: %w", translateError(err))
	}

	md := objectInfoToMetadata(oi)
	if rng != nil && oi.Size > 0 {
		// the size of a ranged response is the length of the range, the total size is unknown here
		md.SetContentRange(metadata.NewContentRange(rng.Offset, rng.Offset+uint64(oi.Size)-1))
	}

	return obj, md, nil
}

func (s *S3) DeleteObject(ctx context.Context, objectID string) error {
	err := s.cli.RemoveObject(ctx, s.bucket, objectID, minio.RemoveObjectOptions{})
	if err != nil {
		err = translateError(err)
		if errors.Is(err, blobstorage.ErrObjectNotFound) {
			return nil
		}
		s.logger.WithContext(ctx).WithError(err).WithField("object_id", objectID).Error("Could not remove object from bucket")
		return fmt.Errorf("remove object: %w", err)
	}
	return nil
}

// objectInfoToMetadata maps a HEAD response. Content headers the bucket did not return are stored
// as empty values: the bucket is authoritative for them.
func objectInfoToMetadata(oi minio.ObjectInfo) metadata.Metadata {
	md := metadata.New(metadata.ModeFile).
		WithContentLength(uint64(max(oi.Size, 0))).
		WithETag(quoteETag(oi.ETag)).
		WithContentType(oi.ContentType).
		WithCacheControl(oi.Metadata.Get("Cache-Control")).
		WithContentDisposition(oi.Metadata.Get("Content-Disposition"))

	if !oi.LastModified.IsZero() {
		md.SetLastModified(oi.LastModified)
	}
	if oi.VersionID != "" {
		md.SetVersion(oi.VersionID)
	}
	if sum, ok := md5FromETag(oi.ETag); ok {
		md.SetContentMD5(sum)
	}
	return md
}

// md5FromETag recovers Content-MD5 from the ETag of a single part upload, which is the hex MD5 of
// the content. Multipart ETags carry a part count suffix and are not digests.
func md5FromETag(etag string) (string, bool) {
	etag = strings.Trim(etag, `"`)
	if len(etag) != 32 {
		return "", false
	}
	sum, err := hex.DecodeString(etag)
	if err != nil {
		return "", false
	}
	return base64.StdEncoding.EncodeToString(sum), true
}

// quoteETag restores the quotes minio trims from ETags.
func quoteETag(etag string) string {
	if etag == "" || strings.HasPrefix(etag, `"`) || strings.HasPrefix(etag, "W/") {
		return etag
	}
	return httpmeta.StrongETag(etag)
}

func translateError(err error) error {
	resp := minio.ToErrorResponse(err)
	switch {
	case resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", blobstorage.ErrObjectNotFound, err.Error())
	case resp.Code == "InvalidRange" || resp.StatusCode == http.StatusRequestedRangeNotSatisfiable:
		return fmt.Errorf("%w: %s", blobstorage.ErrInvalidRange, err.Error())
	default:
		return err
	}
}

func hint(v string, err error) string {
	if err != nil {
		return ""
	}
	return v
}
