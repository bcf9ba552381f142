package objects

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/hedisam/entrymeta/lib/metadata"
	"github.com/hedisam/entrymeta/server/internal/blobstorage"
	"github.com/hedisam/entrymeta/server/internal/store"
	"github.com/hedisam/entrymeta/server/internal/store/memdb"
)

var (
	ErrNotFound = errors.New("entry not found")
)

// ListKeys are the keys a list operation promises for every file entry without extra backend calls.
var ListKeys = metadata.NewKeySet(
	metadata.KeyMode,
	metadata.KeyContentLength,
	metadata.KeyETag,
	metadata.KeyLastModified,
)

const tracerName = "objects"

type Catalog interface {
	Get(ctx context.Context, key string) (store.ObjectRecord, error)
	List(ctx context.Context, prefix string) ([]store.ObjectRecord, error)
	Delete(ctx context.Context, key string) error
}

type Backend interface {
	StatObject(ctx context.Context, objectID string, want metadata.KeySet) (metadata.Metadata, error)
	ReadObject(ctx context.Context, objectID string, rng *blobstorage.ReadRange) (io.ReadCloser, metadata.Metadata, error)
}

// Service resolves keys to entries. Files are the catalog's records; directories exist implicitly
// as long as a file lives under them.
type Service struct {
	logger  *logrus.Logger
	catalog Catalog
	backend Backend
	fetches *prometheus.CounterVec
}

// New returns a Service. fetches counts stat calls completed from the backend, by result.
func New(logger *logrus.Logger, catalog Catalog, backend Backend, fetches *prometheus.CounterVec) *Service {
	return &Service{
		logger:  logger,
		catalog: catalog,
		backend: backend,
		fetches: fetches,
	}
}

// Stat returns the record of the entry at key holding at least keys, or as many of them as the
// backend can produce. When the catalog record already has them the backend is not asked.
func (s *Service) Stat(ctx context.Context, key string, keys metadata.KeySet) (metadata.Metadata, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "objects.Stat")
	defer span.End()
	span.SetAttributes(
		attribute.String("key", key),
		attribute.String("keys", keys.String()),
	)

	key = cleanKey(key)
	rec, err := s.catalog.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, memdb.ErrNotFound) {
			return metadata.Metadata{}, fmt.Errorf("get catalog record: %w", err)
		}
		isDir, err := s.isDir(ctx, key)
		if err != nil {
			return metadata.Metadata{}, err
		}
		if !isDir {
			return metadata.Metadata{}, ErrNotFound
		}
		return metadata.New(metadata.ModeDir), nil
	}

	md := rec.Metadata
	if md.HasAll(keys) {
		span.SetAttributes(attribute.Bool("backend_fetch", false))
		return md, nil
	}

	missing := blobstorage.Wanted(keys).Difference(md.Presence())
	span.SetAttributes(
		attribute.Bool("backend_fetch", true),
		attribute.String("missing", missing.String()),
	)

	logger := s.logger.WithContext(ctx).WithFields(logrus.Fields{
		"key":       key,
		"object_id": rec.ObjectID,
		"missing":   missing.String(),
	})
	logger.Debug("Fetching missing metadata from backend")

	fetched, err := s.backend.StatObject(ctx, rec.ObjectID, missing)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "backend stat failed")
		if errors.Is(err, blobstorage.ErrObjectNotFound) {
			s.fetches.WithLabelValues("not_found").Inc()
			logger.WithError(err).Warn("Catalog record has no object in backend")
			return metadata.Metadata{}, fmt.Errorf("%w: object %s is missing", ErrNotFound, rec.ObjectID)
		}
		s.fetches.WithLabelValues("error").Inc()
		return metadata.Metadata{}, fmt.Errorf("stat object in backend: %w", err)
	}
	s.fetches.WithLabelValues("ok").Inc()

	// catalog values win over what the backend reports
	return *fetched.Merge(md), nil
}

// List returns the direct children of the directory at prefix, sorted by path. File entries
// carry ListKeys; when keys asks for more each file is completed through Stat. Directory entries
// are complete.
func (s *Service) List(ctx context.Context, prefix string, keys metadata.KeySet) ([]metadata.Entry, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "objects.List")
	defer span.End()
	span.SetAttributes(
		attribute.String("prefix", prefix),
		attribute.String("keys", keys.String()),
	)

	prefix = cleanKey(prefix)
	if prefix != "" {
		prefix += "/"
	}

	records, err := s.catalog.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("list catalog records: %w", err)
	}
	if len(records) == 0 && prefix != "" {
		return nil, ErrNotFound
	}

	entries := make([]metadata.Entry, 0, len(records))
	seenDirs := make(map[string]struct{})
	for _, rec := range records {
		rest := strings.TrimPrefix(rec.Key, prefix)
		if name, _, nested := strings.Cut(rest, "/"); nested {
			dir := prefix + name
			if _, ok := seenDirs[dir]; ok {
				continue
			}
			seenDirs[dir] = struct{}{}
			entries = append(entries, metadata.Entry{Path: dir, Metadata: metadata.New(metadata.ModeDir)})
			continue
		}

		md := rec.Metadata.WithPresence(rec.Metadata.Presence().Intersect(ListKeys))
		if !md.HasAll(keys) {
			md, err = s.Stat(ctx, rec.Key, keys)
			if err != nil {
				return nil, fmt.Errorf("stat %q: %w", rec.Key, err)
			}
		}
		entries = append(entries, metadata.Entry{Path: rec.Key, Metadata: md})
	}

	slices.SortFunc(entries, func(a, b metadata.Entry) int {
		return strings.Compare(a.Path, b.Path)
	})
	span.SetAttributes(attribute.Int("entries", len(entries)))
	return entries, nil
}

// Open reads the file at key, or the given range of it. The returned record is the catalog's
// with Content-Length and Content-Range describing the bytes actually returned.
func (s *Service) Open(ctx context.Context, key string, rng *blobstorage.ReadRange) (io.ReadCloser, metadata.Metadata, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "objects.Open")
	defer span.End()
	span.SetAttributes(attribute.String("key", key))

	rec, err := s.catalog.Get(ctx, cleanKey(key))
	if err != nil {
		if errors.Is(err, memdb.ErrNotFound) {
			return nil, metadata.Metadata{}, ErrNotFound
		}
		return nil, metadata.Metadata{}, fmt.Errorf("get catalog record: %w", err)
	}

	rc, read, err := s.backend.ReadObject(ctx, rec.ObjectID, rng)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, blobstorage.ErrObjectNotFound) {
			return nil, metadata.Metadata{}, fmt.Errorf("%w: object %s is missing", ErrNotFound, rec.ObjectID)
		}
		return nil, read, fmt.Errorf("read object from backend: %w", err)
	}

	md := rec.Metadata
	if rng == nil {
		return rc, md, nil
	}

	cr, err := read.ContentRange()
	if err != nil {
		_ = rc.Close()
		return nil, metadata.Metadata{}, fmt.Errorf("backend did not report the range read: %w", err)
	}
	if _, ok := cr.Size(); !ok {
		if size, ok := md.ContentLengthRaw(); ok {
			cr = cr.WithSize(size)
		}
	}
	md.SetContentRange(cr)
	md.SetContentLength(cr.Len())
	return rc, md, nil
}

// Delete removes the file at key from the catalog. Its object is cleaned up asynchronously.
func (s *Service) Delete(ctx context.Context, key string) error {
	err := s.catalog.Delete(ctx, cleanKey(key))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, memdb.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, store.ErrCleanupNotQueued):
		s.logger.WithContext(ctx).WithError(err).WithField("key", key).Warn("Entry deleted but its object was left behind")
		return nil
	}
	return fmt.Errorf("delete catalog record: %w", err)
}

func (s *Service) isDir(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return true, nil
	}
	records, err := s.catalog.List(ctx, key+"/")
	if err != nil {
		return false, fmt.Errorf("list catalog records: %w", err)
	}
	return len(records) > 0, nil
}

func cleanKey(key string) string {
	return strings.Trim(key, "/")
}
