package rest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/hedisam/entrymeta/lib/httpmeta"
	"github.com/hedisam/entrymeta/lib/metadata"
	"github.com/hedisam/entrymeta/server/internal/blobstorage"
	"github.com/hedisam/entrymeta/server/internal/objects"
)

type Entries interface {
	Stat(ctx context.Context, key string, keys metadata.KeySet) (metadata.Metadata, error)
	List(ctx context.Context, prefix string, keys metadata.KeySet) ([]metadata.Entry, error)
	Open(ctx context.Context, key string, rng *blobstorage.ReadRange) (io.ReadCloser, metadata.Metadata, error)
	Delete(ctx context.Context, key string) error
}

// FileServer serves entry metadata and content.
type FileServer struct {
	logger  *logrus.Logger
	entries Entries
}

func NewFilesServer(logger *logrus.Logger, entries Entries) *FileServer {
	return &FileServer{
		logger:  logger,
		entries: entries,
	}
}

type StatRequest struct {
	Key  string `json:"key"`
	Keys string `json:"keys"`
}

type StatResponse = metadata.Entry

func (s *FileServer) Stat(ctx context.Context, req *StatRequest) (*StatResponse, error) {
	logger := s.logger.WithContext(ctx).WithFields(logrus.Fields{
		"key":  req.Key,
		"keys": req.Keys,
	})

	keys, err := metadata.ParseKeys(req.Keys)
	if err != nil {
		logger.WithError(err).Warn("Invalid keys in stat request")
		return nil, NewErrf(http.StatusBadRequest, "invalid 'keys': %s", err.Error())
	}

	md, err := s.entries.Stat(ctx, req.Key, keys)
	if err != nil {
		return nil, toRestErr(logger, err, "could not stat entry")
	}

	return &StatResponse{Path: strings.Trim(req.Key, "/"), Metadata: md}, nil
}

type ListRequest struct {
	Prefix string `json:"prefix"`
	Keys   string `json:"keys"`
}

type ListResponse struct {
	Entries []metadata.Entry `json:"entries"`
}

func (s *FileServer) List(ctx context.Context, req *ListRequest) (*ListResponse, error) {
	logger := s.logger.WithContext(ctx).WithFields(logrus.Fields{
		"prefix": req.Prefix,
		"keys":   req.Keys,
	})

	keys, err := metadata.ParseKeys(req.Keys)
	if err != nil {
		logger.WithError(err).Warn("Invalid keys in list request")
		return nil, NewErrf(http.StatusBadRequest, "invalid 'keys': %s", err.Error())
	}

	entries, err := s.entries.List(ctx, req.Prefix, keys)
	if err != nil {
		return nil, toRestErr(logger, err, "could not list entries")
	}

	return &ListResponse{Entries: entries}, nil
}

func (s *FileServer) DeleteFile(ctx context.Context, req *DeleteFileRequest) (*DeleteFileResponse, error) {
	logger := s.logger.WithContext(ctx).WithField("key", req.Key)

	key := strings.TrimSpace(req.Key)
	if key == "" {
		logger.Warn("Empty file key provided in file deletion request")
		return nil, NewErrf(http.StatusBadRequest, "invalid request body: 'key' is required")
	}

	if ifMatch := HeaderFromContext(ctx).Get("If-Match"); ifMatch != "" {
		md, err := s.entries.Stat(ctx, key, metadata.KeyETag.Set())
		if err != nil {
			return nil, toRestErr(logger, err, "could not check precondition")
		}
		etag, _ := md.ETag()
		if !etagListMatches(ifMatch, etag, false) {
			logger.WithField("if_match", ifMatch).Debug("Delete precondition failed")
			return nil, NewErrf(http.StatusPreconditionFailed, "entry etag does not match If-Match")
		}
	}

	err := s.entries.Delete(ctx, key)
	if err != nil {
		return nil, toRestErr(logger, err, "could not delete file metadata")
	}

	logger.Debug("Object marked as deleted")

	return &DeleteFileResponse{}, nil
}

type DeleteFileRequest struct {
	Key string `json:"key"`
}

type DeleteFileResponse struct{}

// HeadFile renders the stat of {key...} as response headers. The keys query parameter works as
// for stat.
func (s *FileServer) HeadFile(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	logger := s.logger.WithContext(r.Context()).WithField("key", key)

	keys, err := metadata.ParseKeys(r.URL.Query().Get("keys"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	md, err := s.entries.Stat(r.Context(), key, keys)
	if err != nil {
		writeErr(w, toRestErr(logger, err, "could not stat entry"))
		return
	}

	httpmeta.WriteHeader(w.Header(), md)
	if md.IsFile() {
		w.Header().Set("Accept-Ranges", "bytes")
	}
	if notModified(r, md) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// DownloadFile streams the content of {key...}. A single `Range: bytes=` range is honoured; invalid
// ranges are ignored and the whole file is sent.
func (s *FileServer) DownloadFile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := r.PathValue("key")
	logger := s.logger.WithContext(ctx).WithField("key", key)

	var (
		rng  *blobstorage.ReadRange
		size uint64
	)
	if header := r.Header.Get("Range"); header != "" {
		md, err := s.entries.Stat(ctx, key, metadata.KeyContentLength.Set())
		if err != nil {
			writeErr(w, toRestErr(logger, err, "could not stat entry"))
			return
		}
		size, _ = md.ContentLengthRaw()

		offset, length, err := httpmeta.ParseRange(header, size)
		switch {
		case errors.Is(err, httpmeta.ErrUnsatisfiableRange):
			writeUnsatisfiable(w, size)
			return
		case err != nil:
			logger.WithError(err).Debug("Ignoring invalid range header")
		default:
			rng = &blobstorage.ReadRange{Offset: offset, Length: length}
		}
	}

	rc, md, err := s.entries.Open(ctx, key, rng)
	if err != nil {
		if errors.Is(err, blobstorage.ErrInvalidRange) {
			writeUnsatisfiable(w, size)
			return
		}
		writeErr(w, toRestErr(logger, err, "could not open file"))
		return
	}
	defer rc.Close()

	httpmeta.WriteHeader(w.Header(), md)
	w.Header().Set("Accept-Ranges", "bytes")
	if rng == nil && notModified(r, md) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	status := http.StatusOK
	if rng != nil {
		status = http.StatusPartialContent
	}
	w.WriteHeader(status)

	written, err := io.Copy(w, rc)
	if err != nil {
		logger.WithError(err).WithField("written", written).Error("Failed to stream file content")
		return
	}
	logger.WithField("written", written).Debug("File content streamed")
}

func notModified(r *http.Request, md metadata.Metadata) bool {
	inm := r.Header.Get("If-None-Match")
	if inm == "" {
		return false
	}
	etag, err := md.ETag()
	if err != nil {
		return false
	}
	return etagListMatches(inm, etag, true)
}

// etagListMatches reports whether etag is in the comma separated list of an If-Match or
// If-None-Match header. "*" matches any entry. Weak comparison ignores the W/ prefix; strong
// comparison never matches a weak tag.
func etagListMatches(list, etag string, weak bool) bool {
	for candidate := range strings.SplitSeq(list, ",") {
		candidate = strings.TrimSpace(candidate)
		switch {
		case candidate == "*":
			return true
		case etag == "":
			continue
		case weak && strings.TrimPrefix(candidate, "W/") == strings.TrimPrefix(etag, "W/"):
			return true
		case !weak && !strings.HasPrefix(etag, "W/") && candidate == etag:
			return true
		}
	}
	return false
}

func writeUnsatisfiable(w http.ResponseWriter, size uint64) {
	w.Header().Set("Content-Range", metadata.UnsatisfiedContentRange(size).String())
	http.Error(w, httpmeta.ErrUnsatisfiableRange.Error(), http.StatusRequestedRangeNotSatisfiable)
}

func writeErr(w http.ResponseWriter, err *Err) {
	http.Error(w, err.Message, err.Status)
}

func toRestErr(logger *logrus.Entry, err error, msg string) *Err {
	if errors.Is(err, objects.ErrNotFound) {
		logger.WithError(err).Debug("Entry not found")
		return NewErrf(http.StatusNotFound, "%s: %s", msg, err.Error())
	}
	logger.WithError(err).Error("Request failed")
	return &Err{
		Message: fmt.Sprintf("%s: %s", msg, err.Error()),
		Status:  http.StatusInternalServerError,
	}
}
