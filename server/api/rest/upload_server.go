package rest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/hedisam/entrymeta/lib/httpmeta"
	"github.com/hedisam/entrymeta/lib/metadata"
	"github.com/hedisam/entrymeta/lib/psurls"
	"github.com/hedisam/entrymeta/server/internal/blobstorage"
	"github.com/hedisam/entrymeta/server/internal/store"
)

type Auth interface {
	GetSecretKeyByID(keyID string) (string, bool)
}

type FileStorage interface {
	PutObject(ctx context.Context, r io.Reader, objectID string, hints metadata.Metadata) (metadata.Metadata, error)
	DeleteObject(ctx context.Context, objectID string) error
}

type UploadCatalog interface {
	Create(ctx context.Context, rec *store.ObjectRecord) error
	PutObjectCompleted(ctx context.Context, key, objectID string, reported metadata.Metadata) error
	Abort(ctx context.Context, key, objectID string) error
}

type UploadServer struct {
	logger      *logrus.Logger
	fileStorage FileStorage
	catalog     UploadCatalog
	auth        Auth
}

func NewUploadServer(logger *logrus.Logger, fileStorage FileStorage, catalog UploadCatalog, auth Auth) *UploadServer {
	return &UploadServer{
		logger:      logger,
		fileStorage: fileStorage,
		catalog:     catalog,
		auth:        auth,
	}
}

func (s *UploadServer) UploadFile(w http.ResponseWriter, r *http.Request) {
	logger := s.logger.WithContext(r.Context())
	query := r.URL.Query()

	accessKeyID := query.Get(psurls.AccessKeyID)
	secretKey, ok := s.auth.GetSecretKeyByID(accessKeyID)
	if !ok {
		logger.WithField("access_key_id", accessKeyID).Warn("Could not authorise request when uploading file")
		http.Error(w, "invalid access key id", http.StatusUnauthorized)
		return
	}

	urlData, err := psurls.Validate(query, secretKey)
	if err != nil {
		logger.WithError(err).Warn("Failed to validate presigned URL while uploading file")
		if errors.Is(err, psurls.ErrURLExpired) || errors.Is(err, psurls.ErrSignatureMismatch) {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}
		http.Error(w, fmt.Sprintf("invalid presigned URL: %q", err.Error()), http.StatusBadRequest)
		return
	}

	key := strings.Trim(urlData.ObjectKey, "/")
	if key == "" {
		http.Error(w, "presigned URL has an empty key", http.StatusBadRequest)
		return
	}
	logger = logger.WithField("key", key)

	if r.ContentLength != urlData.Size {
		// fail early if Content-Length doesn't match the size value in the
		// presigned url; no point in wasting resources on an invalid request
		logger.WithFields(logrus.Fields{
			"content_length": r.ContentLength,
			"size":           urlData.Size,
		}).Warn("Mismatched Content-Length with presigned url size while uploading file")
		http.Error(w, "mismatched Content-Length and size", http.StatusBadRequest)
		return
	}

	hints := contentHints(urlData)
	objectID := mustUUIDV7()
	logger = logger.WithField("object_id", objectID)

	err = s.catalog.Create(r.Context(), &store.ObjectRecord{
		Key:            key,
		ObjectID:       objectID,
		SHA256Checksum: urlData.SHA256Checksum,
		Metadata: hints.
			WithContentLength(uint64(urlData.Size)).
			WithLastModified(time.Unix(urlData.MTime, 0).UTC()),
		CreatedAt: time.Now().UTC(),
	})
	if errors.Is(err, store.ErrKeyConflict) {
		logger.WithError(err).Warn("Upload key conflicts with an existing entry")
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	if err != nil {
		logger.WithError(err).Error("Failed to create object record in catalog")
		http.Error(w, fmt.Sprintf("could not create object record in catalog: %s", err.Error()), http.StatusInternalServerError)
		return
	}

	digest := blobstorage.NewDigestReader(r.Body)
	reported, err := s.fileStorage.PutObject(r.Context(), digest, objectID, hints)
	if err != nil {
		logger.WithError(err).Warn("Failed to save file to storage")
		s.abort(r.Context(), logger, key, objectID)
		http.Error(w, fmt.Sprintf("failed to save file to storage: %q", err.Error()), http.StatusInternalServerError)
		return
	}

	if urlData.SHA256Checksum != digest.SHA256() {
		logger.Warn("Provided checksum did not match what was uploaded")
		s.abort(r.Context(), logger, key, objectID)
		http.Error(w, "provided checksum did not match what was uploaded", http.StatusBadRequest)
		return
	}
	if urlData.Size != digest.Count() {
		logger.WithFields(logrus.Fields{
			"size":    urlData.Size,
			"written": digest.Count(),
		}).Warn("Provided file size did not match what was uploaded")
		s.abort(r.Context(), logger, key, objectID)
		http.Error(w, "provided file size did not match what was uploaded", http.StatusBadRequest)
		return
	}

	// the digests computed here are authoritative; only the version is taken from the backend
	completed := metadata.New(metadata.ModeFile).
		WithETag(httpmeta.StrongETag(digest.SHA256())).
		WithContentMD5(digest.ContentMD5()).
		WithVersion(objectID)
	if version, err := reported.Version(); err == nil && version != "" {
		completed.SetVersion(version)
	}

	err = s.catalog.PutObjectCompleted(r.Context(), key, objectID, completed)
	if errors.Is(err, store.ErrCleanupNotQueued) {
		logger.WithError(err).Warn("Upload completed but the replaced object was left behind")
		err = nil
	}
	if err != nil {
		s.abort(r.Context(), logger, key, objectID)
		logger.WithError(err).Error("Failed to mark object record as completed when uploading file")
		http.Error(w, fmt.Sprintf("failed to mark object record as completed when uploading file: %q", err.Error()), http.StatusInternalServerError)
		return
	}

	httpmeta.WriteHeader(w.Header(), completed)
	w.WriteHeader(http.StatusCreated)
	logger.Debug("Successfully uploaded file to storage")
}

// abort drops the in-flight record of a rejected upload and whatever part of its blob was stored.
// It runs even when the client has gone away.
func (s *UploadServer) abort(ctx context.Context, logger *logrus.Entry, key, objectID string) {
	ctx = context.WithoutCancel(ctx)

	err := s.catalog.Abort(ctx, key, objectID)
	if err != nil {
		logger.WithError(err).Error("Failed to abort in-flight upload record")
	}
	err = s.fileStorage.DeleteObject(ctx, objectID)
	if err != nil && !errors.Is(err, blobstorage.ErrObjectNotFound) {
		logger.WithError(err).Error("Failed to discard rejected upload from storage")
	}
}

// contentHints collects the signed content headers that were actually provided.
func contentHints(data psurls.URLData) metadata.Metadata {
	md := metadata.New(metadata.ModeFile)
	if data.ContentType != "" {
		md.SetContentType(data.ContentType)
	}
	if data.CacheControl != "" {
		md.SetCacheControl(data.CacheControl)
	}
	if data.ContentDisposition != "" {
		md.SetContentDisposition(data.ContentDisposition)
	}
	return md
}

func mustUUIDV7() string {
	u, err := uuid.NewV7()
	if err != nil {
		panic(fmt.Errorf("failed to generate uuid: %v", err))
	}
	return u.String()
}
