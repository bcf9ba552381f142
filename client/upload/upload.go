// Package upload pushes local files to the server through presigned upload URLs.
package upload

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/hedisam/pipeline"
	"github.com/hedisam/pipeline/stage"
	"github.com/sirupsen/logrus"

	"github.com/hedisam/entrymeta/client/filesystem"
	"github.com/hedisam/entrymeta/lib/metadata"
	"github.com/hedisam/entrymeta/lib/psurls"
)

const defaultExpiry = 10 * time.Minute

type RestClient interface {
	Upload(ctx context.Context, r io.ReadSeeker, presignedURL string, size int64) (metadata.Metadata, error)
}

type Credentials struct {
	AccessKeyID string
	SecretKey   string
}

// ContentHeaders are stored with every uploaded object. An empty ContentType is guessed from the
// file extension.
type ContentHeaders struct {
	ContentType        string
	CacheControl       string
	ContentDisposition string
}

// Result describes a completed upload.
type Result struct {
	Key      string
	Size     int64
	Metadata metadata.Metadata
}

type Uploader struct {
	logger    *logrus.Logger
	client    RestClient
	uploadURL string
	creds     Credentials
	headers   ContentHeaders
	workers   uint
	expiry    time.Duration
}

type Option func(*Uploader)

func WithContentHeaders(h ContentHeaders) Option {
	return func(u *Uploader) {
		u.headers = h
	}
}

func WithWorkers(n uint) Option {
	return func(u *Uploader) {
		u.workers = max(n, 1)
	}
}

func New(logger *logrus.Logger, client RestClient, uploadURL string, creds Credentials, opts ...Option) *Uploader {
	u := &Uploader{
		logger:    logger,
		client:    client,
		uploadURL: uploadURL,
		creds:     creds,
		workers:   1,
		expiry:    defaultExpiry,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Upload uploads a single file.
func (u *Uploader) Upload(ctx context.Context, file *filesystem.File) (*Result, error) {
	logger := u.logger.WithContext(ctx).WithFields(logrus.Fields{
		"path": file.Path,
		"key":  file.Key,
	})

	f, err := os.Open(file.Path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if st.IsDir() {
		return nil, fmt.Errorf("%q is a directory", file.Path)
	}

	hasher := sha256.New()
	_, err = io.Copy(hasher, f)
	if err != nil {
		return nil, fmt.Errorf("calculate sha256 checksum: %w", err)
	}
	_, err = f.Seek(0, io.SeekStart)
	if err != nil {
		return nil, fmt.Errorf("rewind file: %w", err)
	}

	contentType := u.headers.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(file.Path))
	}

	urlData := psurls.URLData{
		ObjectKey:          file.Key,
		SHA256Checksum:     hex.EncodeToString(hasher.Sum(nil)),
		Size:               st.Size(),
		MTime:              st.ModTime().Unix(),
		ContentType:        contentType,
		CacheControl:       u.headers.CacheControl,
		ContentDisposition: u.headers.ContentDisposition,
		Expiry:             time.Now().UTC().Add(u.expiry).Unix(),
		AccessKeyID:        u.creds.AccessKeyID,
	}
	url, err := psurls.Generate(urlData, u.uploadURL, u.creds.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("generate presigned url for %q: %w", file.Key, err)
	}

	md, err := u.client.Upload(ctx, f, url, st.Size())
	if err != nil {
		return nil, fmt.Errorf("upload %q: %w", file.Key, err)
	}
	logger.WithField("size", st.Size()).Debug("File uploaded")

	return &Result{
		Key:      file.Key,
		Size:     st.Size(),
		Metadata: md,
	}, nil
}

// UploadAll uploads files on a pool of workers, calling onDone for every completed upload. It stops
// at the first failure.
func (u *Uploader) UploadAll(ctx context.Context, files []*filesystem.File, onDone func(*Result)) error {
	if len(files) == 0 {
		return nil
	}

	data := make([]any, 0, len(files))
	for file := range slices.Values(files) {
		data = append(data, file)
	}

	workers := min(u.workers, uint(len(files)))
	source := pipeline.SeqSource(slices.Values(data))
	sink := func(_ context.Context, out any) error {
		res, ok := out.(*Result)
		if !ok {
			return fmt.Errorf("invalid payload type received by upload sink: %T", out)
		}
		if onDone != nil {
			onDone(res)
		}
		return nil
	}

	p := pipeline.NewPipeline(source, sink)
	err := p.Run(ctx, stage.WorkerPoolRunner(workers, u.worker))
	if err != nil {
		return fmt.Errorf("run upload pipeline: %w", err)
	}

	u.logger.WithField("files", len(files)).Info("Successfully uploaded files")
	return nil
}

func (u *Uploader) worker(ctx context.Context, payload any) (out any, drop bool, err error) {
	file, ok := payload.(*filesystem.File)
	if !ok {
		return nil, false, fmt.Errorf("unknown payload type: %T", payload)
	}

	res, err := u.Upload(ctx, file)
	if err != nil {
		return nil, false, err
	}
	return res, false, nil
}

// Batch collects the files found by filesystem.Walk.
type Batch struct {
	mu    sync.Mutex
	files []*filesystem.File
}

func (b *Batch) Collect(_ context.Context, file *filesystem.File) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.files = append(b.files, file)
	return nil
}

func (b *Batch) Files() []*filesystem.File {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.files)
}
