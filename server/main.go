package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/hedisam/entrymeta/lib/wal"
	asyncapi "github.com/hedisam/entrymeta/server/api/async"
	restapi "github.com/hedisam/entrymeta/server/api/rest"
	"github.com/hedisam/entrymeta/server/internal/auth"
	"github.com/hedisam/entrymeta/server/internal/blobstorage"
	"github.com/hedisam/entrymeta/server/internal/blobstorage/filesystem"
	"github.com/hedisam/entrymeta/server/internal/blobstorage/s3"
	"github.com/hedisam/entrymeta/server/internal/blobstorage/webdav"
	"github.com/hedisam/entrymeta/server/internal/emitter"
	"github.com/hedisam/entrymeta/server/internal/interceptors"
	"github.com/hedisam/entrymeta/server/internal/objects"
	"github.com/hedisam/entrymeta/server/internal/store/memdb"
)

const (
	appName = "entrymeta-server"
)

// Options defines a set of config options.
type Options struct {
	Backend          string
	DestinationDir   string
	S3               s3.Options
	WebDAV           webdav.Options
	JournalPath      string
	ServerAddr       string
	AccessKeyID      string
	SecretKey        string
	TraceSampleRatio float64
	Quite            bool
}

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)
	logger.AddHook(&interceptors.TraceHook{})

	var opts Options
	flag.StringVar(&opts.Backend, "backend", "fs", "Blob storage backend: fs, s3 or webdav")
	flag.StringVar(&opts.DestinationDir, "dest-dir", "", "Destination directory to store file objects (required for the fs backend)")
	flag.StringVar(&opts.S3.Endpoint, "s3-endpoint", "localhost:9000", "S3 endpoint")
	flag.StringVar(&opts.S3.Bucket, "s3-bucket", "entrymeta", "S3 bucket, created if missing")
	flag.StringVar(&opts.S3.Region, "s3-region", "", "S3 region")
	flag.StringVar(&opts.S3.AccessKeyID, "s3-access-key-id", os.Getenv("S3_ACCESS_KEY_ID"), "S3 access key ID")
	flag.StringVar(&opts.S3.SecretAccessKey, "s3-secret-access-key", os.Getenv("S3_SECRET_ACCESS_KEY"), "S3 secret access key")
	flag.BoolVar(&opts.S3.Secure, "s3-secure", false, "Use TLS when talking to S3")
	flag.StringVar(&opts.WebDAV.URL, "webdav-url", "", "WebDAV server URL")
	flag.StringVar(&opts.WebDAV.Username, "webdav-user", "", "WebDAV username")
	flag.StringVar(&opts.WebDAV.Password, "webdav-password", os.Getenv("WEBDAV_PASSWORD"), "WebDAV password")
	flag.StringVar(&opts.WebDAV.Dir, "webdav-dir", "/entrymeta", "WebDAV directory to store file objects in")
	flag.StringVar(&opts.JournalPath, "journal", "", "Catalog journal file; the catalog is kept in memory only when empty")
	flag.StringVar(&opts.ServerAddr, "server-addr", "localhost:8080", "FileServer address to listen on")
	flag.StringVar(&opts.AccessKeyID, "access-key-id", "", "Static access key ID; one is generated when empty")
	flag.StringVar(&opts.SecretKey, "secret-key", os.Getenv("ENTRYMETA_SECRET_KEY"), "Static access key secret")
	flag.Float64Var(&opts.TraceSampleRatio, "trace-sample-ratio", 1, "Ratio of requests to trace, between 0 and 1")
	flag.BoolVar(&opts.Quite, "quite", false, "Quite output")
	flag.Parse()

	if opts.Backend == "fs" && opts.DestinationDir == "" {
		flag.Usage()
		os.Exit(1)
	}
	if opts.Quite {
		logger.SetLevel(logrus.InfoLevel)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	authService := auth.New()
	if opts.AccessKeyID != "" {
		err := authService.Register(auth.AccessKey{AccessKeyID: opts.AccessKeyID, SecretKey: opts.SecretKey})
		if err != nil {
			logger.WithError(err).Fatal("Failed to register static access key")
		}
	} else {
		generateAndPrintAccessKey(authService)
	}

	backend, err := newBackend(ctx, logger, opts)
	if err != nil {
		logger.WithError(err).WithField("backend", opts.Backend).Fatal("Failed to initialize blob storage backend")
	}

	e := emitter.New()
	defer e.Close()

	catalog, closeJournal := mustInitCatalog(ctx, logger, e, opts.JournalPath)
	defer closeJournal()

	janitor := asyncapi.NewJanitor(logger, backend)
	janitorDone := make(chan struct{})
	go func() {
		defer close(janitorDone)
		janitor.Run(ctx, e.Chan())
	}()

	entries := objects.New(logger, catalog, backend, interceptors.NewStatFetchCounter(prometheus.DefaultRegisterer))
	fileServer := restapi.NewFilesServer(logger, entries)
	uploadServer := restapi.NewUploadServer(logger, backend, catalog, authService)

	mux := http.NewServeMux()
	restapi.RegisterFunc(logger, mux, http.MethodGet, "/v1/stat/{key...}", fileServer.Stat)
	restapi.RegisterFunc(logger, mux, http.MethodGet, "/v1/list/{prefix...}", fileServer.List)
	restapi.RegisterFunc(logger, mux, http.MethodDelete, "/v1/files/{key...}", fileServer.DeleteFile)
	mux.HandleFunc("HEAD /v1/files/{key...}", fileServer.HeadFile)
	mux.HandleFunc("GET /v1/files/{key...}", fileServer.DownloadFile)
	mux.HandleFunc("PUT /v1/files/upload", uploadServer.UploadFile)

	shutdown := mustInitTracer(logger, appName, opts.TraceSampleRatio)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			logger.WithError(err).Error("Failed to shutdown tracer")
		}
	}()
	handler := otelhttp.NewHandler(mux, appName)
	handler = interceptors.InterceptWithDefaultMetrics(prometheus.DefaultRegisterer, handler)

	// Expose the registered metrics via HTTP
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              opts.ServerAddr,
		Handler:           handler,
		ReadHeaderTimeout: time.Second * 10,
	}
	go func() {
		<-ctx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.WithError(err).Error("Failed to shutdown server gracefully")
		}
	}()

	logger.WithFields(logrus.Fields{
		"addr":    opts.ServerAddr,
		"backend": opts.Backend,
	}).Info("Starting server")
	err = srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Fatal("Server failed with error")
	}
	<-janitorDone
	logger.Info("Server stopped")
}

func newBackend(ctx context.Context, logger *logrus.Logger, opts Options) (blobstorage.Backend, error) {
	switch opts.Backend {
	case "fs":
		return filesystem.New(logger, opts.DestinationDir)
	case "s3":
		return s3.New(ctx, logger, opts.S3)
	case "webdav":
		return webdav.New(logger, opts.WebDAV)
	default:
		return nil, fmt.Errorf("unknown backend %q", opts.Backend)
	}
}

func mustInitCatalog(ctx context.Context, logger *logrus.Logger, e *emitter.Emitter, journalPath string) (*memdb.Catalog, func()) {
	if journalPath == "" {
		return memdb.NewCatalog(e), func() {}
	}

	journal, err := wal.New(logger, journalPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open catalog journal")
	}

	catalog := memdb.NewCatalog(e, memdb.WithJournal(journal))
	err = catalog.Restore(ctx, journal)
	if err != nil {
		logger.WithError(err).Fatal("Failed to restore catalog from journal")
	}
	logger.WithField("journal", journalPath).Info("Catalog restored from journal")
	return catalog, journal.Close
}

func generateAndPrintAccessKey(authService *auth.Auth) {
	accessKey := authService.GenerateAccessKey()
	fmt.Println("[!] Use the following access key with your client:")
	fmt.Printf("  Access Key ID:     %s\n", accessKey.AccessKeyID)
	fmt.Printf("  Access Key Secret: %s\n", accessKey.SecretKey)
}

func mustInitTracer(logger *logrus.Logger, appName string, sampleRatio float64) func(context.Context) error {
	exp, err := interceptors.NewSTDOUTExporter(os.Stdout)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize STDOUT trace exporter")
	}

	tp, err := interceptors.RegisterTraceProvider(appName, exp, sampleRatio)
	if err != nil {
		logger.WithError(err).Fatal("Failed to register trace provider")
	}

	return tp.Shutdown
}
