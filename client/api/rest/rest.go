package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/hedisam/entrymeta/lib/httpmeta"
	"github.com/hedisam/entrymeta/lib/metadata"
)

var (
	ErrNotFound           = errors.New("entry not found")
	ErrUnsatisfiableRange = errors.New("range not satisfiable")
)

type Client struct {
	logger  *logrus.Logger
	baseURL string
	cli     *http.Client
}

func NewClient(logger *logrus.Logger, baseURL string) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base url: %w", err)
	}

	return &Client{
		logger:  logger,
		baseURL: u.String(),
		cli: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

func (c *Client) UploadURL() string {
	result, _ := url.JoinPath(c.baseURL, "/v1/files/upload")
	return result
}

// Stat fetches the record of key holding at least keys.
func (c *Client) Stat(ctx context.Context, key string, keys metadata.KeySet) (*metadata.Entry, error) {
	req, err := c.newRequest(ctx, http.MethodGet, keys, "v1/stat", key)
	if err != nil {
		return nil, err
	}

	resp, err := c.doRequestWithRetry(req, "Stat")
	if err != nil {
		return nil, fmt.Errorf("failed to stat with retry: %w", err)
	}
	defer resp.Body.Close()

	err = c.checkStatus(resp, "Stat", http.StatusOK)
	if err != nil {
		return nil, err
	}

	var entry metadata.Entry
	err = json.NewDecoder(resp.Body).Decode(&entry)
	if err != nil {
		return nil, fmt.Errorf("json decode response: %w", err)
	}

	return &entry, nil
}

// Head fetches the record of key from the response headers of a HEAD request.
func (c *Client) Head(ctx context.Context, key string, keys metadata.KeySet) (metadata.Metadata, error) {
	req, err := c.newRequest(ctx, http.MethodHead, keys, "v1/files", key)
	if err != nil {
		return metadata.Metadata{}, err
	}

	resp, err := c.doRequestWithRetry(req, "Head")
	if err != nil {
		return metadata.Metadata{}, fmt.Errorf("failed to head with retry: %w", err)
	}
	defer resp.Body.Close()

	err = c.checkStatus(resp, "Head", http.StatusOK)
	if err != nil {
		return metadata.Metadata{}, err
	}

	md, err := httpmeta.ParseHeader(resp.Header)
	if err != nil {
		return metadata.Metadata{}, fmt.Errorf("parse response headers: %w", err)
	}
	return md, nil
}

// List returns the direct children of prefix, each holding at least keys.
func (c *Client) List(ctx context.Context, prefix string, keys metadata.KeySet) ([]metadata.Entry, error) {
	req, err := c.newRequest(ctx, http.MethodGet, keys, "v1/list", prefix)
	if err != nil {
		return nil, err
	}
	if prefix == "" {
		// keep the trailing slash, the server only routes "/v1/list/"
		req.URL.Path += "/"
	}

	resp, err := c.doRequestWithRetry(req, "List")
	if err != nil {
		return nil, fmt.Errorf("failed to list with retry: %w", err)
	}
	defer resp.Body.Close()

	err = c.checkStatus(resp, "List", http.StatusOK)
	if err != nil {
		return nil, err
	}

	type Response struct {
		Entries []metadata.Entry `json:"entries"`
	}

	var response Response
	err = json.NewDecoder(resp.Body).Decode(&response)
	if err != nil {
		return nil, fmt.Errorf("json decode response: %w", err)
	}

	return response.Entries, nil
}

// Upload sends r to a presigned upload URL. r is rewound when the request has to be retried.
func (c *Client) Upload(ctx context.Context, r io.ReadSeeker, presignedURL string, size int64) (metadata.Metadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, presignedURL, io.NopCloser(r))
	if err != nil {
		return metadata.Metadata{}, fmt.Errorf("could not create upload request: %w", err)
	}
	req.ContentLength = size
	req.Header.Set("Content-Length", strconv.FormatInt(size, 10))
	req.GetBody = func() (io.ReadCloser, error) {
		_, err := r.Seek(0, io.SeekStart)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(r), nil
	}

	resp, err := c.doRequestWithRetry(req, "Upload")
	if err != nil {
		return metadata.Metadata{}, fmt.Errorf("failed to upload with retry: %w", err)
	}
	defer resp.Body.Close()

	err = c.checkStatus(resp, "Upload", http.StatusOK, http.StatusCreated)
	if err != nil {
		return metadata.Metadata{}, err
	}

	md, err := httpmeta.ParseHeader(resp.Header)
	if err != nil {
		return metadata.Metadata{}, fmt.Errorf("parse response headers: %w", err)
	}
	return md, nil
}

func (c *Client) Delete(ctx context.Context, fileKey string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, 0, "v1/files", fileKey)
	if err != nil {
		return err
	}

	resp, err := c.doRequestWithRetry(req, "Delete")
	if err != nil {
		return fmt.Errorf("failed to delete file with retry: %w", err)
	}
	defer resp.Body.Close()

	return c.checkStatus(resp, "Delete", http.StatusOK)
}

// Download opens the content of key. rangeHeader is sent as the Range header when not empty, the
// returned record then describes the bytes actually returned.
func (c *Client) Download(ctx context.Context, key, rangeHeader string) (io.ReadCloser, metadata.Metadata, error) {
	req, err := c.newRequest(ctx, http.MethodGet, 0, "v1/files", key)
	if err != nil {
		return nil, metadata.Metadata{}, err
	}
	if rangeHeader != "" {
		req.Header.Set("Range", rangeHeader)
	}

	resp, err := c.doRequestWithRetry(req, "Download")
	if err != nil {
		return nil, metadata.Metadata{}, fmt.Errorf("failed to download with retry: %w", err)
	}

	err = c.checkStatus(resp, "Download", http.StatusOK, http.StatusPartialContent)
	if err != nil {
		resp.Body.Close()
		return nil, metadata.Metadata{}, err
	}

	md, err := httpmeta.ParseHeader(resp.Header)
	if err != nil {
		resp.Body.Close()
		return nil, metadata.Metadata{}, fmt.Errorf("parse response headers: %w", err)
	}
	return resp.Body, md, nil
}

func (c *Client) newRequest(ctx context.Context, method string, keys metadata.KeySet, elem ...string) (*http.Request, error) {
	u, err := url.JoinPath(c.baseURL, elem...)
	if err != nil {
		return nil, fmt.Errorf("create url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	if !keys.IsEmpty() {
		q := req.URL.Query()
		q.Set("keys", keys.String())
		req.URL.RawQuery = q.Encode()
	}
	return req, nil
}

func (c *Client) checkStatus(resp *http.Response, method string, expected ...int) error {
	for _, code := range expected {
		if resp.StatusCode == code {
			return nil
		}
	}

	body, _ := io.ReadAll(resp.Body)
	c.logger.WithFields(logrus.Fields{
		"method": method,
		"resp":   fmt.Sprintf("%q", string(body)),
	}).Debug("Request failed with unexpected status code")

	switch resp.StatusCode {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusRequestedRangeNotSatisfiable:
		return fmt.Errorf("%w: %s", ErrUnsatisfiableRange, resp.Header.Get("Content-Range"))
	}
	return fmt.Errorf("http %s failed: %s", method, resp.Status)
}

func (c *Client) doRequestWithRetry(req *http.Request, method string) (*http.Response, error) {
	bk := newExponentialBackoffConfig()
	attempt := 0
	resp, err := backoff.RetryWithData[*http.Response](func() (*http.Response, error) {
		attempt++
		if attempt > 1 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, backoff.Permanent(fmt.Errorf("rewind request body: %w", err))
			}
			req.Body = body
		}

		resp, err := c.cli.Do(req)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				return nil, backoff.Permanent(fmt.Errorf("could not make http call: %w", err))
			}
			c.logger.WithField("method", method).WithError(err).Error("Failed to make http request, retrying...")
			return nil, fmt.Errorf("http request failed: %w", err)
		}
		return resp, nil
	}, backoff.WithContext(bk, req.Context()))
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func newExponentialBackoffConfig() *backoff.ExponentialBackOff {
	return backoff.NewExponentialBackOff(
		backoff.WithMaxElapsedTime(time.Second*3),
		backoff.WithMaxInterval(time.Second),
		backoff.WithInitialInterval(time.Millisecond*100),
		backoff.WithMultiplier(2),
		backoff.WithRandomizationFactor(0.2),
	)
}
