// Package psurls signs and validates presigned upload URLs. A URL commits to the object key, its
// checksum, size and mtime, the content headers to store with it and an expiry, all signed with
// HMAC-SHA256 under the uploader's secret key.
package psurls

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strconv"
	"time"
)

// Query parameter names.
const (
	ObjectKey          = "key"
	SHA256Checksum     = "sha256"
	Size               = "size"
	MTime              = "mtime"
	ContentType        = "ct"
	CacheControl       = "cc"
	ContentDisposition = "cd"
	Expiry             = "exp"
	AccessKeyID        = "aki"
	Signature          = "sig"
)

var (
	ErrURLExpired        = errors.New("url expired")
	ErrSignatureMismatch = errors.New("signature mismatch")
	ErrMissingSignature  = errors.New("missing signature")
)

// URLData is everything a presigned upload URL commits to. The optional content headers are
// signed too, so the server can store them as the object's metadata without trusting the request.
type URLData struct {
	ObjectKey          string
	SHA256Checksum     string
	Size               int64
	MTime              int64
	ContentType        string
	CacheControl       string
	ContentDisposition string
	Expiry             int64
	AccessKeyID        string
}

// Values encodes d as unsigned query values. Empty content headers are left out, so an absent
// header and an empty one sign the same.
func (d URLData) Values() url.Values {
	v := url.Values{}
	v.Set(ObjectKey, d.ObjectKey)
	v.Set(SHA256Checksum, d.SHA256Checksum)
	v.Set(Size, strconv.FormatInt(d.Size, 10))
	v.Set(MTime, strconv.FormatInt(d.MTime, 10))
	v.Set(Expiry, strconv.FormatInt(d.Expiry, 10))
	v.Set(AccessKeyID, d.AccessKeyID)
	setIfNotEmpty(v, ContentType, d.ContentType)
	setIfNotEmpty(v, CacheControl, d.CacheControl)
	setIfNotEmpty(v, ContentDisposition, d.ContentDisposition)
	return v
}

// Generate returns baseURL with data and its signature added to the query. Parameters baseURL
// already carries are signed along with data.
func Generate(data URLData, baseURL, secretKey string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}

	query := u.Query()
	maps.Copy(query, data.Values())
	query.Set(Signature, hex.EncodeToString(sign(query, secretKey)))
	u.RawQuery = query.Encode()

	return u.String(), nil
}

// Validate checks the expiry and the signature of values and decodes them. Query parameters the
// URL was not signed with make the signature mismatch.
func Validate(values url.Values, secretKey string) (URLData, error) {
	exp, err := strconv.ParseInt(values.Get(Expiry), 10, 64)
	if err != nil {
		return URLData{}, fmt.Errorf("invalid or missing expiry: %w", err)
	}
	if time.Now().UTC().Unix() > exp {
		return URLData{}, ErrURLExpired
	}

	providedSig := values.Get(Signature)
	if providedSig == "" {
		return URLData{}, ErrMissingSignature
	}
	providedSigBytes, err := hex.DecodeString(providedSig)
	if err != nil {
		return URLData{}, fmt.Errorf("invalid signature encoding: %w", err)
	}
	if !hmac.Equal(sign(values, secretKey), providedSigBytes) {
		return URLData{}, ErrSignatureMismatch
	}

	data := URLData{
		ObjectKey:          values.Get(ObjectKey),
		SHA256Checksum:     values.Get(SHA256Checksum),
		ContentType:        values.Get(ContentType),
		CacheControl:       values.Get(CacheControl),
		ContentDisposition: values.Get(ContentDisposition),
		Expiry:             exp,
		AccessKeyID:        values.Get(AccessKeyID),
	}
	data.Size, err = strconv.ParseInt(values.Get(Size), 10, 64)
	if err != nil {
		return URLData{}, fmt.Errorf("invalid or missing size: %w", err)
	}
	data.MTime, err = strconv.ParseInt(values.Get(MTime), 10, 64)
	if err != nil {
		return URLData{}, fmt.Errorf("invalid or missing mtime: %w", err)
	}

	return data, nil
}

// sign hashes every value but the signature itself, one quoted key=value line per parameter in
// key order.
func sign(values url.Values, secretKey string) []byte {
	mac := hmac.New(sha256.New, []byte(secretKey))
	for _, k := range slices.Sorted(maps.Keys(values)) {
		if k == Signature {
			continue
		}
		fmt.Fprintf(mac, "%s=%q\n", k, values.Get(k))
	}
	return mac.Sum(nil)
}

func setIfNotEmpty(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}
