package psurls_test

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hedisam/entrymeta/lib/psurls"
)

const testBaseURL = "http://localhost:8080/v1/files/upload"

func TestGenerateValidate(t *testing.T) {
	exp := time.Now().UTC().Add(time.Minute).Unix()

	tests := map[string]struct {
		data      psurls.URLData
		tamper    func(v url.Values)
		secret    string
		expectErr error
		errSubstr string
	}{
		"round trip with content headers": {
			data: psurls.URLData{
				ObjectKey:          "docs/report.pdf",
				SHA256Checksum:     "abc",
				Size:               12,
				MTime:              1700000000,
				ContentType:        "application/pdf",
				CacheControl:       "no-store",
				ContentDisposition: `attachment; filename="report.pdf"`,
				Expiry:             exp,
				AccessKeyID:        "AKI",
			},
			secret: "s3cr3t",
		},
		"round trip without optional values": {
			data: psurls.URLData{
				ObjectKey: "a", SHA256Checksum: "b", Size: 1, MTime: 2, Expiry: exp, AccessKeyID: "AKI",
			},
			secret: "s3cr3t",
		},
		"tampered content type": {
			data: psurls.URLData{
				ObjectKey: "a", SHA256Checksum: "b", Size: 1, MTime: 2, Expiry: exp, AccessKeyID: "AKI",
				ContentType: "text/plain",
			},
			tamper: func(v url.Values) {
				v.Set(psurls.ContentType, "text/html")
			},
			secret:    "s3cr3t",
			expectErr: psurls.ErrSignatureMismatch,
		},
		"injected optional value": {
			data: psurls.URLData{
				ObjectKey: "a", SHA256Checksum: "b", Size: 1, MTime: 2, Expiry: exp, AccessKeyID: "AKI",
			},
			tamper: func(v url.Values) {
				v.Set(psurls.CacheControl, "public")
			},
			secret:    "s3cr3t",
			expectErr: psurls.ErrSignatureMismatch,
		},
		"expired": {
			data: psurls.URLData{
				ObjectKey: "a", SHA256Checksum: "b", Size: 1, MTime: 2, AccessKeyID: "AKI",
				Expiry: time.Now().UTC().Add(-time.Minute).Unix(),
			},
			secret:    "s3cr3t",
			expectErr: psurls.ErrURLExpired,
		},
		"missing signature": {
			data: psurls.URLData{
				ObjectKey: "a", SHA256Checksum: "b", Size: 1, MTime: 2, Expiry: exp, AccessKeyID: "AKI",
			},
			tamper: func(v url.Values) {
				v.Del(psurls.Signature)
			},
			secret:    "s3cr3t",
			expectErr: psurls.ErrMissingSignature,
		},
		"non numeric expiry": {
			data: psurls.URLData{
				ObjectKey: "a", SHA256Checksum: "b", Size: 1, MTime: 2, Expiry: exp, AccessKeyID: "AKI",
			},
			tamper: func(v url.Values) {
				v.Set(psurls.Expiry, "soon")
			},
			secret:    "s3cr3t",
			errSubstr: "invalid or missing expiry",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			raw, err := psurls.Generate(tc.data, testBaseURL, tc.secret)
			require.NoError(t, err)

			u, err := url.Parse(raw)
			require.NoError(t, err)
			values := u.Query()
			if tc.tamper != nil {
				tc.tamper(values)
			}

			got, err := psurls.Validate(values, tc.secret)
			switch {
			case tc.expectErr != nil:
				require.ErrorIs(t, err, tc.expectErr)
				return
			case tc.errSubstr != "":
				require.ErrorContains(t, err, tc.errSubstr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.data, got)
		})
	}
}

func TestGenerateKeepsBaseQuery(t *testing.T) {
	data := psurls.URLData{
		ObjectKey: "a", SHA256Checksum: "b", Size: 1, MTime: 2, AccessKeyID: "AKI",
		Expiry: time.Now().UTC().Add(time.Minute).Unix(),
	}
	raw, err := psurls.Generate(data, testBaseURL+"?tenant=t1", "s3cr3t")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/v1/files/upload", u.Path)
	assert.Equal(t, "t1", u.Query().Get("tenant"))

	_, err = psurls.Validate(u.Query(), "s3cr3t")
	require.NoError(t, err)

	values := u.Query()
	values.Set("tenant", "t2")
	_, err = psurls.Validate(values, "s3cr3t")
	require.ErrorIs(t, err, psurls.ErrSignatureMismatch)
}

func TestGenerateInvalidBaseURL(t *testing.T) {
	_, err := psurls.Generate(psurls.URLData{}, "http://[::1", "s3cr3t")
	require.Error(t, err)
}
