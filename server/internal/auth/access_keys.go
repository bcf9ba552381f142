package auth

import (
	"crypto/rand"
	"encoding/base32"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
)

const (
	accessKeyIDLen = 20
	secretKeyLen   = 40
)

var (
	ErrInvalidAccessKey = errors.New("invalid access key")
)

// Auth holds raw secret keys in memory. Secrets are kept as-is since they are needed to validate
// presigned url signatures.
type Auth struct {
	m  map[string]string
	mu sync.RWMutex
}

func New() *Auth {
	return &Auth{
		m: make(map[string]string),
	}
}

type AccessKey struct {
	AccessKeyID string
	SecretKey   string
}

// GenerateAccessKey generates and registers a pair of access key ID and secret, 20 and 40 chars
// long respectively.
func (auth *Auth) GenerateAccessKey() *AccessKey {
	idBytes := make([]byte, 15)
	_, _ = rand.Read(idBytes)
	// upper case chars and digits only, easy to share and url safe
	id := base32.StdEncoding.EncodeToString(idBytes)[:accessKeyIDLen]

	secretBytes := make([]byte, 30)
	_, _ = rand.Read(secretBytes)
	secret := base64.StdEncoding.EncodeToString(secretBytes)[:secretKeyLen]

	auth.mu.Lock()
	auth.m[id] = secret
	auth.mu.Unlock()

	return &AccessKey{
		AccessKeyID: id,
		SecretKey:   secret,
	}
}

// Register adds a pre-shared access key, e.g. one provided through server flags, so clients keep
// working across restarts.
func (auth *Auth) Register(ak AccessKey) error {
	if ak.AccessKeyID == "" || ak.SecretKey == "" {
		return fmt.Errorf("%w: both id and secret are required", ErrInvalidAccessKey)
	}
	if len(ak.SecretKey) < 16 {
		return fmt.Errorf("%w: secret must be at least 16 chars", ErrInvalidAccessKey)
	}

	auth.mu.Lock()
	defer auth.mu.Unlock()

	if existing, ok := auth.m[ak.AccessKeyID]; ok && existing != ak.SecretKey {
		return fmt.Errorf("%w: id %q already registered", ErrInvalidAccessKey, ak.AccessKeyID)
	}
	auth.m[ak.AccessKeyID] = ak.SecretKey
	return nil
}

// Revoke removes an access key. Presigned urls signed with it stop validating.
func (auth *Auth) Revoke(keyID string) {
	auth.mu.Lock()
	delete(auth.m, keyID)
	auth.mu.Unlock()
}

func (auth *Auth) GetSecretKeyByID(keyID string) (string, bool) {
	auth.mu.RLock()
	defer auth.mu.RUnlock()

	secret, ok := auth.m[keyID]
	return secret, ok
}
