package store

import (
	"errors"
	"time"

	"github.com/hedisam/entrymeta/lib/metadata"
)

// ErrCleanupNotQueued is returned alongside a mutation that was applied and journaled, but whose
// replaced or deleted object could not be queued for cleanup. The object's blob is orphaned.
var ErrCleanupNotQueued = errors.New("object cleanup not queued")

// ErrKeyConflict is returned when a key would be both a file and the directory of another key,
// like "a" and "a/b".
var ErrKeyConflict = errors.New("key conflicts with an existing file or directory")

// ObjectRecord is the catalog entry for an uploaded object. Metadata holds whatever the upload and
// the backend reported for it; anything absent there has to be fetched from the backend on stat.
type ObjectRecord struct {
	Key            string            `json:"key"`
	ObjectID       string            `json:"object_id"`
	SHA256Checksum string            `json:"sha256"`
	Metadata       metadata.Metadata `json:"metadata"`
	CreatedAt      time.Time         `json:"created_at"`
	CompletedAt    *time.Time        `json:"completed_at,omitempty"`
}
