package storage

import (
	"context"
	"time"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// ArchiveStore persists point-in-time snapshots of plan documents. Its one
// job is making legacy->canonical migration non-destructive: the raw
// pre-migration document is archived before any write-back, so historical
// data can always be recovered.
type ArchiveStore interface {
	// PutDocument stores a raw document snapshot under the given key.
	PutDocument(ctx context.Context, objectKey string, contentType string, body []byte) error

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET
	// requests for retrieving an archived snapshot.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)
}
