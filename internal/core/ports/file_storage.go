package ports

import (
	"context"
	"time"
)

// PresignedUpload is where a client uploads a file and where it is read
// from afterwards. The core only ever stores FileURL.
type PresignedUpload struct {
	UploadURL string
	FileURL   string
	ExpiresAt time.Time
}

// FileStorage hands out upload URLs; it never sees file bytes.
type FileStorage interface {
	PresignUpload(ctx context.Context, key, contentType string) (PresignedUpload, error)
}
