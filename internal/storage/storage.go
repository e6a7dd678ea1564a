// Package storage defines the image store consumed by the ticket renderer.
package storage

//go:generate mockgen -source storage.go -destination mock_storage.go -package storage

import "context"

// ImageStorage persists rendered ticket images.
type ImageStorage interface {
	// Store writes the image bytes under path. Returns true on success;
	// failures are logged by the implementation, not returned as errors.
	Store(ctx context.Context, image []byte, path string) bool
}
