// Package uploader pushes run directories to cloud storage.
package uploader

import "context"

// Uploader publishes a run directory and returns its remote location.
type Uploader interface {
	Enabled() bool
	UploadDir(ctx context.Context, dir string) (string, error)
}

// NoopUploader is used when no cloud backend is configured.
type NoopUploader struct{}

// Enabled reports false: nothing is uploaded.
func (n NoopUploader) Enabled() bool {
	return false
}

// UploadDir does nothing.
func (n NoopUploader) UploadDir(ctx context.Context, dir string) (string, error) {
	return "", nil
}
