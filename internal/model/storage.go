package model

import (
	"context"
	"io"
)

// BlobStorage holds encrypted push extras that did not fit in the push payload.
type BlobStorage interface {
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
