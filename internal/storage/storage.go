package storage

import (
	"context"
	"io"
)

// PutInput describes an uploaded product image.
type PutInput struct {
	Filename    string
	ContentType string
	Size        int64
}

// PutResult is what a product row keeps: the key for deletion and the public URL.
type PutResult struct {
	Key string
	URL string
}

type Storage interface {
	Put(ctx context.Context, r io.Reader, in PutInput) (PutResult, error)
	Delete(ctx context.Context, key string) error
}
