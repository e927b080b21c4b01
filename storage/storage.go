// Package storage abstracts where research PDFs live. The default backend is
// the local uploads directory; an S3-compatible bucket can be selected
// through config for deployments that don't keep files on the host.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/viper"
)

type Storage interface {
	// Exists reports whether a stored object with this key is readable
	Exists(ctx context.Context, key string) (bool, error)
	// Open returns the object contents. The caller closes the reader.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Write stores the full contents of r under key, overwriting
	Write(ctx context.Context, key string, r io.Reader) error
	// Delete removes the object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// New builds the backend selected by storage.type
func New() (Storage, error) {
	switch t := viper.GetString("storage.type"); t {
	case "s3":
		return NewS3()
	case "local", "":
		return NewLocal(viper.GetString("storage.path"))
	default:
		return nil, fmt.Errorf("invalid storage type %q", t)
	}
}
