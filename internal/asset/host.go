// Package asset abstracts the external binary-object storage holding uploaded
// images. The service only ever needs two verbs from it.
package asset

import (
	"context"
	"io"
)

// Host stores and removes image binaries. Store must return a publicly
// reachable URL for the stored object; Remove is invoked best-effort on
// deletion and its failures are logged, not surfaced.
type Host interface {
	Store(ctx context.Context, key, contentType string, body io.Reader) (url string, err error)
	Remove(ctx context.Context, key string) error
}
