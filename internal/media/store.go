package media

import (
	"context"
	"fmt"
	"path"
	"time"
)

// Object is a stored file: Key is its storage path, URL where clients fetch it.
type Object struct {
	Key string
	URL string
}

type Store interface {
	Put(ctx context.Context, key, contentType string, body []byte) (Object, error)
	Delete(ctx context.Context, key string) error
}

// ObjectKey names an image as <type>/<owner>/<kind>-<owner>-<unixmillis>-<index>.<ext>.
func ObjectKey(resourceType, kind, ownerID string, at time.Time, index int, ext string) string {
	return path.Join(resourceType, ownerID, fmt.Sprintf("%s-%s-%d-%d.%s", kind, ownerID, at.UnixMilli(), index, ext))
}
