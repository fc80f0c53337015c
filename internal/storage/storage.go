package storage

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Storage abstracts the object store that holds listing images. Upload
// returns the public URL of the stored object.
type Storage interface {
	Upload(ctx context.Context, bucket, key string, data []byte, contentType string) (string, error)
	Remove(ctx context.Context, bucket, key string) error
}

// CreateKey names the image object for a freshly created listing.
func CreateKey(recordID string) string {
	return recordID + ".png"
}

// UpdateKey names a replacement image object. The timestamp qualifier
// keeps replacement uploads from colliding with the create-time object.
func UpdateKey(recordID string, now time.Time) string {
	return fmt.Sprintf("%s-%d.png", recordID, now.UnixMilli())
}

// KeyFromURL recovers the object key from a public URL produced by
// Upload, so delete and replace paths can clean up the old object. It
// returns an empty string when url does not point into bucket.
func KeyFromURL(url, bucket string) string {
	marker := "/" + bucket + "/"
	idx := strings.Index(url, marker)
	if idx < 0 {
		return ""
	}
	return url[idx+len(marker):]
}
