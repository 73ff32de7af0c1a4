package storage

import (
	"fmt"
	"net/url"
	"strings"
)

// ObjectRef identifies a stored object by bucket and key.
type ObjectRef struct {
	Bucket string
	Key    string
}

func (r ObjectRef) String() string {
	return "s3://" + r.Bucket + "/" + r.Key
}

// ParseImageURL decomposes a fully-qualified image URL into its bucket and
// object key. The bucket is the leading label of the host
// (bucket.s3.region.amazonaws.com and similar virtual-host shapes), the key
// is the URL path without the leading slash. Splitting on raw "/" is not
// good enough here: keys routinely contain dots and extra segments.
func ParseImageURL(raw string) (ObjectRef, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return ObjectRef{}, fmt.Errorf("[Storage] invalid image URL %q: %w", raw, err)
	}

	bucket, _, _ := strings.Cut(u.Hostname(), ".")
	key := strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return ObjectRef{}, fmt.Errorf("[Storage] image URL %q is missing a bucket or object key", raw)
	}

	return ObjectRef{Bucket: bucket, Key: key}, nil
}
