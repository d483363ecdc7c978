package liquids3

import "fmt"

// PublicURL resolves the publicly readable URL of the object stored under
// key. It is a pure computation: no remote call is made and the key is not
// checked for existence.
//
// With a configured public endpoint the URL is endpoint + "/" + key,
// verbatim. Otherwise the virtual-hosted bucket host is derived from the
// bucket and region, with us-east-1 omitting the region component:
//
//	https://{bucket}.s3.amazonaws.com/{key}
//	https://{bucket}.s3.{region}.amazonaws.com/{key}
//
// Keys are appended as-is, so keys holding characters that are not URL-safe
// yield URLs that need escaping by the consumer.
func (s *Storage) PublicURL(key string) string {
	return s.publicBase() + "/" + key
}

// publicBase returns the URL prefix shared by every object in the bucket.
func (s *Storage) publicBase() string {
	if s.cfg.PublicEndpoint != "" {
		return s.cfg.PublicEndpoint
	}
	if s.cfg.Region == defaultRegion {
		return fmt.Sprintf("https://%s.s3.amazonaws.com", s.cfg.Bucket)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", s.cfg.Bucket, s.cfg.Region)
}
