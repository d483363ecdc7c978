// Package liquids3 provides functional options for configuring driver behavior.
// These options follow the functional options pattern for clean, composable configuration.
package liquids3

import (
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/input-output-hk/catalyst-forge-libs/fs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/BinaryBirds/liquid-s3-driver/s3types"
)

// WithBucket sets the bucket every operation of this driver instance
// addresses. The option is required; construction fails without it.
func WithBucket(bucket string) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Bucket = bucket
	}
}

// WithRegion sets the AWS region for storage operations.
// If not specified, uses the region from the credential chain, falling back
// to us-east-1.
func WithRegion(region string) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Region = region
	}
}

// WithPublicEndpoint overrides the base used when resolving object URLs.
// Resolved URLs become endpoint + "/" + key instead of the virtual-hosted
// bucket host. Use this when objects are served through a CDN or a custom
// domain.
func WithPublicEndpoint(endpoint string) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.PublicEndpoint = endpoint
	}
}

// WithEndpoint sets a custom S3 service endpoint URL.
// This is useful for S3-compatible services or local testing with LocalStack.
// It affects where requests are sent, not how public URLs are resolved; pair
// it with WithPublicEndpoint when both should change.
func WithEndpoint(endpoint string) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Endpoint = endpoint
	}
}

// WithForcePathStyle forces the use of path-style URLs instead of virtual-hosted style.
// This is required for S3-compatible services that don't support virtual hosting.
// Default is false (uses virtual-hosted style).
func WithForcePathStyle(forcePathStyle bool) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.ForcePathStyle = forcePathStyle
	}
}

// WithStaticCredentials sets a fixed access key pair instead of the default
// AWS credential chain. The session token may be empty for long-lived keys.
func WithStaticCredentials(accessKeyID, secretAccessKey, sessionToken string) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.AccessKeyID = accessKeyID
		c.SecretAccessKey = secretAccessKey
		c.SessionToken = sessionToken
	}
}

// WithMaxRetries sets the maximum number of retry attempts for failed operations.
// Default is 3 retries. Set to 0 to disable retries.
func WithMaxRetries(maxRetries int) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.MaxRetries = maxRetries
	}
}

// WithTimeout sets the timeout for individual storage operations.
// Default is no timeout (0). Values should be positive durations.
func WithTimeout(timeout time.Duration) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Timeout = timeout
	}
}

// WithCustomHTTPClient allows providing a custom HTTP client.
// This gives full control over HTTP behavior including timeouts, proxies, etc.
func WithCustomHTTPClient(client *http.Client) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.CustomHTTPClient = client
	}
}

// WithAWSConfig allows providing a custom AWS configuration.
// This overrides the default configuration loading behavior.
// Use this when you need fine-grained control over AWS SDK configuration.
func WithAWSConfig(config *aws.Config) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.CustomAWSConfig = config
	}
}

// WithFilesystem sets a custom filesystem implementation for file-based
// upload and download helpers. This allows using in-memory filesystems for
// testing or virtual filesystems. If not specified, defaults to the OS
// filesystem.
func WithFilesystem(filesystem fs.Filesystem) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Filesystem = filesystem
	}
}

// WithLogger sets the logger that receives structured diagnostics.
// By default all diagnostics are discarded.
func WithLogger(logger zerolog.Logger) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Logger = logger
	}
}

// WithMetrics registers the driver's Prometheus collectors with the given
// registerer. Without this option no metrics are collected.
func WithMetrics(registry prometheus.Registerer) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.MetricsRegistry = registry
	}
}

// WithContentType sets the content type for upload operations, overriding
// detection from the key's extension.
func WithContentType(contentType string) s3types.UploadOption {
	return func(c *s3types.UploadOptionConfig) {
		c.ContentType = contentType
	}
}

// WithMetadata sets user-defined metadata for upload operations.
func WithMetadata(metadata map[string]string) s3types.UploadOption {
	return func(c *s3types.UploadOptionConfig) {
		if c.Metadata == nil {
			c.Metadata = make(map[string]string)
		}
		for k, v := range metadata {
			c.Metadata[k] = v
		}
	}
}

// WithStorageClass sets the storage class for upload operations.
func WithStorageClass(storageClass s3types.StorageClass) s3types.UploadOption {
	return func(c *s3types.UploadOptionConfig) {
		c.StorageClass = storageClass
	}
}

// WithCacheControl sets the Cache-Control header stored with the object.
// Useful together with WithPublicEndpoint when objects sit behind a CDN.
func WithCacheControl(cacheControl string) s3types.UploadOption {
	return func(c *s3types.UploadOptionConfig) {
		c.CacheControl = cacheControl
	}
}
