// Package s3types provides shared type definitions for the liquid S3 driver.
package s3types

import (
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/input-output-hk/catalyst-forge-libs/fs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// StorageClass represents the S3 storage class for uploaded objects.
type StorageClass string

// Predefined S3 storage classes
const (
	// StorageClassStandard is the default S3 storage class
	StorageClassStandard StorageClass = "STANDARD"

	// StorageClassReducedRedundancy provides reduced redundancy storage
	StorageClassReducedRedundancy StorageClass = "REDUCED_REDUNDANCY"

	// StorageClassStandardIA provides infrequent access storage
	StorageClassStandardIA StorageClass = "STANDARD_IA"

	// StorageClassOneZoneIA provides one zone infrequent access storage
	StorageClassOneZoneIA StorageClass = "ONEZONE_IA"

	// StorageClassIntelligentTiering provides intelligent tiering storage
	StorageClassIntelligentTiering StorageClass = "INTELLIGENT_TIERING"

	// StorageClassGlacier provides Glacier archival storage
	StorageClassGlacier StorageClass = "GLACIER"

	// StorageClassDeepArchive provides Deep Archive storage
	StorageClassDeepArchive StorageClass = "DEEP_ARCHIVE"

	// StorageClassGlacierIR provides Glacier Instant Retrieval storage
	StorageClassGlacierIR StorageClass = "GLACIER_IR"
)

// Object represents a stored object with its basic metadata, as returned by
// listing operations.
type Object struct {
	// Key is the object key (path)
	Key string

	// Size is the object size in bytes
	Size int64

	// LastModified is when the object was last modified
	LastModified time.Time

	// ETag is the S3 entity tag for the object
	ETag string

	// StorageClass is the S3 storage class
	StorageClass StorageClass
}

// ObjectInfo contains detailed metadata about a single stored object, as
// returned by metadata probes.
type ObjectInfo struct {
	// Key is the object key (path)
	Key string

	// Size is the size of the object in bytes
	Size int64

	// ContentType is the MIME type of the object
	ContentType string

	// LastModified is when the object was last modified
	LastModified time.Time

	// ETag is the S3 entity tag for the object
	ETag string

	// Metadata contains user-defined metadata
	Metadata map[string]string
}

// Configuration types for functional options

// ClientConfig holds the driver configuration assembled by functional options.
// The storage handle copies it at construction time and never mutates it
// afterwards.
type ClientConfig struct {
	// Bucket is the bucket all operations address. Required.
	Bucket string

	// Region selects the AWS region. Defaults to us-east-1 when neither the
	// option nor the ambient AWS configuration provides one.
	Region string

	// PublicEndpoint, when set, becomes the base for resolved object URLs in
	// place of the derived virtual-hosted bucket host.
	PublicEndpoint string

	// Endpoint overrides the service endpoint for S3-compatible providers.
	Endpoint string

	// ForcePathStyle switches request addressing from virtual-hosted to
	// path style, which most S3-compatible providers require.
	ForcePathStyle bool

	// AccessKeyID, SecretAccessKey, and SessionToken configure static
	// credentials. When AccessKeyID is empty the ambient credential chain is
	// used instead.
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string

	MaxRetries       int
	Timeout          time.Duration
	CustomHTTPClient *http.Client
	CustomAWSConfig  *aws.Config

	// Filesystem abstraction used by file-based upload and download helpers
	Filesystem fs.Filesystem

	// Logger receives structured diagnostics. Defaults to a no-op logger.
	Logger zerolog.Logger

	// MetricsRegistry, when non-nil, receives the driver's Prometheus
	// collectors. Nil disables metrics entirely.
	MetricsRegistry prometheus.Registerer
}

// UploadOptionConfig holds configuration for upload operations via functional options.
type UploadOptionConfig struct {
	ContentType  string
	Metadata     map[string]string
	StorageClass StorageClass
	CacheControl string
}

// Option is a functional option for configuring the storage driver.
type (
	Option func(*ClientConfig)
	// UploadOption is a functional option for configuring upload operations.
	UploadOption func(*UploadOptionConfig)
)
