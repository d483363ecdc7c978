// Package liquids3 provides driver construction and configuration.
//
// The Storage handle binds all operations to a single bucket and resolves
// public URLs for stored objects, supporting upload, download, list, copy,
// move, and delete with configurable options for credentials, endpoints,
// and observability.
package liquids3

import (
	"context"
	"errors"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/input-output-hk/catalyst-forge-libs/fs"
	"github.com/input-output-hk/catalyst-forge-libs/fs/billy"
	"github.com/rs/zerolog"

	lserrors "github.com/BinaryBirds/liquid-s3-driver/errors"
	"github.com/BinaryBirds/liquid-s3-driver/internal/s3api"
	"github.com/BinaryBirds/liquid-s3-driver/internal/validation"
	"github.com/BinaryBirds/liquid-s3-driver/s3types"
)

// defaultRegion is the region assumed when neither the options nor the
// ambient AWS configuration provide one. It is also the one region whose
// public URLs omit the region component.
const defaultRegion = "us-east-1"

// Storage is a bucket-scoped storage handle. All operations address objects
// inside the bucket fixed at construction time; objects are uploaded with
// public-read access and their URLs can be resolved without further calls.
//
// A Storage holds no mutable state and is safe for concurrent use by
// multiple goroutines.
type Storage struct {
	// client is the underlying S3 API used for all remote calls
	client s3api.S3API

	// cfg is the resolved configuration, copied and never mutated
	cfg s3types.ClientConfig

	// fs is the filesystem abstraction for file-based helpers
	fs fs.Filesystem

	// log receives structured diagnostics, a no-op logger by default
	log zerolog.Logger

	// metrics is nil unless a metrics registry was configured
	metrics *storageMetrics
}

// defaultClientConfig returns the configuration that options are applied on.
func defaultClientConfig() s3types.ClientConfig {
	return s3types.ClientConfig{
		MaxRetries: 3,
		Logger:     zerolog.Nop(),
	}
}

// New creates a storage driver with the provided options. WithBucket is
// required; a missing or malformed bucket name fails construction rather
// than the first operation.
//
// Credentials come from the default AWS credential chain unless
// WithStaticCredentials or WithAWSConfig supply them.
//
// Example:
//
//	storage, err := liquids3.New(
//	    liquids3.WithBucket("assets"),
//	    liquids3.WithRegion("us-west-1"),
//	)
func New(opts ...s3types.Option) (*Storage, error) {
	cfg := defaultClientConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := validation.ValidateBucketName(cfg.Bucket); err != nil {
		return nil, err
	}

	var awsCfg aws.Config
	var err error

	if cfg.CustomAWSConfig != nil {
		awsCfg = *cfg.CustomAWSConfig
	} else {
		awsCfg, err = config.LoadDefaultConfig(context.Background())
		if err != nil {
			return nil, lserrors.NewError("client initialization", err)
		}
	}

	// Apply region from options if specified, otherwise ensure a region is set
	if cfg.Region != "" {
		awsCfg.Region = cfg.Region
	} else if awsCfg.Region == "" {
		awsCfg.Region = defaultRegion
	}
	// Resolved URLs must reflect the effective region, wherever it came from
	cfg.Region = awsCfg.Region

	if cfg.AccessKeyID != "" {
		awsCfg.Credentials = credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken,
		)
	}

	if cfg.MaxRetries > 0 {
		awsCfg.RetryMaxAttempts = cfg.MaxRetries
	}

	var s3Opts []func(*s3.Options)

	if cfg.Endpoint != "" {
		endpoint := cfg.Endpoint
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
	}

	if cfg.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	if cfg.CustomHTTPClient != nil {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.HTTPClient = cfg.CustomHTTPClient
		})
	} else if cfg.Timeout > 0 {
		httpClient := &http.Client{
			Timeout: cfg.Timeout,
		}
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.HTTPClient = httpClient
		})
	}

	return newStorage(s3.NewFromConfig(awsCfg, s3Opts...), cfg), nil
}

// NewWithClient creates a storage driver on top of a caller-provided S3API
// implementation. This is primarily used for testing with mocked clients.
// The same construction-time validation applies as in New.
func NewWithClient(client s3api.S3API, opts ...s3types.Option) (*Storage, error) {
	cfg := defaultClientConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := validation.ValidateBucketName(cfg.Bucket); err != nil {
		return nil, err
	}

	if cfg.Region == "" {
		cfg.Region = defaultRegion
	}

	return newStorage(client, cfg), nil
}

// newStorage finishes construction once the configuration is resolved.
func newStorage(client s3api.S3API, cfg s3types.ClientConfig) *Storage {
	filesystem := cfg.Filesystem
	if filesystem == nil {
		// Default to OS filesystem rooted at /
		filesystem = billy.NewOSFS("/")
	}

	var metrics *storageMetrics
	if cfg.MetricsRegistry != nil {
		metrics = newStorageMetrics(cfg.MetricsRegistry)
	}

	return &Storage{
		client:  client,
		cfg:     cfg,
		fs:      filesystem,
		log:     cfg.Logger.With().Str("component", "liquids3").Str("bucket", cfg.Bucket).Logger(),
		metrics: metrics,
	}
}

// Bucket returns the bucket this driver instance addresses.
func (s *Storage) Bucket() string {
	return s.cfg.Bucket
}

// Region returns the effective AWS region.
func (s *Storage) Region() string {
	return s.cfg.Region
}

// EnsureBucket creates the configured bucket if it does not exist yet.
// A bucket that already exists and is owned by the caller satisfies the
// call; one owned by another account reports ErrBucketAlreadyExists.
func (s *Storage) EnsureBucket(ctx context.Context) error {
	input := &s3.CreateBucketInput{
		Bucket: aws.String(s.cfg.Bucket),
	}

	// us-east-1 is the API default and must not be sent as a location constraint
	if s.cfg.Region != defaultRegion {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(s.cfg.Region),
		}
	}

	_, err := s.client.CreateBucket(ctx, input)
	if err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &owned) {
			s.log.Debug().Msg("bucket already provisioned")
			return nil
		}
		return lserrors.NewError("ensureBucket", convertAWSError(err)).WithBucket(s.cfg.Bucket)
	}

	s.log.Info().Str("region", s.cfg.Region).Msg("bucket created")
	return nil
}
