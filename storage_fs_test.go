// Package liquids3 provides tests for filesystem-backed upload and download.
package liquids3

import (
	"context"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/input-output-hk/catalyst-forge-libs/fs/billy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lserrors "github.com/BinaryBirds/liquid-s3-driver/errors"
	"github.com/BinaryBirds/liquid-s3-driver/internal/testutil"
	"github.com/BinaryBirds/liquid-s3-driver/s3types"
)

// TestStorage_UploadFile_WithMemoryFS tests UploadFile against an in-memory
// filesystem.
func TestStorage_UploadFile_WithMemoryFS(t *testing.T) {
	tests := []struct {
		name        string
		key         string
		filePath    string
		setupFS     func(*billy.FS) error
		setupMock   func(*testutil.MockS3Client)
		opts        []s3types.UploadOption
		wantURL     string
		wantErr     bool
		errContains string
	}{
		{
			name:     "successful file upload from memory fs",
			key:      "docs/file.txt",
			filePath: "/test/file.txt",
			setupFS: func(fs *billy.FS) error {
				if err := fs.MkdirAll("/test", 0o755); err != nil {
					return err
				}
				return fs.WriteFile("/test/file.txt", []byte("Hello from memory filesystem!"), 0o644)
			},
			setupMock: func(m *testutil.MockS3Client) {
				m.PutObjectFunc = func(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
					// Verify the input parameters
					assert.Equal(t, "test-bucket", aws.ToString(params.Bucket))
					assert.Equal(t, "docs/file.txt", aws.ToString(params.Key))
					assert.Contains(t, aws.ToString(params.ContentType), "text/plain")

					// Read the body to verify content
					body, err := io.ReadAll(params.Body)
					require.NoError(t, err)
					assert.Equal(t, "Hello from memory filesystem!", string(body))

					return &s3.PutObjectOutput{}, nil
				}
			},
			wantURL: "https://test-bucket.s3.amazonaws.com/docs/file.txt",
		},
		{
			name:     "extensionless key sniffs the file contents",
			key:      "uploads/blob",
			filePath: "/data.json",
			setupFS: func(fs *billy.FS) error {
				return fs.WriteFile("/data.json", []byte(`{"name": "test", "value": 123}`), 0o644)
			},
			setupMock: func(m *testutil.MockS3Client) {
				m.PutObjectFunc = func(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
					assert.Contains(t, aws.ToString(params.ContentType), "json")
					return &s3.PutObjectOutput{}, nil
				}
			},
			wantURL: "https://test-bucket.s3.amazonaws.com/uploads/blob",
		},
		{
			name:     "file not found in memory fs",
			key:      "docs/file.txt",
			filePath: "/nonexistent.txt",
			setupFS: func(fs *billy.FS) error {
				// Don't create the file
				return nil
			},
			setupMock: func(m *testutil.MockS3Client) {
				m.PutObjectFunc = func(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
					t.Error("PutObject should not be called when the file is missing")
					return &s3.PutObjectOutput{}, nil
				}
			},
			wantErr:     true,
			errContains: "file does not exist",
		},
		{
			name:     "upload directory instead of file",
			key:      "docs/file.txt",
			filePath: "/testdir",
			setupFS: func(fs *billy.FS) error {
				return fs.MkdirAll("/testdir", 0o755)
			},
			setupMock: func(m *testutil.MockS3Client) {
				// Should not be called
			},
			wantErr:     true,
			errContains: "points to a directory",
		},
		{
			name:     "empty file path",
			key:      "docs/file.txt",
			filePath: "",
			setupMock: func(m *testutil.MockS3Client) {
				// Should not be called
			},
			wantErr:     true,
			errContains: "file path cannot be empty",
		},
		{
			name:     "upload with custom metadata",
			key:      "docs/meta.txt",
			filePath: "/metadata.txt",
			setupFS: func(fs *billy.FS) error {
				return fs.WriteFile("/metadata.txt", []byte("file with metadata"), 0o644)
			},
			setupMock: func(m *testutil.MockS3Client) {
				m.PutObjectFunc = func(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
					// Verify metadata
					assert.NotNil(t, params.Metadata)
					assert.Equal(t, "test-user", params.Metadata["uploaded-by"])
					assert.Equal(t, "memory-fs", params.Metadata["source"])
					return &s3.PutObjectOutput{}, nil
				}
			},
			opts: []s3types.UploadOption{
				WithMetadata(map[string]string{
					"uploaded-by": "test-user",
					"source":      "memory-fs",
				}),
			},
			wantURL: "https://test-bucket.s3.amazonaws.com/docs/meta.txt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create in-memory filesystem
			memFS := billy.NewInMemoryFS()
			if tt.setupFS != nil {
				require.NoError(t, tt.setupFS(memFS), "failed to setup filesystem")
			}

			// Create mock S3 client
			mockClient := &testutil.MockS3Client{}
			if tt.setupMock != nil {
				tt.setupMock(mockClient)
			}

			storage := newMockedStorage(t, mockClient, WithFilesystem(memFS))

			// Perform upload
			ctx := context.Background()
			url, err := storage.UploadFile(ctx, tt.key, tt.filePath, tt.opts...)

			// Check results
			if tt.wantErr {
				assert.Error(t, err)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				assert.Empty(t, url)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantURL, url)
			}
		})
	}
}

// TestStorage_DownloadFile_WithMemoryFS tests DownloadFile against an
// in-memory filesystem.
func TestStorage_DownloadFile_WithMemoryFS(t *testing.T) {
	t.Run("successful download to file", func(t *testing.T) {
		memFS := billy.NewInMemoryFS()
		require.NoError(t, memFS.MkdirAll("/downloads", 0o755))

		mockClient := &testutil.MockS3Client{}
		mockClient.GetObjectFunc = func(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
			assert.Equal(t, "docs/readme.txt", aws.ToString(params.Key))
			return testutil.CreateGetObjectOutput([]byte("downloaded contents"), "text/plain"), nil
		}

		storage := newMockedStorage(t, mockClient, WithFilesystem(memFS))

		err := storage.DownloadFile(context.Background(), "docs/readme.txt", "/downloads/readme.txt")

		require.NoError(t, err)
		data, err := memFS.ReadFile("/downloads/readme.txt")
		require.NoError(t, err)
		assert.Equal(t, []byte("downloaded contents"), data)
	})

	t.Run("missing key maps to sentinel", func(t *testing.T) {
		memFS := billy.NewInMemoryFS()

		mockClient := &testutil.MockS3Client{}
		mockClient.HeadObjectFunc = func(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
			return nil, testutil.NotFoundError()
		}

		storage := newMockedStorage(t, mockClient, WithFilesystem(memFS))

		err := storage.DownloadFile(context.Background(), "missing.txt", "/downloads/missing.txt")

		assert.ErrorIs(t, err, lserrors.ErrKeyNotExists)

		// Nothing should have been written
		exists, fsErr := memFS.Exists("/downloads/missing.txt")
		require.NoError(t, fsErr)
		assert.False(t, exists)
	})

	t.Run("empty file path", func(t *testing.T) {
		storage := newMockedStorage(t, &testutil.MockS3Client{}, WithFilesystem(billy.NewInMemoryFS()))

		err := storage.DownloadFile(context.Background(), "docs/readme.txt", "")

		assert.ErrorIs(t, err, lserrors.ErrInvalidInput)
		assert.Contains(t, err.Error(), "file path cannot be empty")
	})
}
