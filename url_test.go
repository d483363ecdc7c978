// Package liquids3 provides tests for public URL resolution.
package liquids3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BinaryBirds/liquid-s3-driver/internal/testutil"
	"github.com/BinaryBirds/liquid-s3-driver/s3types"
)

// TestStorage_PublicURL tests URL resolution for all endpoint forms.
func TestStorage_PublicURL(t *testing.T) {
	tests := []struct {
		name string
		opts []s3types.Option
		key  string
		want string
	}{
		{
			name: "default region omits the region component",
			opts: []s3types.Option{WithBucket("assets")},
			key:  "docs/readme.txt",
			want: "https://assets.s3.amazonaws.com/docs/readme.txt",
		},
		{
			name: "explicit us-east-1 omits the region component",
			opts: []s3types.Option{WithBucket("assets"), WithRegion("us-east-1")},
			key:  "docs/readme.txt",
			want: "https://assets.s3.amazonaws.com/docs/readme.txt",
		},
		{
			name: "other regions appear in the host",
			opts: []s3types.Option{WithBucket("assets"), WithRegion("eu-west-2")},
			key:  "docs/readme.txt",
			want: "https://assets.s3.eu-west-2.amazonaws.com/docs/readme.txt",
		},
		{
			name: "public endpoint replaces the virtual-hosted form",
			opts: []s3types.Option{
				WithBucket("assets"),
				WithRegion("eu-west-2"),
				WithPublicEndpoint("https://cdn.example.com"),
			},
			key:  "docs/readme.txt",
			want: "https://cdn.example.com/docs/readme.txt",
		},
		{
			name: "public endpoint is used verbatim",
			opts: []s3types.Option{
				WithBucket("assets"),
				WithPublicEndpoint("https://cdn.example.com/"),
			},
			key:  "docs/readme.txt",
			want: "https://cdn.example.com//docs/readme.txt",
		},
		{
			name: "keys are appended without escaping",
			opts: []s3types.Option{WithBucket("assets")},
			key:  "my file (1).txt",
			want: "https://assets.s3.amazonaws.com/my file (1).txt",
		},
		{
			name: "directory marker key",
			opts: []s3types.Option{WithBucket("assets"), WithRegion("eu-west-2")},
			key:  "media/uploads/",
			want: "https://assets.s3.eu-west-2.amazonaws.com/media/uploads/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, err := NewWithClient(&testutil.MockS3Client{}, tt.opts...)
			require.NoError(t, err)

			assert.Equal(t, tt.want, storage.PublicURL(tt.key))
		})
	}
}
