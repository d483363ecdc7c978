package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "bucket and key",
			err:  NewError("upload", cause).WithBucket("assets").WithKey("docs/readme.txt"),
			want: "liquids3.upload assets/docs/readme.txt: boom",
		},
		{
			name: "bucket only",
			err:  NewError("ensureBucket", cause).WithBucket("assets"),
			want: "liquids3.ensureBucket bucket assets: boom",
		},
		{
			name: "key only",
			err:  NewError("resolve", cause).WithKey("docs/readme.txt"),
			want: "liquids3.resolve object docs/readme.txt: boom",
		},
		{
			name: "bare operation",
			err:  NewError("list", cause),
			want: "liquids3.list: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	err := NewError("move", ErrPartialFailure).WithBucket("assets").WithKey("a/b")
	assert.ErrorIs(t, err, ErrPartialFailure,
		"errors.Is should see through the operation wrapper")

	var opErr *Error
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "move", opErr.Op)
	assert.Equal(t, "assets", opErr.Bucket)
	assert.Equal(t, "a/b", opErr.Key)
}

func TestWithMessagePreservesChain(t *testing.T) {
	err := NewError("move", ErrKeyNotExists).WithMessage("source vanished before copy")

	assert.ErrorIs(t, err, ErrKeyNotExists,
		"WithMessage must keep the sentinel reachable via errors.Is")
	assert.Equal(t,
		"liquids3.move: source vanished before copy: liquids3: key does not exist",
		err.Error())
}

func TestIsHelpers(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		check    func(error) bool
		expected bool
	}{
		{"configuration direct", ErrConfiguration, IsConfiguration, true},
		{"configuration wrapped", fmt.Errorf("new: %w", ErrConfiguration), IsConfiguration, true},
		{"key not exists wrapped", NewError("get", ErrKeyNotExists), IsKeyNotExists, true},
		{"partial failure wrapped", NewError("move", ErrPartialFailure), IsPartialFailure, true},
		{"bucket not found wrapped", NewError("list", ErrBucketNotFound), IsBucketNotFound, true},
		{"access denied wrapped", NewError("upload", ErrAccessDenied), IsAccessDenied, true},
		{"invalid input wrapped", NewError("upload", ErrInvalidInput), IsInvalidInput, true},
		{"mismatched sentinel", NewError("get", ErrKeyNotExists), IsPartialFailure, false},
		{"unrelated error", errors.New("connection reset"), IsKeyNotExists, false},
		{"nil error", nil, IsKeyNotExists, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.check(tt.err))
		})
	}
}
