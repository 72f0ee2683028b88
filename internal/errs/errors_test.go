package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Message(t *testing.T) {
	cause := errors.New("boom")

	assert.Equal(t, "[parse_failed] bad numeric", New(ErrKindParseFailed, "bad numeric").Error())
	assert.Equal(t, "[query_failed] catalog: boom", Wrap(ErrKindQueryFailed, "catalog", cause).Error())
	assert.Equal(t, "[invalid_input] unknown driver \"x\"", Newf(ErrKindInvalidInput, "unknown driver %q", "x").Error())
}

func TestPredicates_SeeThroughWrapping(t *testing.T) {
	cause := errors.New("driver said no")
	err := fmt.Errorf("fetch metadata: %w", Wrap(ErrKindTimeout, "columns", cause))

	assert.True(t, IsTimeout(err))
	assert.True(t, IsCatalogFailure(err))
	assert.False(t, IsParseFailed(err))
	assert.ErrorIs(t, err, cause)
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrKind
	}{
		{"nil", nil, ErrKindUnknown},
		{"plain error", errors.New("x"), ErrKindUnknown},
		{"not found", New(ErrKindNotFound, "x"), ErrKindNotFound},
		{"permission", New(ErrKindPermissionDenied, "x"), ErrKindPermissionDenied},
		{"parse", New(ErrKindParseFailed, "x"), ErrKindParseFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestIsCatalogFailure(t *testing.T) {
	assert.True(t, IsCatalogFailure(New(ErrKindConnectionFailed, "x")))
	assert.True(t, IsCatalogFailure(New(ErrKindPermissionDenied, "x")))
	assert.False(t, IsCatalogFailure(New(ErrKindParseFailed, "x")))
	assert.False(t, IsCatalogFailure(New(ErrKindNotFound, "x")))
}
