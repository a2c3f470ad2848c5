package custerror

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCustomError_IsMatchesByCode(t *testing.T) {
	err := FormatNotFound("camera %s", "cam_9")
	assert.True(t, errors.Is(err, ErrorNotFound))
	assert.False(t, errors.Is(err, ErrorAmbiguous))

	wrapped := fmt.Errorf("resolve: %w", err)
	assert.True(t, errors.Is(wrapped, ErrorNotFound))
}

func TestClassify(t *testing.T) {
	assert.Nil(t, Classify(nil))
	assert.Equal(t, CodeTimeout, CodeOf(fmt.Errorf("fetch: %w", context.DeadlineExceeded)))
	assert.Equal(t, CodeUnsupported, CodeOf(FormatUnsupported("no ir-cut")))
	assert.Equal(t, CodeUpstream, CodeOf(errors.New("malformed response")))
}

func TestCustomError_Error(t *testing.T) {
	assert.Equal(t, "Denied: user 42 not allowed", FormatPermissionDenied("user %d not allowed", 42).Error())
	assert.Equal(t, "Unknown", CodeName(999))
}
