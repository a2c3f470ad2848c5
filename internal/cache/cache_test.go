package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeduplicator_Seen(t *testing.T) {
	d := NewDeduplicator(New(), time.Minute)

	assert.False(t, d.Seen("msg-1"))
	assert.True(t, d.Seen("msg-1"))
	assert.False(t, d.Seen("msg-2"))
	assert.False(t, d.Seen(""))
	assert.False(t, d.Seen(""))
}
