package caching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSaveLock(t *testing.T) {
	l := NewSaveLock()

	assert.True(t, l.TryLock("doc-1"))
	assert.False(t, l.TryLock("doc-1"))
	assert.True(t, l.TryLock("doc-2"))

	l.Unlock("doc-1")
	assert.True(t, l.TryLock("doc-1"))
}
