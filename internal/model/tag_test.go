package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTagSlug(t *testing.T) {
	assert.Equal(t, "rust", TagSlug("Rust"))
	assert.Equal(t, "rust", TagSlug(" RUST "))
	assert.Equal(t, "c++", TagSlug("C++"))
	assert.Equal(t, "", TagSlug("   "))
}
