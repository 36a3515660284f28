package uuidutil_test

import (
	"strings"
	"testing"

	"github.com/pyboot-project/pyboot/pkg/uuidutil"
	"github.com/stretchr/testify/assert"
)

func TestNewV4_Format(t *testing.T) {
	id := uuidutil.NewV4()
	assert.Equal(t, 36, len(id), "UUID should be 36 characters long")

	parts := strings.Split(id, "-")
	assert.Equal(t, 5, len(parts), "UUID should have 5 dash-separated segments")
	assert.Equal(t, "4", id[14:15], "version nibble should be 4")
}

func TestNewV4_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := uuidutil.NewV4()
		assert.False(t, seen[id], "generated duplicate UUID: %s", id)
		seen[id] = true
	}
}
