package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHumanizeBytes(t *testing.T) {
	assert.Equal(t, "0 B", HumanizeBytes(0))
	assert.Equal(t, "512 B", HumanizeBytes(512))
	assert.Equal(t, "1.0 KB", HumanizeBytes(1024))
	assert.Equal(t, "1.5 MB", HumanizeBytes(1536*1024))
	assert.Equal(t, "48.2 MB", HumanizeBytes(50537167))
	assert.Equal(t, "2.0 GB", HumanizeBytes(2*1024*1024*1024))
	assert.Equal(t, "1.0 TB", HumanizeBytes(1024*1024*1024*1024))
}
