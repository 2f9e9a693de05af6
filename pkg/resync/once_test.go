package resync_test

import (
	"testing"

	"github.com/julien-sobczak/nt-export/pkg/resync"
	"github.com/stretchr/testify/assert"
)

func TestOnce(t *testing.T) {
	var once resync.Once
	count := 0

	once.Do(func() { count++ })
	once.Do(func() { count++ })
	assert.Equal(t, 1, count)

	once.Reset()
	once.Do(func() { count++ })
	assert.Equal(t, 2, count)
}
