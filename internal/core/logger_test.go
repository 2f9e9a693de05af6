package core

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger().SetOutput(&buf)

	logger.Warnf("copy of %q failed", "a.png")
	logger.Info("hidden")
	logger.Debugf("hidden %d", 1)
	assert.Contains(t, buf.String(), `copy of "a.png" failed`)
	assert.NotContains(t, buf.String(), "hidden")

	buf.Reset()
	logger.SetVerboseLevel(VerboseDebug)
	logger.Infof("visible %d", 1)
	logger.Debug("visible 2")
	logger.Trace("hidden")
	assert.Contains(t, buf.String(), "visible 1")
	assert.Contains(t, buf.String(), "visible 2")
	assert.NotContains(t, buf.String(), "hidden")
}

func TestCurrentLogger(t *testing.T) {
	t.Cleanup(Reset)
	assert.Same(t, CurrentLogger(), CurrentLogger())
}
