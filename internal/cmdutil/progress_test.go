package cmdutil

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLogger(&buf, true, true, "text")
	require.NoError(t, err)
	log.Info("hidden")
	log.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	log, err = NewLogger(&buf, false, true, "JSON")
	require.NoError(t, err)
	log.Debug("dbg", "k", 1)
	assert.True(t, strings.HasPrefix(buf.String(), "{"))
	assert.Contains(t, buf.String(), `"msg":"dbg"`)

	_, err = NewLogger(&buf, false, false, "xml")
	assert.Error(t, err)
}

func TestProgressThrottled(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLogger(&buf, false, false, "text")
	require.NoError(t, err)
	p := NewProgress(log, "build", "reads", time.Hour)
	for n := uint64(1); n <= 10*progressStride; n++ {
		p.Tick(n)
	}
	assert.Equal(t, 1, strings.Count(buf.String(), "build progress"))
	assert.Contains(t, buf.String(), "reads=4,096")
}

func TestProgressDisabled(t *testing.T) {
	var buf bytes.Buffer
	log, _ := NewLogger(&buf, false, false, "text")
	NewProgress(log, "build", "reads", 0).Tick(progressStride)
	var nilp *Progress
	nilp.Tick(progressStride)
	assert.Empty(t, buf.String())
}

func TestWarnf(t *testing.T) {
	var buf bytes.Buffer
	Warnf(&buf, false, "x=%d", 3)
	Warnf(&buf, true, "silent")
	assert.Equal(t, "WARN: x=3\n", buf.String())
}
