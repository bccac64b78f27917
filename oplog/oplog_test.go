package oplog_test

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/opossum-optics/opossum/oplog"
)

func TestWarnf_WritesStructuredNodeFields(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	oplog.Warnf(logger, "lens-1", "Lens", "apodization occurred at %s", "input")

	out := buf.String()
	assert.Contains(t, out, `"node":"lens-1"`)
	assert.Contains(t, out, `"node_type":"Lens"`)
	assert.Contains(t, out, "apodization occurred at input")
}

func TestNop_DiscardsOutput(t *testing.T) {
	logger := oplog.Nop()
	oplog.Warnf(logger, "n", "Dummy", "should not panic or write anywhere")
}
