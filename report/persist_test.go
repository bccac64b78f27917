package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opossum-optics/opossum/nodeattr"
	"github.com/opossum-optics/opossum/oplog"
	"github.com/opossum-optics/opossum/report"
)

func TestNewNodeAttrDTO_CapturesPortsAndProperties(t *testing.T) {
	res, err := nodeattr.NewSceneryResources(1, oplog.Nop())
	require.NoError(t, err)
	attr := nodeattr.New("lens-1", "Lens", res)
	attr.AddPort("input", nodeattr.Input)
	attr.AddPort("output", nodeattr.Output)
	attr.SetProperty("focal_length", 0.1)

	dto := report.NewNodeAttrDTO(attr)
	assert.Equal(t, attr.UUID, dto.UUID)
	assert.Equal(t, "lens-1", dto.Name)
	assert.Equal(t, "Lens", dto.NodeType)
	assert.Len(t, dto.Ports, 2)
	assert.False(t, dto.HasBase)
	assert.Equal(t, 0.1, dto.Properties["focal_length"])
}

func TestCheckVersion_FlagsMismatchWithoutError(t *testing.T) {
	current := report.GraphDTO{Version: report.CurrentVersion}
	stale := report.GraphDTO{Version: report.CurrentVersion - 1}

	assert.True(t, report.CheckVersion(current))
	assert.False(t, report.CheckVersion(stale))
}
