package report_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/opossum-optics/opossum/report"
)

func TestNodeReport_SetAndField(t *testing.T) {
	id := uuid.New()
	r := report.New(id, "meter-1", "EnergyMeter")

	_, ok := r.Field("total_energy")
	assert.False(t, ok)

	r.Set("total_energy", 1.5)
	v, ok := r.Field("total_energy")
	assert.True(t, ok)
	assert.Equal(t, 1.5, v)
	assert.Equal(t, id, r.UUID)
	assert.Equal(t, "EnergyMeter", r.NodeType)
}

func TestNodeReport_ZeroValueIsUsable(t *testing.T) {
	var r report.NodeReport
	r.Set("x", 1)
	v, ok := r.Field("x")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}
