package nodeattr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opossum-optics/opossum/isometry"
	"github.com/opossum-optics/opossum/nodeattr"
	"github.com/opossum-optics/opossum/oplog"
)

func TestNewSceneryResources_RejectsSubUnityIndex(t *testing.T) {
	_, err := nodeattr.NewSceneryResources(0.9, oplog.Nop())
	assert.Error(t, err)
}

func TestNew_HasFreshUUIDAndEmptyPorts(t *testing.T) {
	res, err := nodeattr.NewSceneryResources(1.0, oplog.Nop())
	require.NoError(t, err)

	a := nodeattr.New("lens1", "Lens", res)
	b := nodeattr.New("lens2", "Lens", res)
	assert.NotEqual(t, a.UUID, b.UUID)
	assert.Empty(t, a.Ports())
}

func TestAddPort_RoundTrips(t *testing.T) {
	a := nodeattr.New("dummy", "Dummy", nil)
	a.AddPort("in", nodeattr.Input)
	a.AddPort("out", nodeattr.Output)

	p, ok := a.Port("in")
	require.True(t, ok)
	assert.Equal(t, nodeattr.Input, p.Type)
}

func TestEffectiveIsometry_ComposesAlignmentThenBase(t *testing.T) {
	a := nodeattr.New("n", "Dummy", nil)
	base := isometry.NewAlongZ(10)
	alignment := isometry.RotateX(0.3)

	a.SetBaseIsometry(base)
	a.SetAlignmentIsometry(alignment)

	got := a.EffectiveIsometry()
	want := alignment.Append(base)
	assert.Equal(t, want.Translation(), got.Translation())
}

func TestFloat64Property_MissingReturnsError(t *testing.T) {
	a := nodeattr.New("n", "Dummy", nil)
	_, err := a.Float64Property("focal_length")
	assert.Error(t, err)

	a.SetProperty("focal_length", 100.0)
	v, err := a.Float64Property("focal_length")
	require.NoError(t, err)
	assert.Equal(t, 100.0, v)
}
