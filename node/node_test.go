package node_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opossum-optics/opossum/node"
)

func TestDefaultRayTraceConfig_MatchesDocumentedDefaults(t *testing.T) {
	cfg := node.DefaultRayTraceConfig()
	assert.Equal(t, 1e-12, float64(cfg.MinEnergyPerRay))
	assert.Equal(t, 1000, cfg.MaxBounces)
	assert.Equal(t, 1000, cfg.MaxRefractions)
}

func TestDefaultGhostFocusConfig_IsTwoPasses(t *testing.T) {
	cfg := node.DefaultGhostFocusConfig()
	assert.Equal(t, 2, cfg.MaxPasses)
}

func TestAnalyzerType_KindAndConfigAccessors(t *testing.T) {
	energy := node.NewEnergyAnalyzer()
	assert.Equal(t, node.AnalyzerEnergy, energy.Kind())
	_, ok := energy.RayTraceConfig()
	assert.False(t, ok)
	_, ok = energy.GhostFocusConfig()
	assert.False(t, ok)

	rtCfg := node.RayTraceConfig{MinEnergyPerRay: 0.25, MaxBounces: 5, MaxRefractions: 5}
	rt := node.NewRayTraceAnalyzer(rtCfg)
	assert.Equal(t, node.AnalyzerRayTrace, rt.Kind())
	gotCfg, ok := rt.RayTraceConfig()
	require.True(t, ok)
	assert.Equal(t, rtCfg, gotCfg)

	gfCfg := node.GhostFocusConfig{MaxPasses: 3}
	gf := node.NewGhostFocusAnalyzer(gfCfg)
	assert.Equal(t, node.AnalyzerGhostFocus, gf.Kind())
	gotGfCfg, ok := gf.GhostFocusConfig()
	require.True(t, ok)
	assert.Equal(t, gfCfg, gotGfCfg)
}
