// Package nodeattr defines NodeAttr (the common state every OpticNode
// variant embeds: name, type tag, inversion flag, isometries, ports, LIDT,
// UUID, GUI position, a reference to the shared SceneryResources, and a
// property bag), plus Port/PortType and SceneryResources itself.
package nodeattr

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/opossum-optics/opossum/isometry"
	"github.com/opossum-optics/opossum/operror"
)

// PortType partitions a node's ports into inputs and outputs.
type PortType int

const (
	Input PortType = iota
	Output
)

func (t PortType) String() string {
	if t == Input {
		return "input"
	}
	return "output"
}

// Port is a named attach-point on a node.
type Port struct {
	Name string
	Type PortType
}

// SceneryResources is the process-wide, read-only-during-analysis
// configuration shared by every node in a graph: ambient refractive index
// and an injected logger for non-fatal warnings. Nodes hold a plain pointer
// to it (Go has no weak references); by convention nothing under
// package node/ograph/analysis ever takes ownership of it or mutates it
// after an analysis begins.
type SceneryResources struct {
	AmbientRefractiveIndex float64
	Logger                 zerolog.Logger
}

// NewSceneryResources builds a SceneryResources. ambientIndex must be >= 1.
func NewSceneryResources(ambientIndex float64, logger zerolog.Logger) (*SceneryResources, error) {
	if ambientIndex < 1 {
		return nil, operror.InvalidArgument("ambient refractive index", ambientIndex)
	}
	return &SceneryResources{AmbientRefractiveIndex: ambientIndex, Logger: logger}, nil
}

// GUIPosition is a 2-D coordinate hint for scenery editors; the core never
// reads it for anything but persistence/round-trip.
type GUIPosition struct {
	X, Y float64
}

// NodeAttr is the state every OpticNode variant embeds.
type NodeAttr struct {
	UUID     uuid.UUID
	Name     string
	NodeType string
	Inverted bool

	base      *isometry.Isometry
	alignment *isometry.Isometry

	ports map[string]Port

	LIDT        float64
	GUIPosition GUIPosition
	Resources   *SceneryResources

	properties map[string]any
}

// New builds a NodeAttr with a freshly generated UUID and no ports.
func New(name, nodeType string, resources *SceneryResources) *NodeAttr {
	return &NodeAttr{
		UUID:       uuid.New(),
		Name:       name,
		NodeType:   nodeType,
		ports:      make(map[string]Port),
		Resources:  resources,
		properties: make(map[string]any),
	}
}

// AddPort declares a port under name.
func (a *NodeAttr) AddPort(name string, kind PortType) {
	a.ports[name] = Port{Name: name, Type: kind}
}

// Port looks up a declared port by name.
func (a *NodeAttr) Port(name string) (Port, bool) {
	p, ok := a.ports[name]
	return p, ok
}

// Ports returns every declared port. Callers must not mutate the map.
func (a *NodeAttr) Ports() map[string]Port { return a.ports }

// SetBaseIsometry sets the node's world-placement isometry, computed by the
// node-position pass.
func (a *NodeAttr) SetBaseIsometry(iso isometry.Isometry) { a.base = &iso }

// BaseIsometry returns the node's base isometry and whether one has been
// set yet.
func (a *NodeAttr) BaseIsometry() (isometry.Isometry, bool) {
	if a.base == nil {
		return isometry.Identity(), false
	}
	return *a.base, true
}

// SetAlignmentIsometry sets the node's local alignment isometry (the
// "align like node at distance" decoration resolves to this).
func (a *NodeAttr) SetAlignmentIsometry(iso isometry.Isometry) { a.alignment = &iso }

// AlignmentIsometry returns the node's alignment isometry and whether one
// has been set.
func (a *NodeAttr) AlignmentIsometry() (isometry.Isometry, bool) {
	if a.alignment == nil {
		return isometry.Identity(), false
	}
	return *a.alignment, true
}

// EffectiveIsometry is base ∘ local_alignment: alignment is applied first,
// then base (Isometry.Append's "apply A then B" with A=alignment, B=base
// realizes exactly this function-composition order). A node with neither
// set uses identity; EffectiveIsometry always succeeds (callers requiring a
// base to have been set check BaseIsometry's ok flag themselves, per
// AnalysisError's "no effective node isometry set").
func (a *NodeAttr) EffectiveIsometry() isometry.Isometry {
	base := isometry.Identity()
	if a.base != nil {
		base = *a.base
	}
	if a.alignment == nil {
		return base
	}
	return a.alignment.Append(base)
}

// SetProperty stores a named property value, overwriting any prior value
// under the same key.
func (a *NodeAttr) SetProperty(key string, value any) { a.properties[key] = value }

// Property returns the raw value stored under key.
func (a *NodeAttr) Property(key string) (any, bool) {
	v, ok := a.properties[key]
	return v, ok
}

// Float64Property returns the float64 value stored under key, or a
// PropertyError if missing or of the wrong type.
func (a *NodeAttr) Float64Property(key string) (float64, error) {
	v, ok := a.properties[key]
	if !ok {
		return 0, operror.Property(key, "missing")
	}
	f, ok := v.(float64)
	if !ok {
		return 0, operror.Property(key, "not a float64")
	}
	return f, nil
}

// StringProperty returns the string value stored under key, or a
// PropertyError if missing or of the wrong type.
func (a *NodeAttr) StringProperty(key string) (string, error) {
	v, ok := a.properties[key]
	if !ok {
		return "", operror.Property(key, "missing")
	}
	s, ok := v.(string)
	if !ok {
		return "", operror.Property(key, "not a string")
	}
	return s, nil
}

// Properties returns the raw property bag. Callers must not mutate it.
func (a *NodeAttr) Properties() map[string]any { return a.properties }
