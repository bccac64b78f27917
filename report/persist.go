package report

import (
	"github.com/google/uuid"

	"github.com/opossum-optics/opossum/isometry"
	"github.com/opossum-optics/opossum/nodeattr"
	"github.com/opossum-optics/opossum/units"
)

// CurrentVersion is the persisted-graph format version this build writes
// and expects. Bump it whenever a variant is added or NodeAttrDTO/GraphDTO
// change shape ("the variant tag is persisted; adding a variant is a
// file-format change").
const CurrentVersion = 1

// PortDTO is the persisted shape of a nodeattr.Port.
type PortDTO struct {
	Name string
	Type nodeattr.PortType
}

// NodeAttrDTO is the persisted shape of a nodeattr.NodeAttr: everything an
// external store needs to reconstruct a node's identity, placement, and
// property bag. It never carries derived or cached analysis state.
type NodeAttrDTO struct {
	UUID      uuid.UUID
	Name      string
	NodeType  string
	Inverted  bool
	Base      isometry.Isometry
	HasBase   bool
	Alignment isometry.Isometry
	HasAlign  bool
	Ports      []PortDTO
	LIDT       float64
	Properties map[string]any
}

// NewNodeAttrDTO snapshots attr into its persisted form.
func NewNodeAttrDTO(attr *nodeattr.NodeAttr) NodeAttrDTO {
	ports := make([]PortDTO, 0, len(attr.Ports()))
	for _, p := range attr.Ports() {
		ports = append(ports, PortDTO{Name: p.Name, Type: p.Type})
	}
	dto := NodeAttrDTO{
		UUID:       attr.UUID,
		Name:       attr.Name,
		NodeType:   attr.NodeType,
		Inverted:   attr.Inverted,
		Ports:      ports,
		LIDT:       attr.LIDT,
		Properties: attr.Properties(),
	}
	if base, ok := attr.BaseIsometry(); ok {
		dto.Base, dto.HasBase = base, true
	}
	if align, ok := attr.AlignmentIsometry(); ok {
		dto.Alignment, dto.HasAlign = align, true
	}
	return dto
}

// EdgeDTO is the persisted shape of an ograph.Edge: endpoints and distance
// only. "edges never persist their light payload."
type EdgeDTO struct {
	SrcNode, DstNode uuid.UUID
	SrcPort, DstPort string
	Distance         units.Length
}

// GraphDTO is the persisted shape of an OpticGraph: its node list and edge
// list, tagged with the format version that produced it.
type GraphDTO struct {
	Version  int
	Inverted bool
	Nodes    []NodeAttrDTO
	Edges    []EdgeDTO
}

// CheckVersion reports whether dto's version matches CurrentVersion.
// Callers log a mismatch via oplog and proceed with whatever best-effort
// migration they have; the bool is never an error return.
func CheckVersion(dto GraphDTO) bool {
	return dto.Version == CurrentVersion
}
