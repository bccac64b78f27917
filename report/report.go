// Package report implements NodeReport: a read-only tree of typed
// properties summarizing a node's current analysis state, computed purely
// from in-memory state with no I/O. Rendering it to HTML/PDF/plots is an
// external collaborator's job (§6), out of scope here.
package report

import (
	"github.com/google/uuid"
)

// NodeReport is a flat bag of named, typed values describing one node's
// reportable state at the moment it was built. Values are whatever a node
// chooses to expose: float64 totals, strings, or nested []NodeReport for
// surfaces/sub-graphs. The zero value is an empty, valid report.
type NodeReport struct {
	UUID     uuid.UUID
	Name     string
	NodeType string
	Fields   map[string]any
}

// New builds an empty NodeReport for the given node identity.
func New(id uuid.UUID, name, nodeType string) NodeReport {
	return NodeReport{UUID: id, Name: name, NodeType: nodeType, Fields: make(map[string]any)}
}

// Set records a named field, overwriting any prior value under key.
func (r *NodeReport) Set(key string, value any) {
	if r.Fields == nil {
		r.Fields = make(map[string]any)
	}
	r.Fields[key] = value
}

// Field returns the named value and whether it was present.
func (r NodeReport) Field(key string) (any, bool) {
	v, ok := r.Fields[key]
	return v, ok
}

// Reporter is implemented by node types that have meaningful state to
// surface in a report (meters, spectrometers, detectors). A node without
// this method contributes no fields beyond its identity when reported.
type Reporter interface {
	Report() NodeReport
}
