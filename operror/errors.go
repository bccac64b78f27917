// Package operror defines the structured error taxonomy shared by every
// OPOSSUM package: one error family per failure mode, each comparable via
// errors.Is against a package-level sentinel and wrappable with fmt.Errorf's
// "%w" to attach call-site context (offending node, port, or value).
//
// Families:
//
//	InvalidArgument - non-finite/out-of-range constructor inputs.
//	PortError       - unknown, already-connected, or already-mapped ports.
//	GraphError      - unknown node, would-create-cycle, inverted-graph mutation.
//	AnalysisError   - missing data, type mismatch, topo-sort failure, no isometry.
//	SpectrumError   - wavelength out of range, empty sample set.
//	PropertyError   - typed property missing or of the wrong kind.
package operror

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use errors.Is(err, operror.ErrXxx) to branch on family.
var (
	// ErrInvalidArgument is the sentinel for malformed constructor inputs:
	// non-finite Length/Angle, zero/NaN radius, resolution <= 0, n < 1,
	// ratio outside [0,1], wavelength <= 0, negative center thickness,
	// wedge angle outside (-90, 90], zero/non-finite focal length.
	ErrInvalidArgument = errors.New("operror: invalid argument")

	// ErrPort is the sentinel for port-table failures: unknown port name,
	// port already connected, port already mapped externally.
	ErrPort = errors.New("operror: port error")

	// ErrGraph is the sentinel for graph-structure failures: unknown node
	// UUID, would-create-cycle, mutating an inverted graph, a source node
	// being inverted.
	ErrGraph = errors.New("operror: graph error")

	// ErrAnalysis is the sentinel for analysis-time failures: topological
	// sort failed, missing incoming data at a required port, ray data
	// expected but spectrum arrived (or vice versa), surface not found for
	// a port, no effective node isometry set.
	ErrAnalysis = errors.New("operror: analysis error")

	// ErrSpectrum is the sentinel for spectrum-domain failures: wavelength
	// outside the spectrum's range, empty backing sample set.
	ErrSpectrum = errors.New("operror: spectrum error")

	// ErrProperty is the sentinel for the node property bag: a typed
	// property is missing, or present under the wrong kind.
	ErrProperty = errors.New("operror: property error")
)

// InvalidArgument wraps ErrInvalidArgument with a field name and the
// offending value's textual form.
func InvalidArgument(field string, value interface{}) error {
	return fmt.Errorf("%w: %s = %v", ErrInvalidArgument, field, value)
}

// Port wraps ErrPort with a node name and port name.
func Port(node, port, reason string) error {
	return fmt.Errorf("%w: node %q port %q: %s", ErrPort, node, port, reason)
}

// Graph wraps ErrGraph with a free-form reason.
func Graph(reason string) error {
	return fmt.Errorf("%w: %s", ErrGraph, reason)
}

// Analysis wraps ErrAnalysis, optionally decorated with the failing node's
// name and type by the analysis engine before it propagates further.
func Analysis(reason string) error {
	return fmt.Errorf("%w: %s", ErrAnalysis, reason)
}

// AtNode decorates an existing error with the identity of the node whose
// Analyze call produced it, preserving errors.Is/As chains via "%w".
func AtNode(nodeName, nodeType string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("node %q (%s): %w", nodeName, nodeType, err)
}

// Spectrum wraps ErrSpectrum with a free-form reason.
func Spectrum(reason string) error {
	return fmt.Errorf("%w: %s", ErrSpectrum, reason)
}

// Property wraps ErrProperty with a key name and reason.
func Property(key, reason string) error {
	return fmt.Errorf("%w: %q: %s", ErrProperty, key, reason)
}
