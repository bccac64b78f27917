// Package opossum is a sequential ray-tracing and optical-system analysis
// engine: a directed acyclic multigraph of optical elements (sources,
// lenses, beamsplitters, detectors, and the rest of the node package) is
// assembled with ograph, then swept once per analysis kind — energy,
// full ray-trace, or ghost-focus — to propagate light.Data payloads from
// sources through to every mapped output.
//
// Subpackages:
//
//	ograph/       — the optical graph: nodes, edges, topological sort,
//	                the forward analysis sweep, node-position pass
//	node/         — every optical element: Source, Dummy, Lens,
//	                BeamSplitter, ParaxialSurface, Wedge, IdealFilter,
//	                detectors, NodeGroup, NodeReference
//	ray/          — Ray, Rays bundles, refraction/splitting primitives
//	spectrum/     — wavelength-indexed energy spectra
//	light/        — the Energy/Geometric/GhostFocus payload union carried
//	                on every edge
//	surface/      — plane/sphere/cylinder shapes and their apodized caches
//	distribution/ — position/energy/spectral samplers that seed a
//	                Source's payload
//	report/       — read-only per-node analysis-state reports
//	aperture/     — apodization masks
//	refractive/   — dispersive index models (constant, Sellmeier, table)
//	isometry/     — rigid transforms between node-local and world frames
//	nodeattr/     — shared node identity, ports, and scenery resources
//	units/        — SI-unit-typed scalars (Length, Angle, Energy)
package opossum
