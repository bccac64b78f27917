package node

import (
	"github.com/opossum-optics/opossum/light"
	"github.com/opossum-optics/opossum/nodeattr"
	"github.com/opossum-optics/opossum/ray"
	"github.com/opossum-optics/opossum/report"
	"github.com/opossum-optics/opossum/spectrum"
	"github.com/opossum-optics/opossum/units"
)

// EnergyMeter records the most recent payload it receives and passes it
// through unchanged, reporting that payload's total energy.
type EnergyMeter struct {
	attr         *nodeattr.NodeAttr
	lastPayload  light.Data
	totalReports float64
}

// NewEnergyMeter builds an EnergyMeter node.
func NewEnergyMeter(name string, resources *nodeattr.SceneryResources) *EnergyMeter {
	attr := nodeattr.New(name, "EnergyMeter", resources)
	attr.AddPort("input", nodeattr.Input)
	attr.AddPort("output", nodeattr.Output)
	return &EnergyMeter{attr: attr}
}

func (m *EnergyMeter) Attr() *nodeattr.NodeAttr { return m.attr }

func (m *EnergyMeter) Ports() map[string]nodeattr.Port { return effectivePorts(m.attr) }

func (m *EnergyMeter) Analyze(incoming LightResult, _ AnalyzerType) (LightResult, error) {
	in, err := requireInput(incoming, "input")
	if err != nil {
		return nil, err
	}
	m.lastPayload = in
	m.totalReports = in.TotalEnergy()
	return LightResult{"output": in}, nil
}

func (m *EnergyMeter) CalcNodePosition(incoming *ray.Ray, _ AnalyzerType) (*ray.Ray, error) {
	return defaultCalcNodePosition(m.attr, incoming)
}

// TotalEnergy returns the energy recorded on the most recent Analyze call.
func (m *EnergyMeter) TotalEnergy() float64 { return m.totalReports }

// LastPathLength returns the first ray's accumulated path length from the
// most recently recorded payload, if it was Geometric-kind and non-empty.
func (m *EnergyMeter) LastPathLength() (units.Length, bool) {
	rb, ok := m.lastPayload.AsGeometric()
	if !ok || rb.Len() == 0 {
		return 0, false
	}
	return rb.Rays()[0].PathLength, true
}

// Report surfaces the total energy recorded on the most recent Analyze call.
func (m *EnergyMeter) Report() report.NodeReport {
	r := report.New(m.attr.UUID, m.attr.Name, m.attr.NodeType)
	r.Set("total_energy", m.totalReports)
	return r
}

// Spectrometer records the spectrum it receives (energy-mode only) and
// passes it through unchanged, reporting the spectrum itself.
type Spectrometer struct {
	attr     *nodeattr.NodeAttr
	recorded *spectrum.Spectrum
}

// NewSpectrometer builds a Spectrometer node.
func NewSpectrometer(name string, resources *nodeattr.SceneryResources) *Spectrometer {
	attr := nodeattr.New(name, "Spectrometer", resources)
	attr.AddPort("input", nodeattr.Input)
	attr.AddPort("output", nodeattr.Output)
	return &Spectrometer{attr: attr}
}

func (s *Spectrometer) Attr() *nodeattr.NodeAttr { return s.attr }

func (s *Spectrometer) Ports() map[string]nodeattr.Port { return effectivePorts(s.attr) }

func (s *Spectrometer) Analyze(incoming LightResult, _ AnalyzerType) (LightResult, error) {
	in, err := requireInput(incoming, "input")
	if err != nil {
		return nil, err
	}
	if spec, ok := in.AsEnergy(); ok {
		s.recorded = spec
	}
	return LightResult{"output": in}, nil
}

func (s *Spectrometer) CalcNodePosition(incoming *ray.Ray, _ AnalyzerType) (*ray.Ray, error) {
	return defaultCalcNodePosition(s.attr, incoming)
}

// RecordedSpectrum returns the spectrum seen on the most recent Analyze
// call under energy mode, or nil if none has been recorded yet.
func (s *Spectrometer) RecordedSpectrum() *spectrum.Spectrum { return s.recorded }

// Report surfaces the most recently recorded spectrum's total energy and
// wavelength range, if any has been recorded yet.
func (s *Spectrometer) Report() report.NodeReport {
	r := report.New(s.attr.UUID, s.attr.Name, s.attr.NodeType)
	if s.recorded == nil {
		return r
	}
	lo, hi := s.recorded.Range()
	r.Set("total_energy", float64(s.recorded.TotalEnergy()))
	r.Set("wavelength_lo", float64(lo))
	r.Set("wavelength_hi", float64(hi))
	return r
}
