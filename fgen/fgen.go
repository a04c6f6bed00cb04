// Copyright (c) 2025–2026 The benchtop developers. All rights reserved.
// Project site: https://github.com/mpictor/benchtop
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

// Package fgen drives 33220A-class function/arbitrary waveform
// generators.
package fgen

import (
	"errors"
	"fmt"

	"github.com/mpictor/benchtop"
	"github.com/mpictor/benchtop/lib/format"
)

// OutputState switches the front-connector output.
type OutputState string

const (
	On  OutputState = "ON"
	Off OutputState = "OFF"
)

// Waveshape selects the generated function. The tokens are the exact
// wire forms the instrument accepts.
type Waveshape string

const (
	Sine   Waveshape = "SIN"
	Square Waveshape = "SQU"
	Ramp   Waveshape = "RAMP"
	Pulse  Waveshape = "PULS"
	Noise  Waveshape = "NOISe"
	DC     Waveshape = "DC"
	User   Waveshape = "USER"
)

// ErrShapeNotImplemented reports a waveshape the setup sequence has no
// command table for. Only pulse and sine are wired up; asking for
// another shape sends nothing to the instrument.
var ErrShapeNotImplemented = errors.New("waveform not implemented")

// Waveform holds the setup parameters for SetWaveform. Only the
// fields relevant to the chosen shape are sent: pulse uses Load and
// the level/timing fields, sine uses Load, Frequency, Amplitude, and
// Offset.
type Waveform struct {
	Shape      Waveshape
	Load       int     // load impedance, Ohms
	LowLevel   float64 // V
	HighLevel  float64 // V
	Period     float64 // s
	Width      float64 // pulse width, s
	Transition float64 // edge time (rise = fall), s
	Frequency  float64 // Hz
	Amplitude  float64 // Vpp
	Offset     float64 // V
}

// NewWaveform returns a Waveform for the given shape with the
// instrument-manual defaults for every parameter.
func NewWaveform(shape Waveshape) Waveform {
	return Waveform{
		Shape:      shape,
		Load:       50,
		LowLevel:   0,
		HighLevel:  0.75,
		Period:     1e-3,
		Width:      100e-6,
		Transition: 10e-9,
		Frequency:  2500,
		Amplitude:  1.2,
		Offset:     0.4,
	}
}

// Generator is a 33220A-class waveform generator.
type Generator struct {
	*benchtop.Instrument
}

// New wraps an opened resource as a 33220A.
func New(res benchtop.Resource) *Generator {
	return &Generator{benchtop.NewInstrument(res, benchtop.Identity{
		Maker:          "Agilent",
		Model:          "20MHz Function/Arbitrary Waveform Generator",
		Number:         "33220A",
		Characteristic: "",
	})}
}

// SetOutput switches the generator output on or off.
func (g *Generator) SetOutput(state OutputState) error {
	return g.Resource().Command("OUTP %s", state)
}

// SetWaveform programs the generator for w.Shape. Pulse sends FUNC,
// OUTP:LOAD, VOLT:LOW, VOLT:HIGH, PULS:PER, PULS:WIDT, PULS:TRAN;
// sine sends FUNC, OUTP:LOAD, FREQ, VOLT, VOLT:OFFS. Any other shape
// sends no command and returns ErrShapeNotImplemented. The first
// transport failure aborts the sequence, leaving the instrument
// partially configured.
func (g *Generator) SetWaveform(w Waveform) error {
	var cmds []string
	switch w.Shape {
	case Pulse:
		cmds = []string{
			fmt.Sprintf("FUNC %s", w.Shape),
			fmt.Sprintf("OUTP:LOAD %d", w.Load),
			fmt.Sprintf("VOLT:LOW %s", format.Number(w.LowLevel)),
			fmt.Sprintf("VOLT:HIGH %s", format.Number(w.HighLevel)),
			fmt.Sprintf("PULS:PER %s", format.Number(w.Period)),
			fmt.Sprintf("PULS:WIDT %s", format.Number(w.Width)),
			fmt.Sprintf("PULS:TRAN %s", format.Number(w.Transition)),
		}
	case Sine:
		cmds = []string{
			fmt.Sprintf("FUNC %s", w.Shape),
			fmt.Sprintf("OUTP:LOAD %d", w.Load),
			fmt.Sprintf("FREQ %s", format.Number(w.Frequency)),
			fmt.Sprintf("VOLT %s", format.Number(w.Amplitude)),
			fmt.Sprintf("VOLT:OFFS %s", format.Number(w.Offset)),
		}
	default:
		return fmt.Errorf("shape %q: %w", w.Shape, ErrShapeNotImplemented)
	}
	for _, cmd := range cmds {
		if err := g.Resource().Command(cmd); err != nil {
			return fmt.Errorf("%s: %w", cmd, err)
		}
	}
	return nil
}

// ApplySine is the one-command shortcut for a sine output: frequency
// in Hz, amplitude in Vpp, offset in V.
func (g *Generator) ApplySine(freq, ampl, offset float64) error {
	return g.Resource().Command("APPL:SIN %s,%s,%s",
		format.Number(freq), format.Number(ampl), format.Number(offset))
}

// Remote puts the instrument in remote state; front-panel keys are
// ignored until Local.
func (g *Generator) Remote() error { return g.Resource().Command("SYST:REM") }

// Local returns the instrument to front-panel control.
func (g *Generator) Local() error { return g.Resource().Command("SYST:LOC") }
