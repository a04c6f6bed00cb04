// Copyright (c) 2025–2026 The benchtop developers. All rights reserved.
// Project site: https://github.com/mpictor/benchtop
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

// Package dmm drives 34401A-class digital multimeters.
package dmm

import (
	"fmt"

	"github.com/gotmc/query"
	"github.com/mpictor/benchtop"
	"github.com/mpictor/benchtop/lib/format"
)

// Quantity is the value to measure.
type Quantity string

const (
	Voltage Quantity = "VOLT"
	Current Quantity = "CURR"
)

// CurrentType distinguishes AC from DC measurement.
type CurrentType string

const (
	Alternating CurrentType = "AC"
	Direct      CurrentType = "DC"
)

// Range is a measurement range argument: either a literal numeric
// value from Value, or one of the MIN/MAX/DEF sentinels.
type Range struct {
	sentinel string
	value    float64
}

var (
	Min = Range{sentinel: "MIN"}
	Max = Range{sentinel: "MAX"}
	Def = Range{sentinel: "DEF"}
)

// Value returns a literal numeric range.
func Value(v float64) Range { return Range{value: v} }

// Token is the wire form: the sentinel name, or the numeric value.
func (r Range) Token() string {
	if r.sentinel != "" {
		return r.sentinel
	}
	return format.Number(r.value)
}

// ReadFormat selects how Measure obtains its numeric result. The two
// forms are not equivalent on the wire: ASCIIValues asks the transport
// to parse a comma-separated numeric reply, PlainText reads the raw
// reply and parses it here. Which one a deployment uses is an
// explicit construction-time choice.
type ReadFormat int

const (
	ASCIIValues ReadFormat = iota
	PlainText
)

// Multimeter is a 34401A-class digital multimeter.
type Multimeter struct {
	*benchtop.Instrument

	readFormat ReadFormat
}

// Option configures the multimeter at construction.
type Option func(*Multimeter)

// WithReadFormat overrides the default ASCIIValues measurement form.
func WithReadFormat(f ReadFormat) Option {
	return func(m *Multimeter) { m.readFormat = f }
}

// New wraps an opened resource as a 34401A.
func New(res benchtop.Resource, opts ...Option) *Multimeter {
	m := &Multimeter{
		Instrument: benchtop.NewInstrument(res, benchtop.Identity{
			Maker:  "Agilent",
			Model:  "6 1/2 Digit Multimeter",
			Number: "34401A",
		}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Configure programs the measurement function, range, and resolution:
// CONF:<quantity>:<type> <range>, <resolution>. Range sentinels are
// translated to their token form; resolution is a literal value in
// the units of the quantity.
func (m *Multimeter) Configure(q Quantity, ct CurrentType, rng Range, resolution float64) error {
	return m.Resource().Command("CONF:%s:%s %s, %s", q, ct, rng.Token(), format.Number(resolution))
}

// Measure triggers one measurement with MEAS:<quantity>:<type>? and
// returns the numeric reading, parsed per the configured ReadFormat.
func (m *Multimeter) Measure(q Quantity, ct CurrentType) (float64, error) {
	cmd := fmt.Sprintf("MEAS:%s:%s?", q, ct)
	if m.readFormat == PlainText {
		return query.Float64(m.Resource(), cmd)
	}
	vals, err := m.Resource().QueryASCIIValues(cmd)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", cmd, err)
	}
	return vals[0], nil
}

// Read queries the value currently displayed with READ? and returns
// the reply text unparsed.
func (m *Multimeter) Read() (string, error) {
	return m.Resource().Query("READ?")
}
