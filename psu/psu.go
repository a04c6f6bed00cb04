// Copyright (c) 2025–2026 The benchtop developers. All rights reserved.
// Project site: https://github.com/mpictor/benchtop
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

// Package psu drives E3644A-class DC power supplies.
package psu

import (
	"github.com/gotmc/query"
	"github.com/mpictor/benchtop"
	"github.com/mpictor/benchtop/lib/format"
)

// OutputState switches the supply output.
type OutputState string

const (
	On  OutputState = "ON"
	Off OutputState = "OFF"
)

// StepQuantity selects which output the UP/DOWN step applies to.
type StepQuantity string

const (
	Voltage StepQuantity = "VOLT"
	Current StepQuantity = "CURR"
)

// Supply is an E3644A-class DC power supply.
type Supply struct {
	*benchtop.Instrument

	stepQty StepQuantity
}

// New wraps an opened resource as an E3644A.
func New(res benchtop.Resource) *Supply {
	return &Supply{
		Instrument: benchtop.NewInstrument(res, benchtop.Identity{
			Maker:          "Agilent",
			Model:          "DC Power Supply",
			Number:         "E3644A",
			Characteristic: "0-8V, 8A / 0-20V, 4A",
		}),
		stepQty: Voltage,
	}
}

// SetPower programs output voltage and current limit in one command:
// APPL <voltage>, <maxCurrent>.
func (s *Supply) SetPower(voltage, maxCurrent float64) error {
	return s.Resource().Command("APPL %s, %s",
		format.Number(voltage), format.Number(maxCurrent))
}

// SetOutput switches the supply output on or off.
func (s *Supply) SetOutput(state OutputState) error {
	return s.Resource().Command("OUTP %s", state)
}

// SetStepSize programs the step used by Increment and Decrement:
// <quantity>:STEP <step>. The quantity is remembered so subsequent
// steps apply to it.
func (s *Supply) SetStepSize(q StepQuantity, step float64) error {
	if err := s.Resource().Command("%s:STEP %s", q, format.Number(step)); err != nil {
		return err
	}
	s.stepQty = q
	return nil
}

// Increment raises the last-configured step quantity (voltage until
// SetStepSize says otherwise) by one step.
func (s *Supply) Increment() error {
	return s.Resource().Command("%s UP", s.stepQty)
}

// Decrement lowers the last-configured step quantity by one step.
func (s *Supply) Decrement() error {
	return s.Resource().Command("%s DOWN", s.stepQty)
}

// MeasureCurrent queries the actual output current in amps.
func (s *Supply) MeasureCurrent() (float64, error) {
	return query.Float64(s.Resource(), "MEAS:CURR?")
}

// MeasureVoltage queries the actual output voltage in volts.
func (s *Supply) MeasureVoltage() (float64, error) {
	return query.Float64(s.Resource(), "MEAS:VOLT?")
}
