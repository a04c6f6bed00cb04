// Copyright (c) 2025–2026 The benchtop developers. All rights reserved.
// Project site: https://github.com/mpictor/benchtop
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package psu_test

import (
	"testing"

	"github.com/mpictor/benchtop/driver/sim"
	"github.com/mpictor/benchtop/psu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetPower(t *testing.T) {
	res := sim.New("")
	s := psu.New(res)
	require.NoError(t, s.SetPower(3.2, 0.25))
	assert.Equal(t, []string{"APPL 3.2, 0.25"}, res.Journal())
}

func TestOutputAndSteps(t *testing.T) {
	res := sim.New("")
	s := psu.New(res)

	// Steps apply to voltage until a step size names another quantity.
	require.NoError(t, s.Increment())
	require.NoError(t, s.SetStepSize(psu.Voltage, 0.2))
	require.NoError(t, s.Increment())
	require.NoError(t, s.Decrement())
	require.NoError(t, s.SetStepSize(psu.Current, 0.05))
	require.NoError(t, s.Increment())
	require.NoError(t, s.SetOutput(psu.Off))

	want := []string{
		"VOLT UP",
		"VOLT:STEP 0.2",
		"VOLT UP",
		"VOLT DOWN",
		"CURR:STEP 0.05",
		"CURR UP",
		"OUTP OFF",
	}
	assert.Equal(t, want, res.Journal())
}

func TestMeasure(t *testing.T) {
	res := sim.New("")
	res.Replies["MEAS:CURR?"] = "2.5100E-01"
	res.Replies["MEAS:VOLT?"] = "3.2010E+00"
	s := psu.New(res)

	a, err := s.MeasureCurrent()
	require.NoError(t, err)
	assert.InDelta(t, 0.251, a, 1e-9)

	v, err := s.MeasureVoltage()
	require.NoError(t, err)
	assert.InDelta(t, 3.201, v, 1e-9)
}

func TestIdentityRoundTrip(t *testing.T) {
	s := psu.New(sim.New(""))
	assert.Equal(t, "Agilent DC Power Supply - E3644A (0-8V, 8A / 0-20V, 4A)", s.String())
}
