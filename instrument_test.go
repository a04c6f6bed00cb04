// Copyright (c) 2025–2026 The benchtop developers. All rights reserved.
// Project site: https://github.com/mpictor/benchtop
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package benchtop_test

import (
	"testing"

	"github.com/mpictor/benchtop"
	"github.com/mpictor/benchtop/driver/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInstrument(res benchtop.Resource) *benchtop.Instrument {
	return benchtop.NewInstrument(res, benchtop.Identity{
		Maker:          "Agilent",
		Model:          "DC Power Supply",
		Number:         "E3644A",
		Characteristic: "0-8V, 8A / 0-20V, 4A",
	})
}

func TestIdentityRoundTrip(t *testing.T) {
	in := newTestInstrument(sim.New(""))
	assert.Equal(t, "Agilent DC Power Supply - E3644A (0-8V, 8A / 0-20V, 4A)", in.String())

	bare := benchtop.NewInstrument(sim.New(""), benchtop.Identity{
		Maker: "Agilent", Model: "6 1/2 Digit Multimeter", Number: "34401A",
	})
	assert.Equal(t, "Agilent 6 1/2 Digit Multimeter - 34401A", bare.String())
}

func TestIdentify(t *testing.T) {
	res := sim.New("HEWLETT-PACKARD,34401A,0,11-5-2")
	in := newTestInstrument(res)

	idn, err := in.Identify()
	require.NoError(t, err)
	assert.Equal(t, "HEWLETT-PACKARD,34401A,0,11-5-2", idn)
	assert.Equal(t, []string{"*IDN?"}, res.Journal())
}

func TestCommonCommands(t *testing.T) {
	res := sim.New("")
	in := newTestInstrument(res)

	require.NoError(t, in.Reset())
	require.NoError(t, in.ClearStatus())
	require.NoError(t, in.DisplayText("JOB DONE"))
	require.NoError(t, in.ClearDisplay())

	want := []string{"*RST", "*CLS", `DISP:TEXT "JOB DONE"`, "DISP:TEXT:CLE"}
	assert.Equal(t, want, res.Journal())
}

func TestDisplayTextRejectsEmbeddedQuote(t *testing.T) {
	res := sim.New("")
	in := newTestInstrument(res)

	err := in.DisplayText(`say "hi"`)
	require.Error(t, err)
	assert.Empty(t, res.Journal())
}

func TestSystemError(t *testing.T) {
	res := sim.New("")
	res.Queued = []string{`-113,"Undefined header"`}
	in := newTestInstrument(res)

	se, err := in.SystemError()
	require.NoError(t, err)
	assert.Equal(t, benchtop.SystemError{Code: -113, Message: "Undefined header"}, se)

	// Queue drained; next read reports no error.
	se, err = in.SystemError()
	require.NoError(t, err)
	assert.Equal(t, 0, se.Code)
}

func TestDrainErrors(t *testing.T) {
	res := sim.New("")
	res.Queued = []string{
		`-113,"Undefined header"`,
		`-222,"Data out of range"`,
		`+101,"Self-test failed"`,
	}
	in := newTestInstrument(res)

	errs, err := in.DrainErrors()
	require.NoError(t, err)
	require.Len(t, errs, 3)
	assert.Equal(t, -113, errs[0].Code)
	assert.Equal(t, -222, errs[1].Code)
	assert.Equal(t, "Self-test failed", errs[2].Message)

	// Three pops plus the final +0 read.
	assert.Len(t, res.Journal(), 4)
}

func TestDrainErrorsSkipsMalformedEntries(t *testing.T) {
	res := sim.New("")
	res.Queued = []string{
		`garbage`,
		`-410,"Query INTERRUPTED"`,
	}
	in := newTestInstrument(res)

	errs, err := in.DrainErrors()
	require.Error(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, -410, errs[0].Code)
}

func TestDrainErrorsEmptyQueue(t *testing.T) {
	in := newTestInstrument(sim.New(""))
	errs, err := in.DrainErrors()
	require.NoError(t, err)
	assert.Empty(t, errs)
}
