// Copyright (c) 2025–2026 The benchtop developers. All rights reserved.
// Project site: https://github.com/mpictor/benchtop
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package dmm_test

import (
	"testing"

	"github.com/mpictor/benchtop/dmm"
	"github.com/mpictor/benchtop/driver/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure(t *testing.T) {
	tests := []struct {
		name       string
		q          dmm.Quantity
		ct         dmm.CurrentType
		rng        dmm.Range
		resolution float64
		want       string
	}{
		{"dc volts literal", dmm.Voltage, dmm.Direct, dmm.Value(10), 0.001, "CONF:VOLT:DC 10, 0.001"},
		{"ac current default", dmm.Current, dmm.Alternating, dmm.Def, 1e-4, "CONF:CURR:AC DEF, 0.0001"},
		{"min sentinel", dmm.Voltage, dmm.Direct, dmm.Min, 0.001, "CONF:VOLT:DC MIN, 0.001"},
		{"max sentinel", dmm.Voltage, dmm.Direct, dmm.Max, 0.001, "CONF:VOLT:DC MAX, 0.001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := sim.New("")
			m := dmm.New(res)
			require.NoError(t, m.Configure(tt.q, tt.ct, tt.rng, tt.resolution))
			assert.Equal(t, []string{tt.want}, res.Journal())
		})
	}
}

func TestRangeSentinelIgnoresValue(t *testing.T) {
	// A sentinel stays a sentinel; Value is the only literal path.
	assert.Equal(t, "MAX", dmm.Max.Token())
	assert.Equal(t, "MIN", dmm.Min.Token())
	assert.Equal(t, "DEF", dmm.Def.Token())
	assert.Equal(t, "0.1", dmm.Value(0.1).Token())
}

func TestMeasureASCIIValues(t *testing.T) {
	res := sim.New("")
	res.Replies["MEAS:VOLT:DC?"] = "+4.98748741E-01"
	m := dmm.New(res)

	v, err := m.Measure(dmm.Voltage, dmm.Direct)
	require.NoError(t, err)
	assert.InDelta(t, 0.498748741, v, 1e-12)
	assert.Equal(t, []string{"MEAS:VOLT:DC?"}, res.Journal())
}

func TestMeasurePlainText(t *testing.T) {
	res := sim.New("")
	res.Replies["MEAS:CURR:AC?"] = "1.250E-03"
	m := dmm.New(res, dmm.WithReadFormat(dmm.PlainText))

	v, err := m.Measure(dmm.Current, dmm.Alternating)
	require.NoError(t, err)
	assert.InDelta(t, 1.25e-3, v, 1e-12)
}

func TestReadReturnsRawText(t *testing.T) {
	res := sim.New("")
	res.Replies["READ?"] = "+2.51000000E+00"
	m := dmm.New(res)

	s, err := m.Read()
	require.NoError(t, err)
	assert.Equal(t, "+2.51000000E+00\n", s)
}
