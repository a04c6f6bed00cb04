// Copyright (c) 2025–2026 The benchtop developers. All rights reserved.
// Project site: https://github.com/mpictor/benchtop
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournalAndReplies(t *testing.T) {
	s := New("MAKER,MODEL,0,1.0")
	s.Replies["READ?"] = "+1.0E+00"

	require.NoError(t, s.Command("OUTP %s", "ON"))

	idn, err := s.Query("*IDN?")
	require.NoError(t, err)
	assert.Equal(t, "MAKER,MODEL,0,1.0\n", idn)

	r, err := s.Query("READ?")
	require.NoError(t, err)
	assert.Equal(t, "+1.0E+00\n", r)

	_, err = s.Query("UNKNOWN?")
	assert.Error(t, err)

	assert.Equal(t, []string{"OUTP ON", "*IDN?", "READ?", "UNKNOWN?"}, s.Journal())
	s.ClearJournal()
	assert.Empty(t, s.Journal())
}

func TestManager(t *testing.T) {
	inst := New("X")
	m := &Manager{Instruments: map[string]*Instrument{"bench1": inst}}

	addrs, err := m.Resources()
	require.NoError(t, err)
	assert.Equal(t, []string{"bench1"}, addrs)

	res, err := m.Open("bench1")
	require.NoError(t, err)
	assert.Equal(t, inst, res)

	_, err = m.Open("nope")
	assert.Error(t, err)
}
