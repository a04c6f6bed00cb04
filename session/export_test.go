// Copyright (c) 2025–2026 The benchtop developers. All rights reserved.
// Project site: https://github.com/mpictor/benchtop
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package session

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResult() *Result {
	started, _ := time.Parse(TimestampLayout, "2026.08.24_13h02m11s")
	return &Result{
		Started: started,
		Readings: []Reading{
			{Offset: 0, Value: 0.5},
			{Offset: 250 * time.Millisecond, Value: -0.25},
			{Offset: 500 * time.Millisecond, Value: 1},
		},
		Elapsed: 500 * time.Millisecond,
	}
}

func TestStamp(t *testing.T) {
	assert.Equal(t, "acq_2026.08.24_13h02m11s", testResult().Stamp())
}

func TestWriteCSV(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, testResult().WriteCSV(&sb))

	want := "t,V\n" +
		"0.000000,0.5\n" +
		"0.250000,-0.25\n" +
		"0.500000,1\n"
	assert.Equal(t, want, sb.String())
}

func TestSaveCSV(t *testing.T) {
	dir := t.TempDir()
	path, err := testResult().SaveCSV(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "acq_2026.08.24_13h02m11s.csv"), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "t,V\n"))
}

func TestWritePlotScript(t *testing.T) {
	var sb strings.Builder
	res := testResult()
	require.NoError(t, res.WritePlotScript(&sb, "data.csv"))

	s := sb.String()
	assert.Contains(t, s, "set output 'acq_2026.08.24_13h02m11s.png'")
	assert.Contains(t, s, "plot 'data.csv'")
	assert.Contains(t, s, "3 samples")
	assert.Contains(t, s, "4.000 Sa/s")
}
