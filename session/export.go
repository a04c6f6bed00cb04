// Copyright (c) 2025–2026 The benchtop developers. All rights reserved.
// Project site: https://github.com/mpictor/benchtop
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package session

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/multierr"
)

// TimestampLayout names artifacts after the session start time.
const TimestampLayout = "2006.01.02_15h04m05s"

// Stamp returns the artifact name stem for this run, e.g.
// acq_2026.08.24_13h02m11s.
func (r *Result) Stamp() string {
	return "acq_" + r.Started.Format(TimestampLayout)
}

// WriteCSV writes the readings as t,V rows with a header line.
func (r *Result) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"t", "V"}); err != nil {
		return err
	}
	for _, rd := range r.Readings {
		row := []string{
			strconv.FormatFloat(rd.Offset.Seconds(), 'f', 6, 64),
			strconv.FormatFloat(rd.Value, 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the readings to <dir>/<stamp>.csv and returns the
// path.
func (r *Result) SaveCSV(dir string) (string, error) {
	path := filepath.Join(dir, r.Stamp()+".csv")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	err = multierr.Append(r.WriteCSV(f), f.Close())
	if err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// WritePlotScript writes a gnuplot script that renders csvPath to a
// PNG named after the session timestamp. Producing the image is left
// to gnuplot; the script is the handoff artifact.
func (r *Result) WritePlotScript(w io.Writer, csvPath string) error {
	_, err := fmt.Fprintf(w, `set datafile separator ','
set terminal png size 1024,600
set output '%s.png'
set title 'acquisition %s - %d samples @ %.3f Sa/s'
set xlabel 't (s)'
set ylabel 'V'
plot '%s' skip 1 using 1:2 with lines notitle
`,
		r.Stamp(),
		r.Started.Format(TimestampLayout),
		len(r.Readings),
		r.SampleRate(),
		csvPath,
	)
	return err
}

// SavePlotScript writes the gnuplot script next to the CSV and
// returns its path.
func (r *Result) SavePlotScript(dir, csvPath string) (string, error) {
	path := filepath.Join(dir, r.Stamp()+".plt")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	err = multierr.Append(r.WritePlotScript(f, csvPath), f.Close())
	if err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
