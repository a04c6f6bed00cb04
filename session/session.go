// Copyright (c) 2025–2026 The benchtop developers. All rights reserved.
// Project site: https://github.com/mpictor/benchtop
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

// Package session runs a fixed-count acquisition loop against one
// instrument and derives the batch timing figures from the result.
package session

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"
)

// Reading is one timestamped sample: the wall-clock offset from the
// start of the run, the text the instrument returned, and its parsed
// numeric value.
type Reading struct {
	Offset time.Duration
	Raw    string
	Value  float64
}

// Config controls one acquisition run.
type Config struct {
	// Samples is the fixed iteration count.
	Samples int `yaml:"samples"`
	// LogEvery logs progress every n iterations; 0 means every 32,
	// negative disables.
	LogEvery int `yaml:"log_every"`
	// Pace, when nonzero, sleeps between iterations. The default is
	// to poll as fast as the instrument answers.
	Pace time.Duration `yaml:"pace"`
}

// Result is an ordered sequence of readings plus the derived batch
// scalars.
type Result struct {
	Started  time.Time
	Readings []Reading
	// Elapsed is the offset of the last reading, not the loop
	// runtime.
	Elapsed time.Duration
}

// SampleRate is (N-1)/elapsed in samples per second, computed over
// the whole batch rather than per sample. Zero for fewer than two
// readings.
func (r *Result) SampleRate() float64 {
	if len(r.Readings) < 2 || r.Elapsed <= 0 {
		return 0
	}
	return float64(len(r.Readings)-1) / r.Elapsed.Seconds()
}

// Run polls read cfg.Samples times, recording the wall-clock offset
// before each poll. A read failure or an unparseable reply aborts the
// run; there are no retries.
func Run(cfg Config, read func() (string, error)) (*Result, error) {
	if cfg.Samples <= 0 {
		return nil, fmt.Errorf("sample count %d", cfg.Samples)
	}
	logEvery := cfg.LogEvery
	if logEvery == 0 {
		logEvery = 32
	}

	res := &Result{
		Started:  time.Now(),
		Readings: make([]Reading, 0, cfg.Samples),
	}
	t0 := time.Now()
	for i := 0; i < cfg.Samples; i++ {
		if logEvery > 0 && i%logEvery == 0 {
			log.Printf("iteration %d", i)
		}
		offset := time.Since(t0)
		raw, err := read()
		if err != nil {
			return nil, fmt.Errorf("reading sample %d: %w", i, err)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("parsing sample %d %q: %w", i, raw, err)
		}
		res.Readings = append(res.Readings, Reading{Offset: offset, Raw: raw, Value: v})
		if cfg.Pace > 0 {
			time.Sleep(cfg.Pace)
		}
	}
	res.Elapsed = res.Readings[len(res.Readings)-1].Offset
	return res, nil
}
