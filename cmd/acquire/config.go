// Copyright (c) 2025–2026 The benchtop developers. All rights reserved.
// Project site: https://github.com/mpictor/benchtop
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package main

import (
	"fmt"
	"os"

	"github.com/mpictor/benchtop/dmm"
	"github.com/mpictor/benchtop/fgen"
	"github.com/mpictor/benchtop/session"
	"gopkg.in/yaml.v3"
)

type config struct {
	// Transport is sim, lan, or gpib.
	Transport string         `yaml:"transport"`
	OutDir    string         `yaml:"out_dir"`
	Session   session.Config `yaml:"session"`

	Generator  generatorConfig  `yaml:"generator"`
	Multimeter multimeterConfig `yaml:"multimeter"`
}

type generatorConfig struct {
	Address string `yaml:"address"` // lan host[:port]
	PAD     int    `yaml:"pad"`     // gpib primary address

	Shape     string  `yaml:"shape"` // pulse or sine
	Frequency float64 `yaml:"frequency"`
	Amplitude float64 `yaml:"amplitude"` // Vpp
	Load      int     `yaml:"load"`      // Ohms
}

type multimeterConfig struct {
	Address string `yaml:"address"`
	PAD     int    `yaml:"pad"`

	Quantity    string  `yaml:"quantity"`     // VOLT or CURR
	CurrentType string  `yaml:"current_type"` // AC or DC
	Range       string  `yaml:"range"`        // min, max, def, or a number
	Resolution  float64 `yaml:"resolution"`
	// PlainText reads measurements as raw text instead of
	// transport-parsed ASCII values.
	PlainText bool `yaml:"plain_text"`
}

func defaultConfig() config {
	return config{
		Transport: "sim",
		OutDir:    ".",
		Session:   session.Config{Samples: 2048, LogEvery: 32},
		Generator: generatorConfig{
			PAD:       6,
			Shape:     "pulse",
			Frequency: 5.0,
			Amplitude: 10.0,
			Load:      50,
		},
		Multimeter: multimeterConfig{
			PAD:         22,
			Quantity:    string(dmm.Voltage),
			CurrentType: string(dmm.Direct),
			Range:       "def",
			Resolution:  1e-3,
		},
	}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// waveform translates the config to the generator setup the original
// bench script used: a pulse centered on zero at the requested
// frequency, or a zero-offset sine.
func (g generatorConfig) waveform() (fgen.Waveform, error) {
	switch g.Shape {
	case "pulse":
		w := fgen.NewWaveform(fgen.Pulse)
		w.Load = g.Load
		w.LowLevel = -g.Amplitude / 2
		w.HighLevel = g.Amplitude / 2
		w.Period = 1 / g.Frequency
		w.Width = 0.1
		w.Transition = 5e-9
		return w, nil
	case "sine":
		w := fgen.NewWaveform(fgen.Sine)
		w.Load = g.Load
		w.Frequency = g.Frequency
		w.Amplitude = g.Amplitude
		w.Offset = 0
		return w, nil
	}
	return fgen.Waveform{}, fmt.Errorf("generator shape %q (want pulse or sine)", g.Shape)
}

func (m multimeterConfig) rng() (dmm.Range, error) {
	switch m.Range {
	case "", "def":
		return dmm.Def, nil
	case "min":
		return dmm.Min, nil
	case "max":
		return dmm.Max, nil
	}
	var v float64
	if _, err := fmt.Sscanf(m.Range, "%g", &v); err != nil {
		return dmm.Range{}, fmt.Errorf("multimeter range %q: %w", m.Range, err)
	}
	return dmm.Value(v), nil
}
