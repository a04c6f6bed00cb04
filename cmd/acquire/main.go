// Copyright (c) 2025–2026 The benchtop developers. All rights reserved.
// Project site: https://github.com/mpictor/benchtop
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

// Command acquire programs a waveform generator, polls a multimeter
// for a fixed number of readings, and writes the batch as a CSV plus
// a gnuplot script. With the default sim transport it runs without
// hardware.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/mpictor/benchtop"
	"github.com/mpictor/benchtop/dmm"
	"github.com/mpictor/benchtop/driver/lan"
	"github.com/mpictor/benchtop/driver/sim"
	"github.com/mpictor/benchtop/fgen"
	"github.com/mpictor/benchtop/lib/connutil"
	"github.com/mpictor/benchtop/session"
	"go.uber.org/multierr"
)

func main() {
	log.SetFlags(log.Lmicroseconds)

	var (
		cfgPath   string
		transport string
	)
	conn := connutil.Conn{}
	conn.AddFlags()
	flag.StringVar(&cfgPath, "config", "", "YAML acquisition config")
	flag.StringVar(&transport, "transport", "", "override transport: sim, lan, or gpib")
	flag.Parse()

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	if transport != "" {
		cfg.Transport = transport
	}

	genRes, mmRes, cleanup, err := openResources(cfg, &conn)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := cleanup(); err != nil {
			log.Printf("cleanup: %s", err)
		}
	}()

	if err := run(cfg, genRes, mmRes); err != nil {
		log.Fatal(err)
	}
}

func run(cfg config, genRes, mmRes benchtop.Resource) error {
	gen := fgen.New(genRes)
	var mmOpts []dmm.Option
	if cfg.Multimeter.PlainText {
		mmOpts = append(mmOpts, dmm.WithReadFormat(dmm.PlainText))
	}
	meter := dmm.New(mmRes, mmOpts...)

	for _, inst := range []*benchtop.Instrument{gen.Instrument, meter.Instrument} {
		idn, err := inst.Identify()
		if err != nil {
			return err
		}
		log.Printf("%s: %s", inst, idn)
		if err := inst.Reset(); err != nil {
			return err
		}
	}

	w, err := cfg.Generator.waveform()
	if err != nil {
		return err
	}
	if err := gen.SetWaveform(w); err != nil {
		return err
	}
	if err := gen.SetOutput(fgen.On); err != nil {
		return err
	}

	rng, err := cfg.Multimeter.rng()
	if err != nil {
		return err
	}
	mc := cfg.Multimeter
	if err := meter.Configure(dmm.Quantity(mc.Quantity), dmm.CurrentType(mc.CurrentType), rng, mc.Resolution); err != nil {
		return err
	}

	res, err := session.Run(cfg.Session, meter.Read)
	if err != nil {
		return err
	}
	log.Printf("Elapsed time: %s", res.Elapsed)
	log.Printf("Sampling rate: %.3f Sa/s", res.SampleRate())

	csvPath, err := res.SaveCSV(cfg.OutDir)
	if err != nil {
		return err
	}
	log.Printf("wrote %s", csvPath)
	pltPath, err := res.SavePlotScript(cfg.OutDir, csvPath)
	if err != nil {
		return err
	}
	log.Printf("wrote %s", pltPath)

	if err := teardown(gen, meter); err != nil {
		return err
	}
	return nil
}

// teardown drains both error queues and parks the bench the way the
// operator expects to find it: output off, displays reading JOB DONE.
func teardown(gen *fgen.Generator, meter *dmm.Multimeter) error {
	for _, inst := range []*benchtop.Instrument{gen.Instrument, meter.Instrument} {
		if err := inst.DisplayText("Cleaning buffer..."); err != nil {
			return err
		}
		errs, err := inst.DrainErrors()
		if err != nil {
			return err
		}
		for _, se := range errs {
			log.Printf("%s error: %s", inst.Identity.Number, se)
		}
		if err := inst.ClearStatus(); err != nil {
			return err
		}
	}
	if err := gen.SetOutput(fgen.Off); err != nil {
		return err
	}
	time.Sleep(2 * time.Second)
	return multierr.Append(
		gen.DisplayText("JOB DONE"),
		meter.DisplayText("JOB DONE"),
	)
}

func openResources(cfg config, conn *connutil.Conn) (genRes, mmRes benchtop.Resource, cleanup func() error, err error) {
	nocleanup := func() error { return nil }
	switch cfg.Transport {
	case "sim":
		return simGenerator(), simMeter(cfg), nocleanup, nil
	case "lan":
		g, err := lan.Open(cfg.Generator.Address)
		if err != nil {
			return nil, nil, nil, err
		}
		m, err := lan.Open(cfg.Multimeter.Address)
		if err != nil {
			g.Close()
			return nil, nil, nil, err
		}
		return g, m, func() error {
			return multierr.Append(g.Close(), m.Close())
		}, nil
	case "gpib":
		ctrl, cleanup, err := conn.Setup(nil)
		if err != nil {
			return nil, nil, nil, err
		}
		return ctrl.At(cfg.Generator.PAD), ctrl.At(cfg.Multimeter.PAD), cleanup, nil
	}
	return nil, nil, nil, fmt.Errorf("transport %q (want sim, lan, or gpib)", cfg.Transport)
}

func simGenerator() benchtop.Resource {
	return sim.New("Agilent Technologies,33220A,0,1.0")
}

// simMeter answers READ? and MEAS queries with a noisy waveform at
// the configured frequency and amplitude.
func simMeter(cfg config) benchtop.Resource {
	m := sim.New("HEWLETT-PACKARD,34401A,0,11-5-2")
	t0 := time.Now()
	value := func() string {
		phase := time.Since(t0).Seconds() * cfg.Generator.Frequency * 2 * math.Pi
		v := cfg.Generator.Amplitude/2*math.Sin(phase) + rand.NormFloat64()*0.01
		return fmt.Sprintf("%+.8E", v)
	}
	m.ReplyFunc = func(cmd string) (string, bool) {
		switch {
		case cmd == "READ?":
			return value(), true
		case len(cmd) > 5 && cmd[:5] == "MEAS:":
			return value(), true
		}
		return "", false
	}
	return m
}
