// Copyright (c) 2025–2026 The benchtop developers. All rights reserved.
// Project site: https://github.com/mpictor/benchtop
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

// Package sim provides a scripted in-memory instrument. It journals
// every command it receives and answers queries from canned replies,
// so device packages can be exercised without hardware.
package sim

import (
	"fmt"

	"github.com/mpictor/benchtop"
	"github.com/mpictor/benchtop/lib/format"
)

// Instrument is a fake benchtop.Resource.
//
// Queries are answered in order of precedence: a pending transport
// fault, *IDN?, SYST:ERR? (popping Queued then reporting an empty
// queue), the Replies table, then ReplyFunc. A query nothing answers
// is an error, standing in for a bus timeout.
type Instrument struct {
	ID      string            // *IDN? reply
	Replies map[string]string // exact query text to reply
	// ReplyFunc answers queries not covered by Replies.
	ReplyFunc func(cmd string) (string, bool)
	// Queued holds SYST:ERR? replies, oldest first.
	Queued []string
	// Err, when set, fails every exchange.
	Err error

	journal []string
}

// New returns a simulated instrument answering *IDN? with id.
func New(id string) *Instrument {
	return &Instrument{ID: id, Replies: map[string]string{}}
}

func (s *Instrument) Command(formatStr string, a ...any) error {
	if s.Err != nil {
		return s.Err
	}
	cmd := formatStr
	if a != nil {
		cmd = fmt.Sprintf(formatStr, a...)
	}
	s.journal = append(s.journal, cmd)
	return nil
}

func (s *Instrument) Query(cmd string) (string, error) {
	if err := s.Command(cmd); err != nil {
		return "", err
	}
	switch cmd {
	case "*IDN?":
		return s.ID + "\n", nil
	case "SYST:ERR?":
		if len(s.Queued) > 0 {
			r := s.Queued[0]
			s.Queued = s.Queued[1:]
			return r + "\n", nil
		}
		return `+0,"No error"` + "\n", nil
	}
	if r, ok := s.Replies[cmd]; ok {
		return r + "\n", nil
	}
	if s.ReplyFunc != nil {
		if r, ok := s.ReplyFunc(cmd); ok {
			return r + "\n", nil
		}
	}
	return "", fmt.Errorf("sim: no reply scripted for %q", cmd)
}

func (s *Instrument) QueryASCIIValues(cmd string) ([]float64, error) {
	r, err := s.Query(cmd)
	if err != nil {
		return nil, err
	}
	return format.Floats(r)
}

// Journal returns every command and query sent so far, in order.
func (s *Instrument) Journal() []string {
	j := make([]string, len(s.journal))
	copy(j, s.journal)
	return j
}

// ClearJournal empties the journal between test phases.
func (s *Instrument) ClearJournal() { s.journal = nil }

// Manager hands out simulated instruments by address.
type Manager struct {
	Instruments map[string]*Instrument
}

func (m *Manager) Resources() ([]string, error) {
	addrs := make([]string, 0, len(m.Instruments))
	for a := range m.Instruments {
		addrs = append(addrs, a)
	}
	return addrs, nil
}

func (m *Manager) Open(address string) (benchtop.Resource, error) {
	inst, ok := m.Instruments[address]
	if !ok {
		return nil, fmt.Errorf("sim: no instrument at %q", address)
	}
	return inst, nil
}
