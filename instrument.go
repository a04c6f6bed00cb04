// Copyright (c) 2025–2026 The benchtop developers. All rights reserved.
// Project site: https://github.com/mpictor/benchtop
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package benchtop

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mpictor/benchtop/lib/format"
	"go.uber.org/multierr"
)

// Identity describes one instrument: maker, model name, model number,
// and a free-form characteristic line (e.g. "0-8V, 8A / 0-20V, 4A").
type Identity struct {
	Maker          string
	Model          string
	Number         string
	Characteristic string
}

func (id Identity) String() string {
	s := fmt.Sprintf("%s %s - %s", id.Maker, id.Model, id.Number)
	if id.Characteristic != "" {
		s += " (" + id.Characteristic + ")"
	}
	return s
}

// Instrument owns one Resource and provides the IEEE 488.2 common
// operations shared by every device. Device packages embed it.
type Instrument struct {
	Identity Identity

	res Resource
}

// NewInstrument wraps an opened resource. The instrument holds the
// resource for its lifetime; there is no teardown beyond closing the
// underlying transport.
func NewInstrument(res Resource, id Identity) *Instrument {
	return &Instrument{Identity: id, res: res}
}

// Resource returns the wrapped transport, for device-specific commands.
func (in *Instrument) Resource() Resource { return in.res }

func (in *Instrument) String() string { return in.Identity.String() }

// Identify sends *IDN? and returns the reply with the line terminator
// stripped. The format of the reply is not validated.
func (in *Instrument) Identify() (string, error) {
	s, err := in.res.Query("*IDN?")
	if err != nil {
		return "", fmt.Errorf("*IDN?: %w", err)
	}
	return strings.TrimRight(s, "\r\n"), nil
}

// Reset sends *RST. No acknowledgement is checked.
func (in *Instrument) Reset() error {
	return in.res.Command("*RST")
}

// ClearStatus sends *CLS.
func (in *Instrument) ClearStatus() error {
	return in.res.Command("*CLS")
}

// DisplayText shows s on the instrument's front-panel display. The
// wire form is a double-quoted string with no escaping, so embedded
// double quotes are rejected rather than sent.
func (in *Instrument) DisplayText(s string) error {
	q, err := format.QuoteDisplay(s)
	if err != nil {
		return err
	}
	return in.res.Command("DISP:TEXT %s", q)
}

// ClearDisplay removes any text written via DisplayText.
func (in *Instrument) ClearDisplay() error {
	return in.res.Command("DISP:TEXT:CLE")
}

// SystemError holds one entry from the instrument's error queue.
// Code 0 means the queue is empty.
type SystemError struct {
	Code    int
	Message string
}

func (e SystemError) String() string {
	return fmt.Sprintf("%d,%q", e.Code, e.Message)
}

// SystemError performs a single SYST:ERR? exchange and parses the
// reply, conventionally of the form `-113,"Undefined header"`.
func (in *Instrument) SystemError() (SystemError, error) {
	s, err := in.res.Query("SYST:ERR?")
	if err != nil {
		return SystemError{}, fmt.Errorf("SYST:ERR?: %w", err)
	}
	return parseSystemError(s)
}

// Instruments queue errors; a single SYST:ERR? pops only the oldest.
const maxErrorDrain = 64

// DrainErrors pops the error queue until the instrument reports
// +0,"No error", returning the entries in queue order. A transport
// failure stops the drain; malformed entries are recorded and the
// drain continues, so one bad reply cannot wedge the queue.
func (in *Instrument) DrainErrors() ([]SystemError, error) {
	var (
		errs []SystemError
		bad  error
	)
	for i := 0; i < maxErrorDrain; i++ {
		s, err := in.res.Query("SYST:ERR?")
		if err != nil {
			return errs, multierr.Append(bad, fmt.Errorf("SYST:ERR?: %w", err))
		}
		se, err := parseSystemError(s)
		if err != nil {
			bad = multierr.Append(bad, err)
			continue
		}
		if se.Code == 0 {
			return errs, bad
		}
		errs = append(errs, se)
	}
	return errs, multierr.Append(bad, fmt.Errorf("error queue not empty after %d reads", maxErrorDrain))
}

func parseSystemError(s string) (SystemError, error) {
	s = strings.TrimSpace(s)
	code, msg, found := strings.Cut(s, ",")
	if !found {
		return SystemError{}, fmt.Errorf("malformed error reply %q", s)
	}
	n, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(code), "+"))
	if err != nil {
		return SystemError{}, fmt.Errorf("malformed error code in %q: %w", s, err)
	}
	return SystemError{Code: n, Message: strings.Trim(strings.TrimSpace(msg), `"`)}, nil
}
