// Copyright (c) 2025–2026 The benchtop developers. All rights reserved.
// Project site: https://github.com/mpictor/benchtop
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

// Package vcp opens the Virtual COM Port of a USB-attached Prologix
// GPIB controller.
package vcp

import (
	"time"

	"go.bug.st/serial"
)

// VCP is a serial connection to a Prologix controller, 115200 8N1.
type VCP struct {
	port serial.Port
}

// NewVCP opens the named serial port with a 30 s read timeout.
func NewVCP(name string) (*VCP, error) {
	mode := &serial.Mode{
		BaudRate: 115200,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, err
	}
	if err := port.SetReadTimeout(30 * time.Second); err != nil {
		port.Close()
		return nil, err
	}
	return &VCP{port: port}, nil
}

func (v *VCP) Read(p []byte) (n int, err error)  { return v.port.Read(p) }
func (v *VCP) Write(p []byte) (n int, err error) { return v.port.Write(p) }

// Flush discards unread data on the serial port.
func (v *VCP) Flush() error {
	return v.port.ResetInputBuffer()
}

func (v *VCP) Close() error {
	return v.port.Close()
}
