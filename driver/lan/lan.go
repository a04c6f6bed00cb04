// Copyright (c) 2025–2026 The benchtop developers. All rights reserved.
// Project site: https://github.com/mpictor/benchtop
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

// Package lan talks SCPI to instruments over a raw TCP socket, the
// conventional port-5025 transport on LAN-attached gear. Commands are
// newline terminated; a query reads back one line.
package lan

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/mpictor/benchtop"
	"github.com/mpictor/benchtop/lib/format"
)

// DefaultPort is the conventional raw-socket SCPI port.
const DefaultPort = "5025"

// Device is an open raw-socket connection to one instrument. It
// satisfies benchtop.Resource.
type Device struct {
	conn    net.Conn
	br      *bufio.Reader
	timeout time.Duration
}

// Option configures a Device before use.
type Option func(*Device)

// WithTimeout bounds each command or query exchange. Zero means the
// OS default, i.e. block until the instrument answers.
func WithTimeout(d time.Duration) Option {
	return func(dev *Device) { dev.timeout = d }
}

// Open dials the instrument at addr, which is host or host:port.
func Open(addr string, opts ...Option) (*Device, error) {
	if !strings.Contains(addr, ":") {
		addr = net.JoinHostPort(addr, DefaultPort)
	}
	dev := &Device{timeout: 10 * time.Second}
	for _, opt := range opts {
		opt(dev)
	}
	conn, err := net.DialTimeout("tcp", addr, dev.timeout)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", addr, err)
	}
	dev.conn = conn
	dev.br = bufio.NewReader(conn)
	return dev, nil
}

// Command formats according to a format specifier if provided and
// sends one newline-terminated SCPI command.
func (d *Device) Command(formatStr string, a ...any) error {
	cmd := formatStr
	if a != nil {
		cmd = fmt.Sprintf(formatStr, a...)
	}
	if err := d.deadline(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(d.conn, "%s\n", strings.TrimSpace(cmd))
	return err
}

// Query sends cmd and reads one reply line, terminator stripped.
func (d *Device) Query(cmd string) (string, error) {
	if err := d.Command(cmd); err != nil {
		return "", err
	}
	s, err := d.br.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading reply to %q: %w", cmd, err)
	}
	return strings.TrimRight(s, "\r\n"), nil
}

// QueryASCIIValues issues the query and parses the reply as
// comma-separated numbers.
func (d *Device) QueryASCIIValues(cmd string) ([]float64, error) {
	s, err := d.Query(cmd)
	if err != nil {
		return nil, err
	}
	return format.Floats(s)
}

func (d *Device) Close() error {
	return d.conn.Close()
}

func (d *Device) deadline() error {
	if d.timeout == 0 {
		return nil
	}
	return d.conn.SetDeadline(time.Now().Add(d.timeout))
}

// Manager opens raw-socket resources by address. Raw sockets have no
// discovery protocol, so enumeration returns the statically configured
// address list.
type Manager struct {
	Known   []string
	Timeout time.Duration
}

func (m *Manager) Resources() ([]string, error) {
	return m.Known, nil
}

func (m *Manager) Open(address string) (benchtop.Resource, error) {
	var opts []Option
	if m.Timeout > 0 {
		opts = append(opts, WithTimeout(m.Timeout))
	}
	return Open(address, opts...)
}
