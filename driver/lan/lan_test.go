// Copyright (c) 2025–2026 The benchtop developers. All rights reserved.
// Project site: https://github.com/mpictor/benchtop
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package lan_test

import (
	"bufio"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/mpictor/benchtop/driver/lan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startInstrument serves a minimal SCPI endpoint on a loopback port.
func startInstrument(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })

	go func() {
		conn, err := l.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		sc := bufio.NewScanner(conn)
		for sc.Scan() {
			switch sc.Text() {
			case "*IDN?":
				fmt.Fprint(conn, "SIM,LAN,0,1.0\r\n")
			case "VALS?":
				fmt.Fprint(conn, "+1.0E+00,-2.5E-01\n")
			}
		}
	}()
	return l.Addr().String()
}

func TestDeviceExchanges(t *testing.T) {
	addr := startInstrument(t)

	dev, err := lan.Open(addr, lan.WithTimeout(2*time.Second))
	require.NoError(t, err)
	defer dev.Close()

	require.NoError(t, dev.Command("OUTP %s", "ON"))

	idn, err := dev.Query("*IDN?")
	require.NoError(t, err)
	assert.Equal(t, "SIM,LAN,0,1.0", idn)

	vals, err := dev.QueryASCIIValues("VALS?")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, -0.25}, vals)
}

func TestQueryTimesOutWithoutReply(t *testing.T) {
	addr := startInstrument(t)

	dev, err := lan.Open(addr, lan.WithTimeout(200*time.Millisecond))
	require.NoError(t, err)
	defer dev.Close()

	// The fake instrument never answers this one.
	_, err = dev.Query("SYST:ERR?")
	require.Error(t, err)
}

func TestManagerOpensKnownAddresses(t *testing.T) {
	addr := startInstrument(t)
	m := &lan.Manager{Known: []string{addr}, Timeout: 2 * time.Second}

	addrs, err := m.Resources()
	require.NoError(t, err)
	assert.Equal(t, []string{addr}, addrs)

	res, err := m.Open(addr)
	require.NoError(t, err)
	idn, err := res.Query("*IDN?")
	require.NoError(t, err)
	assert.Equal(t, "SIM,LAN,0,1.0", idn)
}
