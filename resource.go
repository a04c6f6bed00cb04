// Copyright (c) 2025–2026 The benchtop developers. All rights reserved.
// Project site: https://github.com/mpictor/benchtop
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

// Package benchtop wraps SCPI lab instruments behind named operations.
// Transports (GPIB via a Prologix controller, raw-socket LAN, or a
// simulator) live under driver/; device-specific command sets live in
// the fgen, dmm, and psu packages.
package benchtop

// Resource is an opened communication channel to one instrument. It
// mirrors the write / query / query_ascii_values contract of a VISA
// resource: Command is fire-and-forget, Query blocks for one reply
// line, QueryASCIIValues parses a comma-separated numeric reply.
//
// The Query method satisfies query.Queryer from github.com/gotmc/query,
// so its helpers can parse replies from any Resource.
type Resource interface {
	Command(format string, a ...any) error
	Query(cmd string) (string, error)
	QueryASCIIValues(cmd string) ([]float64, error)
}

// ResourceManager enumerates available resource addresses and opens a
// named one. Address syntax is transport-specific.
type ResourceManager interface {
	Resources() ([]string, error)
	Open(address string) (Resource, error)
}
