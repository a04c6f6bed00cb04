// Copyright (c) 2025–2026 The benchtop developers. All rights reserved.
// Project site: https://github.com/mpictor/benchtop
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package gpib

import (
	"fmt"

	"github.com/mpictor/benchtop"
)

// At returns a Resource view of the instrument at the given primary
// address. Each exchange re-addresses the controller first, so one
// Prologix can serve several instruments on the bus. Views must not
// be used concurrently; the bus is serial and so is the controller.
func (c *Controller) At(pad int) benchtop.Resource {
	return &addressed{ctrl: c, pad: pad}
}

type addressed struct {
	ctrl *Controller
	pad  int
}

func (a *addressed) retarget() error {
	if a.ctrl.primaryAddr == a.pad {
		return nil
	}
	if err := a.ctrl.CommandController(fmt.Sprintf("addr %d", a.pad)); err != nil {
		return err
	}
	a.ctrl.primaryAddr = a.pad
	return nil
}

func (a *addressed) Command(format string, args ...any) error {
	if err := a.retarget(); err != nil {
		return err
	}
	return a.ctrl.Command(format, args...)
}

func (a *addressed) Query(cmd string) (string, error) {
	if err := a.retarget(); err != nil {
		return "", err
	}
	return a.ctrl.Query(cmd)
}

func (a *addressed) QueryASCIIValues(cmd string) ([]float64, error) {
	if err := a.retarget(); err != nil {
		return nil, err
	}
	return a.ctrl.QueryASCIIValues(cmd)
}
