// Package connutil wires up the flags and serial plumbing shared by
// every program that talks through a Prologix GPIB controller.
package connutil

import (
	"flag"
	"log"
	"time"

	"github.com/mpictor/benchtop/driver/gpib"
	"github.com/mpictor/benchtop/lib/find"
	"github.com/soypat/cereal"
	"go.uber.org/multierr"
)

type Conn struct {
	SerialPort string
	// AdapterSerial narrows port discovery to the adapter with this
	// USB serial string. Empty uses the Arduino filter.
	AdapterSerial string
	GpibPAD       int
	GpibSAD       int
	Delay         time.Duration
	SerialTimeout time.Duration
	Debug         bool

	tty     string
	finderr error
}

// AddFlags is to be called before [flag.Parse].
func (c *Conn) AddFlags() {
	filter := find.Arduino
	if c.AdapterSerial != "" {
		filter = find.BySerial(c.AdapterSerial)
	}
	c.tty, c.finderr = find.Find(filter)
	if c.finderr != nil {
		c.tty = "ttyACM0"
	}

	if c.GpibPAD == 0 {
		c.GpibPAD = 4
	}
	if c.GpibSAD == 0 {
		c.GpibSAD = 0xff
	}
	if c.Delay == 0 {
		c.Delay = 100 * time.Millisecond
	}
	if c.SerialTimeout == 0 {
		c.SerialTimeout = 30 * time.Second
	}

	flag.StringVar(
		&c.SerialPort,
		"port",
		"/dev/"+c.tty,
		"Serial port for Prologix VCP GPIB controller",
	)
	flag.IntVar(&c.GpibPAD, "pad", c.GpibPAD, "GPIB primary address for the device")
	flag.IntVar(&c.GpibSAD, "sad", c.GpibSAD, "GPIB secondary address for the device (255 = none)")
	flag.DurationVar(&c.Delay, "delay", c.Delay, "delay between writes")
	flag.BoolVar(&c.Debug, "gpib.debug", c.Debug, "log controller traffic")
}

// Setup is to be called after [flag.Parse]. The returned cleanup
// restores front-panel control and closes the serial port.
func (c *Conn) Setup(opts []gpib.ControllerOption) (ctrl *gpib.Controller, cleanup func() error, err error) {
	nocleanup := func() error { return nil }

	if c.finderr != nil && c.SerialPort == "/dev/ttyACM0" {
		// only print this if the port isn't overridden via flag
		log.Printf("locating serial port failed, guessing: %s", c.finderr)
	}
	log.Printf("Serial port = %s", c.SerialPort)

	cimpl := cereal.Tarm{}
	port, err := cimpl.OpenPort(c.SerialPort, cereal.Mode{
		BaudRate:    115200,
		ReadTimeout: c.SerialTimeout,
	})
	if err != nil {
		return nil, nocleanup, err
	}

	if c.Delay > 0 {
		opts = append(opts, gpib.WithWriteDelay(c.Delay))
	}
	if c.GpibSAD != 0xff {
		opts = append(opts, gpib.WithSecondaryAddress(c.GpibSAD))
	}
	if c.Debug {
		opts = append(opts, gpib.WithDebug())
	}

	ctrl, err = gpib.NewController(port, c.GpibPAD, false, opts...)
	if err != nil {
		port.Close()
		return nil, nocleanup, err
	}

	cleanup = func() error {
		// Return local control to the front panel.
		err := ctrl.FrontPanel(true)

		// Discard any unread data on the serial port and then close.
		if fl, ok := port.(interface{ Flush() error }); ok {
			err = multierr.Append(err, fl.Flush())
		}
		return multierr.Append(err, port.Close())
	}
	return ctrl, cleanup, nil
}
