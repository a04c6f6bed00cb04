// Copyright (c) 2025–2026 The benchtop developers. All rights reserved.
// Project site: https://github.com/mpictor/benchtop
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

// Package gpib drives instruments through a Prologix-compatible GPIB
// controller-in-charge attached over a serial port. The Controller
// satisfies benchtop.Resource.
package gpib

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/mpictor/benchtop/lib/format"
)

// Controller models a GPIB controller-in-charge.
type Controller struct {
	Debug bool // if true, log commands before sending

	rw               io.ReadWriter
	br               *bufio.Reader
	primaryAddr      int
	hasSecondaryAddr bool
	secondaryAddr    int
	auto             bool
	usbTerm          byte
	eotChar          byte
	writeDelay       time.Duration
	ar488            bool // compatibility with Arduino AR488 - see WithAR488
}

// ControllerOption applies an option to the controller.
type ControllerOption func(*Controller)

// NewController creates a GPIB controller-in-charge at the given
// address using the given Prologix driver, which can be a Virtual COM
// Port (VCP), USB direct, or Ethernet. Enable clear to send the
// Selected Device Clear (SDC) message to the GPIB address.
func NewController(
	rw io.ReadWriter,
	addr int,
	clear bool,
	opts ...ControllerOption,
) (*Controller, error) {
	c := Controller{
		rw:          rw,
		br:          bufio.NewReader(rw),
		primaryAddr: addr,
		auto:        false,
		usbTerm:     '\n',
		eotChar:     '\n',
	}

	for _, opt := range opts {
		opt(&c)
	}

	if !isPrimaryAddressValid(c.primaryAddr) {
		return nil, fmt.Errorf("invalid primary address %d (must be 0-30)", c.primaryAddr)
	}

	// Configure the Prologix GPIB controller.
	addrCmd := fmt.Sprintf("addr %d", c.primaryAddr)
	if c.hasSecondaryAddr {
		if !isSecondaryAddressValid(c.secondaryAddr) {
			return nil, fmt.Errorf("invalid secondary address %d (must be 96-126)", c.secondaryAddr)
		}
		addrCmd = fmt.Sprintf("addr %d %d", c.primaryAddr, c.secondaryAddr)
	}
	cmds := []string{}
	if !c.ar488 {
		cmds = append(cmds,
			"verbose 0", // turn off verbosity if on
			"savecfg 0", // do not wear out the EPROM with the settings below
		)
	}
	cmds = append(cmds,
		addrCmd,           // Set the primary (and secondary) address.
		"mode 1",          // Switch to controller mode.
		"auto 0",          // Turn off read-after-write.
		"eoi 1",           // Enable EOI assertion with last character.
		"eos 0",           // Set GPIB termination.
		"read_tmo_ms 500", // Set the read timeout to 500 ms.
		fmt.Sprintf("eot_char %d", c.eotChar),
		"eot_enable 1", // Append eot_char when EOI detected.
	)
	if !c.ar488 {
		cmds = append(cmds, "savecfg 1")
	}
	if clear {
		cmds = append(cmds, "clr")
	}
	for _, cmd := range cmds {
		if err := c.CommandController(cmd); err != nil {
			return nil, err
		}
	}

	return &c, nil
}

// WithSecondaryAddress sets a secondary address, which must be in the
// range of 96 and 126, inclusive.
func WithSecondaryAddress(addr int) ControllerOption {
	return func(c *Controller) {
		c.hasSecondaryAddr = true
		c.secondaryAddr = addr
	}
}

// WithWriteDelay pauses before each write. Some instruments drop
// commands that arrive back to back.
func WithWriteDelay(d time.Duration) ControllerOption {
	return func(c *Controller) { c.writeDelay = d }
}

// WithDebug causes commands and responses to be logged.
func WithDebug() ControllerOption { return func(c *Controller) { c.Debug = true } }

// WithAR488 slightly alters the init commands, for compatibility with
// the Arduino-based AR488. Specifically, we do not emit 'verbose 0',
// nor do we toggle savecfg.
func WithAR488() ControllerOption { return func(c *Controller) { c.ar488 = true } }

// Command formats according to a format specifier if provided and
// sends a SCPI/ASCII command to the instrument at the currently
// assigned GPIB address. Leading and trailing whitespace is removed
// before appending the USB terminator.
func (c *Controller) Command(formatStr string, a ...any) error {
	cmd := formatStr
	if a != nil {
		cmd = fmt.Sprintf(formatStr, a...)
	}
	cmd = fmt.Sprintf("%s%c", strings.TrimSpace(cmd), c.usbTerm)
	if c.Debug {
		log.Printf("cmd %q", cmd)
	}
	c.pause()
	_, err := fmt.Fprint(c.rw, cmd)
	return err
}

// Query sends the given SCPI/ASCII command to the instrument at the
// currently assigned GPIB address and reads one reply, terminated by
// the EOT character. With read-after-write disabled the Prologix must
// be told to read, so a `++read eoi` follows the command.
func (c *Controller) Query(cmd string) (string, error) {
	if err := c.Command(cmd); err != nil {
		return "", fmt.Errorf("error writing command: %w", err)
	}
	if !c.auto {
		if err := c.CommandController("read eoi"); err != nil {
			return "", fmt.Errorf("error sending `read eoi` command: %w", err)
		}
	}
	s, err := c.br.ReadString(c.eotChar)
	if err == io.EOF {
		return s, nil
	}
	return s, err
}

// MustQuery is Query for program setup paths where a failed exchange
// is unrecoverable; it exits via log.Fatal on error.
func (c *Controller) MustQuery(cmd string) string {
	s, err := c.Query(cmd)
	if err != nil {
		log.Fatalf("query %q: %s", cmd, err)
	}
	return s
}

// QueryASCIIValues issues the query and parses the reply as
// comma-separated numbers.
func (c *Controller) QueryASCIIValues(cmd string) ([]float64, error) {
	s, err := c.Query(cmd)
	if err != nil {
		return nil, err
	}
	return format.Floats(s)
}

// CommandController sends the given command to the Prologix controller
// itself. To indicate this is a command for the controller, thereby
// not transmitting to the instrument over GPIB, two plus signs `++`
// are prepended.
func (c *Controller) CommandController(cmd string) error {
	cmd = fmt.Sprintf("++%s%c", strings.ToLower(strings.TrimSpace(cmd)), c.usbTerm)
	if c.Debug {
		log.Printf("ctrl %q", cmd)
	}
	c.pause()
	_, err := c.rw.Write([]byte(cmd))
	return err
}

// QueryController sends the given command to the Prologix controller
// and returns its response as a string.
func (c *Controller) QueryController(cmd string) (string, error) {
	if err := c.CommandController(cmd); err != nil {
		return "", err
	}
	s, err := c.br.ReadString(c.eotChar)
	if c.Debug {
		log.Printf("ctrl read %q", s)
	}
	return s, err
}

// InstrumentAddress queries the GPIB address the controller is
// currently talking to. The secondary address is -1 when unset.
func (c *Controller) InstrumentAddress() (pad, sad int, err error) {
	s, err := c.QueryController("addr")
	if err != nil {
		return 0, 0, err
	}
	fields := strings.Fields(s)
	sad = -1
	switch len(fields) {
	case 2:
		sad, err = strconv.Atoi(fields[1])
		if err != nil {
			return 0, 0, fmt.Errorf("parsing secondary address %q: %w", s, err)
		}
		fallthrough
	case 1:
		pad, err = strconv.Atoi(fields[0])
		if err != nil {
			return 0, 0, fmt.Errorf("parsing address %q: %w", s, err)
		}
	default:
		return 0, 0, fmt.Errorf("unexpected addr reply %q", s)
	}
	return pad, sad, nil
}

// Version queries the controller firmware version string.
func (c *Controller) Version() (string, error) {
	s, err := c.QueryController("ver")
	return strings.TrimSpace(s), err
}

// ReadAfterWrite queries whether the controller automatically
// addresses the instrument to talk after each write.
func (c *Controller) ReadAfterWrite() (bool, error) {
	s, err := c.QueryController("auto")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(s) == "1", nil
}

// ReadTimeout queries the controller read timeout in milliseconds.
func (c *Controller) ReadTimeout() (int, error) {
	s, err := c.QueryController("read_tmo_ms")
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(s))
}

// ServiceRequest reports whether the GPIB SRQ line is asserted.
func (c *Controller) ServiceRequest() (bool, error) {
	s, err := c.QueryController("srq")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(s) == "1", nil
}

// ClearDevice sends the Selected Device Clear (SDC) message to the
// currently addressed instrument.
func (c *Controller) ClearDevice() error {
	return c.CommandController("clr")
}

// FrontPanel enables (local true) or disables local front-panel
// control of the instrument.
func (c *Controller) FrontPanel(local bool) error {
	if local {
		return c.CommandController("loc")
	}
	return c.CommandController("llo")
}

func (c *Controller) pause() {
	if c.writeDelay > 0 {
		time.Sleep(c.writeDelay)
	}
}

// isPrimaryAddressValid checks that the primary GPIB address is
// between 0 and 30, inclusive.
func isPrimaryAddressValid(addr int) bool {
	return addr >= 0 && addr <= 30
}

// isSecondaryAddressValid checks that the secondary GPIB address is
// between 96 and 126, inclusive.
func isSecondaryAddressValid(addr int) bool {
	return addr >= 96 && addr <= 126
}
