package find

import "testing"

func TestFilters(t *testing.T) {
	arduino := Port{Dev: "ttyACM0", Mfg: "Arduino LLC", Product: "Arduino Uno", Serial: "A603UX94"}
	pico := Port{Dev: "ttyACM1", Mfg: "Raspberry Pi", Product: "Pico"}
	ftdi := Port{Dev: "ttyUSB0", Mfg: "FTDI", Product: "FT232R USB UART", Serial: "PX8X3YR6"}

	if !Arduino(&arduino) {
		t.Errorf("Arduino filter missed %v", arduino)
	}
	if Arduino(&pico) || Arduino(&ftdi) {
		t.Error("Arduino filter matched non-Arduino port")
	}

	if !PiPico(&pico) {
		t.Errorf("PiPico filter missed %v", pico)
	}
	if PiPico(&arduino) {
		t.Error("PiPico filter matched Arduino port")
	}

	if !BySerial("PX8X3YR6")(&ftdi) {
		t.Errorf("BySerial filter missed %v", ftdi)
	}
	if BySerial("PX8X3YR6")(&arduino) {
		t.Error("BySerial filter matched wrong serial")
	}
}

func TestPortString(t *testing.T) {
	p := Port{Dev: "ttyUSB0", SysPath: "/sys/devices/x", VendorID: "0403", ProductID: "6001"}
	s := p.String()
	if len(s) == 0 {
		t.Fatal("empty String()")
	}
}
