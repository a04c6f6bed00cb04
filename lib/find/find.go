// Package find locates USB serial adapters by walking /sys/class/tty,
// so programs can default to the right port without the user passing
// -port every run.
package find

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Port describes one USB-attached tty.
type Port struct {
	Dev     string // device name, e.g. ttyACM0
	SysPath string // resolved /sys path

	VendorID  string
	ProductID string
	Mfg       string
	Product   string
	Serial    string
}

func (p Port) String() string {
	return fmt.Sprintf("dev %s path %s vid/pid %s/%s mfg/prod %s/%s serial %s",
		p.Dev, p.SysPath, p.VendorID, p.ProductID, p.Mfg, p.Product, p.Serial)
}

// Filter narrows the candidate ports; the first match wins.
type Filter func(*Port) bool

// Arduino matches AR488-style adapters built on Arduino boards.
func Arduino(p *Port) bool {
	return strings.Contains(p.Mfg, "Arduino")
}

// PiPico matches Raspberry Pi Pico based adapters.
func PiPico(p *Port) bool {
	return p.Mfg == "Raspberry Pi" && p.Product == "Pico"
}

// BySerial matches the adapter with the given USB serial string.
func BySerial(serial string) Filter {
	return func(p *Port) bool { return p.Serial == serial }
}

// Find returns the device name (e.g. ttyUSB0) of the single matching
// USB tty. With a nil filter every USB tty is a candidate; anything
// other than exactly one candidate is an error.
func Find(filter Filter) (string, error) {
	ports, err := List()
	if err != nil {
		return "", err
	}
	if filter != nil {
		for i := range ports {
			if filter(&ports[i]) {
				return ports[i].Dev, nil
			}
		}
		return "", fmt.Errorf("no usb tty matched the filter (of %d)", len(ports))
	}
	switch len(ports) {
	case 0:
		return "", fmt.Errorf("no usb ttys found")
	case 1:
		return ports[0].Dev, nil
	}
	return "", fmt.Errorf("multiple usb ttys: %v", ports)
}

// usb attribute files live one level above the tty's device link
var usbAttrs = []string{"idVendor", "idProduct", "manufacturer", "product", "serial"}

// List enumerates USB ttys via the /sys/class/tty symlinks.
func List() ([]Port, error) {
	const sct = "/sys/class/tty/"
	entries, err := os.ReadDir(sct)
	if err != nil {
		return nil, err
	}
	var ports []Port
	for _, e := range entries {
		if e.Type()&fs.ModeSymlink == 0 {
			continue
		}
		abs, err := filepath.EvalSymlinks(filepath.Join(sct, e.Name()))
		if err != nil {
			log.Printf("skipping %s: %s", e.Name(), err)
			continue
		}
		if !strings.Contains(abs, "usb") {
			continue
		}
		dev, err := filepath.EvalSymlinks(filepath.Join(abs, "device"))
		if err != nil {
			log.Printf("usb tty %s lacks device link: %s", abs, err)
			continue
		}
		attrs, err := readAttrs(filepath.Dir(dev))
		if err != nil {
			log.Printf("%s: %s", abs, err)
		}
		ports = append(ports, Port{
			Dev:       e.Name(),
			SysPath:   abs,
			VendorID:  attrs["idVendor"],
			ProductID: attrs["idProduct"],
			Mfg:       attrs["manufacturer"],
			Product:   attrs["product"],
			Serial:    attrs["serial"],
		})
	}
	return ports, nil
}

// readAttrs reads the usb descriptor attribute files in dir. Missing
// files are normal (not every device reports a serial); the last
// other error is returned alongside whatever was read.
func readAttrs(dir string) (map[string]string, error) {
	attrs := make(map[string]string, len(usbAttrs))
	var err error
	for _, name := range usbAttrs {
		b, rerr := os.ReadFile(filepath.Join(dir, name))
		if rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
			err = rerr
		}
		attrs[name] = strings.TrimSpace(string(b))
	}
	return attrs, err
}
