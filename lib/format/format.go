// Package format parses and renders the ASCII forms SCPI instruments
// put on the wire: comma-separated numeric replies, IEEE 488.2
// definite-length blocks, and quoted display strings.
package format

import (
	"fmt"
	"strconv"
	"strings"
)

// Floats parses a comma-separated numeric reply such as
// `+4.98748741E-01,+5.01236992E-01`. Whitespace around elements and a
// trailing terminator are tolerated; an empty reply is an error.
func Floats(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty reply")
	}
	elems := strings.Split(s, ",")
	vals := make([]float64, 0, len(elems))
	for _, e := range elems {
		f, err := strconv.ParseFloat(strings.TrimSpace(e), 64)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", e, err)
		}
		vals = append(vals, f)
	}
	return vals, nil
}

// Number renders a command argument. Integral values print without a
// decimal point (OUTP:LOAD 50, VOLT:OFFS 0), everything else in the
// shortest form that round-trips.
func Number(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// UnpackBlock strips the header from an IEEE 488.2 definite-length
// arbitrary block: '#', one digit giving the length of the length
// field, the payload length, then the payload.
//
// A trailing newline after the payload is tolerated; anything else
// left over is an error.
func UnpackBlock(b []byte) ([]byte, error) {
	if len(b) < 2 || b[0] != '#' {
		return nil, fmt.Errorf("invalid block header: want #, got %q", b)
	}
	nd := int(b[1] - '0')
	if nd < 1 || nd > 9 || len(b) < 2+nd {
		return nil, fmt.Errorf("invalid block length digit %q", b[1])
	}
	n, err := strconv.Atoi(string(b[2 : 2+nd]))
	if err != nil {
		return nil, fmt.Errorf("invalid block length field: %w", err)
	}
	data := b[2+nd:]
	if len(data) < n {
		return nil, fmt.Errorf("short block: want %d bytes, have %d", n, len(data))
	}
	if rest := data[n:]; len(rest) > 0 && string(rest) != "\n" && string(rest) != "\r\n" {
		return nil, fmt.Errorf("%d bytes after block payload", len(rest))
	}
	return data[:n], nil
}

// QuoteDisplay wraps s for a DISP:TEXT command. The wire convention is
// a double-quoted string with no escape mechanism, so embedded double
// quotes cannot be represented and are rejected.
func QuoteDisplay(s string) (string, error) {
	if strings.Contains(s, `"`) {
		return "", fmt.Errorf("display text %q contains a double quote, which cannot be sent", s)
	}
	return `"` + s + `"`, nil
}
