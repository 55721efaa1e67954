package hw

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// KeyMap is the legend of the 4x4 membrane keypad, row by row.
var KeyMap = [4][4]rune{
	{'1', '2', '3', 'A'},
	{'4', '5', '6', 'B'},
	{'7', '8', '9', 'C'},
	{'*', '0', '#', 'D'},
}

// DefaultDebounce is how long a key must read stable before it is reported.
const DefaultDebounce = 50 * time.Millisecond

// Scanner reads the raw key currently down, or 0 when none is.
type Scanner interface {
	Scan() rune
}

// MatrixScanner scans a 4x4 matrix: columns are driven low one at a time and
// the pulled-up rows read low where a key bridges them.
type MatrixScanner struct {
	rows []gpio.PinIO
	cols []gpio.PinIO
}

// NewMatrixScanner configures the row pins as pulled-up inputs and the
// column pins as outputs idling high.
func NewMatrixScanner(rows, cols []gpio.PinIO) (*MatrixScanner, error) {
	if len(rows) != 4 || len(cols) != 4 {
		return nil, fmt.Errorf("hw: keypad needs 4x4 pins, got %dx%d", len(rows), len(cols))
	}
	for _, p := range rows {
		if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
			return nil, fmt.Errorf("hw: keypad row %s: %w", p, err)
		}
	}
	for _, p := range cols {
		if err := p.Out(gpio.High); err != nil {
			return nil, fmt.Errorf("hw: keypad column %s: %w", p, err)
		}
	}
	return &MatrixScanner{rows: rows, cols: cols}, nil
}

// Scan returns the first key found down.
func (m *MatrixScanner) Scan() rune {
	for c, col := range m.cols {
		if err := col.Out(gpio.Low); err != nil {
			continue
		}
		for r, row := range m.rows {
			if row.Read() == gpio.Low {
				col.Out(gpio.High)
				return KeyMap[r][c]
			}
		}
		col.Out(gpio.High)
	}
	return 0
}

// Keypad debounces a Scanner and reports each key once, when it goes down.
type Keypad struct {
	scan     Scanner
	debounce time.Duration

	raw      rune      // Last raw reading
	since    time.Time // When raw last changed
	reported rune      // Last stable key, 0 when released
}

// NewKeypad wraps a scanner. A zero debounce uses DefaultDebounce.
func NewKeypad(s Scanner, debounce time.Duration) *Keypad {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Keypad{scan: s, debounce: debounce}
}

// Poll samples the keypad. It returns a key only on the poll where a new
// key has been stable for the debounce time; holding a key or releasing it
// reports nothing.
func (k *Keypad) Poll(now time.Time) (rune, bool) {
	raw := k.scan.Scan()
	if raw != k.raw {
		k.raw = raw
		k.since = now
	}
	if now.Sub(k.since) < k.debounce || raw == k.reported {
		return 0, false
	}
	k.reported = raw
	if raw == 0 {
		return 0, false
	}
	return raw, true
}

// Close is a no-op; pins are released with the host.
func (k *Keypad) Close() error { return nil }
