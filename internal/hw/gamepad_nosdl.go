//go:build !cgo || nosdl

package hw

import "errors"

var errNoSDL = errors.New("hw: built without SDL (cgo disabled or nosdl tag)")

// OpenSDLPad reports that gamepads are unavailable in this build. The
// console keeps polling and runs on the keypad and keyboard alone.
func OpenSDLPad(int) (PadDevice, error) {
	return nil, errNoSDL
}
