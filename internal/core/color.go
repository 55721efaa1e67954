package core

import "image/color"

// Color is a palette index shared by the HDMI screen and the small SPI display.
// The HDMI terminal maps it to ANSI codes, the SPI display to RGB.
type Color uint8

// Palette entries used by the console and games.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorOrange
	ColorGray
	ColorGold
	ColorPink
	ColorBlack
)

var rgbPalette = map[Color]color.RGBA{
	ColorDefault: {R: 255, G: 255, B: 255, A: 255},
	ColorRed:     {R: 255, G: 0, B: 0, A: 255},
	ColorGreen:   {R: 0, G: 255, B: 0, A: 255},
	ColorYellow:  {R: 255, G: 255, B: 0, A: 255},
	ColorBlue:    {R: 0, G: 0, B: 255, A: 255},
	ColorMagenta: {R: 255, G: 0, B: 255, A: 255},
	ColorCyan:    {R: 0, G: 255, B: 255, A: 255},
	ColorWhite:   {R: 255, G: 255, B: 255, A: 255},
	ColorOrange:  {R: 255, G: 165, B: 0, A: 255},
	ColorGray:    {R: 150, G: 150, B: 150, A: 255},
	ColorGold:    {R: 255, G: 215, B: 0, A: 255},
	ColorPink:    {R: 255, G: 20, B: 147, A: 255},
	ColorBlack:   {R: 0, G: 0, B: 0, A: 255},
}

// RGBA returns the RGB value of the palette entry. Unknown entries are white.
func (c Color) RGBA() color.RGBA {
	if rgb, ok := rgbPalette[c]; ok {
		return rgb
	}
	return rgbPalette[ColorWhite]
}
