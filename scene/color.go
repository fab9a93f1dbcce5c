package scene

import (
	"fmt"
	"image/color"
)

// Color is a packed 32-bit colour. The red channel occupies the low byte,
// followed by green, blue and alpha in the high byte.
type Color uint32

// Common colours.
const (
	Black       Color = 0xFF000000
	White       Color = 0xFFFFFFFF
	Transparent Color = 0x00FFFFFF
)

// RGBA packs the four channels into a Color.
func RGBA(r, g, b, a uint8) Color {
	return Color(uint32(r) | uint32(g)<<8 | uint32(b)<<16 | uint32(a)<<24)
}

// RGB packs an opaque colour.
func RGB(r, g, b uint8) Color {
	return RGBA(r, g, b, 0xFF)
}

// Red returns the red channel.
func (c Color) Red() uint8 { return uint8(c) }

// Green returns the green channel.
func (c Color) Green() uint8 { return uint8(c >> 8) }

// Blue returns the blue channel.
func (c Color) Blue() uint8 { return uint8(c >> 16) }

// Alpha returns the alpha channel.
func (c Color) Alpha() uint8 { return uint8(c >> 24) }

// Transparent reports whether the colour has zero alpha.
func (c Color) Transparent() bool { return c.Alpha() == 0 }

// Opaque reports whether the colour has full alpha.
func (c Color) Opaque() bool { return c.Alpha() == 0xFF }

// Opacity returns the alpha channel as a fraction in [0, 1].
func (c Color) Opacity() float64 { return float64(c.Alpha()) / 255 }

// Hex formats the colour channels as #RRGGBB, ignoring alpha.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.Red(), c.Green(), c.Blue())
}

// NRGBA converts the colour to a non-premultiplied standard colour.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.Red(), G: c.Green(), B: c.Blue(), A: c.Alpha()}
}

// Premultiplied converts the colour to an alpha-premultiplied standard colour.
// Colour channels are scaled by alpha/255 unless the colour is opaque.
func (c Color) Premultiplied() color.RGBA {
	a := c.Alpha()
	if a == 0xFF {
		return color.RGBA{R: c.Red(), G: c.Green(), B: c.Blue(), A: a}
	}
	return color.RGBA{
		R: uint8(uint32(c.Red()) * uint32(a) / 0xFF),
		G: uint8(uint32(c.Green()) * uint32(a) / 0xFF),
		B: uint8(uint32(c.Blue()) * uint32(a) / 0xFF),
		A: a,
	}
}

// String implements fmt.Stringer.
func (c Color) String() string {
	if c.Opaque() {
		return c.Hex()
	}
	return fmt.Sprintf("%s@%d", c.Hex(), c.Alpha())
}
