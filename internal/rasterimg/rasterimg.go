// Package rasterimg converts packed-colour pixel buffers to standard images
// and PNG payloads.
package rasterimg

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"

	"github.com/gogpu/gd/scene"
)

// DataURIPrefix starts every inline PNG produced by this package.
const DataURIPrefix = "data:image/png;base64,"

// ErrEmptyData is returned when decoding an empty payload.
var ErrEmptyData = errors.New("rasterimg: empty data")

// Premultiplied converts packed colours to an alpha-premultiplied image.
// Pixels with alpha < 255 have each channel scaled by alpha/255.
func Premultiplied(w, h int, px []scene.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < w*h && i < len(px); i++ {
		c := px[i].Premultiplied()
		o := i * 4
		img.Pix[o+0] = c.R
		img.Pix[o+1] = c.G
		img.Pix[o+2] = c.B
		img.Pix[o+3] = c.A
	}
	return img
}

// NRGBA converts packed colours to a straight-alpha image.
func NRGBA(w, h int, px []scene.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < w*h && i < len(px); i++ {
		c := px[i]
		o := i * 4
		img.Pix[o+0] = c.Red()
		img.Pix[o+1] = c.Green()
		img.Pix[o+2] = c.Blue()
		img.Pix[o+3] = c.Alpha()
	}
	return img
}

// Pixels reads an image back into packed straight-alpha colours.
func Pixels(img image.Image) (w, h int, px []scene.Color) {
	b := img.Bounds()
	w, h = b.Dx(), b.Dy()
	px = make([]scene.Color, 0, w*h)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			px = append(px, scene.RGBA(c.R, c.G, c.B, c.A))
		}
	}
	return w, h, px
}

// EncodePNG encodes img as PNG with the default compression level.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.DefaultCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("rasterimg: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURI wraps PNG bytes into a base64 data URI.
func DataURI(pngData []byte) string {
	return DataURIPrefix + base64.StdEncoding.EncodeToString(pngData)
}

// Base64PNG encodes a packed pixel buffer as base64 PNG without a data URI
// prefix. An empty image yields an empty string.
func Base64PNG(w, h int, px []scene.Color) (string, error) {
	if w <= 0 || h <= 0 {
		return "", nil
	}
	data, err := EncodePNG(NRGBA(w, h, px))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DecodeBase64PNG reverses Base64PNG. A data URI prefix is accepted.
func DecodeBase64PNG(s string) (w, h int, px []scene.Color, err error) {
	s = strings.TrimPrefix(s, DataURIPrefix)
	if s == "" {
		return 0, 0, nil, ErrEmptyData
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("rasterimg: decode base64: %w", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return 0, 0, nil, fmt.Errorf("rasterimg: decode png: %w", err)
	}
	w, h, px = Pixels(img)
	return w, h, px, nil
}
