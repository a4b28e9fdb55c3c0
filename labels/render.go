package labels

import (
	"bytes"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/qr"
)

// Code128Options are cosmetic only; they never affect the encoded
// identity.
type Code128Options struct {
	Width  int
	Height int
}

func (o Code128Options) withDefaults() Code128Options {
	if o.Width <= 0 {
		o.Width = 400
	}
	if o.Height <= 0 {
		o.Height = 120
	}
	return o
}

// RenderCode128 renders a barcode number as a Code128 PNG.
func RenderCode128(text string, opts Code128Options) ([]byte, error) {
	opts = opts.withDefaults()

	code, err := code128.Encode(text)
	if err != nil {
		return nil, err
	}

	scaled, err := barcode.Scale(code, opts.Width, opts.Height)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderQR renders a payload as a QR PNG.
func RenderQR(text string) ([]byte, error) {
	code, err := qr.Encode(text, qr.L, qr.Auto)
	if err != nil {
		return nil, err
	}

	scaled, err := barcode.Scale(code, 256, 256)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
