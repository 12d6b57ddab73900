// Package qrcode renders pass content as PNG QR codes and reads it back from camera images.
package qrcode

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/makiuchi-d/gozxing"
	zxingqr "github.com/makiuchi-d/gozxing/qrcode"
	goqrcode "github.com/skip2/go-qrcode"
)

const (
	minSize = 64
	maxSize = 1024
)

// ErrNoCode is returned when an image holds no readable QR code.
var ErrNoCode = errors.New("qrcode: no readable code in image")

// Codec encodes with medium error recovery and decodes PNG or JPEG uploads.
type Codec struct {
	level goqrcode.RecoveryLevel
}

// New returns a Codec using medium recovery.
func New() *Codec {
	return &Codec{level: goqrcode.Medium}
}

// Encode renders content as a square PNG. The size is clamped to 64..1024 pixels.
func (c *Codec) Encode(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, errors.New("qrcode: empty content")
	}
	switch {
	case size < minSize:
		size = minSize
	case size > maxSize:
		size = maxSize
	}
	png, err := goqrcode.Encode(content, c.level, size)
	if err != nil {
		return nil, fmt.Errorf("qrcode: encode: %w", err)
	}
	return png, nil
}

// Decode returns the text of the first QR code found in the image.
func (c *Codec) Decode(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrNoCode
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("qrcode: read image: %w", err)
	}
	bitmap, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("qrcode: binarize: %w", err)
	}
	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}
	result, err := zxingqr.NewQRCodeReader().Decode(bitmap, hints)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoCode, err)
	}
	return result.GetText(), nil
}
