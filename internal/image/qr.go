package imagepkg

import (
	"image/color"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/youruser/mockupapp/internal/apperr"
)

const (
	DefaultQRSize = 400
	MaxQRSize     = 4096
)

// GenerateQRPNG returns PNG bytes of a QR code for text. With transparent set
// the light modules are left clear so the code can be printed on any garment
// colour.
func GenerateQRPNG(text string, size int, transparent bool) ([]byte, error) {
	if text == "" {
		return nil, apperr.New(apperr.KindValidation, "qr text is empty")
	}
	if size <= 0 {
		size = DefaultQRSize
	}
	if size > MaxQRSize {
		return nil, apperr.New(apperr.KindValidation, "qr size %d exceeds %d", size, MaxQRSize)
	}
	q, err := qrcode.New(text, qrcode.Medium)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, err, "qr encode")
	}
	if transparent {
		q.BackgroundColor = color.Transparent
	}
	b, err := q.PNG(size)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindEncode, err, "qr png")
	}
	return b, nil
}
