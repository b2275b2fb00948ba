package lib

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// EncodeQRCode renders content as a PNG QR code of size x size pixels.
func EncodeQRCode(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, fmt.Errorf("qr code content is empty")
	}
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(content, qrcode.Medium, size)
}
