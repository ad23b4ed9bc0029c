package services

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// EncodeQR renders the verification payload as a square PNG of the given
// pixel size. Failures here are environment errors, not domain errors.
func EncodeQR(payload string, size int) ([]byte, error) {
	png, err := qrcode.Encode(payload, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR payload: %w", err)
	}
	return png, nil
}
