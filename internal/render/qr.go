// internal/render/qr.go
package render

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const qrSizePixels = 200

// qrDataURL encodes the verification reference as a scannable PNG data URL
// suitable for direct embedding in an <img> tag.
func qrDataURL(content string) (string, error) {
	png, err := qrcode.Encode(content, qrcode.High, qrSizePixels)
	if err != nil {
		return "", fmt.Errorf("failed to encode QR code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
