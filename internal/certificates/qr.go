package certificates

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

const DefaultQRSize = 256

// VerificationURL is the public page a QR code points at.
func VerificationURL(baseURL, certificateNumber, code string) string {
	q := url.Values{}
	q.Set("cert", certificateNumber)
	q.Set("code", code)
	return strings.TrimRight(strings.TrimSpace(baseURL), "/") + "/verify-certificate?" + q.Encode()
}

// QRPNG encodes content as a PNG QR code with medium error correction.
func QRPNG(content string, size int) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("qr content required")
	}
	if size <= 0 {
		size = DefaultQRSize
	}
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}

func QRDataURL(content string) (string, error) {
	png, err := QRPNG(content, DefaultQRSize)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
