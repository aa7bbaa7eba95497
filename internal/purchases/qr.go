package purchases

import (
	"bytes"
	"image/png"

	"github.com/skip2/go-qrcode"
)

const ticketQRSize = 256

// generateTicketQR renders the ticket code as a PNG QR image.
func generateTicketQR(content string, size int) ([]byte, error) {
	qr, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, qr.Image(size)); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
