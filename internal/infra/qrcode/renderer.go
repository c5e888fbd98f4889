package qrcode

import (
	"errors"

	goqrcode "github.com/skip2/go-qrcode"
)

const DefaultSize = 256

var ErrEmptyContent = errors.New("qr content is empty")

// PNGRenderer encodes payloads with medium error correction, which survives
// a scratched phone screen under a pump canopy.
type PNGRenderer struct {
	size int
}

func NewPNGRenderer() *PNGRenderer {
	return &PNGRenderer{size: DefaultSize}
}

func (r *PNGRenderer) RenderPNG(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}
	if size <= 0 {
		size = r.size
	}
	return goqrcode.Encode(content, goqrcode.Medium, size)
}
