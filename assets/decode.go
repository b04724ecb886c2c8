package assets

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // register GIF
	_ "image/jpeg" // register JPEG
	"image/png"

	_ "golang.org/x/image/bmp"  // register BMP
	_ "golang.org/x/image/webp" // register WebP

	"github.com/lvillar/deckforge"
)

// Decode decodes image bytes in any registered format.
func Decode(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: decoding: %v", deckforge.ErrImageUnavailable, err)
	}
	return img, format, nil
}

// Embeddable is an image ready to be embedded in a document package.
type Embeddable struct {
	Data   []byte
	Ext    string // "png" or "jpeg"
	Width  int
	Height int
}

// MakeEmbeddable returns data unchanged when it is PNG or JPEG and
// re-encodes any other decodable format to PNG.
func MakeEmbeddable(data []byte) (*Embeddable, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding: %v", deckforge.ErrImageUnavailable, err)
	}
	switch format {
	case "png", "jpeg":
		return &Embeddable{Data: data, Ext: format, Width: cfg.Width, Height: cfg.Height}, nil
	}
	img, _, err := Decode(data)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("assets: re-encoding %s as PNG: %w", format, err)
	}
	return &Embeddable{Data: buf.Bytes(), Ext: "png", Width: cfg.Width, Height: cfg.Height}, nil
}
