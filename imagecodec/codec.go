// Package imagecodec decodes PNG, JPEG and WebP sources and encodes the
// pipeline outputs: JPEG for bands, PNG for the composite strip.
package imagecodec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"math"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

var errEmptyImage = errors.New("image has no pixels")

// Codec implements bandstrip.ImageCodec. The zero value is ready to use.
type Codec struct {
	// PNG compression level for lossless output.
	Compression png.CompressionLevel
}

func New() *Codec {
	return &Codec{Compression: png.DefaultCompression}
}

// Decode sniffs the format from the data itself, not from a file name.
func (c *Codec) Decode(data []byte) (image.Image, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%s: %w", format, errEmptyImage)
	}
	return img, nil
}

// EncodeLossy encodes img as baseline JPEG. quality is a fraction in [0,1].
func (c *Codec) EncodeLossy(img image.Image, quality float64) ([]byte, error) {
	if quality < 0 || quality > 1 || math.IsNaN(quality) {
		return nil, fmt.Errorf("quality %v outside [0,1]", quality)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(JPEGQuality(quality))); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *Codec) EncodeLossless(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(c.Compression)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// JPEGQuality maps a [0,1] fraction to the 1..100 JPEG quality scale.
func JPEGQuality(quality float64) int {
	q := int(math.Round(quality * 100))
	return max(1, min(100, q))
}
