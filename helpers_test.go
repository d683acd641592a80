package bandstrip

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"sync/atomic"
)

// memArchive is an in-memory ArchiveReader keeping insertion order.
type memArchive struct {
	entries []Entry
	files   map[string][]byte
}

func newMemArchive() *memArchive {
	return &memArchive{files: map[string][]byte{}}
}

func (a *memArchive) add(name string, data []byte) *memArchive {
	a.entries = append(a.entries, Entry{Name: name})
	a.files[name] = data
	return a
}

func (a *memArchive) dir(name string) *memArchive {
	a.entries = append(a.entries, Entry{Name: name, IsDir: true})
	return a
}

func (a *memArchive) Entries() []Entry { return a.entries }

func (a *memArchive) Read(name string) ([]byte, error) {
	data, ok := a.files[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

// sizeCodec decodes "WxH" payloads into blank images and encodes images
// as their size, which keeps tests independent of real formats.
type sizeCodec struct {
	failEncode bool
	encodes    atomic.Int32
}

func (c *sizeCodec) Decode(data []byte) (image.Image, error) {
	var w, h int
	if _, err := fmt.Sscanf(string(data), "%dx%d", &w, &h); err != nil {
		return nil, fmt.Errorf("not a size: %q", data)
	}
	return image.NewRGBA(image.Rect(0, 0, w, h)), nil
}

func (c *sizeCodec) EncodeLossy(img image.Image, quality float64) ([]byte, error) {
	c.encodes.Add(1)
	if c.failEncode {
		return nil, errors.New("encoder broken")
	}
	s := img.Bounds().Size()
	return fmt.Appendf(nil, "%dx%d@%.2f", s.X, s.Y, quality), nil
}

func (c *sizeCodec) EncodeLossless(img image.Image) ([]byte, error) {
	s := img.Bounds().Size()
	return fmt.Appendf(nil, "%dx%d", s.X, s.Y), nil
}

type memWriter struct {
	names []string
	files map[string][]byte
}

func (w *memWriter) Add(name string, data []byte) error {
	if w.files == nil {
		w.files = map[string][]byte{}
	}
	w.names = append(w.names, name)
	w.files[name] = data
	return nil
}

func (w *memWriter) Finish() ([]byte, error) {
	return fmt.Appendf(nil, "%v", w.names), nil
}

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func near(a, b uint8) bool {
	d := int(a) - int(b)
	return d >= -2 && d <= 2
}
