package bandstrip

import "image"

// Entry is one item of an archive listing.
type Entry struct {
	Name  string
	IsDir bool
}

// ArchiveReader exposes an archive in its native listing order.
//
// Entries must return entries in the order the archive stores them.
// That order becomes the stacking order of the strip, so a reader that
// sorts or shuffles its listing changes the output.
type ArchiveReader interface {
	Entries() []Entry
	Read(name string) ([]byte, error)
}

// ArchiveWriter collects named files and serializes them once.
type ArchiveWriter interface {
	Add(name string, data []byte) error
	Finish() ([]byte, error)
}

// ImageCodec decodes source images and encodes pipeline outputs.
// EncodeLossy must be deterministic for identical input and quality.
type ImageCodec interface {
	Decode(data []byte) (image.Image, error)
	EncodeLossy(img image.Image, quality float64) ([]byte, error)
	EncodeLossless(img image.Image) ([]byte, error)
}
