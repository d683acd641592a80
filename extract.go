package bandstrip

import (
	"context"
	"errors"
	"image"
	"regexp"
)

var imageName = regexp.MustCompile(`(?i)\.(png|jpe?g|webp)$`)

// IsImageName reports whether name carries a supported image extension.
func IsImageName(name string) bool {
	return imageName.MatchString(name)
}

// ImageEntries filters the archive listing to decodable image files,
// keeping the archive's order.
func ImageEntries(archive ArchiveReader) []Entry {
	var out []Entry
	for _, e := range archive.Entries() {
		if e.IsDir || !IsImageName(e.Name) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// ExtractImages decodes every image entry of archive in listing order.
// The first entry that fails to read or decode aborts the extraction.
// progress, when non-nil, is called after each decoded image.
func ExtractImages(ctx context.Context, archive ArchiveReader, codec ImageCodec, progress func(done, total int)) ([]image.Image, error) {
	entries := ImageEntries(archive)
	if len(entries) == 0 {
		return nil, ErrEmptyInput
	}
	images := make([]image.Image, 0, len(entries))
	for i, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := decodeEntry(archive, codec, e.Name)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
		if progress != nil {
			progress(i+1, len(entries))
		}
	}
	return images, nil
}

func decodeEntry(archive ArchiveReader, codec ImageCodec, name string) (image.Image, error) {
	data, err := archive.Read(name)
	if err != nil {
		return nil, &DecodeError{Name: name, Err: err}
	}
	img, err := codec.Decode(data)
	if err != nil {
		return nil, &DecodeError{Name: name, Err: err}
	}
	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, &DecodeError{Name: name, Err: errors.New("image has no pixels")}
	}
	return img, nil
}
