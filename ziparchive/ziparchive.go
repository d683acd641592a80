// Package ziparchive reads and writes zip files for the strip pipeline.
//
// The reader lists entries in central-directory order. When a name occurs
// more than once it is listed once, at its first position, and reads
// return the content of its last occurrence.
package ziparchive

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/setanarut/bandstrip"
)

type Reader struct {
	entries []bandstrip.Entry
	files   map[string]*zip.File
}

// NewReader parses a zip archive held in memory.
func NewReader(data []byte) (*Reader, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	r := &Reader{files: make(map[string]*zip.File, len(zr.File))}
	for _, f := range zr.File {
		if _, seen := r.files[f.Name]; !seen {
			r.entries = append(r.entries, bandstrip.Entry{
				Name:  f.Name,
				IsDir: f.FileInfo().IsDir(),
			})
		}
		r.files[f.Name] = f
	}
	return r, nil
}

// Open reads the zip file at path.
func Open(path string) (*Reader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewReader(data)
}

func (r *Reader) Entries() []bandstrip.Entry {
	return append([]bandstrip.Entry(nil), r.entries...)
}

func (r *Reader) Read(name string) ([]byte, error) {
	f, ok := r.files[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, os.ErrNotExist)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Writer builds a zip archive in memory.
type Writer struct {
	// Method is the compression method of added files.
	Method uint16
	// Modified stamps every entry; the zero value keeps output reproducible.
	Modified time.Time

	buf bytes.Buffer
	zw  *zip.Writer
}

func NewWriter() *Writer {
	w := &Writer{Method: zip.Deflate}
	w.zw = zip.NewWriter(&w.buf)
	return w
}

func (w *Writer) Add(name string, data []byte) error {
	fw, err := w.zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   w.Method,
		Modified: w.Modified,
	})
	if err != nil {
		return err
	}
	_, err = fw.Write(data)
	return err
}

// Finish closes the archive and returns its bytes.
func (w *Writer) Finish() ([]byte, error) {
	if err := w.zw.Close(); err != nil {
		return nil, err
	}
	return w.buf.Bytes(), nil
}
