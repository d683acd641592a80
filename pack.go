package bandstrip

import "fmt"

// PackBands writes bands into w as part1.jpg ... part5.jpg, in index
// order, and returns the finished archive.
func PackBands(w ArchiveWriter, bands [Parts]Band) ([]byte, error) {
	for i, band := range bands {
		if band.Range.Index != i+1 || band.Data == nil {
			return nil, fmt.Errorf("band %d is missing", i+1)
		}
	}
	for _, band := range bands {
		if err := w.Add(band.Range.Name(), band.Data); err != nil {
			return nil, fmt.Errorf("add %s: %w", band.Range.Name(), err)
		}
	}
	data, err := w.Finish()
	if err != nil {
		return nil, fmt.Errorf("finish archive: %w", err)
	}
	return data, nil
}
