package bandstrip

import (
	"fmt"
	"io"
	"log/slog"
)

const (
	// Parts is the number of vertical bands cut from the strip.
	Parts = 5
	// MaxStripHeight is the tallest raster the strip may have.
	MaxStripHeight = 65000
	// DefaultBandWidth is the output width of every resampled band.
	DefaultBandWidth = 152
	// DefaultQuality is the JPEG quality fraction used for bands.
	DefaultQuality = 0.92
)

type Options struct {
	// Lossy encoding quality of the bands, in [0,1].
	// 0.92 keeps artifacts invisible at thumbnail sizes.
	// Values below ~0.5 produce visible blocking on photo content.
	Quality float64
	// Width in pixels every band is resampled to. Height is never changed.
	BandWidth int
	// Strip height ceiling. Stacks taller than this are scaled down
	// uniformly on both axes. Must be in (0, MaxStripHeight].
	MaxHeight int
	// Number of goroutines resampling and encoding bands.
	// Output bytes do not depend on it. Values above Parts are clamped.
	Workers int
	// Destination of pipeline logs. Nil discards them.
	Logger *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		Quality:   DefaultQuality,
		BandWidth: DefaultBandWidth,
		MaxHeight: MaxStripHeight,
		Workers:   Parts,
	}
}

// Validate reports the first option outside its accepted range.
func (o Options) Validate() error {
	if o.Quality < 0 || o.Quality > 1 {
		return fmt.Errorf("quality %v outside [0,1]", o.Quality)
	}
	if o.BandWidth <= 0 {
		return fmt.Errorf("band width %d must be positive", o.BandWidth)
	}
	if o.MaxHeight <= 0 || o.MaxHeight > MaxStripHeight {
		return fmt.Errorf("max height %d outside (0,%d]", o.MaxHeight, MaxStripHeight)
	}
	return nil
}

func (o Options) workers() int {
	return clampInt(o.Workers, 1, Parts)
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
