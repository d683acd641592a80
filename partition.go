package bandstrip

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/disintegration/imaging"
)

// BandRange is the half-open column span [Left, Right) of band Index (1-based).
type BandRange struct {
	Index       int
	Left, Right int
}

func (r BandRange) Width() int { return r.Right - r.Left }

// Name is the file name of the band inside the output archive.
func (r BandRange) Name() string { return fmt.Sprintf("part%d.jpg", r.Index) }

// Band is a resampled, encoded column slice of the strip.
type Band struct {
	Range BandRange
	Image *image.NRGBA
	Data  []byte
}

// BandRanges splits width columns into Parts contiguous ranges.
// The first Parts-1 ranges are width/Parts wide; the last absorbs the remainder.
func BandRanges(width int) ([Parts]BandRange, error) {
	var out [Parts]BandRange
	if width < Parts {
		return out, &DimensionLimitError{Width: width,
			Reason: fmt.Sprintf("narrower than %d bands", Parts)}
	}
	partWidth := width / Parts
	for i := 1; i <= Parts; i++ {
		right := i * partWidth
		if i == Parts {
			right = width
		}
		out[i-1] = BandRange{Index: i, Left: (i - 1) * partWidth, Right: right}
	}
	return out, nil
}

// Partition cuts strip into Parts bands, resamples each to opt.BandWidth
// columns at full strip height and encodes it with codec.EncodeLossy.
// Bands are processed by opt.Workers goroutines; the result is positional.
// progress, when non-nil, receives the number of finished bands; calls
// are serialized.
func Partition(ctx context.Context, strip *image.RGBA, codec ImageCodec, opt Options, progress func(done int)) ([Parts]Band, error) {
	var bands [Parts]Band
	b := strip.Bounds()
	ranges, err := BandRanges(b.Dx())
	if err != nil {
		return bands, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan BandRange)
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		done     int
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
		cancel()
	}

	for i, n := 0, opt.workers(); i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for r := range jobs {
				if ctx.Err() != nil {
					continue
				}
				band, err := renderBand(strip, r, codec, opt)
				if err != nil {
					fail(err)
					continue
				}
				mu.Lock()
				bands[r.Index-1] = band
				done++
				if progress != nil {
					progress(done)
				}
				mu.Unlock()
			}
		}()
	}

dispatch:
	for _, r := range ranges {
		select {
		case jobs <- r:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return [Parts]Band{}, firstErr
	}
	if err := ctx.Err(); err != nil {
		return [Parts]Band{}, err
	}
	return bands, nil
}

func renderBand(strip *image.RGBA, r BandRange, codec ImageCodec, opt Options) (Band, error) {
	b := strip.Bounds()
	view := strip.SubImage(image.Rect(b.Min.X+r.Left, b.Min.Y, b.Min.X+r.Right, b.Max.Y))
	resized := imaging.Resize(view, opt.BandWidth, b.Dy(), imaging.Lanczos)
	data, err := codec.EncodeLossy(resized, opt.Quality)
	if err != nil {
		return Band{}, &EncodingError{Part: r.Index, Err: err}
	}
	return Band{Range: r, Image: resized, Data: data}, nil
}
