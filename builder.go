package bandstrip

import (
	"context"
	"fmt"
	"image"
	"log/slog"
)

// Result holds everything a successful run produces.
type Result struct {
	Plan  StripPlan
	Strip *image.RGBA
	Bands [Parts]Band
	// Zip archive with part1.jpg ... part5.jpg.
	Archive []byte
	// Lossless encoding of the full strip.
	Composite []byte
}

type StripBuilder struct {
	Codec    ImageCodec
	Options  Options
	Progress ProgressFunc
}

func NewStripBuilder(codec ImageCodec, opt Options) *StripBuilder {
	return &StripBuilder{
		Codec:   codec,
		Options: opt,
	}
}

// Build runs the whole pipeline on archive. newWriter supplies the output
// archive. Nothing is returned unless every stage succeeds; on failure
// progress drops back to 0.
func (sb *StripBuilder) Build(ctx context.Context, archive ArchiveReader, newWriter func() ArchiveWriter) (*Result, error) {
	progress := newProgressTracker(sb.Progress)
	res, err := sb.build(ctx, archive, newWriter, progress)
	if err != nil {
		progress.reset()
		sb.Options.logger().Error("strip build failed", "error", err)
		return nil, err
	}
	return res, nil
}

func (sb *StripBuilder) build(ctx context.Context, archive ArchiveReader, newWriter func() ArchiveWriter, progress *progressTracker) (*Result, error) {
	opt := sb.Options
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	if sb.Codec == nil {
		return nil, fmt.Errorf("no image codec")
	}
	log := opt.logger()

	progress.set(10)
	progress.set(20)
	images, err := ExtractImages(ctx, archive, sb.Codec, func(done, total int) {
		progress.span(20, 50, done, total)
	})
	if err != nil {
		return nil, err
	}
	log.Debug("images decoded", "images", len(images))

	plan, err := PlanStrip(Sizes(images), opt.MaxHeight)
	if err != nil {
		return nil, err
	}
	strip, err := Compose(ctx, images, plan)
	if err != nil {
		return nil, err
	}
	progress.set(55)
	log.Info("strip composed",
		slog.Int("images", len(plan.Rects)),
		slog.Int("width", plan.Width),
		slog.Int("height", plan.Height),
		slog.Float64("scale", plan.Scale))

	progress.set(60)
	bands, err := Partition(ctx, strip, sb.Codec, opt, func(done int) {
		progress.span(60, 90, done, Parts)
	})
	if err != nil {
		return nil, err
	}
	for _, b := range bands {
		log.Debug("band encoded", "part", b.Range.Index, "left", b.Range.Left, "right", b.Range.Right, "bytes", len(b.Data))
	}

	packed, err := PackBands(newWriter(), bands)
	if err != nil {
		return nil, err
	}
	progress.set(95)

	composite, err := sb.Codec.EncodeLossless(strip)
	if err != nil {
		return nil, &EncodingError{Part: 0, Err: err}
	}
	progress.set(100)
	log.Info("bands packaged", "archive_bytes", len(packed), "composite_bytes", len(composite))

	return &Result{
		Plan:      plan,
		Strip:     strip,
		Bands:     bands,
		Archive:   packed,
		Composite: composite,
	}, nil
}
