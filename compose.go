package bandstrip

import (
	"context"
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"
)

// StripPlan is the geometry of a composite strip.
type StripPlan struct {
	// Most frequent source width, the normalization target before capping.
	ModeWidth int
	// Sum of the normalized source heights, before capping.
	TotalHeight int
	// Uniform factor applied to both axes to respect the height ceiling.
	Scale float64
	// Final strip size.
	Width, Height int
	// Destination of each source image, top to bottom in source order.
	Rects []image.Rectangle
}

// ModeWidth returns the most frequent value of widths. Among widths that
// share the highest frequency, the one occurring latest in widths wins.
func ModeWidth(widths []int) int {
	counts := make(map[int]int, len(widths))
	for _, w := range widths {
		counts[w]++
	}
	mode, best := 0, 0
	for _, w := range widths {
		if c := counts[w]; c >= best {
			mode, best = w, c
		}
	}
	return mode
}

// PlanStrip computes where each image of the given sizes lands in the
// strip. Every image is normalized to the mode width keeping its aspect
// ratio; when the stack exceeds maxHeight the whole strip shrinks by
// maxHeight/total on both axes.
func PlanStrip(sizes []image.Point, maxHeight int) (StripPlan, error) {
	if len(sizes) == 0 {
		return StripPlan{}, ErrEmptyInput
	}
	widths := make([]int, len(sizes))
	for i, s := range sizes {
		if s.X <= 0 || s.Y <= 0 {
			return StripPlan{}, &DimensionLimitError{Width: s.X, Height: s.Y,
				Reason: fmt.Sprintf("image %d has no pixels", i+1)}
		}
		widths[i] = s.X
	}
	mode := ModeWidth(widths)

	heights := make([]int, len(sizes))
	total := 0
	for i, s := range sizes {
		h := int(math.Round(float64(s.Y) * float64(mode) / float64(s.X)))
		heights[i] = max(h, 1)
		total += heights[i]
	}

	plan := StripPlan{ModeWidth: mode, TotalHeight: total, Scale: 1}
	if total <= 0 {
		return StripPlan{}, &DimensionLimitError{Width: mode, Height: total, Reason: "empty stack"}
	}
	plan.Height = total
	if total > maxHeight {
		plan.Scale = float64(maxHeight) / float64(total)
		plan.Height = maxHeight
	}
	plan.Width = max(int(math.Round(float64(mode)*plan.Scale)), 1)

	plan.Rects = make([]image.Rectangle, len(sizes))
	cum, top := 0, 0
	for i, h := range heights {
		cum += h
		bottom := int(math.Round(float64(cum) * plan.Scale))
		if i == len(heights)-1 {
			bottom = plan.Height
		}
		if bottom <= top {
			return StripPlan{}, &DimensionLimitError{Width: plan.Width, Height: plan.Height,
				Reason: fmt.Sprintf("image %d collapses to zero rows", i+1)}
		}
		plan.Rects[i] = image.Rect(0, top, plan.Width, bottom)
		top = bottom
	}
	return plan, nil
}

// Sizes returns the pixel dimensions of images.
func Sizes(images []image.Image) []image.Point {
	out := make([]image.Point, len(images))
	for i, img := range images {
		out[i] = img.Bounds().Size()
	}
	return out
}

// Compose draws images into a new strip following plan. Each source is
// resampled once, straight to its final rectangle.
func Compose(ctx context.Context, images []image.Image, plan StripPlan) (*image.RGBA, error) {
	if len(images) != len(plan.Rects) {
		return nil, fmt.Errorf("plan has %d rects for %d images", len(plan.Rects), len(images))
	}
	if plan.Height > MaxStripHeight {
		return nil, &DimensionLimitError{Width: plan.Width, Height: plan.Height, Reason: "exceeds height ceiling"}
	}
	strip := image.NewRGBA(image.Rect(0, 0, plan.Width, plan.Height))
	for i, img := range images {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		draw.CatmullRom.Scale(strip, plan.Rects[i], img, img.Bounds(), draw.Src, nil)
	}
	return strip, nil
}
