package utils

import (
	"image"
	"image/color"
	"math"
	"strings"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/setanarut/bandstrip"
)

func fill(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestParsePaletteMethod(t *testing.T) {
	for _, m := range []PaletteMethod{PaletteMethodDominantColor, PaletteMethodKMeans} {
		got, err := ParsePaletteMethod(m.String())
		if err != nil || got != m {
			t.Errorf("ParsePaletteMethod(%q) = %v, %v", m.String(), got, err)
		}
	}
	if _, err := ParsePaletteMethod("octree"); err == nil {
		t.Error("unknown method accepted")
	}
}

func TestSortPaletteByBrightness(t *testing.T) {
	palette := []colorful.Color{{R: 1, G: 1, B: 1}, {}, {R: 0.5, G: 0.5, B: 0.5}}
	SortPaletteByBrightness(palette)
	got := HexPalette(palette)
	want := []string{"#000000", "#808080", "#ffffff"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sorted = %v, want %v", got, want)
		}
	}
}

func TestLuminanceStats(t *testing.T) {
	mean, std := LuminanceStats(fill(8, 8, color.NRGBA{R: 255, G: 255, B: 255, A: 255}))
	if math.Abs(mean-1) > 1e-9 || std > 1e-9 {
		t.Errorf("white: mean %v std %v", mean, std)
	}

	half := fill(8, 8, color.NRGBA{A: 255})
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			half.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	mean, std = LuminanceStats(half)
	if math.Abs(mean-0.5) > 1e-9 || std < 0.45 {
		t.Errorf("half: mean %v std %v", mean, std)
	}

	if mean, std := LuminanceStats(fill(1, 1, color.NRGBA{A: 255})); mean != 0 || std != 0 {
		t.Errorf("single black pixel: mean %v std %v", mean, std)
	}
}

func TestDigest(t *testing.T) {
	a := Digest([]byte("part1"))
	if len(a) != 64 {
		t.Fatalf("digest length %d", len(a))
	}
	if a != Digest([]byte("part1")) || a == Digest([]byte("part2")) {
		t.Error("digest is not a function of its input")
	}
}

func TestExtractPalette(t *testing.T) {
	img := fill(16, 16, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
	for i := 0; i < 8; i++ {
		for x := 0; x < 16; x++ {
			img.SetNRGBA(x, i, color.NRGBA{R: 20, G: 40, B: 220, A: 255})
		}
	}
	for _, m := range []PaletteMethod{PaletteMethodDominantColor, PaletteMethodKMeans} {
		p := ExtractPalette(img, 3, m, nil)
		if len(p) == 0 || len(p) > 3 {
			t.Errorf("%v: palette has %d colors", m, len(p))
		}
	}
	if p := ExtractPalette(img, 0, PaletteMethodKMeans, nil); len(p) != 0 {
		t.Errorf("k=0 returned %d colors", len(p))
	}
}

func TestBuildReport(t *testing.T) {
	ranges, err := bandstrip.BandRanges(300)
	if err != nil {
		t.Fatal(err)
	}
	res := &bandstrip.Result{
		Plan: bandstrip.StripPlan{
			ModeWidth: 300, Scale: 1, Width: 300, Height: 20, TotalHeight: 20,
			Rects: []image.Rectangle{image.Rect(0, 0, 300, 20)},
		},
		Composite: []byte("png"),
	}
	for i, r := range ranges {
		res.Bands[i] = bandstrip.Band{
			Range: r,
			Image: fill(152, 20, color.NRGBA{R: uint8(50 * i), G: 80, B: 80, A: 255}),
			Data:  []byte(r.Name()),
		}
	}

	report := BuildReport(res, ReportOptions{PaletteSize: 2})
	if report.Strip.Images != 1 || report.Strip.Width != 300 || report.Strip.CompositeHash != Digest([]byte("png")) {
		t.Errorf("strip summary = %+v", report.Strip)
	}
	if len(report.Bands) != bandstrip.Parts {
		t.Fatalf("%d band summaries", len(report.Bands))
	}
	for i, b := range report.Bands {
		if b.Name != ranges[i].Name() || b.Width != 152 || b.Height != 20 {
			t.Errorf("band %d = %+v", i+1, b)
		}
		if b.Hash != Digest([]byte(ranges[i].Name())) {
			t.Errorf("band %d hash mismatch", i+1)
		}
		if len(b.Palette) == 0 {
			t.Errorf("band %d has no palette", i+1)
		}
		if i > 0 && b.LumMean <= report.Bands[i-1].LumMean {
			t.Errorf("band %d luminance %v not above band %d", i+1, b.LumMean, i)
		}
	}

	data, err := report.YAML()
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"mode_width: 300", "name: part5.jpg", "luminance_mean:"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("report YAML missing %q:\n%s", want, data)
		}
	}
}
