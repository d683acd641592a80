package utils

import (
	"encoding/hex"
	"image"
	"log/slog"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/setanarut/bandstrip"
	"github.com/zeebo/blake3"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"
)

type ReportOptions struct {
	// Colors listed per band. Zero disables palettes.
	PaletteSize int
	Method      PaletteMethod
	Logger      *slog.Logger
}

type Report struct {
	Strip StripSummary  `yaml:"strip"`
	Bands []BandSummary `yaml:"bands"`
}

type StripSummary struct {
	Images         int     `yaml:"images"`
	ModeWidth      int     `yaml:"mode_width"`
	Scale          float64 `yaml:"scale"`
	Width          int     `yaml:"width"`
	Height         int     `yaml:"height"`
	CompositeBytes int     `yaml:"composite_bytes"`
	CompositeHash  string  `yaml:"composite_blake3"`
}

type BandSummary struct {
	Name    string   `yaml:"name"`
	Left    int      `yaml:"left"`
	Right   int      `yaml:"right"`
	Width   int      `yaml:"width"`
	Height  int      `yaml:"height"`
	Bytes   int      `yaml:"bytes"`
	Hash    string   `yaml:"blake3"`
	LumMean float64  `yaml:"luminance_mean"`
	LumStd  float64  `yaml:"luminance_stddev"`
	Palette []string `yaml:"palette,omitempty"`
}

// Digest is the hex BLAKE3-256 of data.
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// LuminanceStats returns the mean and standard deviation of the relative
// luminance of every pixel of img.
func LuminanceStats(img image.Image) (mean, std float64) {
	b := img.Bounds()
	if b.Empty() {
		return 0, 0
	}
	lum := make([]float64, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c, _ := colorful.MakeColor(img.At(x, y))
			lum = append(lum, Luminance(c))
		}
	}
	if len(lum) == 1 {
		return lum[0], 0
	}
	return stat.MeanStdDev(lum, nil)
}

// BuildReport summarizes a finished run.
func BuildReport(res *bandstrip.Result, opt ReportOptions) Report {
	r := Report{
		Strip: StripSummary{
			Images:         len(res.Plan.Rects),
			ModeWidth:      res.Plan.ModeWidth,
			Scale:          res.Plan.Scale,
			Width:          res.Plan.Width,
			Height:         res.Plan.Height,
			CompositeBytes: len(res.Composite),
			CompositeHash:  Digest(res.Composite),
		},
		Bands: make([]BandSummary, 0, bandstrip.Parts),
	}
	for _, band := range res.Bands {
		size := band.Image.Bounds().Size()
		mean, std := LuminanceStats(band.Image)
		s := BandSummary{
			Name:    band.Range.Name(),
			Left:    band.Range.Left,
			Right:   band.Range.Right,
			Width:   size.X,
			Height:  size.Y,
			Bytes:   len(band.Data),
			Hash:    Digest(band.Data),
			LumMean: mean,
			LumStd:  std,
		}
		if opt.PaletteSize > 0 {
			palette := ExtractPalette(band.Image, opt.PaletteSize, opt.Method, opt.Logger)
			SortPaletteByBrightness(palette)
			s.Palette = HexPalette(palette)
		}
		r.Bands = append(r.Bands, s)
	}
	return r
}

func (r Report) YAML() ([]byte, error) {
	return yaml.Marshal(r)
}
