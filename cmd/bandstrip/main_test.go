package main

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/setanarut/bandstrip/config"
	"github.com/setanarut/bandstrip/ziparchive"
	"gopkg.in/yaml.v3"
)

func writeInput(t *testing.T, dir string) string {
	t.Helper()
	w := ziparchive.NewWriter()
	for i, c := range []color.RGBA{{R: 255, A: 255}, {G: 255, A: 255}} {
		img := image.NewRGBA(image.Rect(0, 0, 100, 30))
		draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			t.Fatal(err)
		}
		if err := w.Add(string(rune('a'+i))+".png", buf.Bytes()); err != nil {
			t.Fatal(err)
		}
	}
	data, err := w.Finish()
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "input.zip")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunWritesOutputs(t *testing.T) {
	t.Setenv(config.EnvVar, "")
	dir := t.TempDir()
	input := writeInput(t, dir)
	out := filepath.Join(dir, "parts.zip")
	composite := filepath.Join(dir, "strip.png")
	report := filepath.Join(dir, "report.yaml")

	var stderr bytes.Buffer
	err := run([]string{
		"--out", out,
		"--composite", composite,
		"--report", report,
		"--quality", "80",
		"--palette-size", "2",
		"--progress",
		input,
	}, &stderr)
	if err != nil {
		t.Fatalf("run: %v\n%s", err, stderr.String())
	}

	archive, err := ziparchive.Open(out)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	if n := len(archive.Entries()); n != 5 {
		t.Errorf("output has %d entries", n)
	}

	f, err := os.Open(composite)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 100 || cfg.Height != 60 {
		t.Errorf("composite = %dx%d, want 100x60", cfg.Width, cfg.Height)
	}

	data, err := os.ReadFile(report)
	if err != nil {
		t.Fatal(err)
	}
	var parsed struct {
		Bands []struct {
			Name    string   `yaml:"name"`
			Palette []string `yaml:"palette"`
		} `yaml:"bands"`
	}
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		t.Fatal(err)
	}
	if len(parsed.Bands) != 5 || parsed.Bands[4].Name != "part5.jpg" {
		t.Errorf("report bands = %+v", parsed.Bands)
	}
	if !strings.Contains(stderr.String(), "100%") {
		t.Errorf("progress not printed:\n%s", stderr.String())
	}
}

func TestRunConfigFile(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir)
	out := filepath.Join(dir, "from-config.zip")
	cfgPath := filepath.Join(dir, "bandstrip.yaml")
	body := "band_width: 40\noutput:\n  archive: " + out + "\n  composite: \"\"\nlog:\n  level: error\n"
	if err := os.WriteFile(cfgPath, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(config.EnvVar, cfgPath)

	var stderr bytes.Buffer
	if err := run([]string{input}, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}
	archive, err := ziparchive.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	data, err := archive.Read("part1.jpg")
	if err != nil {
		t.Fatal(err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 40 {
		t.Errorf("band width = %d, want 40", img.Bounds().Dx())
	}
}

func TestRunArguments(t *testing.T) {
	t.Setenv(config.EnvVar, "")
	var stderr bytes.Buffer
	if err := run([]string{"--help"}, &stderr); err != nil {
		t.Errorf("--help: %v", err)
	}
	if !strings.Contains(stderr.String(), "Usage:") {
		t.Errorf("help output:\n%s", stderr.String())
	}
	if err := run(nil, &stderr); err == nil {
		t.Error("missing input accepted")
	}
	if err := run([]string{"--quality", "150", "x.zip"}, &stderr); err == nil {
		t.Error("quality 150 accepted")
	}
	if err := run([]string{filepath.Join(t.TempDir(), "absent.zip")}, &stderr); err == nil {
		t.Error("missing archive accepted")
	}
}
