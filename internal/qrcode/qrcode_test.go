package qrcode

import (
	"bytes"
	"image/png"
	"strings"
	"testing"
)

func TestChooseVersionFitsPairingURL(t *testing.T) {
	url := "http://192.168.1.42:8787/3f9a7c2e-1b4d-4e9a-9c3a-2b7e5f8a6d11"
	v, ok := chooseVersion(len(url))
	if !ok {
		t.Fatalf("no version fits %d-byte url", len(url))
	}
	if v < 1 || v > 6 {
		t.Errorf("version = %d, want 1-6", v)
	}
}

func TestGenerateDataURIWellFormed(t *testing.T) {
	uri, err := GenerateDataURI("http://127.0.0.1:8787/abcdef")
	if err != nil {
		t.Fatalf("GenerateDataURI: %v", err)
	}
	const prefix = "data:image/png;base64,"
	if !strings.HasPrefix(uri, prefix) {
		t.Fatalf("uri missing expected prefix: %q", uri[:min(len(uri), 40)])
	}
}

func TestGenerateDataURIRejectsOversizedMessage(t *testing.T) {
	huge := strings.Repeat("x", 500)
	if _, err := GenerateDataURI(huge); err == nil {
		t.Error("expected error for message exceeding version 6 capacity")
	}
}

func TestBuildProducesDecodablePNG(t *testing.T) {
	m, err := build([]byte("http://localhost:9000/token"))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	data, err := render(m)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoded output is not a valid PNG: %v", err)
	}
	bounds := img.Bounds()
	want := (m.size + 2*quietZone) * moduleScale
	if bounds.Dx() != want || bounds.Dy() != want {
		t.Errorf("image size = %dx%d, want %dx%d", bounds.Dx(), bounds.Dy(), want, want)
	}
}

func TestFinderPatternsAreDark(t *testing.T) {
	m := newMatrix(21)
	m.placeFinder(0, 0)
	if !m.dark[0][0] {
		t.Error("finder pattern corner should be dark")
	}
	if m.dark[3][1] {
		t.Error("finder pattern light ring should not be dark at (3,1)")
	}
	if !m.dark[3][0] || !m.dark[3][6] {
		t.Error("finder pattern outer ring should be dark at (3,0) and (3,6)")
	}
}

func TestTimingPatternAlternates(t *testing.T) {
	m := newMatrix(21)
	m.placeTiming()
	for i := 8; i < 13; i++ {
		if m.dark[6][i] != (i%2 == 0) {
			t.Errorf("timing module at col %d = %v, want alternating pattern", i, m.dark[6][i])
		}
	}
}
