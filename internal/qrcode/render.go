package qrcode

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
)

const (
	moduleScale = 8 // pixels per module
	quietZone   = 4 // modules of light margin on each side
)

// build assembles a complete, masked module matrix for message.
func build(message []byte) (*matrix, error) {
	version, ok := chooseVersion(len(message))
	if !ok {
		return nil, fmt.Errorf("qrcode: message of %d bytes exceeds version 6 capacity", len(message))
	}
	spec := versionSpecs[version]

	skeleton := newMatrix(spec.size)
	skeleton.placeFinder(0, 0)
	skeleton.placeFinder(0, spec.size-7)
	skeleton.placeFinder(spec.size-7, 0)
	skeleton.placeTiming()
	skeleton.placeAlignment(spec.alignCoords)
	skeleton.placeDarkModule()
	skeleton.reserveFormatAreas()

	codewords := encodeData(message, version)
	_, finished := chooseMask(skeleton, codewords)
	return finished, nil
}

// render draws a matrix to a PNG image with a quiet-zone margin.
func render(m *matrix) ([]byte, error) {
	pixels := (m.size + 2*quietZone) * moduleScale
	img := image.NewGray(image.Rect(0, 0, pixels, pixels))
	light := color.Gray{Y: 0xFF}
	dark := color.Gray{Y: 0x00}

	for y := 0; y < pixels; y++ {
		for x := 0; x < pixels; x++ {
			img.SetGray(x, y, light)
		}
	}

	for r := 0; r < m.size; r++ {
		for c := 0; c < m.size; c++ {
			if !m.dark[r][c] {
				continue
			}
			px0 := (c + quietZone) * moduleScale
			py0 := (r + quietZone) * moduleScale
			for dy := 0; dy < moduleScale; dy++ {
				for dx := 0; dx < moduleScale; dx++ {
					img.SetGray(px0+dx, py0+dy, dark)
				}
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateDataURI encodes text (the remote server's pairing URL) as a QR
// code and returns it as a "data:image/png;base64,..." URI, per spec.md
// §6's generate_remote_qr_code.
func GenerateDataURI(text string) (string, error) {
	m, err := build([]byte(text))
	if err != nil {
		return "", err
	}
	png, err := render(m)
	if err != nil {
		return "", fmt.Errorf("qrcode: render: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
