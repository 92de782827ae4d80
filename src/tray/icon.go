package tray

import (
	"bytes"
	_ "embed"
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

//go:embed icon.svg
var iconSVG string

const iconSize = 32

// renderIcon rasterizes the embedded SVG at size x size.
func renderIcon(size int) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(strings.NewReader(iconSVG))
	if err != nil {
		return nil, fmt.Errorf("parse tray icon: %w", err)
	}
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	icon.SetTarget(0, 0, float64(size), float64(size))
	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(size, size, scanner), 1.0)
	return img, nil
}

// iconBytes returns the tray icon as a single-image ICO with a PNG
// payload, the format systray hands to LoadImage on Windows.
func iconBytes() ([]byte, error) {
	img, err := renderIcon(iconSize)
	if err != nil {
		return nil, err
	}
	var payload bytes.Buffer
	if err := png.Encode(&payload, img); err != nil {
		return nil, fmt.Errorf("encode tray icon: %w", err)
	}

	const headerLen = 6 + 16
	var out bytes.Buffer
	header := struct {
		Reserved, Type, Count uint16
		Width, Height         uint8
		Colors, Reserved2     uint8
		Planes, BitCount      uint16
		Size, Offset          uint32
	}{
		Type: 1, Count: 1,
		Width: iconSize, Height: iconSize,
		Planes: 1, BitCount: 32,
		Size: uint32(payload.Len()), Offset: headerLen,
	}
	if err := binary.Write(&out, binary.LittleEndian, header); err != nil {
		return nil, err
	}
	out.Write(payload.Bytes())
	return out.Bytes(), nil
}
