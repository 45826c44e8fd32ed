package service

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodeTestPNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode test png: %v", err)
	}
	return buf.Bytes()
}

func TestNormalizeImageFlattensAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 8, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			// Fully transparent left half, opaque red right half
			if x < 4 {
				src.SetNRGBA(x, y, color.NRGBA{})
			} else {
				src.SetNRGBA(x, y, color.NRGBA{R: 255, A: 255})
			}
		}
	}

	out, err := NormalizeImage(encodeTestPNG(t, src))
	if err != nil {
		t.Fatalf("NormalizeImage failed: %v", err)
	}

	decoded, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("Output is not a decodable JPEG: %v", err)
	}

	if decoded.Bounds().Dx() != 8 || decoded.Bounds().Dy() != 6 {
		t.Errorf("Expected 8x6 output, got %v", decoded.Bounds())
	}

	// The transparent region must have been composited over white
	r, g, b, _ := decoded.At(1, 1).RGBA()
	if r < 0xf000 || g < 0xf000 || b < 0xf000 {
		t.Errorf("Expected transparent pixels flattened to white, got r=%d g=%d b=%d", r>>8, g>>8, b>>8)
	}
}

func TestNormalizeImageAcceptsJPEG(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, nil); err != nil {
		t.Fatalf("Failed to encode test jpeg: %v", err)
	}

	out, err := NormalizeImage(buf.Bytes())
	if err != nil {
		t.Fatalf("NormalizeImage failed for jpeg input: %v", err)
	}
	if _, err := jpeg.Decode(bytes.NewReader(out)); err != nil {
		t.Errorf("Output is not a decodable JPEG: %v", err)
	}
}

func TestNormalizeImageRejectsGarbage(t *testing.T) {
	if _, err := NormalizeImage([]byte("definitely not an image")); err == nil {
		t.Error("Expected error for undecodable input")
	}
	if _, err := NormalizeImage(nil); err == nil {
		t.Error("Expected error for empty input")
	}
}
