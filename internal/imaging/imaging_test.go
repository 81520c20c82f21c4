package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"
)

func createTestImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{255, 0, 0, 255})
		}
	}
	return img
}

func createTestJPEG(w, h int) []byte {
	var buf bytes.Buffer
	jpeg.Encode(&buf, createTestImage(w, h), &jpeg.Options{Quality: 90})
	return buf.Bytes()
}

func createTestPNG(w, h int) []byte {
	var buf bytes.Buffer
	png.Encode(&buf, createTestImage(w, h))
	return buf.Bytes()
}

func createTestGIF(w, h int) []byte {
	var buf bytes.Buffer
	gif.Encode(&buf, createTestImage(w, h), nil)
	return buf.Bytes()
}

// 1x1 lossless WebP.
const tinyWebP = "UklGRhoAAABXRUJQVlA4TA0AAAAvAAAAEAcQERGIiP4HAA=="

func TestInspectFormats(t *testing.T) {
	webpData, err := base64.StdEncoding.DecodeString(tinyWebP)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		data []byte
		mime string
		ext  string
	}{
		{"jpeg", createTestJPEG(120, 80), "image/jpeg", ".jpg"},
		{"png", createTestPNG(120, 80), "image/png", ".png"},
		{"gif", createTestGIF(120, 80), "image/gif", ".gif"},
		{"webp", webpData, "image/webp", ".webp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Inspect(bytes.NewReader(tt.data))
			if err != nil {
				t.Fatalf("Inspect: %v", err)
			}
			if result.MIME != tt.mime {
				t.Errorf("expected %s, got %s", tt.mime, result.MIME)
			}
			if result.Ext != tt.ext {
				t.Errorf("expected extension %s, got %s", tt.ext, result.Ext)
			}
			if !bytes.Equal(result.Data, tt.data) {
				t.Error("expected image bytes to be stored unchanged")
			}
		})
	}
}

func TestInspectDimensions(t *testing.T) {
	result, err := Inspect(bytes.NewReader(createTestPNG(300, 200)))
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if result.Width != 300 || result.Height != 200 {
		t.Errorf("expected 300x200, got %dx%d", result.Width, result.Height)
	}
}

func TestInspectInvalidFormat(t *testing.T) {
	_, err := Inspect(bytes.NewReader([]byte("not an image")))
	if err == nil {
		t.Error("expected error for invalid format")
	}
}

func TestInspectCorruptImage(t *testing.T) {
	// PNG magic bytes followed by garbage.
	_, err := Inspect(bytes.NewReader([]byte("\x89PNG\r\n\x1a\nthis is not a png")))
	if err == nil {
		t.Error("expected error for corrupt PNG")
	}
}

func TestInspectTooLarge(t *testing.T) {
	data := make([]byte, MaxSize+10)
	copy(data, createTestJPEG(10, 10))

	_, err := Inspect(bytes.NewReader(data))
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
}
