// Package imaging validates uploaded car photos. Images are stored exactly
// as uploaded; only the header is decoded.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"

	"golang.org/x/image/webp"
)

// MaxSize is the largest accepted upload in bytes.
const MaxSize = 5 << 20

// MaxDimension is the largest accepted width or height in pixels.
const MaxDimension = 12000

// ErrTooLarge is returned for uploads over MaxSize.
var ErrTooLarge = errors.New("image exceeds 5 MB")

// AllowedMIME maps accepted MIME types to the file extension used for
// storage keys.
var AllowedMIME = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Result describes a validated image.
type Result struct {
	Data   []byte
	MIME   string
	Ext    string
	Width  int
	Height int
}

// Inspect reads an uploaded image, sniffs its type from the bytes (not
// trusting client headers) and decodes its header to reject corrupt files.
func Inspect(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}
	if len(data) > MaxSize {
		return nil, ErrTooLarge
	}

	detected := http.DetectContentType(data)
	ext, ok := AllowedMIME[detected]
	if !ok {
		return nil, fmt.Errorf("unsupported image format: %s (only JPEG, PNG, WebP and GIF accepted)", detected)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image header: %w", err)
	}
	if cfg.Width < 1 || cfg.Height < 1 || cfg.Width > MaxDimension || cfg.Height > MaxDimension {
		return nil, fmt.Errorf("image dimensions %dx%d out of range", cfg.Width, cfg.Height)
	}

	return &Result{
		Data:   data,
		MIME:   detected,
		Ext:    ext,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}

func init() {
	image.RegisterFormat("jpeg", "\xff\xd8", jpeg.Decode, jpeg.DecodeConfig)
	image.RegisterFormat("png", "\x89PNG", png.Decode, png.DecodeConfig)
	image.RegisterFormat("gif", "GIF8?a", gif.Decode, gif.DecodeConfig)
	image.RegisterFormat("webp", "RIFF????WEBPVP8", webp.Decode, webp.DecodeConfig)
}
