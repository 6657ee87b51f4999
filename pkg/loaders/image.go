package loaders

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
)

// SupportedImageFormats lists the formats accepted by EncodeImage
var SupportedImageFormats = []string{"png", "bmp"}

// NormalizeImageFormat lower-cases format and checks that it is supported
func NormalizeImageFormat(format string) (string, error) {
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	for _, supported := range SupportedImageFormats {
		if format == supported {
			return format, nil
		}
	}
	return "", fmt.Errorf("unsupported image format %q (supported: %s)", format, strings.Join(SupportedImageFormats, ", "))
}

// EncodeImage writes img to w in the given format
func EncodeImage(w io.Writer, img image.Image, format string) error {
	format, err := NormalizeImageFormat(format)
	if err != nil {
		return err
	}

	switch format {
	case "bmp":
		err = bmp.Encode(w, img)
	default:
		err = png.Encode(w, img)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return nil
}

// SaveImage writes img to filename, creating parent directories as needed
func SaveImage(filename string, img image.Image, format string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}

	if err := EncodeImage(file, img, format); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
