package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

// Supported image formats
const (
	FormatPPM = "ppm"
	FormatPNG = "png"
)

// Write encodes the frame in the given format
func Write(w io.Writer, frame *renderer.Frame, format string) error {
	switch format {
	case FormatPPM:
		return WritePPM(w, frame)
	case FormatPNG:
		return WritePNG(w, frame)
	default:
		return fmt.Errorf("unsupported image format %q", format)
	}
}

// FormatFromPath infers the image format from a file extension
func FormatFromPath(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case FormatPPM, FormatPNG:
		return ext, nil
	default:
		return "", fmt.Errorf("cannot infer image format from %q", path)
	}
}

// Save writes the frame to path, creating parent directories. An empty format is
// inferred from the file extension.
func Save(path string, frame *renderer.Frame, format string) error {
	if format == "" {
		var err error
		if format, err = FormatFromPath(path); err != nil {
			return err
		}
	}
	switch format {
	case FormatPPM, FormatPNG:
	default:
		return fmt.Errorf("unsupported image format %q", format)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := Write(file, frame, format); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
