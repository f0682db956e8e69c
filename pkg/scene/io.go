package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Read decodes a scene document and builds the scene. Unknown fields are rejected.
func Read(r io.Reader) (*Scene, error) {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()

	var doc Document
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode scene: %w", err)
	}
	return Build(doc)
}

// Write encodes the scene in its canonical indented form
func Write(w io.Writer, s *Scene) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(s.Document()); err != nil {
		return fmt.Errorf("failed to encode scene %q: %w", s.Name, err)
	}
	return nil
}

// Load reads a scene file
func Load(path string) (*Scene, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	s, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Save writes a scene file, creating parent directories as needed
func Save(path string, s *Scene) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create scene directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create scene file: %w", err)
	}

	if err := Write(file, s); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
