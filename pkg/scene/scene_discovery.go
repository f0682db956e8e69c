package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier, accepted by Create
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Type        string `json:"type"`        // "builtin" or "file"
	FilePath    string `json:"filePath"`    // Path to the JSON file (file type only)
}

// ErrUnknownScene is returned by Create for names that match no scene
var ErrUnknownScene = errors.New("unknown scene")

type builtinScene struct {
	info  SceneInfo
	build func() *Scene
}

var builtinScenes = []builtinScene{
	{
		info: SceneInfo{
			ID:          "default",
			Name:        "Default Scene",
			Description: "Glass, diffuse and fuzzy gold spheres with strong defocus blur",
		},
		build: func() *Scene { return NewDefaultScene() },
	},
	{
		info: SceneInfo{
			ID:          "hollow-glass",
			Name:        "Hollow Glass",
			Description: "Three spheres with a hollow glass shell on the left",
		},
		build: func() *Scene { return NewHollowGlassScene() },
	},
	{
		info: SceneInfo{
			ID:          "random-spheres",
			Name:        "Random Spheres",
			Description: "Field of random small spheres around three large ones",
		},
		build: func() *Scene { return NewRandomSpheresScene(DefaultLayoutSeed) },
	},
}

// scenesDirs are the locations searched for scene files, relative to the working directory
var scenesDirs = []string{"scenes", "../scenes", "../../scenes"}

// findScenesDir returns the first existing scenes directory, or "" if there is none
func findScenesDir() string {
	for _, dir := range scenesDirs {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return ""
}

// Create resolves a scene by built-in id, by the base name of a file under scenes/,
// or by a path to a .json file
func Create(name string) (*Scene, error) {
	for _, b := range builtinScenes {
		if b.info.ID == name {
			return b.build(), nil
		}
	}

	if strings.HasSuffix(name, ".json") {
		return Load(name)
	}

	if dir := findScenesDir(); dir != "" {
		path := filepath.Join(dir, name+".json")
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
}

// ListFileScenes scans the scenes directory and returns discovered JSON scenes
func ListFileScenes() ([]SceneInfo, error) {
	scenesDir := findScenesDir()
	if scenesDir == "" {
		// No scenes directory found, return empty list
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(scenesDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := make([]SceneInfo, 0, len(files))
	for _, filePath := range files {
		info, err := ParseSceneMetadata(filePath)
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, info)
	}

	return scenes, nil
}

// ParseSceneMetadata reads the name and description of a scene file without building it
func ParseSceneMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	info := SceneInfo{
		ID:          nameWithoutExt,
		Name:        titleCase(nameWithoutExt),
		DisplayName: titleCase(nameWithoutExt),
		Type:        "file",
		FilePath:    filePath,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return info, fmt.Errorf("failed to read scene metadata: %w", err)
	}

	var header struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return info, fmt.Errorf("failed to parse scene metadata for %s: %w", filePath, err)
	}

	if header.Name != "" {
		info.Name = header.Name
		info.DisplayName = header.Name
	}
	info.Description = header.Description
	return info, nil
}

// ListScenes returns built-in and file scenes sorted by display name
func ListScenes() ([]SceneInfo, error) {
	scenes := make([]SceneInfo, 0, len(builtinScenes))
	for _, b := range builtinScenes {
		info := b.info
		info.DisplayName = info.Name
		info.Type = "builtin"
		scenes = append(scenes, info)
	}

	fileScenes, err := ListFileScenes()
	if err != nil {
		return nil, fmt.Errorf("failed to list scene files: %w", err)
	}
	scenes = append(scenes, fileScenes...)

	sort.SliceStable(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})
	return scenes, nil
}

// titleCase converts a filename-style string to title case
// e.g., "glass-trio" -> "Glass Trio"
func titleCase(s string) string {
	// Replace hyphens and underscores with spaces
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	// Title case each word
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
