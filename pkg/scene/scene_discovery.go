package scene

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SceneInfo describes a scene that can be rendered by name
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "file"
	FilePath    string `json:"filePath"`    // Path to the YAML scene file (file type only)
}

// ErrUnknownScene is returned by New for names that are not registered
var ErrUnknownScene = errors.New("unknown scene")

type builtinScene struct {
	info SceneInfo
	new  func() *Scene
}

var builtinScenes = []builtinScene{
	{SceneInfo{ID: "week1", Description: "Solid-colored spheres inside a box of planes", Group: "Course"}, NewWeek1Scene},
	{SceneInfo{ID: "week2", Description: "Lambert and Phong spheres, one point light", Group: "Course"}, NewWeek2Scene},
	{SceneInfo{ID: "week3", Description: "Cook-Torrance metals and plastics, three point lights", Group: "Course"}, NewWeek3Scene},
	{SceneInfo{ID: "week4", Description: "Triangles in every cull mode above transformed meshes", Group: "Course"}, NewWeek4Scene},
	{SceneInfo{ID: "reference", Description: "PBR spheres, triangles and a glossy floor", Group: "Reference"}, NewReferenceScene},
	{SceneInfo{ID: "single-sphere", Description: "One white sphere lit from above the camera", Group: "Reference"}, NewSingleSphereScene},
}

// Names returns the identifiers of all built-in scenes in registration order
func Names() []string {
	names := make([]string, len(builtinScenes))
	for i, b := range builtinScenes {
		names[i] = b.info.ID
	}
	return names
}

// New builds the built-in scene with the given identifier
func New(name string) (*Scene, error) {
	for _, b := range builtinScenes {
		if b.info.ID == name {
			return b.new(), nil
		}
	}
	return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownScene, name, strings.Join(Names(), ", "))
}

// ListBuiltinScenes returns metadata for every built-in scene
func ListBuiltinScenes() []SceneInfo {
	scenes := make([]SceneInfo, len(builtinScenes))
	for i, b := range builtinScenes {
		info := b.info
		info.DisplayName = titleCase(info.ID)
		info.Type = "builtin"
		scenes[i] = info
	}
	return scenes
}

// ListSceneFiles scans dir for *.yaml scene files. A missing directory yields an empty list.
func ListSceneFiles(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		return []SceneInfo{}, nil
	}

	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
		}
		files = append(files, matches...)
	}

	scenes := make([]SceneInfo, 0, len(files))
	for _, filePath := range files {
		info, err := ParseSceneFileMetadata(filePath)
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ParseSceneFileMetadata reads "# key: value" header comments from a scene file.
// Recognized keys are name, description and group; parsing stops at the first non-comment line.
func ParseSceneFileMetadata(filePath string) (SceneInfo, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return SceneInfo{}, fmt.Errorf("failed to open %s: %w", filePath, err)
	}
	defer file.Close()

	base := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	info := SceneInfo{
		ID:       "file:" + base,
		Group:    "Files",
		Type:     "file",
		FilePath: filePath,
	}

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "#") {
			break
		}

		key, value, ok := strings.Cut(strings.TrimSpace(strings.TrimPrefix(line, "#")), ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "name":
			info.DisplayName = value
		case "description":
			info.Description = value
		case "group":
			info.Group = value
		}
	}
	if err := scanner.Err(); err != nil {
		return SceneInfo{}, fmt.Errorf("failed to read %s: %w", filePath, err)
	}

	if info.DisplayName == "" {
		info.DisplayName = titleCase(base)
	}
	return info, nil
}

// titleCase converts "single-sphere" or "my_scene" to "Single Sphere" / "My Scene"
func titleCase(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
