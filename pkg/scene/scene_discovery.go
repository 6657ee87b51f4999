package scene

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-lighting-preview/pkg/core"
	"github.com/df07/go-lighting-preview/pkg/loaders"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "mesh"
	FilePath    string `json:"filePath"`    // Path to PLY file (mesh type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

const builtInGroup = "Built-in Scenes"

var builtInScenes = []SceneInfo{
	{
		ID:          "cornell",
		Name:        "Cornell Box",
		DisplayName: "Cornell Box",
		Description: "Cornell box with two blocks, a ceiling light and a spot light",
		Group:       builtInGroup,
		Type:        "builtin",
	},
	{
		ID:          "default",
		Name:        "Default Scene",
		DisplayName: "Default Scene",
		Description: "Outdoor blocks under a low sun with two lamps",
		Group:       builtInGroup,
		Type:        "builtin",
	},
	{
		ID:          "lightgrid",
		Name:        "Light Grid",
		DisplayName: "Light Grid",
		Description: "Pillars lit by an 8x8 grid of colored point lights",
		Group:       builtInGroup,
		Type:        "builtin",
	},
}

// meshDirs are searched in order for PLY occluder meshes
var meshDirs = []string{"meshes", "../meshes"}

// ListMeshScenes scans the meshes directory and returns one scene per PLY file
func ListMeshScenes() ([]SceneInfo, error) {
	var meshDir string
	for _, path := range meshDirs {
		if _, err := os.Stat(path); err == nil {
			meshDir = path
			break
		}
	}

	if meshDir == "" {
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(meshDir, "*.ply"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan meshes directory: %v", err)
	}

	var scenes []SceneInfo
	for _, filePath := range files {
		sceneInfo, err := ParseMeshMetadata(filePath)
		if err != nil {
			// Keep going with the other files
			fmt.Printf("Warning: failed to parse metadata for %s: %v\n", filePath, err)
			continue
		}
		scenes = append(scenes, sceneInfo)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ParseMeshMetadata extracts metadata from "comment Key: value" lines in a PLY header
func ParseMeshMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	sceneInfo := SceneInfo{
		ID:          fmt.Sprintf("mesh:%s", nameWithoutExt),
		Name:        titleCase(nameWithoutExt),
		DisplayName: titleCase(nameWithoutExt),
		Group:       "Meshes",
		Type:        "mesh",
		FilePath:    filePath,
	}

	file, err := os.Open(filePath)
	if err != nil {
		return sceneInfo, nil
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "end_header" {
			break
		}
		if !strings.HasPrefix(line, "comment ") {
			continue
		}

		content := strings.TrimSpace(strings.TrimPrefix(line, "comment "))
		switch {
		case strings.HasPrefix(content, "Scene:"):
			sceneInfo.Name = strings.TrimSpace(strings.TrimPrefix(content, "Scene:"))
			sceneInfo.DisplayName = sceneInfo.Name
		case strings.HasPrefix(content, "Description:"):
			sceneInfo.Description = strings.TrimSpace(strings.TrimPrefix(content, "Description:"))
		case strings.HasPrefix(content, "Group:"):
			sceneInfo.Group = strings.TrimSpace(strings.TrimPrefix(content, "Group:"))
		}
	}

	return sceneInfo, scanner.Err()
}

// ListAllScenes returns both built-in and mesh scenes, grouped by category
func ListAllScenes() (ScenesResponse, error) {
	var response ScenesResponse

	meshScenes, err := ListMeshScenes()
	if err != nil {
		return response, fmt.Errorf("failed to list mesh scenes: %v", err)
	}

	allScenes := append(append([]SceneInfo{}, builtInScenes...), meshScenes...)

	groupMap := make(map[string][]SceneInfo)
	for _, info := range allScenes {
		groupMap[info.Group] = append(groupMap[info.Group], info)
	}

	// Built-in first, then alphabetical
	var groupNames []string
	for groupName := range groupMap {
		if groupName != builtInGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	if group, exists := groupMap[builtInGroup]; exists {
		response.Groups = append(response.Groups, SceneGroup{Name: builtInGroup, Scenes: group})
	}
	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{Name: groupName, Scenes: groupMap[groupName]})
	}

	return response, nil
}

// NewSceneByID builds a built-in scene by id, or a mesh scene for "mesh:<name>" ids
// and plain PLY paths. Mesh scenes place the model on the default scene's ground.
func NewSceneByID(id string, cameraOverrides ...CameraConfig) (*Scene, error) {
	switch id {
	case "cornell", "cornell-box":
		return NewCornellScene(cameraOverrides...), nil
	case "default", "basic", "":
		return NewDefaultScene(cameraOverrides...), nil
	case "lightgrid", "light-grid":
		return NewLightGridScene(cameraOverrides...), nil
	}

	path := id
	if name, ok := strings.CutPrefix(id, "mesh:"); ok {
		path = ""
		for _, dir := range meshDirs {
			candidate := filepath.Join(dir, name+".ply")
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
		if path == "" {
			return nil, fmt.Errorf("mesh scene %q not found", id)
		}
	} else if !strings.HasSuffix(strings.ToLower(id), ".ply") {
		return nil, fmt.Errorf("unknown scene %q", id)
	}

	data, err := loaders.LoadPLY(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load mesh scene %q: %v", id, err)
	}

	s := NewDefaultScene(cameraOverrides...)
	s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	s.AddMesh(data, core.NewVec3(0, 0, 0.5), 1, core.NewVec3(0.7, 0.7, 0.7))
	return s, nil
}

// titleCase converts a filename-style string to title case
// e.g., "cornell-empty" -> "Cornell Empty"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
