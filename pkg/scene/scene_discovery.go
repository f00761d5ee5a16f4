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

// ErrUnknownScene is returned by Create for an ID no generator claims
var ErrUnknownScene = errors.New("unknown scene")

// meshScenePrefix marks scene IDs that refer to a mesh file
const meshScenePrefix = "mesh:"

// builtInGroup is the group every generated scene belongs to
const builtInGroup = "Built-in Scenes"

// meshExtensions are the formats the mesh loader understands
var meshExtensions = []string{".obj", ".stl", ".ply", ".3ds"}

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier, accepted by Create
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "mesh"
	FilePath    string `json:"filePath"`    // Mesh file (mesh type only)
	Variant     string `json:"variant"`     // Variant name (optional)
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

// generator builds one kind of scene
type generator func(opts Options) (*Scene, error)

var builtIns = []struct {
	info     SceneInfo
	generate generator
}{
	{SceneInfo{ID: "random", Name: "Random Spheres", Description: "Field of small diffuse, metal and glass spheres with motion blur"}, NewRandomScene},
	{SceneInfo{ID: "showcase", Name: "Material Showcase", Description: "One sphere of every material on a checkered ground"}, NewShowcaseScene},
	{SceneInfo{ID: "sphere-grid", Name: "Sphere Grid", Description: "20x20 grid of rainbow-colored metallic spheres"}, NewSphereGridScene},
	{SceneInfo{ID: "triangles", Name: "Triangles", Description: "Pyramids, a glass prism and a box built from triangles"}, NewTrianglesScene},
	{SceneInfo{ID: "textures", Name: "Textures", Description: "Image, gradient and checker textures on spheres"}, NewTextureScene},
	{SceneInfo{ID: "mesh", Name: "Mesh", Description: "Imported OBJ, STL, PLY or 3DS mesh (needs a mesh file)"}, NewMeshScene},
}

// BuiltInScenes lists the generated scenes in presentation order
func BuiltInScenes() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(builtIns))
	for _, b := range builtIns {
		info := b.info
		info.DisplayName = info.Name
		info.Group = builtInGroup
		info.Type = "builtin"
		scenes = append(scenes, info)
	}
	return scenes
}

// Create builds the scene with the given ID. "mesh:<path>" imports that file.
func Create(id string, opts Options) (*Scene, error) {
	if path, ok := strings.CutPrefix(id, meshScenePrefix); ok {
		opts.MeshPath = path
		return NewMeshScene(opts)
	}

	for _, b := range builtIns {
		if b.info.ID == id {
			return b.generate(opts)
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownScene, id)
}

// ListMeshScenes scans scenesDir for mesh files. An empty scenesDir tries
// "scenes" and "../scenes"; a missing directory yields an empty list.
func ListMeshScenes(scenesDir string) ([]SceneInfo, error) {
	if scenesDir == "" {
		for _, path := range []string{"scenes", "../scenes"} {
			if _, err := os.Stat(path); err == nil {
				scenesDir = path
				break
			}
		}
	}
	if scenesDir == "" {
		return []SceneInfo{}, nil
	}
	if _, err := os.Stat(scenesDir); os.IsNotExist(err) {
		return []SceneInfo{}, nil
	}

	entries, err := os.ReadDir(scenesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := []SceneInfo{}
	for _, entry := range entries {
		if entry.IsDir() || !isMeshFile(entry.Name()) {
			continue
		}
		sceneInfo, err := ParseMeshMetadata(filepath.Join(scenesDir, entry.Name()))
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, sceneInfo)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

func isMeshFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, known := range meshExtensions {
		if ext == known {
			return true
		}
	}
	return false
}

// ParseMeshMetadata extracts metadata from a mesh file's leading comments.
// OBJ files use "# Key: value", PLY headers use "comment Key: value".
// Binary formats keep the fallback values derived from the file name.
func ParseMeshMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	sceneInfo := SceneInfo{
		ID:          meshScenePrefix + filePath,
		Name:        titleCase(nameWithoutExt),
		DisplayName: titleCase(nameWithoutExt),
		Group:       "Mesh Scenes",
		Type:        "mesh",
		FilePath:    filePath,
	}

	file, err := os.Open(filePath)
	if err != nil {
		// Unreadable files keep their fallback values
		return sceneInfo, nil
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
header:
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		var content string
		switch {
		case strings.HasPrefix(line, "#"):
			content = strings.TrimSpace(strings.TrimPrefix(line, "#"))
		case strings.HasPrefix(line, "comment "):
			content = strings.TrimSpace(strings.TrimPrefix(line, "comment "))
		case line == "ply" || strings.HasPrefix(line, "format "):
			continue
		default:
			// Stop parsing at the first line that is not part of the header
			break header
		}

		key, value, found := strings.Cut(content, ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "Scene":
			sceneInfo.Name = value
		case "Variant":
			sceneInfo.Variant = value
		case "Description":
			sceneInfo.Description = value
		case "Group":
			sceneInfo.Group = value
		}
	}

	if sceneInfo.Variant != "" {
		sceneInfo.DisplayName = fmt.Sprintf("%s - %s", sceneInfo.Name, sceneInfo.Variant)
	} else {
		sceneInfo.DisplayName = sceneInfo.Name
	}

	// Binary files can trip the scanner's line limit; metadata is optional
	if err := scanner.Err(); err != nil && !errors.Is(err, bufio.ErrTooLong) {
		return sceneInfo, err
	}
	return sceneInfo, nil
}

// ListAllScenes returns both built-in and mesh scenes, grouped by category
func ListAllScenes(scenesDir string) (ScenesResponse, error) {
	var response ScenesResponse

	meshScenes, err := ListMeshScenes(scenesDir)
	if err != nil {
		return response, fmt.Errorf("failed to list mesh scenes: %w", err)
	}

	allScenes := append(BuiltInScenes(), meshScenes...)

	groupMap := make(map[string][]SceneInfo)
	for _, scene := range allScenes {
		groupMap[scene.Group] = append(groupMap[scene.Group], scene)
	}

	// Built-in first, then alphabetical
	var groupNames []string
	for groupName := range groupMap {
		if groupName != builtInGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	if scenes, exists := groupMap[builtInGroup]; exists {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   builtInGroup,
			Scenes: scenes,
		})
	}

	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   groupName,
			Scenes: groupMap[groupName],
		})
	}

	return response, nil
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
