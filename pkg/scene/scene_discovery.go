package scene

import (
	"fmt"
	"sort"
	"strings"
)

// SceneInfo describes a built-in scene
type SceneInfo struct {
	ID          string // Name accepted by NewByName
	DisplayName string
	Description string
	build       func() *Scene
}

var builtins = map[string]SceneInfo{
	"default": {
		ID:          "default",
		Description: "Phong and physical spheres, glass, textured cube and cylinder on a checkered plane",
		build:       NewDefaultScene,
	},
	"cornell": {
		ID:          "cornell",
		Description: "Cornell box with a cube and a metal sphere under a point light",
		build:       NewCornellScene,
	},
	"sphere-grid": {
		ID:          "sphere-grid",
		Description: "20x20 grid of spheres stressing the acceleration structure",
		build:       func() *Scene { return NewSphereGridScene(20) },
	},
}

// ListScenes returns the built-in scenes sorted by ID
func ListScenes() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(builtins))
	for _, info := range builtins {
		info.DisplayName = titleCase(info.ID)
		scenes = append(scenes, info)
	}
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].ID < scenes[j].ID
	})
	return scenes
}

// NewByName builds the built-in scene with the given ID
func NewByName(id string) (*Scene, error) {
	info, ok := builtins[id]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q", id)
	}
	return info.build(), nil
}

// titleCase converts "sphere-grid" style IDs to "Sphere Grid"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
