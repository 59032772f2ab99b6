package texture

import (
	"fmt"
	"sort"
)

// Cache holds every texture a scene refers to, keyed by path. It is filled
// before rendering starts and only read afterwards.
type Cache struct {
	textures map[string]Texture
}

// NewCache creates an empty texture cache
func NewCache() *Cache {
	return &Cache{textures: make(map[string]Texture)}
}

// Add registers a texture under key, replacing any previous entry
func (c *Cache) Add(key string, texture Texture) {
	c.textures[key] = texture
}

// Load decodes the image at path and registers it under the path itself
func (c *Cache) Load(path string) error {
	if _, ok := c.textures[path]; ok {
		return nil
	}
	tex, err := LoadImage(path)
	if err != nil {
		return fmt.Errorf("loading texture %q: %w", path, err)
	}
	c.textures[path] = tex
	return nil
}

// Has reports whether key is present
func (c *Cache) Has(key string) bool {
	if c == nil {
		return false
	}
	_, ok := c.textures[key]
	return ok
}

// Get returns the texture for key. A missing key means the scene was not
// fully loaded before rendering, so it panics.
func (c *Cache) Get(key string) Texture {
	if c != nil {
		if tex, ok := c.textures[key]; ok {
			return tex
		}
	}
	panic(fmt.Sprintf("texture %q not found in cache", key))
}

// Keys returns the registered keys in sorted order
func (c *Cache) Keys() []string {
	keys := make([]string, 0, len(c.textures))
	for key := range c.textures {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
