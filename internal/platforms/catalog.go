// Package platforms is the catalog of supported publish-target platforms.
// Each platform ships an embedded YAML manifest plus a JSON Schema for its
// platform-specific settings.
package platforms

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed manifests/*
var manifestsFS embed.FS

// Metadata represents one parsed platform manifest. Name and version are
// required; the rest is optional.
type Metadata struct {
	Name               string                 `yaml:"name"`
	Label              string                 `yaml:"label"`
	Version            string                 `yaml:"version"`
	SchemaVersion      string                 `yaml:"schema_version"`
	Capabilities       []string               `yaml:"capabilities"`
	DefaultSettings    map[string]interface{} `yaml:"default_settings"`
	SettingsSchemaFile string                 `yaml:"settings_schema_file"`
}

// Catalog holds the loaded platforms, indexed by name.
type Catalog struct {
	platforms map[string]*Metadata
}

// Load parses every embedded manifest into a Catalog.
func Load() (*Catalog, error) {
	entries, err := fs.Glob(manifestsFS, "manifests/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to list manifests: %w", err)
	}

	catalog := &Catalog{platforms: make(map[string]*Metadata)}
	for _, entry := range entries {
		meta, err := loadMetadata(entry)
		if err != nil {
			return nil, fmt.Errorf("manifest %s: %w", entry, err)
		}
		if _, exists := catalog.platforms[meta.Name]; exists {
			return nil, fmt.Errorf("duplicate platform name: %s", meta.Name)
		}
		catalog.platforms[meta.Name] = meta
	}
	return catalog, nil
}

// loadMetadata reads and parses one manifest with strict validation.
// Unknown YAML fields are rejected (via KnownFields) to catch typos, and
// required fields are validated. SchemaVersion defaults to "v1".
func loadMetadata(p string) (*Metadata, error) {
	data, err := manifestsFS.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var meta Metadata
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&meta); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	if meta.SchemaVersion == "" {
		meta.SchemaVersion = "v1"
	}
	if meta.Name == "" {
		return nil, fmt.Errorf("manifest missing required field: name")
	}
	if meta.Version == "" {
		return nil, fmt.Errorf("manifest missing required field: version")
	}
	return &meta, nil
}

// Get retrieves a platform by name.
func (c *Catalog) Get(name string) (*Metadata, bool) {
	meta, ok := c.platforms[strings.ToLower(name)]
	return meta, ok
}

// List returns all platforms sorted by name for deterministic ordering.
func (c *Catalog) List() []*Metadata {
	list := make([]*Metadata, 0, len(c.platforms))
	for _, meta := range c.platforms {
		list = append(list, meta)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})
	return list
}

// Count returns the number of loaded platforms.
func (c *Catalog) Count() int {
	return len(c.platforms)
}

func (c *Catalog) schemaBytes(meta *Metadata) ([]byte, error) {
	if meta.SettingsSchemaFile == "" {
		return nil, nil
	}
	return manifestsFS.ReadFile(path.Join("manifests", meta.SettingsSchemaFile))
}
