// Package project loads the project metadata used in synthesized headers.
package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// DefaultManifest is the manifest file name looked up when none is configured.
const DefaultManifest = "project.toml"

// Metadata describes the documented project.
type Metadata struct {
	Name        string `toml:"name"`
	Version     string `toml:"version"`
	Author      string `toml:"author"`
	License     string `toml:"license"`
	Description string `toml:"description"`
}

// Defaults returns the metadata used when no manifest is available.
func Defaults() Metadata {
	return Metadata{
		Name:    "Documentation",
		Version: "1.0.0",
		Author:  "Documentation Team",
		License: "MIT",
	}
}

// manifest mirrors project.toml, which may keep the fields at the top level
// or under a [project] table.
type manifest struct {
	Name        string    `toml:"name"`
	Version     string    `toml:"version"`
	Author      string    `toml:"author"`
	License     string    `toml:"license"`
	Description string    `toml:"description"`
	Project     *Metadata `toml:"project"`
}

// Load reads the manifest at path. It always returns usable metadata: missing
// fields and a missing file fall back to Defaults. A parse error is returned
// together with the defaults so callers can warn and carry on.
func Load(path string) (Metadata, error) {
	meta := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return meta, nil
		}
		return meta, fmt.Errorf("project: read %s: %w", path, err)
	}

	var m manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return meta, fmt.Errorf("project: parse %s: %w", path, err)
	}
	src := Metadata{
		Name:        m.Name,
		Version:     m.Version,
		Author:      m.Author,
		License:     m.License,
		Description: m.Description,
	}
	if m.Project != nil {
		src = *m.Project
	}
	meta.merge(src)
	return meta, nil
}

func (m *Metadata) merge(src Metadata) {
	if src.Name != "" {
		m.Name = src.Name
	}
	if src.Version != "" {
		m.Version = src.Version
	}
	if src.Author != "" {
		m.Author = src.Author
	}
	if src.License != "" {
		m.License = src.License
	}
	if src.Description != "" {
		m.Description = src.Description
	}
}
