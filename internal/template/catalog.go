// Package template enumerates and loads Handlebars template sources plus
// their optional sample data and payload schemas from a directory.
package template

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	apperrors "docgen-service/internal/common/errors"
	"docgen-service/internal/common/logger"
)

const (
	sourceExt = ".hbs"
	sampleExt = ".json"
	schemaExt = ".schema.json"
)

// Descriptor describes one template artifact for client discovery.
type Descriptor struct {
	Name      string    `json:"name"`
	File      string    `json:"file"`
	Size      int64     `json:"size"`
	Modified  time.Time `json:"modified"`
	HasSample bool      `json:"hasExample"`
}

// Catalog reads template artifacts from a directory. Sources are re-read on
// every call so edits take effect without a restart.
type Catalog struct {
	dir    string
	logger logger.Logger
}

func NewCatalog(dir string, log logger.Logger) *Catalog {
	return &Catalog{dir: dir, logger: log}
}

// Dir returns the catalog's template directory.
func (c *Catalog) Dir() string {
	return c.dir
}

// Exists reports whether a template source artifact with the given name is
// present. Names carrying path separators or traversal are never present.
func (c *Catalog) Exists(name string) bool {
	if !validName(name) {
		return false
	}
	info, err := os.Stat(filepath.Join(c.dir, name+sourceExt))
	return err == nil && !info.IsDir()
}

// List enumerates every template, sorted by name for deterministic output,
// each paired with whether a same-named sample file exists.
func (c *Catalog) List() ([]Descriptor, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read template directory %s: %w", c.dir, err)
	}

	descriptors := make([]Descriptor, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), sourceExt) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), sourceExt)
		descriptors = append(descriptors, Descriptor{
			Name:      name,
			File:      entry.Name(),
			Size:      info.Size(),
			Modified:  info.ModTime().UTC(),
			HasSample: c.hasSample(name),
		})
	}

	sort.Slice(descriptors, func(i, j int) bool {
		return descriptors[i].Name < descriptors[j].Name
	})

	return descriptors, nil
}

// LoadSource returns the current on-disk template markup. There is no cache;
// every render sees the latest content.
func (c *Catalog) LoadSource(name string) (string, error) {
	if !validName(name) || !c.Exists(name) {
		return "", apperrors.NewTemplateNotFoundError(name)
	}

	data, err := os.ReadFile(filepath.Join(c.dir, name+sourceExt))
	if err != nil {
		return "", apperrors.NewTemplateNotFoundError(name)
	}
	return string(data), nil
}

// LoadSample returns the parsed sample document for a template. A missing
// sample yields a placeholder object, never an error; a sample that exists
// but holds invalid JSON logs a warning and yields an error-annotated
// placeholder instead of propagating.
func (c *Catalog) LoadSample(name string) map[string]interface{} {
	if !validName(name) {
		return fallbackSample(name)
	}

	path := filepath.Join(c.dir, name+sampleExt)
	data, err := os.ReadFile(path)
	if err != nil {
		return fallbackSample(name)
	}

	var sample map[string]interface{}
	if err := json.Unmarshal(data, &sample); err != nil {
		if c.logger != nil {
			c.logger.Warn("invalid sample data, using fallback", map[string]interface{}{
				"template": name,
				"error":    err.Error(),
			})
		}
		return map[string]interface{}{
			"title": fmt.Sprintf("Sample for %s", name),
			"error": "sample data file is not valid JSON",
		}
	}

	return sample
}

// LoadSchema returns the optional payload schema for a template and whether
// one exists.
func (c *Catalog) LoadSchema(name string) (string, bool) {
	if !validName(name) {
		return "", false
	}

	data, err := os.ReadFile(filepath.Join(c.dir, name+schemaExt))
	if err != nil {
		return "", false
	}
	return string(data), true
}

func (c *Catalog) hasSample(name string) bool {
	info, err := os.Stat(filepath.Join(c.dir, name+sampleExt))
	return err == nil && !info.IsDir()
}

func fallbackSample(name string) map[string]interface{} {
	return map[string]interface{}{
		"title":       fmt.Sprintf("Sample for %s", name),
		"description": "No sample data file found for this template",
		"generatedAt": time.Now().UTC().Format(time.RFC3339),
	}
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return false
	}
	return true
}
