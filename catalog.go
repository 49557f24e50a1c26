package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type CatalogFormat string

const (
	FormatJSON CatalogFormat = "json"
	FormatYAML CatalogFormat = "yaml"
)

// Catalog maps food names to protein grams per 100g. It is read-only once
// loaded and keeps the order the foods appear in the source file.
type Catalog struct {
	names   []string
	protein map[string]float64
}

// picks the parser from the file extension, json being the default
func FormatForPath(path string) CatalogFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

func LoadCatalog(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	defer f.Close()

	c, err := ParseCatalog(f, FormatForPath(path))
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	return c, nil
}

// ParseCatalog reads a mapping of food name to protein per 100g. Every value
// must be a finite positive number and every name must be unique.
func ParseCatalog(r io.Reader, format CatalogFormat) (*Catalog, error) {
	c := &Catalog{protein: make(map[string]float64)}

	var err error
	switch format {
	case FormatYAML:
		err = c.parseYAML(r)
	case FormatJSON:
		err = c.parseJSON(r)
	default:
		err = fmt.Errorf("unsupported catalog format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) parseJSON(r io.Reader) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("catalog must be an object of food name to protein per 100g")
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("failed to read food name: %w", err)
		}
		name, _ := tok.(string)

		var v any
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("failed to read value for %q: %w", name, err)
		}
		num, ok := v.(json.Number)
		if !ok {
			return fmt.Errorf("value for %q is not a number", name)
		}
		protein, err := num.Float64()
		if err != nil {
			return fmt.Errorf("value for %q: %w", name, err)
		}
		if err := c.add(name, protein); err != nil {
			return err
		}
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("unexpected data after catalog object")
	}
	return nil
}

func (c *Catalog) parseYAML(r io.Reader) error {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("catalog is empty")
		}
		return fmt.Errorf("failed to parse catalog: %w", err)
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return errors.New("catalog must be a mapping of food name to protein per 100g")
	}

	m := doc.Content[0]
	for i := 0; i+1 < len(m.Content); i += 2 {
		key, val := m.Content[i], m.Content[i+1]
		for val.Kind == yaml.AliasNode && val.Alias != nil {
			val = val.Alias
		}
		if val.Kind != yaml.ScalarNode {
			return fmt.Errorf("value for %q is not a number", key.Value)
		}
		var protein float64
		if err := val.Decode(&protein); err != nil {
			return fmt.Errorf("value for %q is not a number", key.Value)
		}
		if err := c.add(key.Value, protein); err != nil {
			return err
		}
	}
	return nil
}

func (c *Catalog) add(name string, protein float64) error {
	if _, exists := c.protein[name]; exists {
		return fmt.Errorf("duplicate food %q", name)
	}
	if math.IsNaN(protein) || math.IsInf(protein, 0) || protein <= 0 {
		return fmt.Errorf("protein for %q must be a positive number, got %v", name, protein)
	}

	c.names = append(c.names, name)
	c.protein[name] = protein
	return nil
}

func (c *Catalog) Len() int {
	return len(c.names)
}

// food names in catalog order
func (c *Catalog) Names() []string {
	names := make([]string, len(c.names))
	copy(names, c.names)
	return names
}

func (c *Catalog) Protein(name string) (float64, bool) {
	p, ok := c.protein[name]
	return p, ok
}

// Filter returns the foods whose name contains query, ignoring case. An empty
// query returns every food.
func (c *Catalog) Filter(query string) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return c.Names()
	}

	var matches []string
	for _, name := range c.names {
		if strings.Contains(strings.ToLower(name), query) {
			matches = append(matches, name)
		}
	}
	return matches
}
