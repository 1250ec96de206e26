package data

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// File is the layout of one definitions file. Either list may be empty.
type File struct {
	Effects   []EffectDef  `yaml:"effects"`
	Abilities []AbilityDef `yaml:"abilities"`
}

// Decode parses one YAML definitions document. Unknown fields are rejected.
func Decode(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, err
	}
	return &f, nil
}

// Catalog builds a catalog from the file's definitions without cross-reference checks.
func (f *File) Catalog() (*Catalog, error) {
	c := NewCatalog()
	for _, def := range f.Effects {
		if err := c.AddEffect(def); err != nil {
			return nil, err
		}
	}
	for _, def := range f.Abilities {
		if err := c.AddAbility(def); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// LoadFile reads a single definitions file and validates it.
func LoadFile(name string) (*Catalog, error) {
	c, err := parseFile(os.DirFS(filepath.Dir(name)), filepath.Base(name))
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.logLoaded(name)
	return c, nil
}

// LoadDir loads every *.yaml file in dir.
func LoadDir(ctx context.Context, dir string) (*Catalog, error) {
	c, err := LoadFS(ctx, os.DirFS(dir))
	if err != nil {
		return nil, fmt.Errorf("load definitions from %s: %w", dir, err)
	}
	c.logLoaded(dir)
	return c, nil
}

// LoadFS parses every *.yaml file at the root of fsys concurrently and merges
// them in file-name order. Duplicate IDs across files are an error.
func LoadFS(ctx context.Context, fsys fs.FS) (*Catalog, error) {
	names, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob definitions: %w", err)
	}
	if len(names) == 0 {
		return nil, errors.New("no definition files found")
	}

	parts := make([]*Catalog, len(names))
	g, ctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			part, err := parseFile(fsys, name)
			if err != nil {
				return err
			}
			parts[i] = part
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c := NewCatalog()
	for i, part := range parts {
		if err := c.Merge(part); err != nil {
			return nil, fmt.Errorf("%s: %w", names[i], err)
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func parseFile(fsys fs.FS, name string) (*Catalog, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	f, err := Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}

	c, err := f.Catalog()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return c, nil
}

// Marshal encodes the catalog back into a single definitions file.
func (c *Catalog) Marshal() ([]byte, error) {
	var f File
	for _, id := range c.EffectIDs() {
		f.Effects = append(f.Effects, *c.EffectDef(id))
	}
	for _, id := range c.AbilityIDs() {
		f.Abilities = append(f.Abilities, *c.AbilityDef(id))
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&f); err != nil {
		return nil, fmt.Errorf("encode definitions: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
