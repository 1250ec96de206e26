package data

import (
	"context"
	"embed"
	"io/fs"
)

// defaultsFS embeds the demo definitions shipped with the simulator.
//
//go:embed defaults/*.yaml
var defaultsFS embed.FS

// LoadDefaults loads the embedded demo definitions.
func LoadDefaults(ctx context.Context) (*Catalog, error) {
	sub, err := fs.Sub(defaultsFS, "defaults")
	if err != nil {
		return nil, err
	}
	c, err := LoadFS(ctx, sub)
	if err != nil {
		return nil, err
	}
	c.logLoaded("embedded")
	return c, nil
}
