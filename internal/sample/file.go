package sample

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jask/stockpile/internal/capture"
	"github.com/jask/stockpile/internal/catalog"
)

// Entry is one product in a samples file.
//
//	products:
//	  - name: Laptop
//	    description: |
//	      14 inch ultrabook
//	    photo: true
type Entry struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Photo       bool   `yaml:"photo"`
}

type file struct {
	Products []Entry `yaml:"products"`
}

// LoadFile reads sample entries from a YAML file.
func LoadFile(path string) ([]Entry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sample: read %s: %w", path, err)
	}
	var f file
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("sample: parse %s: %w", path, err)
	}
	return f.Products, nil
}

// SeedEntries adds entries in order. It stops at the first product the
// catalog rejects.
func SeedEntries(ctx context.Context, store *catalog.Store, entries []Entry) ([]catalog.Product, error) {
	out := make([]catalog.Product, 0, len(entries))
	for i, e := range entries {
		var image capture.ImageRef
		if e.Photo {
			image = capture.Placeholder(time.Now().Add(time.Duration(i) * time.Millisecond))
		}
		p, err := store.Add(ctx, e.Name, e.Description, image)
		if err != nil {
			return out, fmt.Errorf("sample: entry %d: %w", i+1, err)
		}
		out = append(out, p)
	}
	return out, nil
}
