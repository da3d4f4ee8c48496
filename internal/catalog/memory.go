package catalog

import (
	"context"
	"fmt"
	"slices"
)

// MemoryBackend keeps products in a slice.
type MemoryBackend struct {
	products []Product
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (b *MemoryBackend) Insert(_ context.Context, p Product) error {
	if slices.ContainsFunc(b.products, func(x Product) bool { return x.ID == p.ID }) {
		return fmt.Errorf("duplicate id %s", p.ID)
	}
	b.products = append(b.products, p)
	return nil
}

func (b *MemoryBackend) Delete(_ context.Context, id string) (Product, bool, error) {
	idx := slices.IndexFunc(b.products, func(x Product) bool { return x.ID == id })
	if idx < 0 {
		return Product{}, false, nil
	}
	p := b.products[idx]
	b.products = slices.Delete(b.products, idx, idx+1)
	return p, true, nil
}

func (b *MemoryBackend) All(_ context.Context) ([]Product, error) {
	return slices.Clone(b.products), nil
}
