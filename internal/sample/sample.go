// Package sample fills a catalog with demo products.
package sample

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/jask/stockpile/internal/capture"
	"github.com/jask/stockpile/internal/catalog"
)

var products = []struct {
	Name        string
	Description string
}{
	{"Laptop", "14 inch ultrabook\n16GB RAM, 512GB SSD"},
	{"Wireless mouse", "Bluetooth, two buttons and a scroll wheel"},
	{"Mechanical keyboard", "Tenkeyless, brown switches"},
	{"Monitor", "27 inch IPS panel"},
	{"USB-C hub", "HDMI, two USB-A ports and a card reader"},
	{"Desk lamp", "Warm white LED with dimmer"},
	{"Headphones", "Over-ear, noise cancelling"},
	{"Webcam", "1080p with built-in microphone"},
}

// Seed adds n products through store. Roughly a third carry a simulated photo.
// A nil rng uses a random seed.
func Seed(ctx context.Context, store *catalog.Store, n int, rng *rand.Rand) ([]catalog.Product, error) {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	out := make([]catalog.Product, 0, n)
	for i := range n {
		p := products[rng.IntN(len(products))]
		name := p.Name
		if i >= len(products) {
			name = fmt.Sprintf("%s #%d", p.Name, i+1)
		}
		var image capture.ImageRef
		if rng.IntN(3) == 0 {
			image = capture.Placeholder(time.Now().Add(time.Duration(i) * time.Millisecond))
		}
		added, err := store.Add(ctx, name, p.Description, image)
		if err != nil {
			return out, fmt.Errorf("sample: seed %q: %w", name, err)
		}
		out = append(out, added)
	}
	return out, nil
}
