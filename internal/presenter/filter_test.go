package presenter

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/stockpile/internal/catalog"
)

func TestMatches(t *testing.T) {
	t.Parallel()

	p := catalog.Product{Name: "Laptop Pro X", Description: "High performance notebook"}
	tests := []struct {
		query string
		want  bool
	}{
		{"", true},
		{"laptop", true},
		{"PRO", true},
		{"performance note", true},
		{"lptop", true},
		{"perfromance", true},
		{"lap desk", false},
		{"px", false},
		{"tablet", false},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, Matches(p, tt.query), "query %q", tt.query)
	}
}
