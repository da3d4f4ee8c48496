// Package catalogtest holds the behaviour every catalog.Backend must show when
// driven through a catalog.Store.
package catalogtest

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/stockpile/internal/catalog"
	"github.com/jask/stockpile/internal/capture"
)

// RunStoreSuite exercises a Store built over backends produced by newBackend.
// newBackend is called once per subtest.
func RunStoreSuite(t *testing.T, newBackend func(t *testing.T) catalog.Backend) {
	t.Helper()

	t.Run("adds grow the catalog with distinct ids", func(t *testing.T) {
		ctx := context.Background()
		s := catalog.NewStore(newBackend(t))
		seen := map[string]bool{}
		for i := 0; i < 25; i++ {
			p, err := s.Add(ctx, fmt.Sprintf("Item %d", i), "desc", "")
			require.NoError(t, err)
			require.False(t, seen[p.ID], "id %s reused", p.ID)
			seen[p.ID] = true
			n, err := s.Len(ctx)
			require.NoError(t, err)
			require.Equal(t, i+1, n)
		}
	})

	t.Run("blank fields are rejected", func(t *testing.T) {
		ctx := context.Background()
		s := catalog.NewStore(newBackend(t))
		cases := []struct{ name, desc string }{{"", "x"}, {"x", ""}, {"  ", "  "}}
		for _, c := range cases {
			_, err := s.Add(ctx, c.name, c.desc, "")
			require.ErrorIs(t, err, catalog.ErrValidation, "add(%q, %q)", c.name, c.desc)
		}
		n, err := s.Len(ctx)
		require.NoError(t, err)
		require.Zero(t, n)
	})

	t.Run("surrounding whitespace is trimmed", func(t *testing.T) {
		ctx := context.Background()
		s := catalog.NewStore(newBackend(t))
		p, err := s.Add(ctx, "  A  ", "  B  ", "")
		require.NoError(t, err)
		require.Equal(t, "A", p.Name)
		require.Equal(t, "B", p.Description)

		got, ok, err := s.Get(ctx, p.ID)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "A", got.Name)
		require.Equal(t, "B", got.Description)
	})

	t.Run("remove is idempotent", func(t *testing.T) {
		ctx := context.Background()
		s := catalog.NewStore(newBackend(t))
		p, err := s.Add(ctx, "Laptop", "Fast laptop", "")
		require.NoError(t, err)

		removed, err := s.Remove(ctx, "missing")
		require.NoError(t, err)
		require.False(t, removed)
		n, _ := s.Len(ctx)
		require.Equal(t, 1, n)

		removed, err = s.Remove(ctx, p.ID)
		require.NoError(t, err)
		require.True(t, removed)
		n, _ = s.Len(ctx)
		require.Zero(t, n)

		removed, err = s.Remove(ctx, p.ID)
		require.NoError(t, err)
		require.False(t, removed)
	})

	t.Run("list keeps insertion order and is a snapshot", func(t *testing.T) {
		ctx := context.Background()
		s := catalog.NewStore(newBackend(t))
		ref := capture.ImageRef("file:///tmp/photo.jpg")
		a, err := s.Add(ctx, "A", "first", ref)
		require.NoError(t, err)
		b, err := s.Add(ctx, "B", "second\nline two", "")
		require.NoError(t, err)
		c, err := s.Add(ctx, "C", "third", "")
		require.NoError(t, err)
		_, err = s.Remove(ctx, b.ID)
		require.NoError(t, err)

		list, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		require.Equal(t, a.ID, list[0].ID)
		require.Equal(t, ref, list[0].Image)
		require.Equal(t, c.ID, list[1].ID)
		require.False(t, list[1].HasImage())

		list[0].Name = "mutated"
		again, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, again, 2)
		require.Equal(t, "A", again[0].Name)
	})
}
