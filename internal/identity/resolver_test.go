package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anshuman444/hacknovation2.0/internal/domain"
	obsmocks "github.com/anshuman444/hacknovation2.0/internal/observability/mocks"
	"github.com/anshuman444/hacknovation2.0/internal/store"
)

func TestDirectoryResolver_ResolveOwner(t *testing.T) {
	ctx := context.Background()

	t.Run("creates owner on first sight", func(t *testing.T) {
		st := store.NewMemoryStore()
		resolver := New(st, obsmocks.NewRelaxedLogger())

		id, err := resolver.ResolveOwner(ctx, "0xabc")
		require.NoError(t, err)
		assert.Equal(t, int64(1), id)

		o, err := st.GetOwnerByAddress(ctx, "0xabc")
		require.NoError(t, err)
		assert.Equal(t, id, o.ID)
	})

	t.Run("returns the existing owner on repeat", func(t *testing.T) {
		st := store.NewMemoryStore()
		resolver := New(st, obsmocks.NewRelaxedLogger())

		first, err := resolver.ResolveOwner(ctx, "0xabc")
		require.NoError(t, err)
		second, err := resolver.ResolveOwner(ctx, "0xabc")
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("distinct addresses get distinct ids", func(t *testing.T) {
		st := store.NewMemoryStore()
		resolver := New(st, obsmocks.NewRelaxedLogger())

		first, err := resolver.ResolveOwner(ctx, "0xabc")
		require.NoError(t, err)
		second, err := resolver.ResolveOwner(ctx, "0xdef")
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})

	t.Run("rejects blank address", func(t *testing.T) {
		st := store.NewMemoryStore()
		resolver := New(st, obsmocks.NewRelaxedLogger())

		_, err := resolver.ResolveOwner(ctx, "   ")
		require.Error(t, err)
		assert.Equal(t, domain.CodeInvalidInput, domain.CodeOf(err))
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		st := store.NewMemoryStore()
		resolver := New(st, obsmocks.NewRelaxedLogger())

		first, err := resolver.ResolveOwner(ctx, "0xabc")
		require.NoError(t, err)
		second, err := resolver.ResolveOwner(ctx, "  0xabc  ")
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})
}
