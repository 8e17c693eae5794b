package fs

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	obsmocks "github.com/anshuman444/hacknovation2.0/internal/observability/mocks"
	"github.com/anshuman444/hacknovation2.0/internal/storage"
)

func newStorage(t *testing.T) *Storage {
	t.Helper()

	s, err := New(t.TempDir(), obsmocks.NewRelaxedLogger())
	require.NoError(t, err)
	return s
}

func TestStorage_PutGet(t *testing.T) {
	ctx := context.Background()
	s := newStorage(t)

	err := s.Put(ctx, "audits/abc.sol", strings.NewReader("contract C {}"), storage.ObjectMetadata{
		ContentType: "text/plain",
		Size:        13,
	})
	require.NoError(t, err)

	reader, err := s.Get(ctx, "audits/abc.sol")
	require.NoError(t, err)
	defer reader.Close()

	content, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "contract C {}", string(content))
}

func TestStorage_Exists(t *testing.T) {
	ctx := context.Background()
	s := newStorage(t)

	exists, err := s.Exists(ctx, "audits/missing.sol")
	require.NoError(t, err)
	assert.False(t, exists)

	err = s.Put(ctx, "audits/present.sol", strings.NewReader("contract C {}"), storage.ObjectMetadata{})
	require.NoError(t, err)

	exists, err = s.Exists(ctx, "audits/present.sol")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStorage_RejectsTraversal(t *testing.T) {
	ctx := context.Background()
	s := newStorage(t)

	for _, key := range []string{"../escape.sol", "audits/../../escape.sol", "/etc/passwd"} {
		err := s.Put(ctx, key, strings.NewReader("x"), storage.ObjectMetadata{})
		assert.Error(t, err, "key: %s", key)

		_, err = s.Get(ctx, key)
		assert.Error(t, err, "key: %s", key)
	}
}

func TestStorage_GetMissingObject(t *testing.T) {
	s := newStorage(t)

	_, err := s.Get(context.Background(), "audits/missing.sol")
	assert.Error(t, err)
}
