package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/storefront/pkg/types"
)

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	cupboard, err := Open(dir)
	require.NoError(t, err)
	defer cupboard.Detach()

	table, err := cupboard.GetTable(types.TableProducts)
	require.NoError(t, err)
	id, err := table.Set("", &types.Product{Name: "Tea"})
	require.NoError(t, err)
	assert.Equal(t, "1", id)
	assert.FileExists(t, filepath.Join(dir, "products.jsonl"))
}

func TestNewBackendStartsDetached(t *testing.T) {
	_, err := NewBackend().GetTable(types.TableProducts)
	assert.ErrorIs(t, err, types.ErrCupboardDetached)
}
