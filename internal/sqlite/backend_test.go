package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/storefront/pkg/types"
)

// setupBackend attaches a Backend to a fresh temp dir and detaches it when
// the test ends.
func setupBackend(t *testing.T) *Backend {
	t.Helper()
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	t.Cleanup(func() { b.Detach() })
	return b
}

func productsOf(t *testing.T, b *Backend) types.Table {
	t.Helper()
	table, err := b.GetTable(types.TableProducts)
	require.NoError(t, err)
	return table
}

func TestBackendAttach(t *testing.T) {
	dir := t.TempDir()
	b := NewBackend()
	config := types.Config{Backend: types.BackendSQLite, DataDir: dir}

	require.NoError(t, b.Attach(config))
	defer b.Detach()

	assert.FileExists(t, filepath.Join(dir, dbFileName))
	assert.FileExists(t, filepath.Join(dir, productsJSONL))
	assert.Equal(t, dir, b.DataDir())
	assert.ErrorIs(t, b.Attach(config), types.ErrAlreadyAttached)
}

func TestBackendAttachCreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	b := NewBackend()

	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}))
	defer b.Detach()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestBackendAttachInvalidConfig(t *testing.T) {
	b := NewBackend()
	assert.ErrorIs(t, b.Attach(types.Config{}), types.ErrBackendEmpty)
	assert.ErrorIs(t, b.Attach(types.Config{Backend: "postgres"}), types.ErrBackendUnknown)
}

func TestBackendDetach(t *testing.T) {
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	table := productsOf(t, b)

	require.NoError(t, b.Detach())
	require.NoError(t, b.Detach(), "Detach must be idempotent")

	_, err := b.GetTable(types.TableProducts)
	assert.ErrorIs(t, err, types.ErrCupboardDetached)

	_, err = table.Get("1")
	assert.ErrorIs(t, err, types.ErrCupboardDetached)
	_, err = table.Set("", &types.Product{Name: "late"})
	assert.ErrorIs(t, err, types.ErrCupboardDetached)
}

func TestBackendGetTableUnknown(t *testing.T) {
	b := setupBackend(t)
	_, err := b.GetTable("orders")
	assert.ErrorIs(t, err, types.ErrTableNotFound)
}

func TestBackendReattachReloadsJSONL(t *testing.T) {
	dir := t.TempDir()
	config := types.Config{Backend: types.BackendSQLite, DataDir: dir}

	first := NewBackend()
	require.NoError(t, first.Attach(config))
	id, err := productsOf(t, first).Set("", &types.Product{Name: "Kettle", Price: 30, Stock: 2})
	require.NoError(t, err)
	require.NoError(t, first.Detach())

	second := NewBackend()
	require.NoError(t, second.Attach(config))
	defer second.Detach()

	entity, err := productsOf(t, second).Get(id)
	require.NoError(t, err)
	p := entity.(*types.Product)
	assert.Equal(t, "Kettle", p.Name)
	assert.Equal(t, 2, p.Stock)

	// Autoincrement continues past reloaded ids.
	next, err := productsOf(t, second).Set("", &types.Product{Name: "Mug"})
	require.NoError(t, err)
	assert.NotEqual(t, id, next)
}
