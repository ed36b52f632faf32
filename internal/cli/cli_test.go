package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/storefront/internal/server"
	"github.com/mesh-intelligence/storefront/internal/sqlite"
	"github.com/mesh-intelligence/storefront/pkg/storefront"
	"github.com/mesh-intelligence/storefront/pkg/types"
)

// runCLI executes the root command with args and returns stdout, stderr,
// and the exit code.
func runCLI(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	code := run(root, args, &stderr)
	return stdout.String(), stderr.String(), code
}

// startAPI serves a fresh sqlite-backed products table and returns its URL.
func startAPI(t *testing.T) (string, types.Table) {
	t.Helper()
	backend := sqlite.NewBackend()
	require.NoError(t, backend.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	t.Cleanup(func() { backend.Detach() })
	table, err := backend.GetTable(types.TableProducts)
	require.NoError(t, err)

	ts := httptest.NewServer(server.New(table, nil))
	t.Cleanup(ts.Close)
	return ts.URL, table
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitSuccess, exitCode(nil))
	assert.Equal(t, exitUserError, exitCode(errors.New("unknown flag")))
	assert.Equal(t, exitUserError, exitCode(userError("bad id")))
	assert.Equal(t, exitSysError, exitCode(sysError("disk full")))
}

func TestVersion(t *testing.T) {
	out, _, code := runCLI(t, "version")
	assert.Equal(t, exitSuccess, code)
	assert.Contains(t, out, "storefront v"+storefront.Version)
	assert.Contains(t, out, storefront.ModulePath)
}

func TestUnknownCommandIsUserError(t *testing.T) {
	_, stderr, code := runCLI(t, "frobnicate")
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, stderr, "unknown command")
}

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")
	dataDir := filepath.Join(t.TempDir(), "data")

	out, _, code := runCLI(t, "init", "--config-dir", configDir, "--data-dir", dataDir)
	require.Equal(t, exitSuccess, code)
	assert.Contains(t, out, "Storefront initialized")

	raw, err := os.ReadFile(filepath.Join(configDir, configFileExt))
	require.NoError(t, err)
	var cfg configFile
	require.NoError(t, yaml.Unmarshal(raw, &cfg))
	assert.Equal(t, defaultAPIURL, cfg.APIURL)
	assert.Equal(t, defaultListen, cfg.Listen)
	assert.Equal(t, "30s", cfg.Timeout)
	assert.Equal(t, dataDir, cfg.DataDir)

	assert.FileExists(t, filepath.Join(dataDir, "products.jsonl"))

	// A second init keeps the existing file.
	require.NoError(t, os.WriteFile(filepath.Join(configDir, configFileExt), []byte("api_url: http://example.test\n"), 0o644))
	out, _, code = runCLI(t, "init", "--config-dir", configDir, "--data-dir", dataDir)
	require.Equal(t, exitSuccess, code)
	assert.NotContains(t, out, "Wrote")
	raw, err = os.ReadFile(filepath.Join(configDir, configFileExt))
	require.NoError(t, err)
	assert.Equal(t, "api_url: http://example.test\n", string(raw))
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	v, err := loadConfig(dir)
	require.NoError(t, err, "missing config.yaml is not an error")
	assert.Equal(t, defaultAPIURL, v.GetString(cfgKeyAPIURL))
	assert.Equal(t, defaultTimeout, v.GetDuration(cfgKeyTimeout))

	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileExt),
		[]byte("api_url: http://shop.test\ntimeout: 5s\n"), 0o644))
	v, err = loadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "http://shop.test", v.GetString(cfgKeyAPIURL))
	assert.Equal(t, "5s", v.GetDuration(cfgKeyTimeout).String())

	t.Setenv("STOREFRONT_API_URL", "http://env.test")
	v, err = loadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "http://env.test", v.GetString(cfgKeyAPIURL), "environment overrides the file")
}

func TestLoadConfigMalformed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileExt), []byte("api_url: [unclosed\n"), 0o644))

	_, _, code := runCLI(t, "products", "list", "--config-dir", dir)
	assert.Equal(t, exitSysError, code)
}

func TestProductsLifecycle(t *testing.T) {
	apiURL, _ := startAPI(t)
	base := []string{"--config-dir", t.TempDir(), "--api-url", apiURL}
	cli := func(args ...string) (string, string, int) {
		return runCLI(t, append(append([]string{}, base...), args...)...)
	}

	out, _, code := cli("products", "list")
	require.Equal(t, exitSuccess, code)
	assert.Contains(t, out, "No products")

	out, _, code = cli("products", "create", "--name", "Kettle", "--price", "25", "--stock", "3")
	require.Equal(t, exitSuccess, code)
	assert.Contains(t, out, "Kettle")
	assert.Contains(t, out, "25.00")

	out, _, code = cli("products", "list")
	require.Equal(t, exitSuccess, code)
	assert.Contains(t, out, "Kettle")
	assert.Contains(t, out, "Total products: 1")

	out, _, code = cli("products", "update", "1", "--stock", "7")
	require.Equal(t, exitSuccess, code)
	assert.Contains(t, out, "7")

	out, _, code = cli("products", "restock", "1", "3")
	require.Equal(t, exitSuccess, code)
	assert.Contains(t, out, "10")

	_, stderr, code := cli("products", "restock", "--", "1", "-20")
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, stderr, "only 10 in stock")

	_, _, code = cli("products", "restock", "--", "1", "-3")
	require.Equal(t, exitSuccess, code)

	out, _, code = cli("products", "get", "1", "--json")
	require.Equal(t, exitSuccess, code)
	var resp types.Response[*types.Product]
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, types.StatusSuccess, resp.Status)
	assert.Equal(t, types.Code("CRUD.READ.SUCCESS"), resp.Code)
	require.NotNil(t, resp.Payload)
	assert.Equal(t, 7, resp.Payload.Stock)
	assert.Equal(t, "Kettle", resp.Payload.Name)

	_, _, code = cli("products", "delete", "1")
	require.Equal(t, exitSuccess, code)

	out, stderr, code = cli("products", "get", "1", "--json")
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, stderr, "CRUD.READ.ERROR")
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, types.StatusError, resp.Status)
	assert.Nil(t, resp.Payload)
}

func TestProductsUserErrors(t *testing.T) {
	apiURL, _ := startAPI(t)
	base := []string{"--config-dir", t.TempDir(), "--api-url", apiURL}

	tests := []struct {
		name string
		args []string
	}{
		{"non-numeric id", []string{"products", "get", "abc"}},
		{"missing name", []string{"products", "create", "--price", "1"}},
		{"negative stock", []string{"products", "create", "--name", "x", "--stock=-1"}},
		{"update without changes", []string{"products", "update", "1"}},
		{"update missing product", []string{"products", "update", "9", "--stock", "1"}},
		{"delete missing product", []string{"products", "delete", "9"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, code := runCLI(t, append(tt.args, base...)...)
			assert.Equal(t, exitUserError, code)
			assert.NotEmpty(t, stderr)
		})
	}
}

func TestProductsUnreachableAPI(t *testing.T) {
	ts := httptest.NewServer(nil)
	url := ts.URL
	ts.Close()

	_, stderr, code := runCLI(t, "products", "list", "--config-dir", t.TempDir(), "--api-url", url)
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, stderr, "CRUD.READ.ERROR")
}
