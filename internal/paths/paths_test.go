package paths

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPlatform replaces the platform lookups for the duration of a test.
func stubPlatform(t *testing.T, home, config string, err error) {
	t.Helper()
	saved := platformDir
	platformDir.homeDir = func() (string, error) { return home, err }
	platformDir.userConfigDir = func() (string, error) { return config, err }
	t.Cleanup(func() { platformDir = saved })
}

func TestDefaultDirsLinux(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("linux-only test")
	}
	stubPlatform(t, "/home/ada", "/unused", nil)

	tests := []struct {
		name   string
		xdgVar string
		xdgVal string
		fn     func() (string, error)
		want   string
	}{
		{"config from XDG", "XDG_CONFIG_HOME", "/tmp/xdg-config", DefaultConfigDir, "/tmp/xdg-config/storefront"},
		{"config fallback", "XDG_CONFIG_HOME", "", DefaultConfigDir, "/home/ada/.config/storefront"},
		{"data from XDG", "XDG_DATA_HOME", "/tmp/xdg-data", DefaultDataDir, "/tmp/xdg-data/storefront"},
		{"data fallback", "XDG_DATA_HOME", "", DefaultDataDir, "/home/ada/.local/share/storefront"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.xdgVar, tt.xdgVal)
			got, err := tt.fn()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultDirsOtherPlatforms(t *testing.T) {
	if runtime.GOOS == "linux" {
		t.Skip("non-linux test")
	}
	stubPlatform(t, "/unused", "/Users/ada/Library/Application Support", nil)

	config, err := DefaultConfigDir()
	require.NoError(t, err)
	data, err := DefaultDataDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/Users/ada/Library/Application Support", AppName), config)
	assert.Equal(t, config, data)
}

func TestDefaultConfigDirLookupError(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	stubPlatform(t, "", "", errors.New("no home"))

	_, err := DefaultConfigDir()
	assert.Error(t, err)
}

func TestResolveConfigDir(t *testing.T) {
	stubPlatform(t, "/home/ada", "/home/ada/cfg", nil)
	t.Setenv("XDG_CONFIG_HOME", "")

	tests := []struct {
		name    string
		flag    string
		envVal  string
		wantSub string
	}{
		{"flag wins over env", "/explicit/config", "/env/config", "/explicit/config"},
		{"env wins when flag empty", "", "/env/config", "/env/config"},
		{"platform default when both empty", "", "", AppName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvConfigDir, tt.envVal)
			got, err := ResolveConfigDir(tt.flag)
			require.NoError(t, err)
			assert.Contains(t, got, tt.wantSub)
		})
	}
}

func TestResolveDataDir(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	tests := []struct {
		name        string
		flag        string
		configValue string
		envVal      string
		want        string
	}{
		{"flag wins over all", "/flag/data", "/config/data", "/env/data", "/flag/data"},
		{"config wins over env", "", "/config/data", "/env/data", "/config/data"},
		{"env when flag and config empty", "", "", "/env/data", "/env/data"},
		{"CWD default when all empty", "", "", "", filepath.Join(cwd, DefaultDataDirName)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvDataDir, tt.envVal)
			got, err := ResolveDataDir(tt.flag, tt.configValue)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveMakesPathsAbsolute(t *testing.T) {
	t.Setenv(EnvConfigDir, "relative/env")
	t.Setenv(EnvDataDir, "")

	got, err := ResolveConfigDir("")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got), "expected absolute path, got %s", got)

	got, err = ResolveDataDir("", "relative/config")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got), "expected absolute path, got %s", got)
}
