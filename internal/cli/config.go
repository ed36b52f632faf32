package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/storefront/internal/paths"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// envPrefix namespaces environment overrides, e.g. STOREFRONT_API_URL.
	envPrefix = "STOREFRONT"

	cfgKeyAPIURL  = "api_url"
	cfgKeyTimeout = "timeout"
	cfgKeyDataDir = "data_dir"
	cfgKeyListen  = "listen"
)

// Defaults for keys absent from config.yaml and the environment.
const (
	defaultAPIURL  = "http://localhost:8080"
	defaultTimeout = 30 * time.Second
	defaultListen  = ":8080"
)

// loadConfig resolves the config directory and reads config.yaml from it.
// A missing directory or file is not an error: defaults apply.
func loadConfig(configDirFlag string) (*viper.Viper, error) {
	configDir, err := paths.ResolveConfigDir(configDirFlag)
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyAPIURL, defaultAPIURL)
	v.SetDefault(cfgKeyTimeout, defaultTimeout)
	v.SetDefault(cfgKeyListen, defaultListen)
	v.SetDefault(cfgKeyDataDir, "")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// resolveDataDir applies --data-dir > data_dir in config > env > CWD default.
func (a *app) resolveDataDir() (string, error) {
	return paths.ResolveDataDir(a.flags.dataDir, a.config.GetString(cfgKeyDataDir))
}

// configPath returns the config.yaml path for the resolved config directory.
func (a *app) configPath() (string, error) {
	dir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileExt), nil
}

// fileExists reports whether path exists.
func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}
