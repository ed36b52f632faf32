package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/storefront/pkg/sqlite"
)

// configFile is the structure written to config.yaml by init.
type configFile struct {
	APIURL  string `yaml:"api_url"`
	Timeout string `yaml:"timeout"`
	Listen  string `yaml:"listen"`
	DataDir string `yaml:"data_dir,omitempty"`
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the configuration file and data directory",
		Long: "Init writes config.yaml to the configuration directory if it is missing\n" +
			"and initializes the SQLite data directory used by serve.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInit(cmd)
		},
	}
}

func (a *app) runInit(cmd *cobra.Command) error {
	dataDir, err := a.resolveDataDir()
	if err != nil {
		return sysError("resolve data dir: %w", err)
	}
	path, err := a.configPath()
	if err != nil {
		return sysError("resolve config dir: %w", err)
	}

	written, err := writeConfigIfMissing(path, configFile{
		APIURL:  a.config.GetString(cfgKeyAPIURL),
		Timeout: a.config.GetDuration(cfgKeyTimeout).String(),
		Listen:  a.config.GetString(cfgKeyListen),
		DataDir: dataDir,
	})
	if err != nil {
		return sysError("write config: %w", err)
	}

	cupboard, err := sqlite.Open(dataDir)
	if err != nil {
		return sysError("initialize storage: %w", err)
	}
	if err := cupboard.Detach(); err != nil {
		return sysError("finalize storage: %w", err)
	}

	out := cmd.OutOrStdout()
	if written {
		fmt.Fprintf(out, "Wrote %s\n", path)
	}
	fmt.Fprintf(out, "Storefront initialized in %s\n", dataDir)
	return nil
}

// writeConfigIfMissing creates path with cfg unless it already exists.
// It reports whether the file was written.
func writeConfigIfMissing(path string, cfg configFile) (bool, error) {
	exists, err := fileExists(path)
	if err != nil || exists {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	header := []byte("# Storefront configuration\n")
	if err := os.WriteFile(path, append(header, data...), 0o644); err != nil {
		return false, err
	}
	return true, nil
}
