package config

import (
	"os"
	"path/filepath"
)

// Config is the node configuration, loaded from config.toml under the home
// directory. RootDir is injected from the --home flag, never from the file.
type Config struct {
	RootDir string `mapstructure:"-"`

	ChainID  string `mapstructure:"chain_id"`
	LogLevel string `mapstructure:"log_level"`

	API   APIConfig   `mapstructure:"api"`
	Index IndexConfig `mapstructure:"index"`
}

type APIConfig struct {
	ListenAddress string `mapstructure:"listen_address"`
}

// IndexConfig controls the sqlite activity indexer.
type IndexConfig struct {
	Enable bool   `mapstructure:"enable"`
	Path   string `mapstructure:"path"`
}

func DefaultConfig(home string) *Config {
	if len(home) == 0 {
		home = os.ExpandEnv("$HOME/.datamarket")
	}
	return &Config{
		RootDir:  home,
		ChainID:  "datamarket-local",
		LogLevel: "info",
		API: APIConfig{
			ListenAddress: "0.0.0.0:8547",
		},
		Index: IndexConfig{
			Enable: true,
			Path:   "data/index.db",
		},
	}
}

func (cfg *Config) ConfigDir() string {
	return filepath.Join(cfg.RootDir, "config")
}

func (cfg *Config) ConfigFile() string {
	return filepath.Join(cfg.ConfigDir(), "config.toml")
}

func (cfg *Config) GenesisFile() string {
	return filepath.Join(cfg.ConfigDir(), "genesis.json")
}

func (cfg *Config) KeyFile() string {
	return filepath.Join(cfg.ConfigDir(), "key.json")
}

func (cfg *Config) DataDir() string {
	return filepath.Join(cfg.RootDir, "data")
}

// IndexPath resolves the indexer path against the home directory when it is
// not absolute.
func (cfg *Config) IndexPath() string {
	if filepath.IsAbs(cfg.Index.Path) {
		return cfg.Index.Path
	}
	return filepath.Join(cfg.RootDir, cfg.Index.Path)
}

func (cfg *Config) EnsureDirs() error {
	if err := os.MkdirAll(cfg.ConfigDir(), DefaultDirPerm); err != nil {
		return err
	}
	return os.MkdirAll(cfg.DataDir(), DefaultDirPerm)
}
