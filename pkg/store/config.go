package store

import (
	"errors"
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	defaultPath       = "~/.notebuilder.db"
	defaultCopySuffix = " (copy)"
	defaultCacheSize  = 1024 * 1024 // 1MB
)

// Config carries the settings the persistence layer and the template service
// need.
type Config interface {
	BasePath() string
	CopySuffix() string
	CacheSize() uint64
}

// LoadConfig reads .notebuilder.yaml from $NOTEBUILDER_CONFIG_PATH or the
// working directory. Every key can be overridden with a NOTEBUILDER_ env var.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetDefault("path", defaultPath)
	v.SetDefault("copy_suffix", defaultCopySuffix)
	v.SetDefault("cache_size", defaultCacheSize)
	v.SetConfigName(".notebuilder") // .yaml is implicit
	v.SetEnvPrefix("NOTEBUILDER")
	v.AutomaticEnv()

	if override := os.Getenv("NOTEBUILDER_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}
	return &fileConfig{
		Path:   path,
		Suffix: v.GetString("copy_suffix"),
		Cache:  v.GetUint64("cache_size"),
	}, nil
}

type fileConfig struct {
	Path   string `json:"path"`
	Suffix string `json:"copySuffix"`
	Cache  uint64 `json:"cacheSize"`
}

func (f *fileConfig) BasePath() string { return f.Path }

func (f *fileConfig) CopySuffix() string { return f.Suffix }

func (f *fileConfig) CacheSize() uint64 { return f.Cache }
