package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/viper"

	"schemaboard/internal/catalog"
	"schemaboard/internal/layout"
	"schemaboard/internal/render"
)

const (
	configFileName = ".schemaboard"
	configFileType = "yaml"
	envPrefix      = "SCHEMABOARD"

	cfgKeySaveDirectory = "save_directory"
	cfgKeyConfirmations = "confirmations"
	cfgKeySource        = "catalog.source"
	cfgKeyCatalogPath   = "catalog.path"
	cfgKeyDSN           = "catalog.dsn"
	cfgKeySchema        = "catalog.schema"
	cfgKeyCaseSensitive = "filter.case_sensitive"
	cfgKeySeparation    = "layout.separation"
	cfgKeyStep          = "layout.step"
	cfgKeyMaxSteps      = "layout.max_steps"
	cfgKeyUnitsPerCol   = "render.units_per_col"
	cfgKeyUnitsPerRow   = "render.units_per_row"
	cfgKeyLogFile       = "log.file"
)

type Config struct {
	SaveDirectory string
	Confirmations bool
	Source        catalog.Source
	CaseSensitive bool
	Placer        layout.Placer
	Geometry      render.Geometry
	LogFile       string
}

// newViper reads the config file when there is one. An explicit path must
// exist; the default ~/.schemaboard.yaml is optional. Environment variables
// such as SCHEMABOARD_CATALOG_DSN override the file.
func newViper(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeySaveDirectory, "")
	v.SetDefault(cfgKeyConfirmations, true)
	v.SetDefault(cfgKeySource, string(catalog.KindBuiltin))
	v.SetDefault(cfgKeySchema, "public")
	v.SetDefault(cfgKeyCaseSensitive, false)
	v.SetDefault(cfgKeySeparation, layout.DefaultSeparation)
	v.SetDefault(cfgKeyStep, layout.DefaultStep)
	v.SetDefault(cfgKeyMaxSteps, layout.DefaultMaxSteps)
	v.SetDefault(cfgKeyUnitsPerCol, render.DefaultUnitsPerCol)
	v.SetDefault(cfgKeyUnitsPerRow, render.DefaultUnitsPerRow)
	v.SetDefault(cfgKeyLogFile, "")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		return v, nil
	}

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

func configFrom(v *viper.Viper) *Config {
	cfg := &Config{
		SaveDirectory: expandHome(v.GetString(cfgKeySaveDirectory)),
		Confirmations: v.GetBool(cfgKeyConfirmations),
		Source: catalog.Source{
			Kind:   catalog.Kind(v.GetString(cfgKeySource)),
			Path:   expandHome(v.GetString(cfgKeyCatalogPath)),
			DSN:    v.GetString(cfgKeyDSN),
			Schema: v.GetString(cfgKeySchema),
		},
		CaseSensitive: v.GetBool(cfgKeyCaseSensitive),
		Placer: layout.Placer{
			Separation: v.GetInt(cfgKeySeparation),
			Step:       v.GetInt(cfgKeyStep),
			MaxSteps:   v.GetInt(cfgKeyMaxSteps),
		},
		Geometry: render.Geometry{
			UnitsPerCol: v.GetInt(cfgKeyUnitsPerCol),
			UnitsPerRow: v.GetInt(cfgKeyUnitsPerRow),
			BoxWidth:    render.DefaultBoxWidth,
			MaxColumns:  render.MaxColumnsFor(v.GetInt(cfgKeySeparation), v.GetInt(cfgKeyUnitsPerRow)),
		},
		LogFile: expandHome(v.GetString(cfgKeyLogFile)),
	}
	return cfg
}

func loadConfig(path string) (*Config, error) {
	v, err := newViper(path)
	if err != nil {
		return nil, err
	}
	return configFrom(v), nil
}

func expandHome(value string) string {
	if !strings.HasPrefix(value, "~") {
		return value
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return value
	}
	return filepath.Join(home, strings.TrimPrefix(value, "~"))
}

// SavePath places bare file names in the save directory, creating it when
// needed. Paths with a directory component are used as given.
func (c *Config) SavePath(filename string) (string, error) {
	if c.SaveDirectory == "" || filepath.IsAbs(filename) || strings.ContainsRune(filename, filepath.Separator) {
		return filename, nil
	}
	if err := os.MkdirAll(c.SaveDirectory, 0o755); err != nil {
		return "", fmt.Errorf("failed to create save directory: %w", err)
	}
	return filepath.Join(c.SaveDirectory, filename), nil
}
