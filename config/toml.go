package config

import (
	"bytes"
	_ "embed"
	"text/template"

	"github.com/cometbft/cometbft/libs/os"
)

// DefaultDirPerm is the default permissions used when creating directories.
const DefaultDirPerm = 0o700

// Keep the template comments and keys in sync with the mapstructure tags
// in config.go.
//
//go:embed config.toml.tpl
var defaultConfigTemplate string

var configTemplate = template.Must(
	template.New("configFileTemplate").Parse(defaultConfigTemplate))

// WriteConfigFile renders cfg through the template and writes the result to
// configFilePath.
func WriteConfigFile(configFilePath string, cfg *Config) {
	var buffer bytes.Buffer
	if err := configTemplate.Execute(&buffer, cfg); err != nil {
		panic(err)
	}
	os.MustWriteFile(configFilePath, buffer.Bytes(), 0o644)
}
