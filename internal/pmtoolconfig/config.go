// Package pmtoolconfig loads the configuration for the pmtool command line
// tool: how deep the undo history goes and how quickly successive edits are
// grouped into one undo step. Grounded on Sumatoshi-tech-codefang's
// pkg/config loader, which layers a YAML file under spf13/viper with
// environment variable overrides. The YAML file itself is parsed directly
// with gopkg.in/yaml.v2 rather than through viper's built-in YAML support,
// so the defaults it supplies to viper come from a plain Config value.
package pmtoolconfig

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

// Defaults for the history plugin, mirroring prosemirror-history's own.
const (
	DefaultDepth         = 100
	DefaultNewGroupDelay = 500
)

// Config holds the settings pmtool needs to configure the history plugin,
// plus a schema name. pmtool's commands use only History; the schema comes
// from their --schema flag.
type Config struct {
	History HistoryConfig `yaml:"history" mapstructure:"history"`
	Schema  string        `yaml:"schema" mapstructure:"schema"`
}

// HistoryConfig mirrors history.Options in a form both yaml.v2 and viper can
// unmarshal, from a file or from environment variables respectively.
type HistoryConfig struct {
	Depth         int   `yaml:"depth" mapstructure:"depth"`
	NewGroupDelay int64 `yaml:"new_group_delay_ms" mapstructure:"new_group_delay_ms"`
}

func defaultConfig() Config {
	return Config{
		History: HistoryConfig{Depth: DefaultDepth, NewGroupDelay: DefaultNewGroupDelay},
		Schema:  "basic",
	}
}

// Load reads configuration from the YAML file at configPath (if non-empty),
// falling back to "pmtool.yaml" in the current directory when that file
// exists, then applies PMTOOL_-prefixed environment variable overrides
// (PMTOOL_HISTORY_DEPTH, etc.) on top of whatever the file supplied.
func Load(configPath string) (*Config, error) {
	cfg := defaultConfig()

	path := configPath
	implicit := path == ""
	if implicit {
		path = "pmtool.yaml"
	}
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("parse pmtool config %s: %w", path, err)
		}
	case implicit && errors.Is(err, os.ErrNotExist):
		// no pmtool.yaml in the working directory: defaults stand.
	default:
		return nil, fmt.Errorf("read pmtool config %s: %w", path, err)
	}

	v := viper.New()
	v.SetDefault("history.depth", cfg.History.Depth)
	v.SetDefault("history.new_group_delay_ms", cfg.History.NewGroupDelay)
	v.SetDefault("schema", cfg.Schema)

	v.SetEnvPrefix("PMTOOL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range []string{"history.depth", "history.new_group_delay_ms", "schema"} {
		_ = v.BindEnv(key)
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("apply pmtool config overrides: %w", err)
	}
	return &cfg, nil
}
