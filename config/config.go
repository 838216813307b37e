package config

import (
	"fmt"

	"github.com/rvkinc/presetutils/internal/fetch"
	"github.com/rvkinc/presetutils/internal/id"
	"github.com/rvkinc/presetutils/internal/tagdump"
	"github.com/rvkinc/presetutils/internal/taginfo"

	"gopkg.in/yaml.v3"
)

// Config defines converter configuration
type Config struct {
	FetchConfig   *fetch.Config   `yaml:"fetch"`
	TaginfoConfig *taginfo.Config `yaml:"taginfo"`
	ID2JOSMConfig *id.Config      `yaml:"id2josm"`
	TagsConfig    *tagdump.Config `yaml:"tagsfromtaginfo"`
}

// NewConfig reads config from file. Keys missing from the file keep their
// default values.
func NewConfig(file []byte) (*Config, error) {
	var cfg = &Config{
		FetchConfig:   fetch.DefaultConfig(),
		TaginfoConfig: taginfo.DefaultConfig(),
		ID2JOSMConfig: id.DefaultConfig(),
		TagsConfig:    tagdump.DefaultConfig(),
	}

	err := yaml.Unmarshal(file, cfg)
	if err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// an empty section decodes to nil
	if cfg.FetchConfig == nil {
		cfg.FetchConfig = fetch.DefaultConfig()
	}
	if cfg.TaginfoConfig == nil {
		cfg.TaginfoConfig = taginfo.DefaultConfig()
	}
	if cfg.ID2JOSMConfig == nil {
		cfg.ID2JOSMConfig = id.DefaultConfig()
	}
	if cfg.TagsConfig == nil {
		cfg.TagsConfig = tagdump.DefaultConfig()
	}

	return cfg, nil
}
