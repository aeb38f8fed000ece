package extendinternal

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config configures the expansion. It is loaded from a YAML file:
//
//	attributes:
//	  - ext
//	  - extend::ext
type Config struct {
	// Attributes are the paths of the attributes which mark functions for
	// expansion. If empty, "ext" and "extend::ext" are used.
	Attributes []string `yaml:"attributes"`
}

// LoadConfig reads the config file at path. Unknown fields are rejected.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return ParseConfig(path, data)
}

// ParseConfig decodes YAML config data. name is used in error messages.
func ParseConfig(name string, data []byte) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config %s: %w", name, err)
	}

	for i, attr := range cfg.Attributes {
		if strings.TrimSpace(attr) == "" {
			return Config{}, fmt.Errorf("config %s: attributes[%d] is empty", name, i)
		}
	}
	return cfg, nil
}
