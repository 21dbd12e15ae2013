package config

import (
	"fmt"

	hconfig "github.com/horgh/config"
)

// Config holds a relay server's runtime configuration, loaded from a
// key = value file using the same format and library the teacher uses.
type Config struct {
	ListenHost string
	ListenPort string
	ServerName string
	MOTD       string
}

var requiredKeys = []string{
	"listen-host",
	"listen-port",
	"server-name",
	"motd",
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	raw, err := hconfig.ReadStringMap(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read config: %s", err)
	}

	for _, key := range requiredKeys {
		v, exists := raw[key]
		if !exists {
			return nil, fmt.Errorf("missing required config key: %s", key)
		}
		if len(v) == 0 {
			return nil, fmt.Errorf("config value is blank: %s", key)
		}
	}

	return &Config{
		ListenHost: raw["listen-host"],
		ListenPort: raw["listen-port"],
		ServerName: raw["server-name"],
		MOTD:       raw["motd"],
	}, nil
}
