package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
)

// Backend holds the operator credentials of the credential service.
// Empty fields are allowed here, they are reported when a credential is resolved.
type Backend struct {
	Hostname string `toml:"hostname" envconfig:"BACKEND_HOSTNAME"`
	Username string `toml:"username" envconfig:"BACKEND_USERNAME"`
	Password string `toml:"password" envconfig:"BACKEND_PASSWORD"`
}

// file mirrors the layout of the worker configuration file.
type file struct {
	Backend Backend `toml:"backend"`
}

// LoadBackend reads the [backend] table of the first existing file in paths,
// then overrides each key with its environment variable when set.
func LoadBackend(paths ...string) (*Backend, error) {
	var f file
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to stat configuration file %s: %w", path, err)
		}

		if _, err := toml.DecodeFile(path, &f); err != nil {
			return nil, fmt.Errorf("failed to decode configuration file %s: %w", path, err)
		}
		break
	}

	// envconfig leaves fields untouched when the variable is unset and no default exists.
	if err := envconfig.Process(envPrefix, &f.Backend); err != nil {
		return nil, err
	}

	return &f.Backend, nil
}
