package config

import (
	"fmt"
	"os"

	"zkpsi/psi-prover/encoding"

	"github.com/pelletier/go-toml/v2"
)

// Config carries the run configuration for the prover server. Every field
// has a default so a missing config file is not an error for callers that
// start from Default().
type Config struct {
	ProverAddress  string  `toml:"prover_address"`
	MetricsAddress string  `toml:"metrics_address"`
	KeysDir        string  `toml:"keys_dir"`
	TextHash       string  `toml:"text_hash"`
	JSONLogging    bool    `toml:"json_logging"`
	Shapes         []Shape `toml:"shapes"`
}

// Shape selects one provisioned circuit size pair.
type Shape struct {
	SetASize uint32 `toml:"set_a_size"`
	SetBSize uint32 `toml:"set_b_size"`
}

func Default() Config {
	return Config{
		ProverAddress:  "0.0.0.0:3001",
		MetricsAddress: "0.0.0.0:9998",
		KeysDir:        "./proving-keys/",
		TextHash:       encoding.HashBlake2b,
	}
}

func (cfg *Config) HasShape(setASize uint32, setBSize uint32) bool {
	for _, s := range cfg.Shapes {
		if s.SetASize == setASize && s.SetBSize == setBSize {
			return true
		}
	}
	return false
}

func ReadConfig(file string) (Config, error) {
	cfg := Default()
	configFileData, err := os.ReadFile(file)
	if err != nil {
		return cfg, err
	}
	err = toml.Unmarshal(configFileData, &cfg)
	if err != nil {
		return cfg, err
	}
	if cfg.TextHash != encoding.HashBlake2b && cfg.TextHash != encoding.HashPoseidon {
		return cfg, fmt.Errorf("unknown text_hash: %s", cfg.TextHash)
	}
	return cfg, nil
}
