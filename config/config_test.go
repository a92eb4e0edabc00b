package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zkpsi/psi-prover/encoding"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "0.0.0.0:3001", cfg.ProverAddress)
	assert.Equal(t, "0.0.0.0:9998", cfg.MetricsAddress)
	assert.Equal(t, "./proving-keys/", cfg.KeysDir)
	assert.Equal(t, encoding.HashBlake2b, cfg.TextHash)
	assert.Empty(t, cfg.Shapes)
}

func TestReadConfig(t *testing.T) {
	path := writeConfigFile(t, `
prover_address = "127.0.0.1:4001"
keys_dir = "/tmp/keys/"
text_hash = "poseidon"
json_logging = true

[[shapes]]
set_a_size = 4
set_b_size = 4

[[shapes]]
set_a_size = 8
set_b_size = 16
`)

	cfg, err := ReadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:4001", cfg.ProverAddress)
	assert.Equal(t, "0.0.0.0:9998", cfg.MetricsAddress)
	assert.Equal(t, "/tmp/keys/", cfg.KeysDir)
	assert.Equal(t, encoding.HashPoseidon, cfg.TextHash)
	assert.True(t, cfg.JSONLogging)
	require.Len(t, cfg.Shapes, 2)
	assert.Equal(t, Shape{SetASize: 8, SetBSize: 16}, cfg.Shapes[1])
	assert.True(t, cfg.HasShape(4, 4))
}

func TestReadConfigUnknownTextHash(t *testing.T) {
	path := writeConfigFile(t, `text_hash = "sha256"`)
	_, err := ReadConfig(path)
	assert.Error(t, err)
}

func TestReadConfigMissingFile(t *testing.T) {
	_, err := ReadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestHasShape(t *testing.T) {
	cfg := Config{Shapes: []Shape{{SetASize: 4, SetBSize: 8}}}
	assert.True(t, cfg.HasShape(4, 8))
	assert.False(t, cfg.HasShape(8, 4))
	assert.False(t, cfg.HasShape(2, 2))
}
