package prover

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyFilePath(t *testing.T) {
	assert.Equal(t, "./proving-keys/psi_4_8.key", KeyFilePath("./proving-keys/", Shape{SetASize: 4, SetBSize: 8}))
}

func TestGetKeys(t *testing.T) {
	keys := GetKeys("keys/", []Shape{{SetASize: 2, SetBSize: 2}, {SetASize: 4, SetBSize: 8}})
	assert.Equal(t, []string{"keys/psi_2_2.key", "keys/psi_4_8.key"}, keys)
}

func TestWriteAndLoadKeys(t *testing.T) {
	keysDir := t.TempDir() + "/"

	system, err := SetupPsi(2, 2)
	require.NoError(t, err)

	shape := Shape{SetASize: 2, SetBSize: 2}
	keyPath := KeyFilePath(keysDir, shape)
	vkeyPath := keyPath + ".vkey"
	require.NoError(t, WriteProvingSystem(system, keyPath, vkeyPath))

	systems, err := LoadKeys(keysDir, []Shape{shape})
	require.NoError(t, err)
	require.Len(t, systems, 1)
	assert.Equal(t, uint32(2), systems[0].SetASize)
	assert.Equal(t, uint32(2), systems[0].SetBSize)

	params, err := BuildTestParameters(2, 2, 1)
	require.NoError(t, err)

	proof, err := systems[0].ProvePsi(params)
	require.NoError(t, err)
	assert.NoError(t, systems[0].VerifyPsi(1, proof))

	vk, err := LoadVerifyingKey(vkeyPath)
	require.NoError(t, err)
	assert.NotNil(t, vk)
}

func TestLoadKeysMissingFile(t *testing.T) {
	_, err := LoadKeys(t.TempDir()+"/", []Shape{{SetASize: 2, SetBSize: 2}})
	assert.Error(t, err)
}
