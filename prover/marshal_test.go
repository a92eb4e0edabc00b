package prover

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInput(t *testing.T) {
	t.Run("Hardcoded request", func(t *testing.T) {
		input := `{"setA":["0x1","0x2","0x3"],"setB":["0x3","0x4","0x5"],"intersectionSize":1}`
		params, err := ParseInput(input)
		require.NoError(t, err)
		assert.Equal(t, uint32(3), params.SetASize())
		assert.Equal(t, uint32(3), params.SetBSize())
		assert.Equal(t, uint32(1), params.IntersectionSize)
		assert.Equal(t, uint32(1), IntersectionCount(params.SetA, params.SetB))
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		_, err := ParseInput(`{"setA":`)
		assert.Error(t, err)
	})

	t.Run("Invalid set element", func(t *testing.T) {
		_, err := ParseInput(`{"setA":["0xzz"],"setB":["0x1"],"intersectionSize":0}`)
		assert.Error(t, err)
	})
}

func TestPsiParametersJSONRoundTrip(t *testing.T) {
	params, err := BuildTestParameters(4, 4, 2)
	require.NoError(t, err)

	serialized, err := json.Marshal(params)
	require.NoError(t, err)

	var restored PsiParameters
	require.NoError(t, json.Unmarshal(serialized, &restored))
	assert.Equal(t, params.IntersectionSize, restored.IntersectionSize)
	assert.Equal(t, params.SetA, restored.SetA)
	assert.Equal(t, params.SetB, restored.SetB)
}

func TestProofJSONRoundTrip(t *testing.T) {
	system, err := SetupPsi(2, 2)
	require.NoError(t, err)

	params := &PsiParameters{
		SetA:             elements(21, 22),
		SetB:             elements(22, 23),
		IntersectionSize: 1,
	}

	proof, err := system.ProvePsi(params)
	require.NoError(t, err)

	raw, err := proof.WriteRawBytes()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(raw), 8*32)

	serialized, err := json.Marshal(proof)
	require.NoError(t, err)

	restored := new(Proof)
	require.NoError(t, json.Unmarshal(serialized, restored))
	assert.NoError(t, system.VerifyPsi(1, restored))
}
