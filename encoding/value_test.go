package encoding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValue(t *testing.T) {
	testCases := []struct {
		token    string
		expected Value
	}{
		{"123", IntegerValue(123)},
		{"0", IntegerValue(0)},
		{"18446744073709551615", IntegerValue(18446744073709551615)},
		{"18446744073709551616", TextValue("18446744073709551616")},
		{"-5", TextValue("-5")},
		{"12.5", TextValue("12.5")},
		{"apple", TextValue("apple")},
		{"0x1f", TextValue("0x1f")},
	}

	for _, tc := range testCases {
		t.Run(tc.token, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParseValue(tc.token))
		})
	}
}

func TestParseSet(t *testing.T) {
	t.Run("mixed values", func(t *testing.T) {
		values, err := ParseSet("1, 2, apple")
		require.NoError(t, err)
		require.Len(t, values, 3)
		assert.Equal(t, IntegerValue(1), values[0])
		assert.Equal(t, IntegerValue(2), values[1])
		assert.Equal(t, TextValue("apple"), values[2])
	})

	t.Run("empty list rejected", func(t *testing.T) {
		_, err := ParseSet("")
		assert.Error(t, err)
	})

	t.Run("blank token rejected", func(t *testing.T) {
		_, err := ParseSet("1,,2")
		assert.Error(t, err)
	})

	t.Run("whitespace only rejected", func(t *testing.T) {
		_, err := ParseSet("   ")
		assert.Error(t, err)
	})
}

func TestParseTextSet(t *testing.T) {
	values, err := ParseTextSet("1,apple")
	require.NoError(t, err)
	require.Len(t, values, 2)
	assert.Equal(t, TextValue("1"), values[0])
	assert.Equal(t, TextValue("apple"), values[1])
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "42", IntegerValue(42).String())
	assert.Equal(t, "pear", TextValue("pear").String())
}
