package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBase64RoundTrip(t *testing.T) {
	data := []byte{0x00, 0x01, 0xfe, 0xff, 'a', 'b'}

	encoded := EncodeB64(data)
	assert.NotContains(t, encoded, "=")

	decoded, err := DecodeB64(encoded)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}

func TestDecodeB64Invalid(t *testing.T) {
	_, err := DecodeB64("not!valid!base64")
	assert.Error(t, err)
}

func TestBase16RoundTrip(t *testing.T) {
	data := []byte{0xde, 0xad, 0xbe, 0xef}

	encoded := EncodeB16(data)
	assert.Equal(t, "deadbeef", encoded)

	decoded, err := DecodeB16(encoded)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}

func TestBase58RoundTrip(t *testing.T) {
	data := []byte("hello world")

	decoded, err := DecodeB58(EncodeB58(data))
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}

func TestDecodeMultibase(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    []byte
		expectError bool
	}{
		{
			name:     "base58btc",
			input:    "z" + EncodeB58([]byte{0x01, 0x02, 0x03}),
			expected: []byte{0x01, 0x02, 0x03},
		},
		{
			name:        "empty",
			input:       "",
			expectError: true,
		},
		{
			name:        "unknown prefix",
			input:       "?abc",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := DecodeMultibase(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, decoded)
		})
	}
}

func TestCanonicalJSONSortsKeys(t *testing.T) {
	canonical, err := CanonicalJSON([]byte(`{"b":2,"a":1,"nested":{"z":true,"y":false}}`))
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"b":2,"nested":{"y":false,"z":true}}`, string(canonical))
}

func TestSortedKeys(t *testing.T) {
	keys := SortedKeys(map[string]interface{}{"c": 1, "a": 2, "b": 3})
	assert.Equal(t, []string{"a", "b", "c"}, keys)
}
