package jwk

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectError string
	}{
		{
			name:  "valid OKP key",
			input: `{"kty":"OKP","crv":"Ed25519","x":"11qYAYKxCrfVS_7TyWQHOg7hcvPapiMlrwIaaPcHURo"}`,
		},
		{
			name:  "valid EC key",
			input: `{"kty":"EC","crv":"P-256","x":"f83OJ3D2xF1Bg8vub9tLe1gHMzV76e8Tus9uPHvRVEU","y":"x_FEzRu9m36HLN_tue659LNpXW6pCyStikYjKIWI5a0"}`,
		},
		{
			name:  "BLS key without y",
			input: `{"kty":"EC","crv":"BLS12381G2","x":"onlyx"}`,
		},
		{
			name:        "EC key missing y",
			input:       `{"kty":"EC","crv":"P-256","x":"f83OJ3D2xF1Bg8vub9tLe1gHMzV76e8Tus9uPHvRVEU"}`,
			expectError: "requires the y parameter",
		},
		{
			name:        "missing kty",
			input:       `{"crv":"Ed25519","x":"abc"}`,
			expectError: "kty parameter is missing",
		},
		{
			name:        "unsupported kty",
			input:       `{"kty":"XYZ"}`,
			expectError: "unsupported JWK key type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := Parse([]byte(tt.input))
			if tt.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, key)
		})
	}
}

// Vector from RFC 8037 appendix A.3.
func TestThumbprintEd25519Vector(t *testing.T) {
	key := &Jwk{
		Kty: KeyTypeOKP,
		Crv: "Ed25519",
		X:   "11qYAYKxCrfVS_7TyWQHOg7hcvPapiMlrwIaaPcHURo",
	}

	thumbprint, err := key.Thumbprint()
	require.NoError(t, err)
	assert.Equal(t, "kPrK_qmxVWaYVA9wwBF6Iuo3vVzz7TxHCTwXBygrS4k", thumbprint)
}

func TestThumbprintIgnoresOptionalMembers(t *testing.T) {
	bare := &Jwk{Kty: KeyTypeOKP, Crv: "Ed25519", X: "11qYAYKxCrfVS_7TyWQHOg7hcvPapiMlrwIaaPcHURo"}
	annotated := &Jwk{
		Kty: KeyTypeOKP, Crv: "Ed25519", X: bare.X,
		Kid: "key-1", Use: "sig", Alg: "EdDSA",
	}

	a, err := bare.Thumbprint()
	require.NoError(t, err)
	b, err := annotated.Thumbprint()
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestPublicStripsPrivateParameters(t *testing.T) {
	key := &Jwk{Kty: KeyTypeOKP, Crv: "Ed25519", X: "abc", D: "secret"}

	assert.False(t, key.IsPublic())
	pub := key.Public()
	assert.True(t, pub.IsPublic())
	assert.Empty(t, pub.D)
	assert.Equal(t, "secret", key.D, "original key must be untouched")
}

func TestFromEd25519RoundTrip(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	key := FromEd25519(pub)
	require.NoError(t, key.Check())

	recovered, err := key.Ed25519PublicKey()
	require.NoError(t, err)
	assert.Equal(t, pub, recovered)
}

func TestFromP256RoundTrip(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	key := FromP256(&priv.PublicKey)
	require.NoError(t, key.Check())

	recovered, err := key.P256PublicKey()
	require.NoError(t, err)
	assert.Equal(t, 0, priv.PublicKey.X.Cmp(recovered.X))
	assert.Equal(t, 0, priv.PublicKey.Y.Cmp(recovered.Y))
}
