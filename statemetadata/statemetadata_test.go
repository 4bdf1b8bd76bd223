package statemetadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attestia/go-identity-sdk/diddoc"
)

func testDocument(t *testing.T) *diddoc.Document {
	t.Helper()
	doc, err := diddoc.ParseDocument([]byte(`{
		"id": "did:example:123",
		"verificationMethod": [{
			"id": "did:example:123#key-1",
			"type": "JsonWebKey",
			"controller": "did:example:123",
			"publicKeyJwk": {"kty": "OKP", "crv": "Ed25519", "x": "11qYAYKxCrfVS_7TyWQHOg7hcvPapiMlrwIaaPcHURo"}
		}],
		"assertionMethod": ["did:example:123#key-1"]
	}`))
	require.NoError(t, err)
	return doc
}

func TestRoundTrip(t *testing.T) {
	doc := testDocument(t)

	for _, encoding := range []Encoding{EncodingJson, EncodingJsonBrotli} {
		data, err := Encode(doc, encoding)
		require.NoError(t, err)

		assert.Equal(t, byte(CurrentVersion), data[0])
		assert.Equal(t, byte(encoding), data[1])

		decoded, err := Decode(data)
		require.NoError(t, err)
		assert.Equal(t, doc.ID, decoded.ID)
		require.Len(t, decoded.VerificationMethod, 1)
		assert.Equal(t, "did:example:123#key-1", decoded.VerificationMethod[0].ID)
	}
}

func TestBrotliCompresses(t *testing.T) {
	doc := testDocument(t)

	plain, err := Encode(doc, EncodingJson)
	require.NoError(t, err)
	compressed, err := Encode(doc, EncodingJsonBrotli)
	require.NoError(t, err)

	assert.Less(t, len(compressed), len(plain))
}

func TestDecodeRejectsUnknownVersion(t *testing.T) {
	doc := testDocument(t)
	data, err := Encode(doc, EncodingJson)
	require.NoError(t, err)
	data[0] = 99

	_, err = Decode(data)
	require.Error(t, err)
	var invalid *InvalidStateMetadataError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Error(), "unsupported version number 99")
}

func TestDecodeRejectsUnknownEncoding(t *testing.T) {
	doc := testDocument(t)
	data, err := Encode(doc, EncodingJson)
	require.NoError(t, err)
	data[1] = 42

	_, err = Decode(data)
	require.Error(t, err)
	var invalid *InvalidStateMetadataError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Error(), "unsupported encoding 42")
}

func TestDecodeRejectsTruncatedInput(t *testing.T) {
	for _, data := range [][]byte{nil, {}, {byte(VersionV1)}} {
		_, err := Decode(data)
		var invalid *InvalidStateMetadataError
		require.ErrorAs(t, err, &invalid)
	}
}

// Version precedence: a bad version must fail as a version error even when
// the encoding byte is also unknown.
func TestVersionCheckedBeforeEncoding(t *testing.T) {
	_, err := Decode([]byte{99, 42, 0x00})
	var invalid *InvalidStateMetadataError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Error(), "version")
}

func TestEncodeRejectsUnknownEncoding(t *testing.T) {
	_, err := Encode(testDocument(t), Encoding(7))
	assert.Error(t, err)
}
