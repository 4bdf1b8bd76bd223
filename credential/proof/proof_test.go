package proof

import (
	"encoding/hex"
	"testing"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attestia/go-identity-sdk/diddoc"
)

// testContext keeps canonicalization local: every term maps inline, so no
// remote context is ever fetched.
var testContext = map[string]interface{}{
	"name":   "https://schema.org/name",
	"member": "https://schema.org/member",
}

func newDoc() map[string]interface{} {
	return map[string]interface{}{
		"@context": testContext,
		"name":     "Example University Degree",
		"member":   "did:example:holder",
	}
}

// newSecp256k1Signer returns a hex private key and a DID document exposing
// the matching public key under did:example:signer#key-1.
func newSecp256k1Signer(t *testing.T, compressed bool) (string, *diddoc.Document) {
	t.Helper()
	priv, err := ethcrypto.GenerateKey()
	require.NoError(t, err)

	var pubBytes []byte
	if compressed {
		pubBytes = ethcrypto.CompressPubkey(&priv.PublicKey)
	} else {
		pubBytes = ethcrypto.FromECDSAPub(&priv.PublicKey)
	}

	doc := &diddoc.Document{
		ID: "did:example:signer",
		VerificationMethod: []diddoc.VerificationMethod{{
			ID:           "did:example:signer#key-1",
			Type:         "EcdsaSecp256k1VerificationKey2019",
			Controller:   "did:example:signer",
			PublicKeyHex: hex.EncodeToString(pubBytes),
		}},
	}
	return hex.EncodeToString(ethcrypto.FromECDSA(priv)), doc
}

func TestAddAndVerify(t *testing.T) {
	privHex, signer := newSecp256k1Signer(t, false)

	doc := newDoc()
	require.NoError(t, Add(doc, privHex, "did:example:signer#key-1", "assertionMethod"))

	p, err := extractProof(doc)
	require.NoError(t, err)
	assert.Equal(t, TypeDataIntegrity, p.Type)
	assert.Equal(t, SuiteECDSARDFC2019, p.Cryptosuite)
	assert.Len(t, p.ProofValue, 130) // 65 bytes of hex, r || s || v

	require.NoError(t, Verify(doc, signer))
}

func TestVerifyCompressedMethodKey(t *testing.T) {
	privHex, signer := newSecp256k1Signer(t, true)

	doc := newDoc()
	require.NoError(t, Add(doc, privHex, "did:example:signer#key-1", "assertionMethod"))
	require.NoError(t, Verify(doc, signer))
}

func TestVerifyAcceptsSignatureWithoutRecoveryID(t *testing.T) {
	privHex, signer := newSecp256k1Signer(t, false)

	doc := newDoc()
	require.NoError(t, Add(doc, privHex, "did:example:signer#key-1", "assertionMethod"))

	// Strip the trailing recovery byte, leaving the 64-byte r || s form.
	p := doc["proof"].([]interface{})[0].(*Proof)
	p.ProofValue = p.ProofValue[:128]

	require.NoError(t, Verify(doc, signer))
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	privHex, _ := newSecp256k1Signer(t, false)
	_, stranger := newSecp256k1Signer(t, false)

	doc := newDoc()
	require.NoError(t, Add(doc, privHex, "did:example:signer#key-1", "assertionMethod"))

	assert.Error(t, Verify(doc, stranger))
}

func TestVerifyRejectsTamperedDocument(t *testing.T) {
	privHex, signer := newSecp256k1Signer(t, false)

	doc := newDoc()
	require.NoError(t, Add(doc, privHex, "did:example:signer#key-1", "assertionMethod"))

	doc["name"] = "Forged Degree"
	assert.Error(t, Verify(doc, signer))
}

func TestVerifyRejectsBadSignatureLength(t *testing.T) {
	privHex, signer := newSecp256k1Signer(t, false)

	doc := newDoc()
	require.NoError(t, Add(doc, privHex, "did:example:signer#key-1", "assertionMethod"))

	p := doc["proof"].([]interface{})[0].(*Proof)
	p.ProofValue = p.ProofValue[:20]

	err := Verify(doc, signer)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid signature length")
}

func TestVerifyRequiresProof(t *testing.T) {
	_, signer := newSecp256k1Signer(t, false)
	assert.Error(t, Verify(newDoc(), signer))
}

func TestAddRequiresMethodAndPurpose(t *testing.T) {
	privHex, _ := newSecp256k1Signer(t, false)

	assert.Error(t, Add(newDoc(), privHex, "", "assertionMethod"))
	assert.Error(t, Add(newDoc(), privHex, "did:example:signer#key-1", ""))
}
