package proof

import (
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/attestia/go-identity-sdk/diddoc"
)

// Add signs the document's canonical digest with a hex-encoded secp256k1
// private key and attaches the resulting proof in place.
func Add(doc map[string]interface{}, privateKeyHex, verificationMethod, proofPurpose string) error {
	if verificationMethod == "" {
		return fmt.Errorf("verification method is required")
	}
	if proofPurpose == "" {
		return fmt.Errorf("proof purpose is required")
	}

	priv, err := ethcrypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return fmt.Errorf("invalid private key: %w", err)
	}

	digest, err := signingDigest(doc)
	if err != nil {
		return err
	}

	signature, err := ethcrypto.Sign(digest, priv)
	if err != nil {
		return fmt.Errorf("failed to sign proof: %w", err)
	}

	p := newProof(verificationMethod, proofPurpose)
	p.ProofValue = hex.EncodeToString(signature)
	doc["proof"] = []interface{}{p}
	return nil
}

// Verify checks the document's embedded ecdsa-rdfc-2019 proof against the
// verification method it names, resolved from the signer's document.
func Verify(doc map[string]interface{}, signer *diddoc.Document) error {
	p, err := extractProof(doc)
	if err != nil {
		return err
	}
	if p.Type != TypeDataIntegrity {
		return fmt.Errorf("unsupported proof type %q", p.Type)
	}
	if p.Cryptosuite != SuiteECDSARDFC2019 {
		return fmt.Errorf("unsupported cryptosuite %q", p.Cryptosuite)
	}

	method, err := signer.ResolveMethod(p.VerificationMethod, diddoc.ScopeVerificationMethod())
	if err != nil {
		return fmt.Errorf("failed to resolve verification method: %w", err)
	}
	keyBytes, err := method.KeyBytes()
	if err != nil {
		return fmt.Errorf("failed to extract method key: %w", err)
	}
	pub, err := parseSecp256k1(keyBytes)
	if err != nil {
		return err
	}

	sigBytes, err := hex.DecodeString(p.ProofValue)
	if err != nil {
		return fmt.Errorf("proofValue is not valid hex: %w", err)
	}
	// Accept both 64-byte r||s and 65-byte r||s||v signatures.
	switch len(sigBytes) {
	case 65:
		sigBytes = sigBytes[:64]
	case 64:
	default:
		return fmt.Errorf("invalid signature length: got %d, want 64 or 65 bytes", len(sigBytes))
	}

	digest, err := signingDigest(doc)
	if err != nil {
		return err
	}

	r := new(big.Int).SetBytes(sigBytes[:32])
	s := new(big.Int).SetBytes(sigBytes[32:])
	if !ecdsa.Verify(pub, digest, r, s) {
		return fmt.Errorf("proof signature verification failed")
	}
	return nil
}

// parseSecp256k1 accepts compressed (33-byte) and uncompressed (65-byte)
// secp256k1 public keys.
func parseSecp256k1(keyBytes []byte) (*ecdsa.PublicKey, error) {
	if len(keyBytes) == 33 && (keyBytes[0] == 0x02 || keyBytes[0] == 0x03) {
		parsed, err := btcec.ParsePubKey(keyBytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse compressed public key: %w", err)
		}
		keyBytes = parsed.SerializeUncompressed()
	}
	pub, err := ethcrypto.UnmarshalPubkey(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}
	return pub, nil
}
