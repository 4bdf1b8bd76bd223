package schema

import (
	"crypto/sha256"
	"fmt"

	"github.com/piprate/json-gold/ld"
)

// sharedLoader caches remote contexts across canonicalization calls.
var sharedLoader ld.DocumentLoader

func init() {
	sharedLoader = ld.NewCachingDocumentLoader(ld.NewDefaultDocumentLoader(nil))
}

// Canonicalize normalizes a JSON-LD document to URDNA2015 n-quads, the form
// hashed by data integrity proofs.
func Canonicalize(doc map[string]interface{}) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("failed to canonicalize document: document is nil")
	}

	processor := ld.NewJsonLdProcessor()
	options := ld.NewJsonLdOptions("")
	options.Format = "application/n-quads"
	options.Algorithm = ld.AlgorithmURDNA2015
	options.DocumentLoader = sharedLoader

	canonicalized, err := processor.Normalize(doc, options)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize document: %w", err)
	}
	return []byte(canonicalized.(string)), nil
}

// Digest computes the SHA-256 digest of canonicalized data.
func Digest(data []byte) [32]byte {
	return sha256.Sum256(data)
}
