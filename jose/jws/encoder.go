package jws

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/attestia/go-identity-sdk/codec"
)

// EncodeOptions configures token production.
type EncodeOptions struct {
	// Detached leaves the payload segment empty; the payload travels out of
	// band and must be supplied again at decode time.
	Detached bool
}

// Encode produces a compact-serialization JWS. The header's alg parameter is
// forced to the signer's algorithm so the two can never disagree.
func Encode(signer Signer, header *Header, payload []byte, opts EncodeOptions) (string, error) {
	headerSeg, payloadSeg, signature, err := buildAndSign(signer, header, payload, opts)
	if err != nil {
		return "", err
	}
	return headerSeg + "." + payloadSeg + "." + codec.EncodeB64(signature), nil
}

// EncodeFlattened produces a flattened JSON serialization JWS with an
// optional unprotected header.
func EncodeFlattened(signer Signer, header *Header, unprotected map[string]interface{}, payload []byte, opts EncodeOptions) (string, error) {
	headerSeg, payloadSeg, signature, err := buildAndSign(signer, header, payload, opts)
	if err != nil {
		return "", err
	}

	envelope := flattenedJSON{
		Payload:   payloadSeg,
		Protected: headerSeg,
		Header:    unprotected,
		Signature: codec.EncodeB64(signature),
	}
	out, err := json.Marshal(envelope)
	if err != nil {
		return "", fmt.Errorf("failed to marshal flattened JWS: %w", err)
	}
	return string(out), nil
}

// EncodeGeneral produces a general JSON serialization JWS carrying one
// signature per signer, all over the same payload and protected header
// template (the alg parameter is set per signer).
func EncodeGeneral(signers []Signer, header *Header, payload []byte, opts EncodeOptions) (string, error) {
	if len(signers) == 0 {
		return "", fmt.Errorf("general JWS requires at least one signer")
	}

	var envelope generalJSON
	for i, signer := range signers {
		headerCopy := *header
		headerSeg, payloadSeg, signature, err := buildAndSign(signer, &headerCopy, payload, opts)
		if err != nil {
			return "", fmt.Errorf("signer %d: %w", i, err)
		}
		envelope.Payload = payloadSeg
		envelope.Signatures = append(envelope.Signatures, jsonSignature{
			Protected: headerSeg,
			Signature: codec.EncodeB64(signature),
		})
	}

	out, err := json.Marshal(envelope)
	if err != nil {
		return "", fmt.Errorf("failed to marshal general JWS: %w", err)
	}
	return string(out), nil
}

// buildAndSign builds the signing input per RFC 7515 (and RFC 7797 for
// b64:false) and runs the signer over it.
func buildAndSign(signer Signer, header *Header, payload []byte, opts EncodeOptions) (headerSeg, payloadSeg string, signature []byte, err error) {
	header.Alg = string(signer.Algorithm())

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return "", "", nil, fmt.Errorf("failed to marshal protected header: %w", err)
	}
	headerSeg = codec.EncodeB64(headerJSON)

	var signingSegment string
	if header.IsPayloadEncoded() {
		signingSegment = codec.EncodeB64(payload)
	} else {
		// RFC 7797: an unencoded embedded payload must survive compact
		// serialization, so the segment separator is forbidden.
		if !opts.Detached && strings.ContainsRune(string(payload), '.') {
			return "", "", nil, fmt.Errorf("unencoded payload must not contain '.' unless detached")
		}
		signingSegment = string(payload)
	}

	signature, err = signer.Sign([]byte(headerSeg + "." + signingSegment))
	if err != nil {
		return "", "", nil, fmt.Errorf("failed to sign: %w", err)
	}

	payloadSeg = signingSegment
	if opts.Detached {
		payloadSeg = ""
	}
	return headerSeg, payloadSeg, signature, nil
}
