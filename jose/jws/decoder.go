package jws

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/attestia/go-identity-sdk/codec"
	"github.com/attestia/go-identity-sdk/jose"
	"github.com/attestia/go-identity-sdk/jose/jwk"
)

// DecodeOptions configures structural decoding.
type DecodeOptions struct {
	// DetachedPayload supplies the payload for tokens whose payload segment
	// is empty (RFC 7515 appendix F / RFC 7797 detached content).
	DetachedPayload []byte
	// Crits is the allow-list of critical header parameter names the caller
	// understands. The b64 parameter is always recognized.
	Crits []string
}

// Decoded is the structural result of decoding one signature of a JWS. No
// cryptographic checks have happened yet; SigningInput and Signature feed
// the verifier.
type Decoded struct {
	ProtectedHeader   *Header
	UnprotectedHeader map[string]interface{}
	Payload           []byte
	Signature         []byte
	SigningInput      []byte
}

// Verify runs the dispatched verifier over the reconstructed signing input
// using the given public key.
func (d *Decoded) Verify(verifier Verifier, key *jwk.Jwk) error {
	alg, err := d.ProtectedHeader.Algorithm()
	if err != nil {
		return jose.NewSignatureVerificationError(jose.KindUnsupportedAlg, err)
	}
	return verifier.Verify(VerificationInput{
		Alg:          alg,
		SigningInput: d.SigningInput,
		Signature:    d.Signature,
	}, key)
}

// Decode parses a compact or flattened JWS into its structural parts.
// General-serialization tokens must go through DecodeGeneral instead.
func Decode(token string, opts DecodeOptions) (*Decoded, error) {
	switch DetectSerialization(token) {
	case Compact:
		return decodeCompact(token, opts)
	case Flattened:
		return decodeFlattened(token, opts)
	default:
		return nil, newDecodeError(DecodeInvalidFormat,
			fmt.Errorf("token uses the general serialization, use DecodeGeneral"))
	}
}

// DecodeGeneral parses a general-serialization JWS, returning one Decoded
// per signature in input order.
func DecodeGeneral(token string, opts DecodeOptions) ([]*Decoded, error) {
	var envelope generalJSON
	if err := json.Unmarshal([]byte(token), &envelope); err != nil {
		return nil, newDecodeError(DecodeInvalidFormat, fmt.Errorf("failed to unmarshal general JWS: %w", err))
	}
	if len(envelope.Signatures) == 0 {
		return nil, newDecodeError(DecodeInvalidFormat, fmt.Errorf("general JWS has no signatures"))
	}

	decoded := make([]*Decoded, 0, len(envelope.Signatures))
	for i, sig := range envelope.Signatures {
		d, err := decodeSignature(envelope.Payload, sig, opts)
		if err != nil {
			return nil, fmt.Errorf("signature %d: %w", i, err)
		}
		decoded = append(decoded, d)
	}
	return decoded, nil
}

func decodeCompact(token string, opts DecodeOptions) (*Decoded, error) {
	headerSeg, payloadSeg, signatureSeg, err := splitCompact(token)
	if err != nil {
		return nil, err
	}
	return decodeSignature(payloadSeg, jsonSignature{
		Protected: headerSeg,
		Signature: signatureSeg,
	}, opts)
}

func decodeFlattened(token string, opts DecodeOptions) (*Decoded, error) {
	var envelope flattenedJSON
	if err := json.Unmarshal([]byte(token), &envelope); err != nil {
		return nil, newDecodeError(DecodeInvalidFormat, fmt.Errorf("failed to unmarshal flattened JWS: %w", err))
	}
	return decodeSignature(envelope.Payload, jsonSignature{
		Protected: envelope.Protected,
		Header:    envelope.Header,
		Signature: envelope.Signature,
	}, opts)
}

// decodeSignature does the per-signature work shared by all serializations:
// header decoding, crit validation, payload handling and signing input
// reconstruction.
func decodeSignature(payloadSeg string, sig jsonSignature, opts DecodeOptions) (*Decoded, error) {
	if sig.Protected == "" {
		return nil, newDecodeError(DecodeHeader, fmt.Errorf("protected header is missing"))
	}

	headerBytes, err := codec.DecodeB64(sig.Protected)
	if err != nil {
		return nil, newDecodeError(DecodeHeader, err)
	}

	var header Header
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return nil, newDecodeError(DecodeHeader, err)
	}

	if err := checkCritical(header.Crit, opts.Crits); err != nil {
		return nil, err
	}

	payload, rawPayloadSeg, err := resolvePayload(payloadSeg, &header, opts)
	if err != nil {
		return nil, err
	}

	signature, err := codec.DecodeB64(sig.Signature)
	if err != nil {
		return nil, newDecodeError(DecodeSignature, err)
	}

	// The signing input must be reconstructed exactly as produced:
	// base64url(header) || '.' || payload segment, where the payload
	// segment is the raw payload when b64 is false.
	signingInput := bytes.Join([][]byte{[]byte(sig.Protected), rawPayloadSeg}, []byte("."))

	return &Decoded{
		ProtectedHeader:   &header,
		UnprotectedHeader: sig.Header,
		Payload:           payload,
		Signature:         signature,
		SigningInput:      signingInput,
	}, nil
}

// resolvePayload returns the decoded payload bytes plus the exact bytes the
// payload contributes to the signing input.
func resolvePayload(payloadSeg string, header *Header, opts DecodeOptions) (payload, signingSegment []byte, err error) {
	detached := payloadSeg == ""

	if detached {
		if opts.DetachedPayload == nil {
			return nil, nil, newDecodeError(DecodePayload,
				fmt.Errorf("token has a detached payload but none was supplied"))
		}
		payload = opts.DetachedPayload
		if header.IsPayloadEncoded() {
			return payload, []byte(codec.EncodeB64(payload)), nil
		}
		return payload, payload, nil
	}

	if opts.DetachedPayload != nil {
		return nil, nil, newDecodeError(DecodePayload,
			fmt.Errorf("detached payload supplied but the token embeds one"))
	}

	if header.IsPayloadEncoded() {
		payload, err = codec.DecodeB64(payloadSeg)
		if err != nil {
			return nil, nil, newDecodeError(DecodePayload, err)
		}
		return payload, []byte(payloadSeg), nil
	}

	// b64:false with an embedded payload: the segment bytes are the payload.
	return []byte(payloadSeg), []byte(payloadSeg), nil
}

// checkCritical enforces RFC 7515 §4.1.11: every listed critical parameter
// must be recognized by the caller.
func checkCritical(crit, allowed []string) error {
	for _, name := range crit {
		if name == jose.HeaderB64 {
			continue
		}
		recognized := false
		for _, ok := range allowed {
			if name == ok {
				recognized = true
				break
			}
		}
		if !recognized {
			return newDecodeError(DecodeUnsupportedCritical,
				fmt.Errorf("unrecognized critical header parameter %q", name))
		}
	}
	return nil
}
