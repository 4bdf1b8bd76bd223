// Package statemetadata implements the binary envelope wrapping a serialized
// DID document for storage in an external ledger or state system:
// a version byte, an encoding byte, then the payload.
package statemetadata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"

	"github.com/attestia/go-identity-sdk/diddoc"
)

// Version tags the envelope layout. The enumeration is append-only: new
// layouts get new values and old values stay decodable forever.
type Version byte

const (
	// VersionV1 is the current two-byte-header layout.
	VersionV1 Version = 1
)

// CurrentVersion is what Encode always writes.
const CurrentVersion = VersionV1

// Encoding tags the payload format, including its compression. Append-only,
// like Version.
type Encoding byte

const (
	// EncodingJson is plain JSON.
	EncodingJson Encoding = 0
	// EncodingJsonBrotli is brotli-compressed JSON.
	EncodingJsonBrotli Encoding = 1
)

// InvalidStateMetadataError reports an envelope that cannot be decoded.
// Unknown version or encoding bytes are always fatal; there is no
// forward-compatible guessing.
type InvalidStateMetadataError struct {
	Reason string
}

func (e *InvalidStateMetadataError) Error() string {
	return "invalid state metadata: " + e.Reason
}

// Encode wraps a DID document in the envelope. The version byte is always
// CurrentVersion so newly written state stays maximally forward compatible;
// the encoding is the caller's choice among the supported set.
func Encode(doc *diddoc.Document, encoding Encoding) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is nil")
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal DID document: %w", err)
	}

	switch encoding {
	case EncodingJson:
	case EncodingJsonBrotli:
		payload, err = compress(payload)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported state metadata encoding %d", encoding)
	}

	out := make([]byte, 0, len(payload)+2)
	out = append(out, byte(CurrentVersion), byte(encoding))
	return append(out, payload...), nil
}

// Decode unwraps the envelope back into a DID document. The version byte is
// checked before anything else; an unknown value fails without interpreting
// the remaining bytes.
func Decode(data []byte) (*diddoc.Document, error) {
	if len(data) < 2 {
		return nil, &InvalidStateMetadataError{Reason: "fewer than 2 header bytes"}
	}

	if Version(data[0]) != VersionV1 {
		return nil, &InvalidStateMetadataError{Reason: fmt.Sprintf("unsupported version number %d", data[0])}
	}

	payload := data[2:]
	switch Encoding(data[1]) {
	case EncodingJson:
	case EncodingJsonBrotli:
		var err error
		payload, err = decompress(payload)
		if err != nil {
			return nil, &InvalidStateMetadataError{Reason: fmt.Sprintf("brotli payload: %s", err)}
		}
	default:
		return nil, &InvalidStateMetadataError{Reason: fmt.Sprintf("unsupported encoding %d", data[1])}
	}

	doc, err := diddoc.ParseDocument(payload)
	if err != nil {
		return nil, &InvalidStateMetadataError{Reason: err.Error()}
	}
	return doc, nil
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	w := brotli.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("failed to compress payload: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to flush compressed payload: %w", err)
	}

	return buf.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	return io.ReadAll(brotli.NewReader(bytes.NewReader(data)))
}
