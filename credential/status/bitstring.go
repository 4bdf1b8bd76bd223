// Package status implements StatusList2021 revocation checking: the
// gzip-compressed bitstring encoding, a client for fetching status list
// credentials, and the resolver plugged into credential validation.
package status

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"fmt"
	"io"
)

// minBitstringBytes is the minimum encoded list size required by
// StatusList2021 (16 KiB, 131072 entries).
const minBitstringBytes = 16384

// Bitstring is a StatusList2021 bitstring. Bit i of entry n is
// bytes[n/8] >> (n%8).
type Bitstring struct {
	bits []byte
}

// NewBitstring allocates an all-zero bitstring with at least the given number
// of entries, never below the StatusList2021 minimum size.
func NewBitstring(entries int) *Bitstring {
	size := (entries + 7) / 8
	if size < minBitstringBytes {
		size = minBitstringBytes
	}
	return &Bitstring{bits: make([]byte, size)}
}

// Len returns the number of entries.
func (b *Bitstring) Len() int {
	return len(b.bits) * 8
}

// Get reports whether the bit at the given index is set.
func (b *Bitstring) Get(index int) (bool, error) {
	if index < 0 || index >= b.Len() {
		return false, fmt.Errorf("status index %d out of range [0, %d)", index, b.Len())
	}
	return (b.bits[index/8]>>(index%8))&1 == 1, nil
}

// Set sets or clears the bit at the given index.
func (b *Bitstring) Set(index int, value bool) error {
	if index < 0 || index >= b.Len() {
		return fmt.Errorf("status index %d out of range [0, %d)", index, b.Len())
	}
	if value {
		b.bits[index/8] |= 1 << (index % 8)
	} else {
		b.bits[index/8] &^= 1 << (index % 8)
	}
	return nil
}

// EncodedList serializes the bitstring as gzip-compressed base64url, the
// encodedList format of StatusList2021.
func (b *Bitstring) EncodedList() (string, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(b.bits); err != nil {
		return "", fmt.Errorf("failed to compress bitstring: %w", err)
	}
	if err := gz.Close(); err != nil {
		return "", fmt.Errorf("failed to compress bitstring: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeEncodedList parses a gzip-compressed base64url encodedList value.
func DecodeEncodedList(encoded string) (*Bitstring, error) {
	compressed, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("encodedList is not valid base64url: %w", err)
	}

	gz, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("encodedList is not gzip compressed: %w", err)
	}
	defer gz.Close()

	bits, err := io.ReadAll(gz)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress encodedList: %w", err)
	}

	return &Bitstring{bits: bits}, nil
}
