// Package bech32id renders content-addressed identifiers as
// bech32-family strings. The core packages (consensus, schema, proof)
// never import this package or know how a digest renders as text;
// they only produce the 20/32 byte HashId that callers here turn into
// a human-readable string.
package bech32id

import (
	"fmt"

	"github.com/btcsuite/btcutil/bech32"
)

// Human-readable prefixes for the content-addressed forms: long form
// first, short form second.
const (
	HRPSchemaLong  = "oss"
	HRPSchemaShort = "sm"
	HRPProofLong   = "osp"
	HRPProofShort  = "pf"
	HRPAddrMain    = "bc"
	HRPAddrTest    = "tb"
)

// Encoder is the narrow interface the core's callers (the CLI,
// primarily) use to render a HashId digest as a bech32 string. Kept
// as an interface so the core never depends on a concrete bech32
// implementation.
type Encoder interface {
	Encode(hrp string, version byte, payload []byte) (string, error)
	Decode(s string) (hrp string, version byte, payload []byte, err error)
}

// BTCUtilEncoder is the concrete Encoder backed by
// github.com/btcsuite/btcutil/bech32.
type BTCUtilEncoder struct{}

// Encode renders payload (typically a 32-byte schema or proof digest)
// as hrp1<version-5bit><payload-5bit-groups><checksum>, the
// witness-version-prefixed bech32 layout segwit addresses use.
func (BTCUtilEncoder) Encode(hrp string, version byte, payload []byte) (string, error) {
	converted, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("bech32id: convert bits: %w", err)
	}
	data := make([]byte, 0, len(converted)+1)
	data = append(data, version)
	data = append(data, converted...)
	return bech32.Encode(hrp, data)
}

// Decode reverses Encode, splitting the leading witness-version byte
// from the payload and converting the remaining 5-bit groups back to
// 8-bit bytes.
func (BTCUtilEncoder) Decode(s string) (string, byte, []byte, error) {
	hrp, data, err := bech32.Decode(s)
	if err != nil {
		return "", 0, nil, fmt.Errorf("bech32id: decode: %w", err)
	}
	if len(data) == 0 {
		return "", 0, nil, fmt.Errorf("bech32id: empty payload")
	}
	version := data[0]
	payload, err := bech32.ConvertBits(data[1:], 5, 8, false)
	if err != nil {
		return "", 0, nil, fmt.Errorf("bech32id: convert bits: %w", err)
	}
	return hrp, version, payload, nil
}

// EncodeSchemaID renders a schema digest using the long-form prefix.
func EncodeSchemaID(enc Encoder, digest []byte) (string, error) {
	return enc.Encode(HRPSchemaLong, 1, digest)
}

// EncodeProofID renders a proof digest using the long-form prefix.
func EncodeProofID(enc Encoder, digest []byte) (string, error) {
	return enc.Encode(HRPProofLong, 1, digest)
}
