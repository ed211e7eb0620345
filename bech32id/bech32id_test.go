package bech32id

import (
	"bytes"
	"testing"
)

func TestBTCUtilEncoder_RoundTrip(t *testing.T) {
	digest := bytes.Repeat([]byte{0xab}, 32)
	enc := BTCUtilEncoder{}

	s, err := EncodeSchemaID(enc, digest)
	if err != nil {
		t.Fatalf("EncodeSchemaID: %v", err)
	}
	hrp, version, payload, err := enc.Decode(s)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if hrp != HRPSchemaLong {
		t.Fatalf("hrp = %q, want %q", hrp, HRPSchemaLong)
	}
	if version != 1 {
		t.Fatalf("version = %d, want 1", version)
	}
	if !bytes.Equal(payload, digest) {
		t.Fatalf("payload = %x, want %x", payload, digest)
	}
}

func TestBTCUtilEncoder_ProofPrefix(t *testing.T) {
	digest := bytes.Repeat([]byte{0x01}, 32)
	enc := BTCUtilEncoder{}
	s, err := EncodeProofID(enc, digest)
	if err != nil {
		t.Fatalf("EncodeProofID: %v", err)
	}
	hrp, _, _, err := enc.Decode(s)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if hrp != HRPProofLong {
		t.Fatalf("hrp = %q, want %q", hrp, HRPProofLong)
	}
}
