package consensus

import (
	"encoding/hex"
	"testing"
)

func TestVarInt_EncodeDecode(t *testing.T) {
	cases := []struct {
		name string
		val  uint64
		hex  string
	}{
		{"zero", 0, "00"},
		{"max_u8_minimal", 252, "fc"},
		{"u16_boundary", 253, "fdfd00"},
		{"u16_max", 65535, "fdffff"},
		{"u32_boundary", 65536, "fe00000100"},
		{"u32_mid", 0x12345678, "fe78563412"},
		{"u64_boundary", 0x1_0000_0000, "ff0000000001000000"},
		{"u64_high", 0xffff_ffff_ffff_ffff, "ffffffffffffffffff"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			enc := EncodeVarInt(tc.val)
			if hex.EncodeToString(enc) != tc.hex {
				t.Fatalf("encode mismatch: got %x want %s", enc, tc.hex)
			}
			dec, n, err := DecodeVarInt(enc)
			if err != nil {
				t.Fatalf("decode error: %v", err)
			}
			if n != len(enc) {
				t.Fatalf("decode consumed %d bytes, want %d", n, len(enc))
			}
			if dec != tc.val {
				t.Fatalf("decode value mismatch: got %d want %d", dec, tc.val)
			}
		})
	}
}

func TestVarInt_RejectsNonMinimal(t *testing.T) {
	cases := []struct {
		name string
		b    []byte
	}{
		{"fd_for_small", []byte{0xfd, 0xfc, 0x00}},
		{"fe_for_u16", []byte{0xfe, 0xff, 0xff, 0x00, 0x00}},
		{"ff_for_u32", []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0, 0, 0, 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := DecodeVarInt(tc.b)
			if err == nil {
				t.Fatalf("expected error")
			}
			if code, ok := CodeOf(err); !ok || code != ErrNonMinimal {
				t.Fatalf("code=%v, want %s", code, ErrNonMinimal)
			}
		})
	}
}

func TestVarInt_RejectsTruncated(t *testing.T) {
	cases := [][]byte{
		{},
		{0xfd},
		{0xfe},
		{0xff},
		{0xfd, 0x00},
		{0xfe, 0x00, 0x00, 0x00},
		{0xff, 0, 0, 0, 0, 0, 0, 0},
	}
	for _, b := range cases {
		_, _, err := DecodeVarInt(b)
		if err == nil {
			t.Fatalf("b=%x: expected error", b)
		}
	}
}

func TestCursor_ReadVarInt_TracksOffset(t *testing.T) {
	enc := AppendVarInt(AppendVarInt(nil, 10), 300)
	cur := NewCursor(enc)
	first, err := cur.ReadVarInt()
	if err != nil || first != 10 {
		t.Fatalf("first: %d, %v", first, err)
	}
	second, err := cur.ReadVarInt()
	if err != nil || second != 300 {
		t.Fatalf("second: %d, %v", second, err)
	}
	if !cur.Done() {
		t.Fatalf("expected cursor exhausted")
	}
}
