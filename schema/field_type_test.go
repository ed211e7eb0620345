package schema

import (
	"bytes"
	"strings"
	"testing"

	"github.com/openseals/core/consensus"
)

func TestFieldType_SerializeRoundtrip(t *testing.T) {
	ft := FieldType{Name: "ticker", Kind: KindStr}
	enc := AppendFieldType(nil, ft)

	// bytes("ticker") || 0x0b
	want := append([]byte{0x06}, []byte("ticker")...)
	want = append(want, byte(KindStr))
	if !bytes.Equal(enc, want) {
		t.Fatalf("encoding = %x, want %x", enc, want)
	}

	got, err := ReadFieldType(consensus.NewCursor(enc))
	if err != nil {
		t.Fatalf("ReadFieldType: %v", err)
	}
	if got != ft {
		t.Fatalf("got %+v, want %+v", got, ft)
	}
}

func TestFieldType_UnknownTagRejected(t *testing.T) {
	enc := append([]byte{0x01, 'x'}, 0x7a)
	if _, err := ReadFieldType(consensus.NewCursor(enc)); err == nil {
		t.Fatal("expected error for unknown kind tag")
	}
}

func TestFieldType_ValueRoundtrips(t *testing.T) {
	op := consensus.OutPoint{Txid: mustHash(t, strings.Repeat("cc", 32)), Vout: 3}
	cases := []struct {
		name string
		ft   FieldType
		val  Value
	}{
		{"u8", FieldType{Name: "n", Kind: KindU8}, Value{Kind: KindU8, UInt: 0xfe}},
		{"u16", FieldType{Name: "n", Kind: KindU16}, Value{Kind: KindU16, UInt: 0xbeef}},
		{"u32", FieldType{Name: "n", Kind: KindU32}, Value{Kind: KindU32, UInt: 0xdeadbeef}},
		{"u64", FieldType{Name: "n", Kind: KindU64}, Value{Kind: KindU64, UInt: 1 << 40}},
		{"i8_negative", FieldType{Name: "n", Kind: KindI8}, Value{Kind: KindI8, Int: -1}},
		{"i64_negative", FieldType{Name: "n", Kind: KindI64}, Value{Kind: KindI64, Int: -42}},
		{"varint", FieldType{Name: "n", Kind: KindVarInt}, Value{Kind: KindVarInt, UInt: 300}},
		{"fvi", FieldType{Name: "n", Kind: KindFlagVarInt}, Value{Kind: KindFlagVarInt, UInt: 7}},
		{"str", FieldType{Name: "n", Kind: KindStr}, Value{Kind: KindStr, Str: "hello"}},
		{"bytes", FieldType{Name: "n", Kind: KindBytes}, Value{Kind: KindBytes, Bytes: []byte{1, 2, 3}}},
		{"sha256", FieldType{Name: "n", Kind: KindSha256}, Value{Kind: KindSha256, Hash: mustHash(t, strings.Repeat("ab", 32))}},
		{"hash160", FieldType{Name: "n", Kind: KindHash160}, Value{Kind: KindHash160, Hash: mustHash(t, strings.Repeat("cd", 20))}},
		{"outpoint", FieldType{Name: "n", Kind: KindOutPoint}, Value{Kind: KindOutPoint, OutPoint: op}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			enc, err := tc.ft.AppendValue(nil, tc.val)
			if err != nil {
				t.Fatalf("AppendValue: %v", err)
			}
			cur := consensus.NewCursor(enc)
			got, err := tc.ft.ReadValue(cur)
			if err != nil {
				t.Fatalf("ReadValue: %v", err)
			}
			if !cur.Done() {
				t.Fatalf("trailing bytes after value read")
			}
			reenc, err := tc.ft.AppendValue(nil, got)
			if err != nil {
				t.Fatalf("re-AppendValue: %v", err)
			}
			if !bytes.Equal(enc, reenc) {
				t.Fatalf("value round-trip mismatch: %x != %x", enc, reenc)
			}
		})
	}
}

func TestFieldType_OptionalAbsenceSentinels(t *testing.T) {
	cases := []struct {
		name    string
		ft      FieldType
		wantEnc []byte
	}{
		{"str", FieldType{Name: "n", Kind: KindStr}, []byte{0x00}},
		{"bytes", FieldType{Name: "n", Kind: KindBytes}, []byte{0x00}},
		{"fvi", FieldType{Name: "n", Kind: KindFlagVarInt}, []byte{0xff}},
		{"sha256", FieldType{Name: "n", Kind: KindSha256}, make([]byte, 32)},
		{"ripmd160", FieldType{Name: "n", Kind: KindRipmd160}, make([]byte, 20)},
		{"pubkey", FieldType{Name: "n", Kind: KindPubKey}, []byte{0x00}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			enc, err := tc.ft.AppendOptionalValue(nil, Value{Kind: tc.ft.Kind, Null: true})
			if err != nil {
				t.Fatalf("AppendOptionalValue: %v", err)
			}
			if !bytes.Equal(enc, tc.wantEnc) {
				t.Fatalf("sentinel = %x, want %x", enc, tc.wantEnc)
			}
			got, err := tc.ft.ReadOptionalValue(consensus.NewCursor(enc))
			if err != nil {
				t.Fatalf("ReadOptionalValue: %v", err)
			}
			if !got.Null {
				t.Fatalf("sentinel did not read back as null: %+v", got)
			}
		})
	}
}

func TestFieldType_OptionalRejectedForFixedWidthInts(t *testing.T) {
	ft := FieldType{Name: "n", Kind: KindU32}
	if ft.HasAbsenceSentinel() {
		t.Fatal("u32 must not define an absence sentinel")
	}
	if _, err := ft.AppendOptionalValue(nil, Value{Kind: KindU32, Null: true}); err == nil {
		t.Fatal("expected error appending a null u32")
	}
	if _, err := ft.ReadOptionalValue(consensus.NewCursor([]byte{0, 0, 0, 0})); err == nil {
		t.Fatal("expected error reading an optional u32")
	}
}

func TestFieldType_ECDSAReserved(t *testing.T) {
	ft := FieldType{Name: "sig", Kind: KindECDSA}
	if _, err := ft.AppendValue(nil, Value{Kind: KindECDSA}); err == nil {
		t.Fatal("expected reserved-kind error writing an ecdsa value")
	}
	if _, err := ft.ReadValue(consensus.NewCursor([]byte{0x01})); err == nil {
		t.Fatal("expected reserved-kind error reading an ecdsa value")
	}
	// Only the absence path is defined.
	got, err := ft.ReadOptionalValue(consensus.NewCursor([]byte{0x00}))
	if err != nil {
		t.Fatalf("ReadOptionalValue(0x00): %v", err)
	}
	if !got.Null {
		t.Fatal("ecdsa 0x00 sentinel should read as null")
	}
	if _, err := ft.ReadOptionalValue(consensus.NewCursor([]byte{0x01})); err == nil {
		t.Fatal("expected reserved-kind error for a present ecdsa value")
	}
}

func TestFieldType_ValueFromString(t *testing.T) {
	cases := []struct {
		ft    FieldType
		in    string
		check func(Value) bool
	}{
		{FieldType{Name: "n", Kind: KindU32}, "1000", func(v Value) bool { return v.UInt == 1000 }},
		{FieldType{Name: "n", Kind: KindI16}, "-5", func(v Value) bool { return v.Int == -5 }},
		{FieldType{Name: "n", Kind: KindStr}, "abc", func(v Value) bool { return v.Str == "abc" }},
		{FieldType{Name: "n", Kind: KindBytes}, "0102", func(v Value) bool { return bytes.Equal(v.Bytes, []byte{1, 2}) }},
		{FieldType{Name: "n", Kind: KindSha256}, strings.Repeat("ab", 32), func(v Value) bool { return v.Hash.Len() == 32 }},
	}
	for _, tc := range cases {
		v, err := tc.ft.ValueFromString(tc.in)
		if err != nil {
			t.Fatalf("kind %#x: ValueFromString(%q): %v", tc.ft.Kind, tc.in, err)
		}
		if !tc.check(v) {
			t.Fatalf("kind %#x: unexpected value %+v", tc.ft.Kind, v)
		}
	}

	if _, err := (FieldType{Name: "n", Kind: KindU8}).ValueFromString("not-a-number"); err == nil {
		t.Fatal("expected error parsing a non-numeric u8")
	}
}

func mustHash(t *testing.T, hexStr string) consensus.HashId {
	t.Helper()
	h, err := consensus.HashIdFromHex(hexStr)
	if err != nil {
		t.Fatalf("HashIdFromHex: %v", err)
	}
	return h
}
