package schema

import (
	"github.com/openseals/core/consensus"
)

// Kind is the wire tag of a FieldType's primitive kind. The tag bytes
// are consensus-critical: changing any of them changes the canonical
// encoding, and therefore the identity, of every schema that uses the
// kind.
type Kind uint8

const (
	KindU8         Kind = 0x01
	KindU16        Kind = 0x02
	KindU32        Kind = 0x03
	KindU64        Kind = 0x04
	KindI8         Kind = 0x05
	KindI16        Kind = 0x06
	KindI32        Kind = 0x07
	KindI64        Kind = 0x08
	KindVarInt     Kind = 0x09
	KindFlagVarInt Kind = 0x0a
	KindStr        Kind = 0x0b
	KindBytes      Kind = 0x0c
	KindSha256     Kind = 0x10
	KindSha256d    Kind = 0x11
	KindRipmd160   Kind = 0x12
	KindHash160    Kind = 0x13
	KindOutPoint   Kind = 0x20
	KindSOutPoint  Kind = 0x21
	KindPubKey     Kind = 0x30
	KindECDSA      Kind = 0x31
)

func (k Kind) valid() bool {
	switch k {
	case KindU8, KindU16, KindU32, KindU64, KindI8, KindI16, KindI32, KindI64,
		KindVarInt, KindFlagVarInt, KindStr, KindBytes,
		KindSha256, KindSha256d, KindRipmd160, KindHash160,
		KindOutPoint, KindSOutPoint, KindPubKey, KindECDSA:
		return true
	}
	return false
}

// FieldType names a schema-declared scalar/hash/key kind.
type FieldType struct {
	Name string
	Kind Kind
}

// AppendFieldType appends ft's wire encoding: bytes(name_utf8) || kind_tag.
func AppendFieldType(dst []byte, ft FieldType) []byte {
	dst = consensus.AppendBytes(dst, []byte(ft.Name))
	return append(dst, byte(ft.Kind))
}

// ReadFieldType reads one FieldType from the cursor.
func ReadFieldType(c *consensus.Cursor) (FieldType, error) {
	nameBytes, err := c.ReadBytes()
	if err != nil {
		return FieldType{}, err
	}
	tag, err := c.ReadU8()
	if err != nil {
		return FieldType{}, err
	}
	kind := Kind(tag)
	if !kind.valid() {
		return FieldType{}, schemaErr(ErrUnknownKind, "field_types", string(nameBytes), "unknown FieldType kind tag")
	}
	return FieldType{Name: string(nameBytes), Kind: kind}, nil
}

// HasAbsenceSentinel reports whether ft.Kind defines an absence
// sentinel usable by an optional-bounded TypeRef. Fixed-width integer
// kinds have none; declaring one optional is a validation error.
func (ft FieldType) HasAbsenceSentinel() bool {
	switch ft.Kind {
	case KindStr, KindBytes, KindFlagVarInt,
		KindSha256, KindSha256d, KindRipmd160, KindHash160,
		KindPubKey, KindECDSA:
		return true
	}
	return false
}

func fixedWidth(k Kind) (int, bool) {
	switch k {
	case KindSha256, KindSha256d:
		return 32, true
	case KindRipmd160, KindHash160:
		return 20, true
	}
	return 0, false
}

// Value is a tagged union holding one decoded FieldType value. Exactly
// one of the fields is meaningful, selected by Kind; Null marks the
// absence sentinel for an optional-bounded field.
type Value struct {
	Kind     Kind
	Null     bool
	UInt     uint64
	Int      int64
	Str      string
	Bytes    []byte
	Hash     consensus.HashId
	PubKey   consensus.PubKey
	OutPoint consensus.OutPoint
}

// AppendValue appends v's present-value wire encoding for kind
// ft.Kind. Callers needing optional-bounded semantics use
// AppendOptionalValue instead.
func (ft FieldType) AppendValue(dst []byte, v Value) ([]byte, error) {
	switch ft.Kind {
	case KindU8:
		return append(dst, byte(v.UInt)), nil
	case KindI8:
		return append(dst, byte(v.Int)), nil
	case KindU16:
		return consensus.AppendU16le(dst, uint16(v.UInt)), nil
	case KindI16:
		return consensus.AppendU16le(dst, uint16(v.Int)), nil
	case KindU32:
		return consensus.AppendU32le(dst, uint32(v.UInt)), nil
	case KindI32:
		return consensus.AppendU32le(dst, uint32(v.Int)), nil
	case KindU64:
		return consensus.AppendU64le(dst, v.UInt), nil
	case KindI64:
		return consensus.AppendU64le(dst, uint64(v.Int)), nil
	case KindVarInt:
		return consensus.AppendVarInt(dst, v.UInt), nil
	case KindFlagVarInt:
		return consensus.AppendFlagVarInt(dst, v.UInt, false)
	case KindStr:
		return consensus.AppendBytes(dst, []byte(v.Str)), nil
	case KindBytes:
		return consensus.AppendBytes(dst, v.Bytes), nil
	case KindSha256, KindSha256d, KindRipmd160, KindHash160:
		width, _ := fixedWidth(ft.Kind)
		if v.Hash.Len() != width {
			return nil, schemaErr(ErrCodec, "field_types", ft.Name, "hash value width mismatch")
		}
		return consensus.AppendHashId(dst, v.Hash), nil
	case KindOutPoint:
		return consensus.AppendOutPointLong(dst, v.OutPoint), nil
	case KindSOutPoint:
		return consensus.AppendOutPointShort(dst, v.OutPoint)
	case KindPubKey:
		return consensus.AppendPubKey(dst, v.PubKey), nil
	case KindECDSA:
		return nil, schemaErr(ErrReservedKind, "field_types", ft.Name, "ecdsa value codec is reserved, not implemented")
	default:
		return nil, schemaErr(ErrUnknownKind, "field_types", ft.Name, "unknown FieldType kind")
	}
}

// ReadValue reads ft's present-value wire encoding from the cursor.
func (ft FieldType) ReadValue(c *consensus.Cursor) (Value, error) {
	switch ft.Kind {
	case KindU8:
		u, err := c.ReadU8()
		return Value{Kind: ft.Kind, UInt: uint64(u)}, err
	case KindI8:
		u, err := c.ReadU8()
		return Value{Kind: ft.Kind, Int: int64(int8(u))}, err
	case KindU16:
		u, err := c.ReadU16LE()
		return Value{Kind: ft.Kind, UInt: uint64(u)}, err
	case KindI16:
		u, err := c.ReadU16LE()
		return Value{Kind: ft.Kind, Int: int64(int16(u))}, err
	case KindU32:
		u, err := c.ReadU32LE()
		return Value{Kind: ft.Kind, UInt: uint64(u)}, err
	case KindI32:
		u, err := c.ReadU32LE()
		return Value{Kind: ft.Kind, Int: int64(int32(u))}, err
	case KindU64:
		u, err := c.ReadU64LE()
		return Value{Kind: ft.Kind, UInt: u}, err
	case KindI64:
		u, err := c.ReadU64LE()
		return Value{Kind: ft.Kind, Int: int64(u)}, err
	case KindVarInt:
		u, err := c.ReadVarInt()
		return Value{Kind: ft.Kind, UInt: u}, err
	case KindFlagVarInt:
		fvi, err := c.ReadFlagVarInt()
		if err != nil {
			return Value{}, err
		}
		if fvi.Signal != consensus.SignalNone {
			return Value{}, schemaErr(ErrCodec, "field_types", ft.Name, "unexpected separator reading fvi value")
		}
		return Value{Kind: ft.Kind, UInt: fvi.Value}, nil
	case KindStr:
		b, err := c.ReadBytes()
		return Value{Kind: ft.Kind, Str: string(b)}, err
	case KindBytes:
		b, err := c.ReadBytes()
		return Value{Kind: ft.Kind, Bytes: b}, err
	case KindSha256, KindSha256d, KindRipmd160, KindHash160:
		width, _ := fixedWidth(ft.Kind)
		h, err := c.ReadHashId(width)
		return Value{Kind: ft.Kind, Hash: h}, err
	case KindOutPoint:
		op, err := c.ReadOutPointLong()
		return Value{Kind: ft.Kind, OutPoint: op}, err
	case KindSOutPoint:
		op, err := c.ReadOutPointShort()
		return Value{Kind: ft.Kind, OutPoint: op}, err
	case KindPubKey:
		pk, err := c.ReadPubKey()
		return Value{Kind: ft.Kind, PubKey: pk}, err
	case KindECDSA:
		return Value{}, schemaErr(ErrReservedKind, "field_types", ft.Name, "ecdsa value codec is reserved, not implemented")
	default:
		return Value{}, schemaErr(ErrUnknownKind, "field_types", ft.Name, "unknown FieldType kind")
	}
}

// ValueFromString parses a structured-source string into a typed
// Value for this FieldType's kind. Integer kinds parse as decimal;
// hash/pubkey kinds parse as hex.
func (ft FieldType) ValueFromString(s string) (Value, error) {
	if s == "" {
		if !ft.HasAbsenceSentinel() {
			return Value{}, schemaErr(ErrNoAbsenceSentinel, "field_types", ft.Name, "empty string has no typed value for this kind")
		}
		return Value{Kind: ft.Kind, Null: true}, nil
	}
	switch ft.Kind {
	case KindU8, KindU16, KindU32, KindU64, KindVarInt, KindFlagVarInt:
		u, err := parseUint(s)
		if err != nil {
			return Value{}, schemaErr(ErrCodec, "field_types", ft.Name, "not an unsigned integer: "+s)
		}
		return Value{Kind: ft.Kind, UInt: u}, nil
	case KindI8, KindI16, KindI32, KindI64:
		i, err := parseInt(s)
		if err != nil {
			return Value{}, schemaErr(ErrCodec, "field_types", ft.Name, "not an integer: "+s)
		}
		return Value{Kind: ft.Kind, Int: i}, nil
	case KindStr:
		return Value{Kind: ft.Kind, Str: s}, nil
	case KindBytes:
		b, err := parseHex(s)
		if err != nil {
			return Value{}, schemaErr(ErrCodec, "field_types", ft.Name, "not valid hex: "+s)
		}
		return Value{Kind: ft.Kind, Bytes: b}, nil
	case KindSha256, KindSha256d, KindRipmd160, KindHash160:
		h, err := consensus.HashIdFromHex(s)
		if err != nil {
			return Value{}, schemaErr(ErrCodec, "field_types", ft.Name, "not a valid hash id: "+s)
		}
		return Value{Kind: ft.Kind, Hash: h}, nil
	case KindPubKey:
		b, err := parseHex(s)
		if err != nil {
			return Value{}, schemaErr(ErrCodec, "field_types", ft.Name, "not valid hex: "+s)
		}
		pk, err := consensus.NewPubKey(b)
		if err != nil {
			return Value{}, schemaErr(ErrCodec, "field_types", ft.Name, "not a valid pubkey: "+s)
		}
		return Value{Kind: ft.Kind, PubKey: pk}, nil
	case KindECDSA:
		return Value{}, schemaErr(ErrReservedKind, "field_types", ft.Name, "ecdsa value codec is reserved, not implemented")
	default:
		return Value{}, schemaErr(ErrUnknownKind, "field_types", ft.Name, "unknown FieldType kind")
	}
}

// AppendOptionalValue appends either v's absence sentinel (v.Null) or
// its present-value encoding.
func (ft FieldType) AppendOptionalValue(dst []byte, v Value) ([]byte, error) {
	if !v.Null {
		return ft.AppendValue(dst, v)
	}
	if !ft.HasAbsenceSentinel() {
		return nil, schemaErr(ErrNoAbsenceSentinel, "field_types", ft.Name, "kind has no absence sentinel")
	}
	switch ft.Kind {
	case KindStr, KindBytes:
		return consensus.AppendVarInt(dst, 0), nil
	case KindFlagVarInt:
		return consensus.AppendEOF(dst), nil
	case KindSha256, KindSha256d:
		return consensus.AppendZeroPad(dst, 32), nil
	case KindRipmd160, KindHash160:
		return consensus.AppendZeroPad(dst, 20), nil
	case KindPubKey, KindECDSA:
		return append(dst, 0x00), nil
	default:
		return nil, schemaErr(ErrNoAbsenceSentinel, "field_types", ft.Name, "kind has no absence sentinel")
	}
}

// ReadOptionalValue reads either the absence sentinel or a present
// value for an optional-bounded field of kind ft.Kind.
func (ft FieldType) ReadOptionalValue(c *consensus.Cursor) (Value, error) {
	if !ft.HasAbsenceSentinel() {
		return Value{}, schemaErr(ErrNoAbsenceSentinel, "field_types", ft.Name, "optional not supported for this kind")
	}
	switch ft.Kind {
	case KindStr, KindBytes:
		v, err := ft.ReadValue(c)
		if err != nil {
			return Value{}, err
		}
		if (ft.Kind == KindStr && v.Str == "") || (ft.Kind == KindBytes && len(v.Bytes) == 0) {
			v.Null = true
		}
		return v, nil
	case KindFlagVarInt:
		fvi, err := c.ReadFlagVarInt()
		if err != nil {
			return Value{}, err
		}
		if fvi.IsEOF() {
			return Value{Kind: ft.Kind, Null: true}, nil
		}
		if fvi.Signal != consensus.SignalNone {
			return Value{}, schemaErr(ErrCodec, "field_types", ft.Name, "unexpected separator reading optional fvi")
		}
		return Value{Kind: ft.Kind, UInt: fvi.Value}, nil
	case KindSha256, KindSha256d, KindRipmd160, KindHash160:
		v, err := ft.ReadValue(c)
		if err != nil {
			return Value{}, err
		}
		if v.Hash.IsZero() {
			v.Null = true
		}
		return v, nil
	case KindPubKey:
		pk, err := c.ReadPubKey()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: ft.Kind, PubKey: pk, Null: pk.IsAbsent()}, nil
	case KindECDSA:
		first, err := c.PeekU8()
		if err != nil {
			return Value{}, err
		}
		if first == 0x00 {
			if _, err := c.ReadExact(1); err != nil {
				return Value{}, err
			}
			return Value{Kind: ft.Kind, Null: true}, nil
		}
		return Value{}, schemaErr(ErrReservedKind, "field_types", ft.Name, "ecdsa present-value codec is reserved, not implemented")
	default:
		return Value{}, schemaErr(ErrNoAbsenceSentinel, "field_types", ft.Name, "optional not supported for this kind")
	}
}
