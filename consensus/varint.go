package consensus

import "encoding/binary"

// VarInt is the Bitcoin-style CompactSize unsigned varint used
// wherever the wire format calls for an unflagged count or length:
// a tag byte selects the width of the trailing little-endian payload,
// and any encoding that doesn't use the smallest possible width is
// rejected.
type VarInt uint64

// AppendVarInt appends the CompactSize encoding of n to dst.
func AppendVarInt(dst []byte, n uint64) []byte {
	switch {
	case n < 0xfd:
		return append(dst, byte(n))
	case n <= 0xffff:
		dst = append(dst, 0xfd)
		var buf [2]byte
		binary.LittleEndian.PutUint16(buf[:], uint16(n))
		return append(dst, buf[:]...)
	case n <= 0xffff_ffff:
		dst = append(dst, 0xfe)
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], uint32(n))
		return append(dst, buf[:]...)
	default:
		dst = append(dst, 0xff)
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], n)
		return append(dst, buf[:]...)
	}
}

// EncodeVarInt returns the standalone CompactSize encoding of n.
func EncodeVarInt(n uint64) []byte { return AppendVarInt(nil, n) }

// readVarInt decodes one CompactSize value from the front of b,
// returning the value and the number of bytes consumed.
func readVarInt(b []byte) (uint64, int, error) {
	if len(b) < 1 {
		return 0, 0, codecErr(ErrUnexpectedEOF, 0, "missing varint tag")
	}
	tag := b[0]
	switch {
	case tag < 0xfd:
		return uint64(tag), 1, nil
	case tag == 0xfd:
		if len(b) < 3 {
			return 0, 0, codecErr(ErrUnexpectedEOF, 0, "truncated u16 varint")
		}
		v := binary.LittleEndian.Uint16(b[1:3])
		if v < 0xfd {
			return 0, 0, codecErr(ErrNonMinimal, 0, "non-minimal varint (0xfd)")
		}
		return uint64(v), 3, nil
	case tag == 0xfe:
		if len(b) < 5 {
			return 0, 0, codecErr(ErrUnexpectedEOF, 0, "truncated u32 varint")
		}
		v := binary.LittleEndian.Uint32(b[1:5])
		if v <= 0xffff {
			return 0, 0, codecErr(ErrNonMinimal, 0, "non-minimal varint (0xfe)")
		}
		return uint64(v), 5, nil
	default: // 0xff
		if len(b) < 9 {
			return 0, 0, codecErr(ErrUnexpectedEOF, 0, "truncated u64 varint")
		}
		v := binary.LittleEndian.Uint64(b[1:9])
		if v <= 0xffff_ffff {
			return 0, 0, codecErr(ErrNonMinimal, 0, "non-minimal varint (0xff)")
		}
		return v, 9, nil
	}
}

// DecodeVarInt decodes one CompactSize value from the front of b.
func DecodeVarInt(b []byte) (uint64, int, error) { return readVarInt(b) }
