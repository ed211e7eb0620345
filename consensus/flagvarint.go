package consensus

import "encoding/binary"

// Signal distinguishes an ordinary FlagVarInt token from one of the
// two in-band separator bytes the seal-sequence reader watches for.
type Signal uint8

const (
	SignalNone Signal = iota
	SignalEOL
	SignalEOF
)

// FlagVarInt is the flag-tagged variant of VarInt: the high bit of the
// first byte carries an independent boolean alongside the magnitude,
// and two reserved first-byte values (0x7f, 0xff) are read back as
// control signals rather than values. Producers never emit those two
// bytes as ordinary values.
type FlagVarInt struct {
	Value  uint64
	Flag   bool
	Signal Signal
}

// IsEOL reports whether this token is the end-of-list separator.
func (f FlagVarInt) IsEOL() bool { return f.Signal == SignalEOL }

// IsEOF reports whether this token is the end-of-sequence separator.
func (f FlagVarInt) IsEOF() bool { return f.Signal == SignalEOF }

const (
	fviTagU8  = 0x7c
	fviTagU16 = 0x7d
	fviTagU32 = 0x7e
	fviTagSep = 0x7f
	fviMask   = 0x80
)

// AppendFlagVarInt appends the FlagVarInt encoding of (value, flag) to
// dst. value must fit in 32 bits; the wire form has no 64-bit width.
func AppendFlagVarInt(dst []byte, value uint64, flag bool) ([]byte, error) {
	var mask byte
	if flag {
		mask = fviMask
	}
	switch {
	case value < fviTagU8:
		return append(dst, byte(value)|mask), nil
	case value <= 0xff:
		dst = append(dst, fviTagU8|mask)
		return append(dst, byte(value)), nil
	case value <= 0xffff:
		dst = append(dst, fviTagU16|mask)
		var buf [2]byte
		binary.LittleEndian.PutUint16(buf[:], uint16(value))
		return append(dst, buf[:]...), nil
	case value <= 0xffff_ffff:
		dst = append(dst, fviTagU32|mask)
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], uint32(value))
		return append(dst, buf[:]...), nil
	default:
		return nil, codecErr(ErrValueOutOfRange, len(dst), "flag-varint value exceeds 32 bits")
	}
}

// AppendEOL appends the end-of-list separator byte.
func AppendEOL(dst []byte) []byte { return append(dst, fviTagSep) }

// AppendEOF appends the end-of-sequence separator byte.
func AppendEOF(dst []byte) []byte { return append(dst, fviMask|fviTagSep) }

// readFlagVarInt decodes one FlagVarInt token from the front of b.
func readFlagVarInt(b []byte) (FlagVarInt, int, error) {
	if len(b) < 1 {
		return FlagVarInt{}, 0, codecErr(ErrUnexpectedEOF, 0, "missing flag-varint tag")
	}
	first := b[0]
	flag := first&fviMask != 0
	tag := first &^ fviMask

	switch {
	case tag < fviTagU8:
		return FlagVarInt{Value: uint64(tag), Flag: flag}, 1, nil
	case tag == fviTagU8:
		if len(b) < 2 {
			return FlagVarInt{}, 0, codecErr(ErrUnexpectedEOF, 0, "truncated flag-varint u8")
		}
		return FlagVarInt{Value: uint64(b[1]), Flag: flag}, 2, nil
	case tag == fviTagU16:
		if len(b) < 3 {
			return FlagVarInt{}, 0, codecErr(ErrUnexpectedEOF, 0, "truncated flag-varint u16")
		}
		v := binary.LittleEndian.Uint16(b[1:3])
		return FlagVarInt{Value: uint64(v), Flag: flag}, 3, nil
	case tag == fviTagU32:
		if len(b) < 5 {
			return FlagVarInt{}, 0, codecErr(ErrUnexpectedEOF, 0, "truncated flag-varint u32")
		}
		v := binary.LittleEndian.Uint32(b[1:5])
		return FlagVarInt{Value: uint64(v), Flag: flag}, 5, nil
	default: // tag == fviTagSep (0x7f): first itself is either exactly 0x7f (EOL) or 0xff (EOF)
		if first == fviTagSep {
			return FlagVarInt{Signal: SignalEOL}, 1, nil
		}
		return FlagVarInt{Signal: SignalEOF}, 1, nil
	}
}

// DecodeFlagVarInt decodes one FlagVarInt token from the front of b.
func DecodeFlagVarInt(b []byte) (FlagVarInt, int, error) { return readFlagVarInt(b) }
