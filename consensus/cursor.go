package consensus

import "encoding/binary"

// Cursor is a stateful reader over a byte slice: fixed-width reads,
// varints and flag-varints, and zero-pad skipping, all tracking the
// byte offset for error reporting.
type Cursor struct {
	b   []byte
	pos int
}

// NewCursor creates a Cursor reading from b starting at offset 0.
func NewCursor(b []byte) *Cursor {
	return &Cursor{b: b, pos: 0}
}

// Pos returns the current read offset.
func (c *Cursor) Pos() int { return c.pos }

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	if c.pos >= len(c.b) {
		return 0
	}
	return len(c.b) - c.pos
}

// Done reports whether the cursor has consumed the entire buffer.
func (c *Cursor) Done() bool { return c.Remaining() == 0 }

func (c *Cursor) readExact(n int) ([]byte, error) {
	if n < 0 {
		return nil, codecErr(ErrNegativeLength, c.pos, "negative read length")
	}
	if c.Remaining() < n {
		return nil, codecErr(ErrUnexpectedEOF, c.pos, "truncated input")
	}
	start := c.pos
	c.pos += n
	return c.b[start:c.pos], nil
}

// ReadExact reads exactly n bytes and returns a slice aliasing the
// underlying buffer. Callers that retain the slice must copy it.
func (c *Cursor) ReadExact(n int) ([]byte, error) { return c.readExact(n) }

// ReadU8 reads a single byte.
func (c *Cursor) ReadU8() (uint8, error) {
	b, err := c.readExact(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU16LE reads a 2-byte little-endian unsigned integer.
func (c *Cursor) ReadU16LE() (uint16, error) {
	b, err := c.readExact(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadU32LE reads a 4-byte little-endian unsigned integer.
func (c *Cursor) ReadU32LE() (uint32, error) {
	b, err := c.readExact(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadU64LE reads an 8-byte little-endian unsigned integer.
func (c *Cursor) ReadU64LE() (uint64, error) {
	b, err := c.readExact(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadVarInt reads one Bitcoin-style CompactSize varint.
func (c *Cursor) ReadVarInt() (uint64, error) {
	v, n, err := readVarInt(c.b[c.pos:])
	if err != nil {
		if ce, ok := err.(*CodecError); ok {
			ce.Offset = c.pos
		}
		return 0, err
	}
	c.pos += n
	return v, nil
}

// ReadFlagVarInt reads one FlagVarInt token, which may be an ordinary
// (value, flag) pair or one of the in-band EOL/EOF separator signals.
func (c *Cursor) ReadFlagVarInt() (FlagVarInt, error) {
	fvi, n, err := readFlagVarInt(c.b[c.pos:])
	if err != nil {
		if ce, ok := err.(*CodecError); ok {
			ce.Offset = c.pos
		}
		return FlagVarInt{}, err
	}
	c.pos += n
	return fvi, nil
}

// ReadZeroPad consumes n bytes and verifies every one is zero, the
// absence-sentinel form used throughout the proof and schema codecs.
func (c *Cursor) ReadZeroPad(n int) error {
	b, err := c.readExact(n)
	if err != nil {
		return err
	}
	for _, v := range b {
		if v != 0 {
			return codecErr(ErrInvalidHashLen, c.pos-n, "expected zero padding")
		}
	}
	return nil
}

// PeekU8 returns the next byte without advancing the cursor.
func (c *Cursor) PeekU8() (uint8, error) {
	if c.Remaining() < 1 {
		return 0, codecErr(ErrUnexpectedEOF, c.pos, "truncated input")
	}
	return c.b[c.pos], nil
}
