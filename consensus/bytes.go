package consensus

// AppendU16le appends v as a 2-byte little-endian value to dst.
func AppendU16le(dst []byte, v uint16) []byte {
	return append(dst, byte(v), byte(v>>8))
}

// AppendU32le appends v as a 4-byte little-endian value to dst.
func AppendU32le(dst []byte, v uint32) []byte {
	return append(dst, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

// AppendU64le appends v as an 8-byte little-endian value to dst.
func AppendU64le(dst []byte, v uint64) []byte {
	return append(dst,
		byte(v), byte(v>>8), byte(v>>16), byte(v>>24),
		byte(v>>32), byte(v>>40), byte(v>>48), byte(v>>56))
}

// AppendBytes appends a VarInt length prefix followed by b itself,
// the length-prefixed byte-string form used for str/bytes FieldType
// payloads.
func AppendBytes(dst []byte, b []byte) []byte {
	dst = AppendVarInt(dst, uint64(len(b)))
	return append(dst, b...)
}

// ReadBytes reads a VarInt length prefix followed by that many bytes.
func (c *Cursor) ReadBytes() ([]byte, error) {
	n, err := c.ReadVarInt()
	if err != nil {
		return nil, err
	}
	return c.readExact(int(n))
}

// AppendZeroPad appends n zero bytes to dst, the absence-sentinel form
// used by the fixed-width hash FieldType kinds (sha256/sha256d,
// ripmd160/hash160) and by an upgrade proof with no new schema id.
func AppendZeroPad(dst []byte, n int) []byte {
	for i := 0; i < n; i++ {
		dst = append(dst, 0)
	}
	return dst
}

// AppendVector appends a VarInt item count followed by each item's
// encoding, produced by enc.
func AppendVector[T any](dst []byte, items []T, enc func([]byte, T) []byte) []byte {
	dst = AppendVarInt(dst, uint64(len(items)))
	for _, item := range items {
		dst = enc(dst, item)
	}
	return dst
}

// ReadVector reads a VarInt item count followed by that many items,
// each decoded by dec.
func ReadVector[T any](c *Cursor, dec func(*Cursor) (T, error)) ([]T, error) {
	n, err := c.ReadVarInt()
	if err != nil {
		return nil, err
	}
	items := make([]T, 0, n)
	for i := uint64(0); i < n; i++ {
		item, err := dec(c)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
