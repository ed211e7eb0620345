package consensus

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/ripemd160"
)

// HashId is a fixed-width hash identifier, either 20 bytes (ripmd160,
// hash160) or 32 bytes (sha256, sha256d). Construction accepts raw
// bytes or lowercase hex; the bech32 human-readable forms live behind
// bech32id.Encoder, never inside this package.
type HashId struct {
	b []byte
}

// NewHashId validates that b is 20 or 32 bytes and wraps a copy of it.
func NewHashId(b []byte) (HashId, error) {
	if len(b) != 20 && len(b) != 32 {
		return HashId{}, codecErr(ErrInvalidHashLen, 0, "hash id must be 20 or 32 bytes")
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return HashId{b: cp}, nil
}

// ZeroHashId returns the all-zero HashId of the given width (20 or 32).
func ZeroHashId(width int) HashId {
	h, _ := NewHashId(make([]byte, width))
	return h
}

// HashIdFromHex parses a hex-encoded 20- or 32-byte hash id.
func HashIdFromHex(s string) (HashId, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return HashId{}, codecErr(ErrInvalidHashLen, 0, "invalid hex: "+err.Error())
	}
	return NewHashId(b)
}

// Bytes returns the raw hash bytes.
func (h HashId) Bytes() []byte { return h.b }

// Hex returns the lowercase hex encoding of the hash.
func (h HashId) Hex() string { return hex.EncodeToString(h.b) }

// Len returns the width of the hash, 20 or 32.
func (h HashId) Len() int { return len(h.b) }

// IsZero reports whether every byte of the hash is zero.
func (h HashId) IsZero() bool {
	for _, v := range h.b {
		if v != 0 {
			return false
		}
	}
	return true
}

// AppendHashId appends the raw bytes of h to dst. The width is not
// self-describing on the wire; callers know it from the FieldType kind.
func AppendHashId(dst []byte, h HashId) []byte { return append(dst, h.b...) }

// ReadHashId reads exactly width bytes and wraps them as a HashId.
func (c *Cursor) ReadHashId(width int) (HashId, error) {
	b, err := c.readExact(width)
	if err != nil {
		return HashId{}, err
	}
	return NewHashId(b)
}

// Sha256d computes the double-SHA-256 digest used for schema and
// proof identity.
func Sha256d(data []byte) HashId {
	first := sha256.Sum256(data)
	second := sha256.Sum256(first[:])
	h, _ := NewHashId(second[:])
	return h
}

// Hash160 composes RIPEMD-160(SHA-256(data)), the Bitcoin-style HASH160
// used for the hash160 FieldType kind.
func Hash160(data []byte) HashId {
	sum := sha256.Sum256(data)
	r := ripemd160.New()
	r.Write(sum[:])
	h, _ := NewHashId(r.Sum(nil))
	return h
}

// PubKey is a 33-byte compressed SEC1 public key, or the absent value.
// On the wire, absence is written as a single 0x00 byte since a valid
// compressed key never begins with 0x00.
type PubKey struct {
	b []byte // nil => absent, else exactly 33 bytes
}

// NewPubKey validates that b is a 33-byte compressed key.
func NewPubKey(b []byte) (PubKey, error) {
	if len(b) != 33 {
		return PubKey{}, codecErr(ErrInvalidPubKey, 0, "pubkey must be 33 bytes")
	}
	if b[0] != 0x02 && b[0] != 0x03 {
		return PubKey{}, codecErr(ErrInvalidPubKey, 0, "pubkey prefix must be 0x02 or 0x03")
	}
	cp := make([]byte, 33)
	copy(cp, b)
	return PubKey{b: cp}, nil
}

// AbsentPubKey returns the absent-key value.
func AbsentPubKey() PubKey { return PubKey{} }

// IsAbsent reports whether the key is the absent sentinel.
func (p PubKey) IsAbsent() bool { return p.b == nil }

// Bytes returns the raw 33-byte key, or nil if absent.
func (p PubKey) Bytes() []byte { return p.b }

// AppendPubKey appends p's wire form: a single 0x00 byte if absent,
// else the 33-byte compressed key.
func AppendPubKey(dst []byte, p PubKey) []byte {
	if p.IsAbsent() {
		return append(dst, 0x00)
	}
	return append(dst, p.b...)
}

// ReadPubKey reads a PubKey, interpreting a leading 0x00 as absence.
func (c *Cursor) ReadPubKey() (PubKey, error) {
	first, err := c.PeekU8()
	if err != nil {
		return PubKey{}, err
	}
	if first == 0x00 {
		if _, err := c.readExact(1); err != nil {
			return PubKey{}, err
		}
		return AbsentPubKey(), nil
	}
	b, err := c.readExact(33)
	if err != nil {
		return PubKey{}, err
	}
	return NewPubKey(b)
}

// OutPoint references an output by transaction id and index, in
// either of two wire forms:
//
//   - long form: txid (32 bytes) followed by VarInt(vout).
//   - short form: FlagVarInt(vout, txidOmitted) followed by the
//     32-byte txid only when txidOmitted is false. The flag polarity
//     is uniform across encode and decode: flag=1 means the txid is
//     omitted.
type OutPoint struct {
	Txid        HashId
	Vout        uint64
	TxidOmitted bool
}

// AppendOutPointLong appends the long-form encoding of o to dst.
func AppendOutPointLong(dst []byte, o OutPoint) []byte {
	dst = AppendHashId(dst, o.Txid)
	return AppendVarInt(dst, o.Vout)
}

// ReadOutPointLong reads the long-form encoding of an OutPoint.
func (c *Cursor) ReadOutPointLong() (OutPoint, error) {
	txid, err := c.ReadHashId(32)
	if err != nil {
		return OutPoint{}, err
	}
	vout, err := c.ReadVarInt()
	if err != nil {
		return OutPoint{}, err
	}
	return OutPoint{Txid: txid, Vout: vout}, nil
}

// AppendOutPointShort appends the short-form encoding of o to dst.
// A txid-omitting OutPoint (TxidOmitted true) writes no txid bytes at
// all; the reader must already know which transaction is implied.
func AppendOutPointShort(dst []byte, o OutPoint) ([]byte, error) {
	dst, err := AppendFlagVarInt(dst, o.Vout, o.TxidOmitted)
	if err != nil {
		return nil, err
	}
	if !o.TxidOmitted {
		dst = AppendHashId(dst, o.Txid)
	}
	return dst, nil
}

// ReadOutPointShort reads the short-form encoding of an OutPoint.
func (c *Cursor) ReadOutPointShort() (OutPoint, error) {
	fvi, err := c.ReadFlagVarInt()
	if err != nil {
		return OutPoint{}, err
	}
	if fvi.Signal != SignalNone {
		return OutPoint{}, codecErr(ErrInvalidOutPoint, c.pos, "unexpected separator in outpoint")
	}
	out := OutPoint{Vout: fvi.Value, TxidOmitted: fvi.Flag}
	if !fvi.Flag {
		txid, err := c.ReadHashId(32)
		if err != nil {
			return OutPoint{}, err
		}
		out.Txid = txid
	}
	return out, nil
}
