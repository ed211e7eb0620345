package schema

import "github.com/openseals/core/consensus"

// SealKind distinguishes the two seal state shapes: none carries no
// state, balance carries a varint amount.
type SealKind uint8

const (
	SealNone    SealKind = 0
	SealBalance SealKind = 1
)

func (k SealKind) valid() bool { return k == SealNone || k == SealBalance }

// SealType names a schema-declared seal state kind.
type SealType struct {
	Name string
	Kind SealKind
}

// AppendSealType appends st's wire encoding: bytes(name_utf8) || kind_tag.
func AppendSealType(dst []byte, st SealType) []byte {
	dst = consensus.AppendBytes(dst, []byte(st.Name))
	return append(dst, byte(st.Kind))
}

// ReadSealType reads one SealType from the cursor.
func ReadSealType(c *consensus.Cursor) (SealType, error) {
	nameBytes, err := c.ReadBytes()
	if err != nil {
		return SealType{}, err
	}
	tag, err := c.ReadU8()
	if err != nil {
		return SealType{}, err
	}
	kind := SealKind(tag)
	if !kind.valid() {
		return SealType{}, schemaErr(ErrUnknownKind, "seal_types", string(nameBytes), "unknown SealType kind tag")
	}
	return SealType{Name: string(nameBytes), Kind: kind}, nil
}

// AppendState appends amount's wire encoding for this seal kind: a
// balance writes varint(amount), a none writes nothing.
func (st SealType) AppendState(dst []byte, amount uint64) []byte {
	if st.Kind == SealBalance {
		return consensus.AppendVarInt(dst, amount)
	}
	return dst
}

// ReadState reads this seal kind's state from the cursor. A none kind
// always yields zero without consuming any bytes.
func (st SealType) ReadState(c *consensus.Cursor) (uint64, error) {
	if st.Kind == SealBalance {
		return c.ReadVarInt()
	}
	return 0, nil
}

// StateFromDict converts a structured-source state mapping to a typed
// amount: balance maps {"amount": int} to int, none maps {} to 0.
func (st SealType) StateFromDict(dict map[string]any) (uint64, error) {
	if st.Kind != SealBalance {
		return 0, nil
	}
	raw, ok := dict["amount"]
	if !ok {
		return 0, schemaErr(ErrValidation, "seal_types", st.Name, "balance seal missing amount")
	}
	switch v := raw.(type) {
	case int:
		return uint64(v), nil
	case int64:
		return uint64(v), nil
	case uint64:
		return v, nil
	case float64:
		return uint64(v), nil
	default:
		return 0, schemaErr(ErrValidation, "seal_types", st.Name, "amount is not numeric")
	}
}

// DictFromState is the inverse of StateFromDict.
func (st SealType) DictFromState(amount uint64) map[string]any {
	if st.Kind != SealBalance {
		return map[string]any{}
	}
	return map[string]any{"amount": amount}
}
