package schema

import "github.com/openseals/core/consensus"

// Bounds is a TypeRef's cardinality: how many values of the
// referenced type a proof may carry.
type Bounds uint8

const (
	BoundsOptional Bounds = iota
	BoundsSingle
	BoundsDouble
	BoundsAny
	BoundsMany
)

// MinMax returns the (min, max) occurrence bound this Bounds encodes
// on the wire.
func (b Bounds) MinMax() (min, max int) {
	switch b {
	case BoundsOptional:
		return 0, 1
	case BoundsSingle:
		return 1, 1
	case BoundsDouble:
		return 2, 2
	case BoundsAny:
		return 0, 255
	case BoundsMany:
		return 1, 255
	}
	return 0, 0
}

// IsFixed reports whether every valid occurrence count is the same
// (single, double), as opposed to a range (optional, any, many).
func (b Bounds) IsFixed() bool {
	min, max := b.MinMax()
	return min == max
}

// BoundsFromMinMax maps a wire (min, max) pair back to the Bounds that
// produces it. Every TypeRef ever written by AppendTypeRef round-trips
// through this exactly, since the five Bounds values are the only
// (min, max) pairs this codec ever emits.
func BoundsFromMinMax(min, max int) (Bounds, bool) {
	switch {
	case min == 0 && max == 1:
		return BoundsOptional, true
	case min == 1 && max == 1:
		return BoundsSingle, true
	case min == 2 && max == 2:
		return BoundsDouble, true
	case min == 0 && max == 255:
		return BoundsAny, true
	case min == 1 && max == 255:
		return BoundsMany, true
	default:
		return 0, false
	}
}

// BoundsFromString parses the structured-input grammar's bounds
// keyword: optional, single, double, any, or many.
func BoundsFromString(s string) (Bounds, bool) {
	switch s {
	case "optional":
		return BoundsOptional, true
	case "single":
		return BoundsSingle, true
	case "double":
		return BoundsDouble, true
	case "any":
		return BoundsAny, true
	case "many":
		return BoundsMany, true
	default:
		return 0, false
	}
}

// TypeRef is a cardinality-bounded reference to a FieldType or
// SealType entry. The back-reference is a plain integer index set by
// a single Resolve pass, never a live pointer mutated from multiple
// owners.
type TypeRef struct {
	Name      string
	Bounds    Bounds
	TypeIndex int // -1 until resolved
}

// NewTypeRef builds an unresolved TypeRef from a structured-source name.
func NewTypeRef(name string, bounds Bounds) TypeRef {
	return TypeRef{Name: name, Bounds: bounds, TypeIndex: -1}
}

// Resolved reports whether TypeIndex has been set by a Resolve pass.
func (r TypeRef) Resolved() bool { return r.TypeIndex >= 0 }

// AppendTypeRef appends r's wire encoding. r must already be resolved;
// the wire form carries the numeric index only, never the name.
func AppendTypeRef(dst []byte, r TypeRef) ([]byte, error) {
	if !r.Resolved() {
		return nil, schemaErr(ErrInternalReference, "", r.Name, "cannot serialize an unresolved type reference")
	}
	min, max := r.Bounds.MinMax()
	dst = consensus.AppendVarInt(dst, uint64(r.TypeIndex))
	return append(dst, byte(min), byte(max)), nil
}

// ReadTypeRef reads a TypeRef from the cursor. The returned ref's
// TypeIndex is already set (numerically resolved); its Name is empty
// until a subsequent name-table lookup fills it in.
func ReadTypeRef(c *consensus.Cursor) (TypeRef, error) {
	idx, err := c.ReadVarInt()
	if err != nil {
		return TypeRef{}, err
	}
	minB, err := c.ReadU8()
	if err != nil {
		return TypeRef{}, err
	}
	maxB, err := c.ReadU8()
	if err != nil {
		return TypeRef{}, err
	}
	bounds, ok := BoundsFromMinMax(int(minB), int(maxB))
	if !ok {
		return TypeRef{}, schemaErr(ErrValidation, "", "", "unrecognized TypeRef cardinality bounds")
	}
	return TypeRef{Bounds: bounds, TypeIndex: int(idx)}, nil
}

// resolveFieldRef resolves ref against fieldTypes by name (filling
// TypeIndex) or by index (filling Name), whichever is missing.
// Resolving an already-fully-resolved ref is a no-op.
func resolveFieldRef(ref *TypeRef, fieldTypes []FieldType) error {
	switch {
	case ref.Name != "" && ref.TypeIndex >= 0:
		if ref.TypeIndex >= len(fieldTypes) || fieldTypes[ref.TypeIndex].Name != ref.Name {
			return schemaErr(ErrInternalReference, "field_types", ref.Name, "resolved index/name mismatch")
		}
		return nil
	case ref.Name != "":
		for i, ft := range fieldTypes {
			if ft.Name == ref.Name {
				ref.TypeIndex = i
				return nil
			}
		}
		return schemaErr(ErrInternalReference, "field_types", ref.Name, "unresolved field type reference")
	case ref.TypeIndex >= 0:
		if ref.TypeIndex >= len(fieldTypes) {
			return schemaErr(ErrInternalReference, "field_types", "", "field type index out of range")
		}
		ref.Name = fieldTypes[ref.TypeIndex].Name
		return nil
	default:
		return schemaErr(ErrInternalReference, "field_types", "", "type reference has neither name nor index")
	}
}

// resolveSealRef is resolveFieldRef's counterpart for seal_types.
func resolveSealRef(ref *TypeRef, sealTypes []SealType) error {
	switch {
	case ref.Name != "" && ref.TypeIndex >= 0:
		if ref.TypeIndex >= len(sealTypes) || sealTypes[ref.TypeIndex].Name != ref.Name {
			return schemaErr(ErrInternalReference, "seal_types", ref.Name, "resolved index/name mismatch")
		}
		return nil
	case ref.Name != "":
		for i, st := range sealTypes {
			if st.Name == ref.Name {
				ref.TypeIndex = i
				return nil
			}
		}
		return schemaErr(ErrInternalReference, "seal_types", ref.Name, "unresolved seal type reference")
	case ref.TypeIndex >= 0:
		if ref.TypeIndex >= len(sealTypes) {
			return schemaErr(ErrInternalReference, "seal_types", "", "seal type index out of range")
		}
		ref.Name = sealTypes[ref.TypeIndex].Name
		return nil
	default:
		return schemaErr(ErrInternalReference, "seal_types", "", "type reference has neither name nor index")
	}
}
