package proof

import (
	"github.com/openseals/core/consensus"
	"github.com/openseals/core/schema"
)

// Seal is a single-use-seal reference together with its state, in
// structured (dict) and/or typed (wire) form. A seal decoded from the
// wire carries only State; a seal from a structured source carries
// DictState, and Resolve then derives State from it, keeping both.
type Seal struct {
	TypeName      string
	OutPoint      consensus.OutPoint
	SealTypeIndex int // -1 until resolved
	State         uint64
	DictState     map[string]any
}

// NewSeal builds an unresolved Seal from a structured-source type
// name, outpoint, and state dictionary.
func NewSeal(typeName string, outpoint consensus.OutPoint, dictState map[string]any) Seal {
	return Seal{TypeName: typeName, OutPoint: outpoint, SealTypeIndex: -1, DictState: dictState}
}

// Resolved reports whether Resolve has bound this seal to a schema
// SealType.
func (s Seal) Resolved() bool { return s.SealTypeIndex >= 0 }

// Resolve binds s.TypeName (or, if already set, s.SealTypeIndex) to
// its counterpart in sealTypes, then, if the seal carries a
// structured DictState, computes its typed State via that SealType's
// StateFromDict.
func (s *Seal) Resolve(sealTypes []schema.SealType) error {
	switch {
	case s.SealTypeIndex >= 0:
		if s.SealTypeIndex >= len(sealTypes) {
			return proofErr(ErrSchemaUnresolved, s.TypeName, "seals", "seal type index out of range")
		}
		s.TypeName = sealTypes[s.SealTypeIndex].Name
	case s.TypeName != "":
		found := false
		for i, st := range sealTypes {
			if st.Name == s.TypeName {
				s.SealTypeIndex = i
				found = true
				break
			}
		}
		if !found {
			return proofErr(ErrSchemaUnresolved, s.TypeName, "seals", "no seal type with this name in schema")
		}
	default:
		return proofErr(ErrSchemaUnresolved, "", "seals", "seal has neither a type name nor a resolved index")
	}
	if s.DictState != nil {
		amount, err := sealTypes[s.SealTypeIndex].StateFromDict(s.DictState)
		if err != nil {
			return err
		}
		s.State = amount
	}
	return nil
}

// AppendOutPointShort appends the seal's outpoint in short form, the
// form used inside a proof's seal sequence.
func (s Seal) AppendOutPointShort(dst []byte) ([]byte, error) {
	return consensus.AppendOutPointShort(dst, s.OutPoint)
}

// AppendState appends the seal's typed state using its resolved
// SealType. The seal must already be resolved.
func (s Seal) AppendState(dst []byte, sealTypes []schema.SealType) ([]byte, error) {
	if !s.Resolved() {
		return nil, proofErr(ErrSchemaUnresolved, s.TypeName, "seals", "cannot serialize state before resolving seal type")
	}
	return sealTypes[s.SealTypeIndex].AppendState(dst, s.State), nil
}
