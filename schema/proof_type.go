package schema

import "github.com/openseals/core/consensus"

// ProofType names one kind of proof a schema allows. Unseals is
// required for every non-root proof type and forbidden on the root
// type; by convention the first entry in a Schema's proof_types table
// is the root type (see Schema.Validate).
type ProofType struct {
	Name    string
	Unseals []TypeRef
	Fields  []TypeRef
	Seals   []TypeRef
}

// AppendProofType appends pt's wire encoding:
// bytes(name) || vector(TypeRef, fields) || vector(TypeRef, unseals_or_empty) || vector(TypeRef, seals).
func AppendProofType(dst []byte, pt ProofType) ([]byte, error) {
	dst = consensus.AppendBytes(dst, []byte(pt.Name))

	var err error
	dst, err = appendTypeRefVector(dst, pt.Fields)
	if err != nil {
		return nil, err
	}
	dst, err = appendTypeRefVector(dst, pt.Unseals)
	if err != nil {
		return nil, err
	}
	dst, err = appendTypeRefVector(dst, pt.Seals)
	if err != nil {
		return nil, err
	}
	return dst, nil
}

func appendTypeRefVector(dst []byte, refs []TypeRef) ([]byte, error) {
	dst = consensus.AppendVarInt(dst, uint64(len(refs)))
	for _, r := range refs {
		var err error
		dst, err = AppendTypeRef(dst, r)
		if err != nil {
			return nil, err
		}
	}
	return dst, nil
}

func readTypeRefVector(c *consensus.Cursor) ([]TypeRef, error) {
	n, err := c.ReadVarInt()
	if err != nil {
		return nil, err
	}
	refs := make([]TypeRef, 0, n)
	for i := uint64(0); i < n; i++ {
		r, err := ReadTypeRef(c)
		if err != nil {
			return nil, err
		}
		refs = append(refs, r)
	}
	return refs, nil
}

// ReadProofType reads one ProofType from the cursor. The wire form
// cannot distinguish a root type's absent unseals from a non-root
// type's (invalid) empty unseals list; Schema.Validate applies the
// root-is-proof_types[0] convention to tell them apart.
func ReadProofType(c *consensus.Cursor) (ProofType, error) {
	nameBytes, err := c.ReadBytes()
	if err != nil {
		return ProofType{}, err
	}
	fields, err := readTypeRefVector(c)
	if err != nil {
		return ProofType{}, err
	}
	unseals, err := readTypeRefVector(c)
	if err != nil {
		return ProofType{}, err
	}
	seals, err := readTypeRefVector(c)
	if err != nil {
		return ProofType{}, err
	}
	return ProofType{Name: string(nameBytes), Fields: fields, Unseals: unseals, Seals: seals}, nil
}

// resolveRefs resolves every TypeRef this ProofType owns against the
// owning schema's type tables: field refs against field_types, seal
// and unseal refs against seal_types.
func (pt *ProofType) resolveRefs(fieldTypes []FieldType, sealTypes []SealType) error {
	for i := range pt.Fields {
		if err := resolveFieldRef(&pt.Fields[i], fieldTypes); err != nil {
			return err
		}
	}
	for i := range pt.Seals {
		if err := resolveSealRef(&pt.Seals[i], sealTypes); err != nil {
			return err
		}
	}
	for i := range pt.Unseals {
		if err := resolveSealRef(&pt.Unseals[i], sealTypes); err != nil {
			return err
		}
	}
	return nil
}
