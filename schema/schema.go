package schema

import "github.com/openseals/core/consensus"

// Schema is the top-level type-definition document: a named,
// versioned table of field/seal/proof types, optionally declaring the
// schema it upgrades.
type Schema struct {
	Name       string
	Version    consensus.SemVer
	PrevSchema consensus.HashId // empty or all-zero when none; encoded as 32 zero bytes
	FieldTypes []FieldType
	SealTypes  []SealType
	ProofTypes []ProofType
}

// AppendSchema appends s's canonical wire encoding:
// bytes(name) || SemVer || HashId-32(prev_schema) ||
// vector(FieldType) || vector(SealType) || vector(ProofType).
// This same encoding is hashed by ID, so any two implementations that
// agree on this layout agree on schema identity.
func AppendSchema(dst []byte, s Schema) ([]byte, error) {
	prev := s.PrevSchema
	if prev.Len() == 0 {
		prev = consensus.ZeroHashId(32)
	}
	if prev.Len() != 32 {
		return nil, schemaErr(ErrCodec, "", "", "prev_schema must be a 32-byte hash id")
	}

	dst = consensus.AppendBytes(dst, []byte(s.Name))
	dst = consensus.AppendSemVer(dst, s.Version)
	dst = consensus.AppendHashId(dst, prev)
	dst = consensus.AppendVector(dst, s.FieldTypes, AppendFieldType)

	dst = consensus.AppendVarInt(dst, uint64(len(s.SealTypes)))
	for _, st := range s.SealTypes {
		dst = AppendSealType(dst, st)
	}

	dst = consensus.AppendVarInt(dst, uint64(len(s.ProofTypes)))
	for _, pt := range s.ProofTypes {
		var err error
		dst, err = AppendProofType(dst, pt)
		if err != nil {
			return nil, err
		}
	}
	return dst, nil
}

// ReadSchema reads a Schema from the cursor in AppendSchema's order.
func ReadSchema(c *consensus.Cursor) (Schema, error) {
	nameBytes, err := c.ReadBytes()
	if err != nil {
		return Schema{}, err
	}
	version, err := c.ReadSemVer()
	if err != nil {
		return Schema{}, err
	}
	prev, err := c.ReadHashId(32)
	if err != nil {
		return Schema{}, err
	}
	fieldTypes, err := consensus.ReadVector(c, ReadFieldType)
	if err != nil {
		return Schema{}, err
	}
	sealTypes, err := consensus.ReadVector(c, ReadSealType)
	if err != nil {
		return Schema{}, err
	}
	proofTypes, err := consensus.ReadVector(c, ReadProofType)
	if err != nil {
		return Schema{}, err
	}
	return Schema{
		Name:       string(nameBytes),
		Version:    version,
		PrevSchema: prev,
		FieldTypes: fieldTypes,
		SealTypes:  sealTypes,
		ProofTypes: proofTypes,
	}, nil
}

// Resolve binds every TypeRef owned by every ProofType against this
// schema's own FieldTypes/SealTypes tables. Resolving twice is a
// no-op, since resolveFieldRef and resolveSealRef are themselves
// idempotent.
func (s *Schema) Resolve() error {
	for i := range s.ProofTypes {
		if err := s.ProofTypes[i].resolveRefs(s.FieldTypes, s.SealTypes); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the structural invariants of a well-formed schema:
// at least one proof type; every proof type but the first (the root
// type, by convention) declares at least one unseal; and every
// optional-bounded TypeRef targets a field type that actually defines
// an absence sentinel.
func (s *Schema) Validate() error {
	if len(s.ProofTypes) == 0 {
		return schemaErr(ErrValidation, "proof_types", "", "schema declares no proof types")
	}
	for i, pt := range s.ProofTypes {
		isRoot := i == 0
		if isRoot && len(pt.Unseals) != 0 {
			return schemaErr(ErrValidation, "proof_types", pt.Name, "root proof type must not declare unseals")
		}
		if !isRoot && len(pt.Unseals) == 0 {
			return schemaErr(ErrValidation, "proof_types", pt.Name, "non-root proof type must declare at least one unseal")
		}
		for _, ref := range pt.Fields {
			if ref.Bounds == BoundsOptional {
				if ref.TypeIndex < 0 || ref.TypeIndex >= len(s.FieldTypes) {
					return schemaErr(ErrValidation, "fields", ref.Name, "optional field reference is unresolved")
				}
				if !s.FieldTypes[ref.TypeIndex].HasAbsenceSentinel() {
					return schemaErr(ErrValidation, "fields", ref.Name, "optional field type has no absence sentinel")
				}
			}
		}
	}
	return nil
}

// ID returns the schema's content-addressed identifier: the sha256d
// digest of its canonical encoding. bech32 rendering of this digest
// belongs to the bech32id package, not here.
func (s Schema) ID() (consensus.HashId, error) {
	enc, err := AppendSchema(nil, s)
	if err != nil {
		return consensus.HashId{}, err
	}
	return consensus.Sha256d(enc), nil
}
