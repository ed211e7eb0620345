package proof

import (
	"sort"

	"github.com/openseals/core/consensus"
	"github.com/openseals/core/schema"
)

// Format distinguishes the four proof layouts. Field presence is a
// property of the variant rather than a per-field conditional.
type Format uint8

const (
	FormatRoot Format = iota
	FormatUpgrade
	FormatOrdinary
	FormatBurn
)

func (f Format) String() string {
	switch f {
	case FormatRoot:
		return "root"
	case FormatUpgrade:
		return "upgrade"
	case FormatOrdinary:
		return "ordinary"
	case FormatBurn:
		return "burn"
	default:
		return "unknown"
	}
}

// Network tags the chain a root proof anchors to. 0x00 is reserved as
// the upgrade-proof marker, not a real network.
const (
	NetworkUpgradeMarker uint16 = 0x00
	NetworkBitcoinMain   uint16 = 0x01
	NetworkBitcoinTest   uint16 = 0x02
	NetworkBitcoinRegnet uint16 = 0x03
	NetworkBitcoinSignet uint16 = 0x04
	NetworkLiquidV1      uint16 = 0x10
)

// Proof is a single transaction-level record asserting a state
// transition under a schema. Schema/Network/Root are meaningful only
// for the formats that carry them; Txid/Parents are pointer/slice-nil
// when absent, distinguishing absence from the all-zero hash id.
type Proof struct {
	Ver     uint32
	Format  Format
	Schema  consensus.HashId // root: required; upgrade: zero value means "no new schema"
	Network uint16           // root only
	Root    consensus.OutPoint
	TypeNo  uint8
	PubKey  consensus.PubKey
	Fields  []MetaField
	Seals   []Seal
	Parents []consensus.HashId // nil => absent
	Txid    *consensus.HashId  // nil => absent

	// RawState/RawMetadata hold the sealed-state and metadata blobs
	// verbatim when the proof was decoded without a Schema, retained
	// for later resolution.
	RawState    []byte
	RawMetadata []byte
}

// IsPruned reports whether both Txid and Parents are absent.
func (p Proof) IsPruned() bool { return p.Txid == nil && p.Parents == nil }

// IsBurn reports whether the proof carries zero seals.
func (p Proof) IsBurn() bool { return len(p.Seals) == 0 }

// Validate checks the proof's structural invariants: parents/txid
// must be present together or absent together, and root-only fields
// are present exactly when the format requires them.
func (p Proof) Validate() error {
	if (p.Txid != nil) != (p.Parents != nil) {
		return proofErr(ErrMissingRequired, "txid/parents", "proof",
			"parents and txid must both be present for an unpruned proof, or both absent")
	}
	switch p.Format {
	case FormatRoot:
		if p.Schema.Len() != 32 {
			return proofErr(ErrMissingRequired, "schema", "root", "root proof requires a schema id")
		}
		if p.Network == NetworkUpgradeMarker {
			return proofErr(ErrMissingRequired, "network", "root", "root proof requires a real network tag")
		}
	case FormatUpgrade:
		// schema id is optional; network is implicitly the upgrade marker.
	case FormatOrdinary, FormatBurn:
		if p.Schema.Len() != 0 {
			return proofErr(ErrExtraField, "schema", p.Format.String(), "schema field is only valid for root/upgrade proofs")
		}
		if p.Network != 0 {
			return proofErr(ErrExtraField, "network", p.Format.String(), "network field is only valid for root proofs")
		}
	}
	if p.Format == FormatBurn && len(p.Seals) != 0 {
		return proofErr(ErrExtraField, "seals", "burn", "burn proof must have zero seals")
	}
	if p.Format != FormatBurn && len(p.Seals) == 0 {
		return proofErr(ErrMissingRequired, "seals", p.Format.String(), "a proof with zero seals must be tagged burn")
	}
	return nil
}

// sortedSeals returns a stable copy of seals ordered by resolved seal
// type index ascending, the grouping the seal-sequence framing
// requires.
func sortedSeals(seals []Seal) []Seal {
	out := make([]Seal, len(seals))
	copy(out, seals)
	sort.SliceStable(out, func(i, j int) bool { return out[i].SealTypeIndex < out[j].SealTypeIndex })
	return out
}

// appendSealSequence appends the seal-sequence framing: each seal's
// short-form outpoint, with EOL (0x7f) bytes inserted to advance the
// running type index whenever a seal's type is higher than the index
// reached so far, terminated by one EOF (0xff). seals must already be
// sorted by SealTypeIndex ascending.
func appendSealSequence(dst []byte, seals []Seal) ([]byte, error) {
	cur := 0
	for _, s := range seals {
		if !s.Resolved() {
			return nil, proofErr(ErrSchemaUnresolved, s.TypeName, "seals", "cannot serialize an unresolved seal")
		}
		for cur < s.SealTypeIndex {
			dst = consensus.AppendEOL(dst)
			cur++
		}
		var err error
		dst, err = s.AppendOutPointShort(dst)
		if err != nil {
			return nil, err
		}
	}
	return consensus.AppendEOF(dst), nil
}

// readSealSequence decodes the seal-sequence framing: an EOL token
// advances the running type index, an EOF token terminates, anything
// else starts a short-form outpoint. The produced Seals know their
// SealTypeIndex but their TypeName/State are not yet resolved.
func readSealSequence(c *consensus.Cursor) ([]Seal, error) {
	var seals []Seal
	cur := 0
	for {
		fvi, err := c.ReadFlagVarInt()
		if err != nil {
			return nil, err
		}
		switch fvi.Signal {
		case consensus.SignalEOF:
			return seals, nil
		case consensus.SignalEOL:
			cur++
		default:
			out := consensus.OutPoint{Vout: fvi.Value, TxidOmitted: fvi.Flag}
			if !fvi.Flag {
				txid, err := c.ReadHashId(32)
				if err != nil {
					return nil, err
				}
				out.Txid = txid
			}
			seals = append(seals, Seal{OutPoint: out, SealTypeIndex: cur})
		}
	}
}

// appendMetadataBlob appends fields' wire encoding in the order
// declared by fieldRefs (a ProofType's Fields list), applying each
// TypeRef's cardinality rule.
func appendMetadataBlob(fields []MetaField, fieldRefs []schema.TypeRef, fieldTypes []schema.FieldType) ([]byte, error) {
	byIndex := map[int][]MetaField{}
	for _, f := range fields {
		if !f.Resolved() {
			return nil, proofErr(ErrSchemaUnresolved, f.TypeName, "fields", "cannot serialize an unresolved metadata field")
		}
		byIndex[f.FieldTypeIndex] = append(byIndex[f.FieldTypeIndex], f)
	}

	var buf []byte
	for _, ref := range fieldRefs {
		if ref.TypeIndex < 0 || ref.TypeIndex >= len(fieldTypes) {
			return nil, proofErr(ErrSchemaUnresolved, ref.Name, "fields", "field type reference is unresolved")
		}
		ft := fieldTypes[ref.TypeIndex]
		vals := byIndex[ref.TypeIndex]
		min, max := ref.Bounds.MinMax()

		switch {
		case ref.Bounds == schema.BoundsOptional:
			if len(vals) > 1 {
				return nil, proofErr(ErrExtraField, ft.Name, "fields", "optional field carries more than one value")
			}
			v := schema.Value{Kind: ft.Kind, Null: true}
			if len(vals) == 1 {
				v = vals[0].Value
			}
			var err error
			buf, err = ft.AppendOptionalValue(buf, v)
			if err != nil {
				return nil, err
			}
		case ref.Bounds.IsFixed():
			if len(vals) != min {
				return nil, proofErr(ErrMissingRequired, ft.Name, "fields", "field cardinality does not match schema bounds")
			}
			for _, mf := range vals {
				var err error
				buf, err = ft.AppendValue(buf, mf.Value)
				if err != nil {
					return nil, err
				}
			}
		default: // any / many
			if len(vals) < min || len(vals) > max {
				return nil, proofErr(ErrMissingRequired, ft.Name, "fields", "field cardinality out of schema bounds")
			}
			buf = consensus.AppendVarInt(buf, uint64(len(vals)))
			for _, mf := range vals {
				var err error
				buf, err = ft.AppendValue(buf, mf.Value)
				if err != nil {
					return nil, err
				}
			}
		}
	}
	return buf, nil
}

// readMetadataBlob reads MetaFields from c in the order declared by
// fieldRefs, applying each TypeRef's cardinality rule on read.
func readMetadataBlob(c *consensus.Cursor, fieldRefs []schema.TypeRef, fieldTypes []schema.FieldType) ([]MetaField, error) {
	var fields []MetaField
	for _, ref := range fieldRefs {
		if ref.TypeIndex < 0 || ref.TypeIndex >= len(fieldTypes) {
			return nil, proofErr(ErrSchemaUnresolved, ref.Name, "fields", "field type reference is unresolved")
		}
		ft := fieldTypes[ref.TypeIndex]

		switch {
		case ref.Bounds == schema.BoundsOptional:
			v, err := ft.ReadOptionalValue(c)
			if err != nil {
				return nil, err
			}
			if !v.Null {
				fields = append(fields, MetaField{TypeName: ft.Name, Value: v, FieldTypeIndex: ref.TypeIndex})
			}
		case ref.Bounds.IsFixed():
			_, max := ref.Bounds.MinMax()
			for i := 0; i < max; i++ {
				v, err := ft.ReadValue(c)
				if err != nil {
					return nil, err
				}
				fields = append(fields, MetaField{TypeName: ft.Name, Value: v, FieldTypeIndex: ref.TypeIndex})
			}
		default: // any / many
			n, err := c.ReadVarInt()
			if err != nil {
				return nil, err
			}
			for i := uint64(0); i < n; i++ {
				v, err := ft.ReadValue(c)
				if err != nil {
					return nil, err
				}
				fields = append(fields, MetaField{TypeName: ft.Name, Value: v, FieldTypeIndex: ref.TypeIndex})
			}
		}
	}
	return fields, nil
}

func proofTypeFor(sch *schema.Schema, typeNo uint8) (schema.ProofType, error) {
	if int(typeNo) >= len(sch.ProofTypes) {
		return schema.ProofType{}, proofErr(ErrSchemaUnresolved, "", "proof_types", "proof type index out of range for schema")
	}
	return sch.ProofTypes[typeNo], nil
}

// AppendProof appends p's canonical wire encoding:
// header, body (type index, seal sequence, sealed-state blob,
// metadata blob), pubkey, prunable tail. When sch is non-nil, Fields
// and Seals must already be resolved against it and are re-encoded
// from their typed values; when sch is nil, RawState/RawMetadata are
// written back verbatim.
func AppendProof(dst []byte, p Proof, sch *schema.Schema) ([]byte, error) {
	flag := p.Format == FormatRoot || p.Format == FormatUpgrade
	dst, err := consensus.AppendFlagVarInt(dst, uint64(p.Ver), flag)
	if err != nil {
		return nil, err
	}

	switch p.Format {
	case FormatRoot:
		if p.Schema.Len() != 32 {
			return nil, proofErr(ErrMissingRequired, "schema", "root", "root proof requires a 32-byte schema id")
		}
		if p.Root.Txid.Len() != 32 {
			return nil, proofErr(ErrMissingRequired, "root", "root", "root outpoint requires a 32-byte txid")
		}
		dst = consensus.AppendHashId(dst, p.Schema)
		dst = consensus.AppendVarInt(dst, uint64(p.Network))
		dst = consensus.AppendOutPointLong(dst, p.Root)
	case FormatUpgrade:
		if p.Schema.Len() == 32 {
			dst = consensus.AppendHashId(dst, p.Schema)
		} else {
			dst = consensus.AppendZeroPad(dst, 32)
		}
		dst = consensus.AppendVarInt(dst, uint64(NetworkUpgradeMarker))
	}

	dst = append(dst, p.TypeNo)

	seals := sortedSeals(p.Seals)
	dst, err = appendSealSequence(dst, seals)
	if err != nil {
		return nil, err
	}

	if sch != nil {
		var stateBuf []byte
		for _, s := range seals {
			stateBuf, err = s.AppendState(stateBuf, sch.SealTypes)
			if err != nil {
				return nil, err
			}
		}
		dst = consensus.AppendBytes(dst, stateBuf)

		pt, err := proofTypeFor(sch, p.TypeNo)
		if err != nil {
			return nil, err
		}
		metaBuf, err := appendMetadataBlob(p.Fields, pt.Fields, sch.FieldTypes)
		if err != nil {
			return nil, err
		}
		dst = consensus.AppendBytes(dst, metaBuf)
	} else {
		dst = consensus.AppendBytes(dst, p.RawState)
		dst = consensus.AppendBytes(dst, p.RawMetadata)
	}

	dst = consensus.AppendPubKey(dst, p.PubKey)

	switch {
	case p.Txid != nil && p.Parents != nil:
		dst = append(dst, 0x03)
		dst = consensus.AppendHashId(dst, *p.Txid)
		dst = consensus.AppendVector(dst, p.Parents, consensus.AppendHashId)
	case p.Txid != nil:
		dst = append(dst, 0x01)
		dst = consensus.AppendHashId(dst, *p.Txid)
	case p.Parents != nil:
		dst = append(dst, 0x02)
		dst = consensus.AppendVector(dst, p.Parents, consensus.AppendHashId)
	default:
		dst = append(dst, 0x00)
	}
	return dst, nil
}

// ReadProof decodes a Proof from c. When sch is non-nil, seal states
// and metadata fields are reconstructed as typed values
// (Fields/Seals); when sch is nil, the sealed-state and metadata
// blobs are retained verbatim in RawState/RawMetadata for later
// resolution.
func ReadProof(c *consensus.Cursor, sch *schema.Schema) (Proof, error) {
	var p Proof

	fvi, err := c.ReadFlagVarInt()
	if err != nil {
		return Proof{}, err
	}
	if fvi.Signal != consensus.SignalNone {
		return Proof{}, proofErr(ErrCodec, "ver", "header", "unexpected separator reading proof version")
	}
	p.Ver = uint32(fvi.Value)

	if fvi.Flag {
		schemaID, err := c.ReadHashId(32)
		if err != nil {
			return Proof{}, err
		}
		network, err := c.ReadVarInt()
		if err != nil {
			return Proof{}, err
		}
		if network == uint64(NetworkUpgradeMarker) {
			p.Format = FormatUpgrade
			if !schemaID.IsZero() {
				p.Schema = schemaID
			}
		} else {
			p.Format = FormatRoot
			p.Schema = schemaID
			p.Network = uint16(network)
			root, err := c.ReadOutPointLong()
			if err != nil {
				return Proof{}, err
			}
			p.Root = root
		}
	} else {
		p.Format = FormatOrdinary
	}

	typeNo, err := c.ReadU8()
	if err != nil {
		return Proof{}, err
	}
	p.TypeNo = typeNo

	seals, err := readSealSequence(c)
	if err != nil {
		return Proof{}, err
	}
	p.Seals = seals
	if len(seals) == 0 && p.Format == FormatOrdinary {
		p.Format = FormatBurn
	}

	if sch != nil {
		stateBytes, err := c.ReadBytes()
		if err != nil {
			return Proof{}, err
		}
		stateCur := consensus.NewCursor(stateBytes)
		for i := range p.Seals {
			idx := p.Seals[i].SealTypeIndex
			if idx >= len(sch.SealTypes) {
				return Proof{}, proofErr(ErrSchemaUnresolved, "", "seals", "seal type index out of range for schema")
			}
			st := sch.SealTypes[idx]
			amount, err := st.ReadState(stateCur)
			if err != nil {
				return Proof{}, err
			}
			p.Seals[i].State = amount
			p.Seals[i].TypeName = st.Name
		}
		if !stateCur.Done() {
			return Proof{}, proofErr(ErrUnparsedTrailing, "", "state", "trailing bytes in sealed state blob")
		}

		metaBytes, err := c.ReadBytes()
		if err != nil {
			return Proof{}, err
		}
		pt, err := proofTypeFor(sch, p.TypeNo)
		if err != nil {
			return Proof{}, err
		}
		metaCur := consensus.NewCursor(metaBytes)
		fields, err := readMetadataBlob(metaCur, pt.Fields, sch.FieldTypes)
		if err != nil {
			return Proof{}, err
		}
		if !metaCur.Done() {
			return Proof{}, proofErr(ErrUnparsedTrailing, "", "metadata", "trailing bytes in metadata blob")
		}
		p.Fields = fields
	} else {
		rawState, err := c.ReadBytes()
		if err != nil {
			return Proof{}, err
		}
		rawMeta, err := c.ReadBytes()
		if err != nil {
			return Proof{}, err
		}
		p.RawState = rawState
		p.RawMetadata = rawMeta
	}

	pubkey, err := c.ReadPubKey()
	if err != nil {
		return Proof{}, err
	}
	p.PubKey = pubkey

	prunedFlag, err := c.ReadU8()
	if err != nil {
		return Proof{}, err
	}
	if prunedFlag&0x01 != 0 {
		txid, err := c.ReadHashId(32)
		if err != nil {
			return Proof{}, err
		}
		p.Txid = &txid
	}
	if prunedFlag&0x02 != 0 {
		parents, err := consensus.ReadVector(c, func(c *consensus.Cursor) (consensus.HashId, error) { return c.ReadHashId(32) })
		if err != nil {
			return Proof{}, err
		}
		p.Parents = parents
	}

	return p, nil
}

// ID returns the proof's content-addressed identifier: the sha256d
// digest of its canonical encoding under sch. bech32 rendering
// belongs to the bech32id package.
func (p Proof) ID(sch *schema.Schema) (consensus.HashId, error) {
	enc, err := AppendProof(nil, p, sch)
	if err != nil {
		return consensus.HashId{}, err
	}
	return consensus.Sha256d(enc), nil
}

// Resolve binds every Field and Seal this proof carries against sch,
// the proof-level counterpart of Schema.Resolve. Resolving twice is a
// no-op; already-resolved carriers are skipped.
func (p *Proof) Resolve(sch *schema.Schema) error {
	for i := range p.Fields {
		if p.Fields[i].Resolved() {
			continue
		}
		if err := p.Fields[i].Resolve(sch.FieldTypes); err != nil {
			return err
		}
	}
	for i := range p.Seals {
		if p.Seals[i].Resolved() {
			continue
		}
		if err := p.Seals[i].Resolve(sch.SealTypes); err != nil {
			return err
		}
	}
	return nil
}
