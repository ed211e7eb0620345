package loader

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/openseals/core/consensus"
	"github.com/openseals/core/proof"
	"github.com/openseals/core/schema"
)

// SchemaDumper renders a schema.Schema back into the structured-input
// grammar, the inverse of SchemaLoader, needed by the CLI's
// schema-transcode command when the output side is structured.
type SchemaDumper interface {
	DumpSchema(sch schema.Schema) ([]byte, error)
}

// ProofDumper is SchemaDumper's counterpart for proofs.
type ProofDumper interface {
	DumpProof(p proof.Proof, sch *schema.Schema) ([]byte, error)
}

func scalarNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: s}
}

func mappingNode(pairs ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Content: pairs}
}

// DumpSchema renders sch as a YAML document in declaration order, the
// same order Resolve used to assign TypeIndex values, so a
// dumped-then-reloaded schema reproduces identical numeric indices
// and therefore an identical canonical encoding.
func (YAMLLoader) DumpSchema(sch schema.Schema) ([]byte, error) {
	var body []*yaml.Node
	body = append(body, scalarNode("name"), scalarNode(sch.Name))
	body = append(body, scalarNode("schema_ver"), scalarNode(sch.Version.String()))
	if !sch.PrevSchema.IsZero() && sch.PrevSchema.Len() > 0 {
		body = append(body, scalarNode("prev_schema"), scalarNode(sch.PrevSchema.Hex()))
	}

	var fieldPairs []*yaml.Node
	for _, ft := range sch.FieldTypes {
		tag, ok := tagFromKind(ft.Kind)
		if !ok {
			return nil, loaderErr("field_types."+ft.Name, "no structured tag for kind %d", ft.Kind)
		}
		fieldPairs = append(fieldPairs, scalarNode(ft.Name), scalarNode(tag))
	}
	body = append(body, scalarNode("field_types"), mappingNode(fieldPairs...))

	var sealPairs []*yaml.Node
	for _, st := range sch.SealTypes {
		sealPairs = append(sealPairs, scalarNode(st.Name), scalarNode(tagFromSealKind(st.Kind)))
	}
	body = append(body, scalarNode("seal_types"), mappingNode(sealPairs...))

	var proofPairs []*yaml.Node
	for _, pt := range sch.ProofTypes {
		proofPairs = append(proofPairs, scalarNode(pt.Name), dumpProofTypeNode(pt))
	}
	body = append(body, scalarNode("proof_types"), mappingNode(proofPairs...))

	doc := mappingNode(body...)
	return yaml.Marshal(doc)
}

func dumpProofTypeNode(pt schema.ProofType) *yaml.Node {
	var sections []*yaml.Node
	sections = append(sections, scalarNode("fields"), dumpTypeRefsNode(pt.Fields))
	sections = append(sections, scalarNode("seals"), dumpTypeRefsNode(pt.Seals))
	if len(pt.Unseals) > 0 {
		sections = append(sections, scalarNode("unseals"), dumpTypeRefsNode(pt.Unseals))
	}
	return mappingNode(sections...)
}

func dumpTypeRefsNode(refs []schema.TypeRef) *yaml.Node {
	var pairs []*yaml.Node
	for _, r := range refs {
		pairs = append(pairs, scalarNode(r.Name), scalarNode(tagFromBounds(r.Bounds)))
	}
	return mappingNode(pairs...)
}

// DumpProof renders p as a YAML document. type_name is looked up from
// p.TypeNo when sch is non-nil and is empty otherwise. A field renders
// its ValueStr, or valueToString of its typed Value when ValueStr is
// empty. A seal renders its DictState; without one, its state renders
// through schema.SealType.DictFromState only when sch is non-nil and
// the seal is resolved.
func (YAMLLoader) DumpProof(p proof.Proof, sch *schema.Schema) ([]byte, error) {
	var body []*yaml.Node
	body = append(body, scalarNode("ver"), scalarNode(strconv.FormatUint(uint64(p.Ver), 10)))
	body = append(body, scalarNode("format"), scalarNode(p.Format.String()))

	if p.Schema.Len() > 0 {
		body = append(body, scalarNode("schema"), scalarNode(p.Schema.Hex()))
	}
	if p.Network != 0 {
		body = append(body, scalarNode("network"), scalarNode(strconv.FormatUint(uint64(p.Network), 10)))
	}
	if p.Format == proof.FormatRoot {
		body = append(body, scalarNode("root"), scalarNode(outPointToString(p.Root)))
	}

	typeName := ""
	if sch != nil && int(p.TypeNo) < len(sch.ProofTypes) {
		typeName = sch.ProofTypes[p.TypeNo].Name
	}
	body = append(body, scalarNode("type_name"), scalarNode(typeName))

	if !p.PubKey.IsAbsent() {
		body = append(body, scalarNode("pubkey"), scalarNode(hex.EncodeToString(p.PubKey.Bytes())))
	}
	if p.Txid != nil {
		body = append(body, scalarNode("txid"), scalarNode(p.Txid.Hex()))
	}
	if p.Parents != nil {
		var seq []*yaml.Node
		for _, h := range p.Parents {
			seq = append(seq, scalarNode(h.Hex()))
		}
		body = append(body, scalarNode("parents"), &yaml.Node{Kind: yaml.SequenceNode, Content: seq})
	}

	var fieldPairs []*yaml.Node
	for _, f := range p.Fields {
		s := f.ValueStr
		if s == "" && f.Value.Kind != 0 {
			var err error
			s, err = valueToString(f.Value)
			if err != nil {
				return nil, loaderErr("fields."+f.TypeName, "%v", err)
			}
		}
		fieldPairs = append(fieldPairs, scalarNode(f.TypeName), scalarNode(s))
	}
	body = append(body, scalarNode("fields"), mappingNode(fieldPairs...))

	var sealSeq []*yaml.Node
	for _, s := range p.Seals {
		pairs := []*yaml.Node{
			scalarNode("type_name"), scalarNode(s.TypeName),
			scalarNode("outpoint"), scalarNode(outPointToString(s.OutPoint)),
		}
		dict := s.DictState
		if dict == nil && sch != nil && s.Resolved() {
			dict = sch.SealTypes[s.SealTypeIndex].DictFromState(s.State)
		}
		for k, v := range dict {
			pairs = append(pairs, scalarNode(k), scalarNode(fmt.Sprint(v)))
		}
		sealSeq = append(sealSeq, mappingNode(pairs...))
	}
	body = append(body, scalarNode("seals"), &yaml.Node{Kind: yaml.SequenceNode, Content: sealSeq})

	doc := mappingNode(body...)
	return yaml.Marshal(doc)
}

func outPointToString(o consensus.OutPoint) string {
	return o.Txid.Hex() + ":" + strconv.FormatUint(o.Vout, 10)
}

// valueToString is DumpProof's fallback when a MetaField was built
// programmatically (no ValueStr), the reverse of
// schema.FieldType.ValueFromString for the common scalar/hash/key
// kinds; ecdsa is unsupported on both directions.
func valueToString(v schema.Value) (string, error) {
	if v.Null {
		return "", nil
	}
	switch v.Kind {
	case schema.KindU8, schema.KindU16, schema.KindU32, schema.KindU64, schema.KindVarInt, schema.KindFlagVarInt:
		return strconv.FormatUint(v.UInt, 10), nil
	case schema.KindI8, schema.KindI16, schema.KindI32, schema.KindI64:
		return strconv.FormatInt(v.Int, 10), nil
	case schema.KindStr:
		return v.Str, nil
	case schema.KindBytes:
		return hex.EncodeToString(v.Bytes), nil
	case schema.KindSha256, schema.KindSha256d, schema.KindRipmd160, schema.KindHash160:
		return v.Hash.Hex(), nil
	case schema.KindPubKey:
		return hex.EncodeToString(v.PubKey.Bytes()), nil
	default:
		return "", fmt.Errorf("no structured string form for kind %d", v.Kind)
	}
}
